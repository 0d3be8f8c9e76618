package pkg

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/aquasecurity/rustsec-vex/pkg/advisory"
	"github.com/aquasecurity/rustsec-vex/pkg/advisorydb"
	"github.com/aquasecurity/rustsec-vex/pkg/csaf"
	"github.com/aquasecurity/rustsec-vex/pkg/log"
	"github.com/aquasecurity/rustsec-vex/pkg/registry"
	"github.com/aquasecurity/rustsec-vex/pkg/utils"
	"github.com/aquasecurity/rustsec-vex/pkg/vex"
)

func convert(c *cli.Context) error {
	if c.NArg() != 1 {
		return xerrors.New("exactly one advisory file or ID is required")
	}
	ctx := context.Background()

	adv, err := loadAdvisory(c, c.Args().First())
	if err != nil {
		return err
	}

	var index registry.Index
	if versions := c.String("versions"); versions != "" {
		index = registry.Static{adv.Package: utils.SplitList(versions)}
	} else {
		idx, cleanup, err := newIndex(c)
		if err != nil {
			return err
		}
		defer cleanup()
		index = idx
	}

	doc, err := newConverter(c, index).Convert(ctx, adv)
	if err != nil {
		return xerrors.Errorf("convert error: %w", err)
	}
	validate(c, doc)

	if output := c.String("output"); output != "" {
		if err = csaf.Save(doc, output); err != nil {
			return xerrors.Errorf("save error: %w", err)
		}
		log.Info("Saved the VEX document", log.FilePath(output))
		return nil
	}
	return csaf.Encode(c.App.Writer, doc)
}

func convertDB(c *cli.Context) error {
	ctx := context.Background()
	dbDir := c.String("db-dir")
	outputDir := c.String("output-dir")

	if c.Bool("update") {
		if err := updateDB(ctx, c, dbDir); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return xerrors.Errorf("mkdir error: %w", err)
	}

	paths, err := advisorydb.Paths(dbDir)
	if err != nil {
		return err
	}

	index, cleanup, err := newIndex(c)
	if err != nil {
		return err
	}
	defer cleanup()
	converter := newConverter(c, index)

	bar := pb.New(len(paths))
	bar.Output = c.App.ErrWriter
	bar.Start()

	var errs error
	var converted int
	walkErr := advisorydb.Walk(dbDir, func(path string, adv *advisory.Advisory) error {
		defer bar.Increment()

		doc, err := converter.Convert(ctx, adv)
		if err != nil {
			errs = multierror.Append(errs, err)
			return nil
		}
		validate(c, doc)

		fileName := filepath.Join(outputDir, adv.ID.String()+".json")
		if err = csaf.Save(doc, fileName); err != nil {
			return xerrors.Errorf("save error: %w", err)
		}
		converted++
		return nil
	})
	bar.Finish()
	errs = multierror.Append(errs, walkErr).ErrorOrNil()

	log.Info("Converted the advisory database", log.Int("converted", converted),
		log.Int("total", len(paths)), log.DirPath(outputDir))
	if errs != nil {
		return xerrors.Errorf("%d of %d advisories were not converted: %w",
			len(paths)-converted, len(paths), errs)
	}
	return nil
}

// loadAdvisory reads target as a file, or looks it up as an ID in the advisory database.
func loadAdvisory(c *cli.Context, target string) (*advisory.Advisory, error) {
	ok, err := utils.Exists(target)
	if err != nil {
		return nil, xerrors.Errorf("stat error: %w", err)
	}
	if ok {
		return advisory.Load(target)
	}

	dbDir := c.String("db-dir")
	if c.Bool("update") {
		if err = updateDB(context.Background(), c, dbDir); err != nil {
			return nil, err
		}
	}
	return advisorydb.Get(dbDir, target)
}

func updateDB(ctx context.Context, c *cli.Context, dbDir string) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(c.App.ErrWriter),
		spinner.WithSuffix(" Updating the advisory database..."),
	)
	s.Start()
	defer s.Stop()

	if err := advisorydb.Update(ctx, dbDir, c.String("db-url")); err != nil {
		return xerrors.Errorf("advisory database update error: %w", err)
	}
	return nil
}

func newIndex(c *cli.Context) (registry.Index, func(), error) {
	if fileName := c.String("versions-file"); fileName != "" {
		static, err := registry.LoadStatic(fileName)
		if err != nil {
			return nil, nil, err
		}
		return static, func() {}, nil
	}

	crates := registry.NewCrates(
		registry.WithIndexURL(c.String("index-url")),
		registry.WithSkipYanked(c.Bool("skip-yanked")),
	)
	if c.Bool("no-cache") {
		return crates, func() {}, nil
	}

	cache, cleanup, err := openCache(c.String("cache-dir"), crates, registry.WithTTL(c.Duration("cache-ttl")))
	if err != nil {
		return nil, nil, err
	}
	return cache, cleanup, nil
}

func newConverter(c *cli.Context, index registry.Index) *vex.Converter {
	return vex.NewConverter(index, vex.WithEngine(vex.Engine{
		Name:    c.App.Name,
		Version: c.App.Version,
	}))
}

func validate(c *cli.Context, doc *csaf.Advisory) {
	if !c.Bool("validate") {
		return
	}
	violations, err := csaf.Validate(doc)
	if err != nil {
		log.Warn("Schema validation failed", log.Err(err))
		return
	}
	for _, v := range violations {
		log.Warn("Schema violation", log.AdvisoryID(doc.Document.Tracking.ID), log.String("violation", v))
	}
}
