package vex

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"k8s.io/utils/clock"

	"github.com/aquasecurity/rustsec-vex/pkg/advisory"
	"github.com/aquasecurity/rustsec-vex/pkg/csaf"
	"github.com/aquasecurity/rustsec-vex/pkg/log"
	"github.com/aquasecurity/rustsec-vex/pkg/registry"
)

const DefaultEngineName = "rustsec-vex"

var ErrVersionsUnavailable = errors.New("could not obtain registry versions")

// Engine names the tool recorded as the document generator.
type Engine struct {
	Name    string
	Version string
}

type Converter struct {
	index  registry.Index
	clock  clock.Clock
	engine Engine
}

type Option func(*Converter)

func WithClock(clock clock.Clock) Option {
	return func(c *Converter) {
		c.clock = clock
	}
}

func WithEngine(engine Engine) Option {
	return func(c *Converter) {
		c.engine = engine
	}
}

func NewConverter(index registry.Index, opts ...Option) *Converter {
	c := &Converter{
		index:  index,
		clock:  clock.RealClock{},
		engine: Engine{Name: DefaultEngineName},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert fetches the published versions of the advisory's crate and builds
// its VEX document.
func (c *Converter) Convert(ctx context.Context, adv *advisory.Advisory) (*csaf.Advisory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eb := oops.In("vex").With("advisory_id", adv.ID.String()).With("package", adv.Package)

	versions, err := c.index.Versions(ctx, adv.Package)
	if err != nil {
		return nil, eb.Wrapf(fmt.Errorf("%w: %w", ErrVersionsUnavailable, err),
			"could not classify versions for package %s", adv.Package)
	}
	return c.Build(adv, versions)
}

// Build converts the advisory against an already fetched version list.
func (c *Converter) Build(adv *advisory.Advisory, versions []string) (*csaf.Advisory, error) {
	eb := oops.In("vex").With("advisory_id", adv.ID.String()).With("package", adv.Package)

	classified, err := Classify(adv.Versions, versions)
	if err != nil {
		return nil, eb.Wrap(fmt.Errorf("%w: %w", ErrVersionsUnavailable, err))
	}
	log.Debug("Classified versions", log.AdvisoryID(adv.ID.String()),
		log.Int("registry", len(versions)), log.Int("classified", len(classified)))

	set := Partition(adv.Package, classified)
	tree := BuildProductTree(adv.Package, set)
	vuln := AssembleVulnerability(adv, set)
	return ComposeDocument(adv, tree, vuln, c.generator()), nil
}

func (c *Converter) generator() *csaf.Generator {
	return &csaf.Generator{
		Date: lo.ToPtr(formatDate(c.clock.Now())),
		Engine: csaf.Engine{
			Name:    c.engine.Name,
			Version: lo.EmptyableToPtr(c.engine.Version),
		},
	}
}
