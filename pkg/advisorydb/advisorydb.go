package advisorydb

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/oops"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/rustsec-vex/pkg/advisory"
	"github.com/aquasecurity/rustsec-vex/pkg/log"
	"github.com/aquasecurity/rustsec-vex/pkg/utils"
)

// https://github.com/RustSec/advisory-db

const (
	DefaultURL = "https://github.com/RustSec/advisory-db"

	cratesDir = "crates"
)

var ErrNotFound = errors.New("advisory not found")

// Update clones the advisory database into dir, or pulls it when dir
// already holds a checkout.
func Update(ctx context.Context, dir, url string) error {
	eb := oops.In("advisorydb").With("dir", dir).With("url", url)

	exists, err := utils.Exists(filepath.Join(dir, ".git"))
	if err != nil {
		return eb.Wrapf(err, "stat error")
	}

	if !exists {
		log.Info("Cloning the advisory database...", log.DirPath(dir))
		_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:           url,
			ReferenceName: plumbing.HEAD,
			SingleBranch:  true,
			Depth:         1,
			Tags:          git.NoTags,
		})
		if err != nil {
			return eb.Wrapf(err, "git clone error")
		}
		return nil
	}

	log.Info("Pulling the advisory database...", log.DirPath(dir))
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return eb.Wrapf(err, "git open error")
	}
	wt, err := repo.Worktree()
	if err != nil {
		return eb.Wrapf(err, "git worktree error")
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:   git.DefaultRemoteName,
		SingleBranch: true,
		Depth:        1,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		log.Debug("The advisory database is up to date")
		return nil
	} else if err != nil {
		return eb.Wrapf(err, "git pull error")
	}
	return nil
}

// Get parses crates/<package>/<id>.md under dir.
func Get(dir, id string) (*advisory.Advisory, error) {
	eb := oops.In("advisorydb").With("dir", dir).With("advisory_id", id)

	if _, err := advisory.ParseID(id); err != nil {
		return nil, eb.Wrap(err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, cratesDir, "*", id+".md"))
	if err != nil {
		return nil, eb.Wrapf(err, "glob error")
	}
	if len(matches) == 0 {
		return nil, eb.Wrap(ErrNotFound)
	}
	return advisory.Load(matches[0])
}

// Paths lists the advisory files under dir in lexical order.
func Paths(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, cratesDir, "*", "*.md"))
	if err != nil {
		return nil, xerrors.Errorf("glob error: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// WalkFunc is called for each advisory that parses successfully.
type WalkFunc func(path string, adv *advisory.Advisory) error

// Walk visits every advisory under dir. Advisories that fail to parse are
// skipped and reported together once the walk completes; an error returned
// by fn stops the walk.
func Walk(dir string, fn WalkFunc) error {
	var errs error
	err := utils.FileWalk(filepath.Join(dir, cratesDir), func(r io.Reader, path string) error {
		if filepath.Ext(path) != ".md" {
			return nil
		}
		adv, err := advisory.Parse(r)
		if err != nil {
			log.Warn("Skipping an invalid advisory", log.FilePath(path), log.Err(err))
			errs = multierror.Append(errs, xerrors.Errorf("%s: %w", path, err))
			return nil
		}
		return fn(path, adv)
	})
	if err != nil {
		return xerrors.Errorf("walk error: %w", err)
	}
	return errs
}
