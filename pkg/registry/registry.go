package registry

import (
	"context"
	"errors"
	"os"
	"slices"

	"github.com/samber/oops"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

var (
	ErrPackageNotFound = errors.New("package not found in registry")
	ErrUnavailable     = errors.New("registry unavailable")
)

// Index lists the published versions of a package in registry order.
type Index interface {
	Versions(ctx context.Context, pkg string) ([]string, error)
}

// Static is an in-memory index keyed by package name.
type Static map[string][]string

func (s Static) Versions(ctx context.Context, pkg string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	versions, ok := s[pkg]
	if !ok {
		return nil, xerrors.Errorf("%q: %w", pkg, ErrPackageNotFound)
	}
	return slices.Clone(versions), nil
}

// LoadStatic reads a YAML mapping of package names to version lists, e.g.
//
//	smallvec: ["0.6.9", "0.6.13", "1.6.1"]
func LoadStatic(fileName string) (Static, error) {
	eb := oops.With("file_name", fileName)

	b, err := os.ReadFile(fileName)
	if err != nil {
		return nil, eb.Wrapf(err, "file read error")
	}

	var s Static
	if err = yaml.Unmarshal(b, &s); err != nil {
		return nil, eb.Wrapf(err, "yaml unmarshal error")
	}
	return s, nil
}
