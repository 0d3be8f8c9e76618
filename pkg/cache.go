package pkg

import (
	"fmt"
	"time"

	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/rustsec-vex/pkg/db"
	"github.com/aquasecurity/rustsec-vex/pkg/log"
	"github.com/aquasecurity/rustsec-vex/pkg/registry"
)

// openCache opens the registry cache under cacheDir, resetting it when it was
// written by a different schema version.
func openCache(cacheDir string, index registry.Index, opts ...registry.CacheOption) (*registry.Cache, func(), error) {
	if err := db.Init(cacheDir); err != nil {
		return nil, nil, xerrors.Errorf("db init error: %w", err)
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close the cache", log.Err(err))
		}
	}

	dbc := db.Config{}
	cache := registry.NewCache(index, dbc, opts...)

	metadata, err := dbc.GetMetadata()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if metadata.Version != db.SchemaVersion {
		log.Info("Initializing the registry cache", log.Int("schema_version", metadata.Version))
		if err = resetCache(cache); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return cache, cleanup, nil
}

func resetCache(cache *registry.Cache) error {
	if err := cache.Purge(); err != nil {
		return xerrors.Errorf("cache purge error: %w", err)
	}
	return db.Config{}.SetMetadata(db.Metadata{
		Version:   db.SchemaVersion,
		UpdatedAt: time.Now().UTC(),
	})
}

func cacheInfo(c *cli.Context) error {
	cacheDir := c.String("cache-dir")
	cache, cleanup, err := openCache(cacheDir, registry.NewCrates())
	if err != nil {
		return err
	}
	defer cleanup()

	metadata, err := db.Config{}.GetMetadata()
	if err != nil {
		return err
	}
	n, err := cache.Len()
	if err != nil {
		return xerrors.Errorf("cache read error: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "path: %s\n", db.Path(cacheDir))
	fmt.Fprintf(w, "schema version: %d\n", metadata.Version)
	fmt.Fprintf(w, "reset at: %s\n", metadata.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "cached crates: %d\n", n)
	return nil
}

func cachePurge(c *cli.Context) error {
	cache, cleanup, err := openCache(c.String("cache-dir"), registry.NewCrates())
	if err != nil {
		return err
	}
	defer cleanup()

	if err = resetCache(cache); err != nil {
		return err
	}
	log.Info("Purged the registry cache")
	return nil
}
