package registry

import (
	"context"
	"time"

	"k8s.io/utils/clock"

	"github.com/aquasecurity/rustsec-vex/pkg/db"
	"github.com/aquasecurity/rustsec-vex/pkg/log"
)

const (
	cacheBucket = "crates-index"

	DefaultCacheTTL = 24 * time.Hour
)

type cacheEntry struct {
	Versions  []string
	FetchedAt time.Time
}

// Cache memoizes the version lists of another index in the local database.
type Cache struct {
	index  Index
	dbc    db.Operation
	ttl    time.Duration
	clock  clock.Clock
	logger *log.Logger
}

type CacheOption func(*Cache)

func WithClock(clock clock.Clock) CacheOption {
	return func(c *Cache) {
		c.clock = clock
	}
}

// WithTTL sets how long a cached version list is served before it is refetched.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

func NewCache(index Index, dbc db.Operation, opts ...CacheOption) *Cache {
	c := &Cache{
		index:  index,
		dbc:    dbc,
		ttl:    DefaultCacheTTL,
		clock:  clock.RealClock{},
		logger: log.WithPrefix("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Versions(ctx context.Context, pkg string) ([]string, error) {
	var entry cacheEntry
	found, err := c.dbc.Get(cacheBucket, pkg, &entry)
	if err != nil {
		c.logger.Warn("Failed to read the cache", log.Package(pkg), log.Err(err))
	} else if found && c.clock.Since(entry.FetchedAt) < c.ttl {
		c.logger.Debug("Cache hit", log.Package(pkg))
		return entry.Versions, nil
	}

	versions, err := c.index.Versions(ctx, pkg)
	if err != nil {
		return nil, err
	}

	entry = cacheEntry{
		Versions:  versions,
		FetchedAt: c.clock.Now(),
	}
	if err = c.dbc.Put(cacheBucket, pkg, entry); err != nil {
		c.logger.Warn("Failed to update the cache", log.Package(pkg), log.Err(err))
	}
	return versions, nil
}

// Len returns the number of cached version lists.
func (c *Cache) Len() (int, error) {
	entries, err := c.dbc.ForEach(cacheBucket)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Purge drops every cached version list.
func (c *Cache) Purge() error {
	entries, err := c.dbc.ForEach(cacheBucket)
	if err != nil {
		return err
	}
	for pkg := range entries {
		if err = c.dbc.Delete(cacheBucket, pkg); err != nil {
			return err
		}
	}
	return nil
}
