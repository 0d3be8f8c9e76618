package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/samber/oops"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/rustsec-vex/pkg/log"
)

const (
	DefaultIndexURL = "https://index.crates.io"

	defaultRetries = 3
)

// indexRecord is one line of a sparse index file.
// https://doc.rust-lang.org/cargo/reference/registry-index.html#json-schema
type indexRecord struct {
	Name   string `json:"name"`
	Vers   string `json:"vers"`
	Yanked bool   `json:"yanked"`
}

// Crates reads the crates.io sparse HTTP index.
type Crates struct {
	url        string
	client     *http.Client
	skipYanked bool
	backOff    func() backoff.BackOff
	logger     *log.Logger
}

type CratesOption func(*Crates)

func WithIndexURL(url string) CratesOption {
	return func(c *Crates) {
		c.url = strings.TrimSuffix(url, "/")
	}
}

func WithHTTPClient(client *http.Client) CratesOption {
	return func(c *Crates) {
		c.client = client
	}
}

// WithSkipYanked drops yanked versions from the result.
func WithSkipYanked(skip bool) CratesOption {
	return func(c *Crates) {
		c.skipYanked = skip
	}
}

// WithBackOff sets the retry policy for transient failures.
func WithBackOff(fn func() backoff.BackOff) CratesOption {
	return func(c *Crates) {
		c.backOff = fn
	}
}

func NewCrates(opts ...CratesOption) *Crates {
	c := &Crates{
		url:    DefaultIndexURL,
		client: &http.Client{Timeout: 30 * time.Second},
		backOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), defaultRetries)
		},
		logger: log.WithPrefix("registry"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Crates) Versions(ctx context.Context, pkg string) ([]string, error) {
	eb := oops.In("registry").With("package", pkg)
	if pkg == "" {
		return nil, eb.Wrapf(ErrPackageNotFound, "empty package name")
	}

	url := fmt.Sprintf("%s/%s", c.url, IndexPath(pkg))

	var body []byte
	err := backoff.RetryNotify(func() error {
		var err error
		body, err = c.fetch(ctx, url)
		return err
	}, backoff.WithContext(c.backOff(), ctx), func(err error, d time.Duration) {
		c.logger.Warn("Retrying index request", log.Package(pkg), log.Err(err),
			log.String("wait", d.String()))
	})
	switch {
	case errors.Is(err, ErrPackageNotFound):
		return nil, eb.With("url", url).Wrap(err)
	case err != nil:
		return nil, eb.With("url", url).Wrap(fmt.Errorf("%w: %w", ErrUnavailable, err))
	}

	versions, err := c.parse(body)
	if err != nil {
		return nil, eb.Wrap(err)
	}
	c.logger.Debug("Fetched versions", log.Package(pkg), log.Int("count", len(versions)))
	return versions, nil
}

func (c *Crates) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(xerrors.Errorf("failed to create a request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, xerrors.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return nil, backoff.Permanent(ErrPackageNotFound)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, xerrors.Errorf("HTTP status %s", resp.Status)
	default:
		return nil, backoff.Permanent(xerrors.Errorf("HTTP status %s", resp.Status))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.Errorf("failed to read the response body: %w", err)
	}
	return b, nil
}

func (c *Crates) parse(body []byte) ([]string, error) {
	var versions []string
	dec := json.NewDecoder(bytes.NewReader(body))
	for {
		var r indexRecord
		if err := dec.Decode(&r); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, xerrors.Errorf("failed to decode an index record: %w", err)
		}
		if r.Yanked && c.skipYanked {
			continue
		}
		versions = append(versions, r.Vers)
	}
	return versions, nil
}

// IndexPath returns the location of a crate's index file relative to the index root.
func IndexPath(name string) string {
	name = strings.ToLower(name)
	switch len(name) {
	case 1:
		return "1/" + name
	case 2:
		return "2/" + name
	case 3:
		return fmt.Sprintf("3/%s/%s", name[:1], name)
	default:
		return fmt.Sprintf("%s/%s/%s", name[:2], name[2:4], name)
	}
}
