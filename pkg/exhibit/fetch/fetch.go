// Package fetch loads JSON documents from URLs or local files.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheSize is the number of documents kept when no size is given.
const DefaultCacheSize = 128

// DefaultCacheTTL is how long a fetched document is reused when no TTL is given.
const DefaultCacheTTL = time.Minute

// maxBodySize bounds a single fetched document.
const maxBodySize = 32 << 20

// ErrLocalReference indicates a local file reference on a client that only
// loads remote documents.
var ErrLocalReference = errors.New("local file references are not allowed")

// Client loads documents by reference. A reference is an absolute http(s)
// URL, a path resolved against the base URL, or, when local files are
// enabled, a file path or file:// URL.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	local    bool
	cacheTTL time.Duration
	cache    *expirable.LRU[string, []byte]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for remote documents.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL resolves relative references against base.
func WithBaseURL(base *url.URL) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithLocalFiles allows references to files on the local disk. It is off by
// default.
func WithLocalFiles(enabled bool) Option {
	return func(c *Client) { c.local = enabled }
}

// WithCacheTTL sets how long a fetched document is reused. A ttl of zero or
// less uses DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// New returns a Client caching up to cacheSize documents. A cacheSize of zero
// or less uses DefaultCacheSize.
func New(cacheSize int, opts ...Option) (*Client, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c := &Client{
		http:     &http.Client{Timeout: 30 * time.Second},
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = DefaultCacheTTL
	}
	c.cache = expirable.NewLRU[string, []byte](cacheSize, nil, c.cacheTTL)
	return c, nil
}

// Open returns the body of the referenced document.
func (c *Client) Open(ctx context.Context, ref string) (io.Reader, error) {
	data, err := c.Bytes(ctx, ref)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// GetJSON decodes the referenced document into v.
func (c *Client) GetJSON(ctx context.Context, ref string, v any) error {
	data, err := c.Bytes(ctx, ref)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", ref, err)
	}
	return nil
}

// Bytes returns the referenced document, from the cache when present and
// not expired.
func (c *Client) Bytes(ctx context.Context, ref string) ([]byte, error) {
	loc, remote, err := c.resolve(ref)
	if err != nil {
		return nil, err
	}
	if data, ok := c.cache.Get(loc); ok {
		return data, nil
	}

	var data []byte
	if remote {
		data, err = c.get(ctx, loc)
	} else {
		data, err = os.ReadFile(loc)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}
	c.cache.Add(loc, data)
	return data, nil
}

// Forget drops a cached document.
func (c *Client) Forget(ref string) {
	if loc, _, err := c.resolve(ref); err == nil {
		c.cache.Remove(loc)
	}
}

// IsFileURL reports whether ref is a file:// URL.
func IsFileURL(ref string) bool {
	u, err := url.Parse(strings.TrimSpace(ref))
	return err == nil && u.Scheme == "file"
}

func (c *Client) resolve(ref string) (loc string, remote bool, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false, fmt.Errorf("empty document reference")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", false, fmt.Errorf("parse %q: %w", ref, err)
	}
	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		return u.String(), true, nil
	case u.Scheme == "file":
		if !c.local {
			return "", false, fmt.Errorf("%w: %q", ErrLocalReference, ref)
		}
		return u.Path, false, nil
	case u.Scheme == "" && c.baseURL != nil:
		return c.baseURL.ResolveReference(u).String(), true, nil
	case c.local:
		return ref, false, nil
	default:
		return "", false, fmt.Errorf("%w: %q", ErrLocalReference, ref)
	}
}

func (c *Client) get(ctx context.Context, loc string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
