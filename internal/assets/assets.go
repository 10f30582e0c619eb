// Package assets fetches mesh source text over HTTP or from disk and caches it.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// MaxSize bounds a single fetched resource.
const MaxSize = 64 << 20

// ErrTooLarge is returned when a resource exceeds MaxSize.
var ErrTooLarge = errors.New("resource too large")

// Fetcher retrieves the raw bytes of a resource.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPFetcher fetches resources with plain GET requests.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTP fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch performs GET url. The request is cancelled with ctx.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	logger.Debug("fetched resource",
		zap.String("url", url),
		zap.Int("bytes", len(data)),
		zap.Duration("took", time.Since(start)),
	)
	return data, nil
}

// FileFetcher reads resources from the local filesystem.
// Relative paths are resolved against Root when it is set.
type FileFetcher struct {
	Root string
}

// Fetch reads the file at path.
func (f *FileFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := path
	if f.Root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(f.Root, path)
	}

	file, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := readLimited(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", full, err)
	}
	return data, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// IsRemote reports whether source names an http or https resource.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// NewFetcher returns a cached fetcher suited to source: HTTP for http(s) URLs,
// the filesystem otherwise. Relative file paths resolve against baseDir when it
// is not empty.
func NewFetcher(source string, httpTimeout time.Duration, baseDir string) *CachedFetcher {
	var base Fetcher
	if IsRemote(source) {
		base = NewHTTPFetcher(httpTimeout)
	} else {
		base = &FileFetcher{Root: baseDir}
	}
	return NewCachedFetcher(base)
}

// CachedFetcher serves repeated fetches of the same path from memory.
type CachedFetcher struct {
	base  Fetcher
	cache *Cache
}

// NewCachedFetcher wraps base with an in-memory cache.
func NewCachedFetcher(base Fetcher) *CachedFetcher {
	return &CachedFetcher{
		base:  base,
		cache: NewCache(),
	}
}

// Fetch returns the cached bytes for path or fetches and caches them.
// Failed fetches are not cached.
func (f *CachedFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if data, ok := f.cache.Get(path); ok {
		return data, nil
	}

	data, err := f.base.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	f.cache.Set(path, data)
	return data, nil
}

// Invalidate drops path from the cache so the next Fetch goes to the source.
func (f *CachedFetcher) Invalidate(path string) {
	f.cache.Delete(path)
}

// Cache returns the underlying cache.
func (f *CachedFetcher) Cache() *Cache {
	return f.cache
}
