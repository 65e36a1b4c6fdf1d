package resource

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxsvg/pkg/cache"
	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/observability"
	"github.com/matzehuels/boxsvg/pkg/render/geom"
)

const (
	httpTimeout     = 10 * time.Second
	defaultTTL      = cache.TTLResource
	defaultMaxBytes = 10 << 20
)

// Fetcher is the default Resolver. It is safe for concurrent use.
type Fetcher struct {
	http       *http.Client
	cache      cache.Cache
	keyer      cache.Keyer
	ttl        time.Duration
	logger     *log.Logger
	baseDir    string
	allowLocal bool
	attempts   int
	delay      time.Duration
	maxBytes   int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.http = c }
}

// WithCache stores fetched remote images in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// WithKeyer sets the cache key layout.
func WithKeyer(k cache.Keyer) Option {
	return func(f *Fetcher) { f.keyer = k }
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithBaseDir resolves relative local paths against dir.
func WithBaseDir(dir string) Option {
	return func(f *Fetcher) { f.baseDir = dir }
}

// WithoutLocalFiles rejects sources that are neither URLs nor data URIs.
// Servers use it so documents cannot read the host filesystem.
func WithoutLocalFiles() Option {
	return func(f *Fetcher) { f.allowLocal = false }
}

// WithRetry sets the attempt count and initial backoff for remote fetches.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(f *Fetcher) { f.attempts, f.delay = attempts, delay }
}

// WithMaxBytes bounds the size of a single image.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBytes = n }
}

// New creates a Fetcher. Without options it has no cache, allows local
// files and retries remote fetches three times.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		http:       &http.Client{Timeout: httpTimeout},
		cache:      cache.NewNullCache(),
		keyer:      cache.NewDefaultKeyer(),
		ttl:        defaultTTL,
		logger:     log.New(io.Discard),
		allowLocal: true,
		attempts:   3,
		delay:      time.Second,
		maxBytes:   defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Resolve implements Resolver.
func (f *Fetcher) Resolve(ctx context.Context, src string) (geom.Image, error) {
	switch {
	case src == "":
		return geom.Image{}, errors.New(errors.ErrCodeInvalidInput, "empty image source")
	case strings.HasPrefix(src, "data:"):
		mt, data, err := parseDataURI(src)
		if err != nil {
			return geom.Image{}, err
		}
		return decodeImage(src, sniff(data, mt), data)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return f.remote(ctx, src)
	case !f.allowLocal:
		return geom.Image{}, errors.New(errors.ErrCodeInvalidInput, "local image sources are disabled: %s", src)
	default:
		return f.local(src)
	}
}

// remote returns the cached image for src, fetching and caching it on a
// miss. Corrupt cache entries are refetched.
func (f *Fetcher) remote(ctx context.Context, src string) (geom.Image, error) {
	if err := errors.ValidateURL(src); err != nil {
		return geom.Image{}, err
	}
	key := f.keyer.ResourceKey(src)
	if data, ok, err := f.cache.Get(ctx, key); err == nil && ok {
		var img geom.Image
		if json.Unmarshal(data, &img) == nil && img.Href != "" {
			return img, nil
		}
	}

	var img geom.Image
	start := time.Now()
	err := cache.Retry(ctx, f.attempts, f.delay, func() error {
		body, contentType, err := f.doRequest(ctx, src)
		if err != nil {
			return err
		}
		img, err = decodeImage(src, sniff(body, contentType), body)
		return err
	})
	if err != nil {
		return geom.Image{}, classify(src, err)
	}
	f.logger.Debug("fetched image", "src", src, "size", fmt.Sprintf("%gx%g", img.Width, img.Height), "duration", time.Since(start))

	if data, err := json.Marshal(img); err == nil {
		if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
			f.logger.Warn("cache write failed", "src", src, "error", err)
		}
	}
	return img, nil
}

func (f *Fetcher) doRequest(ctx context.Context, src string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "image/*")
	host, path := req.URL.Host, req.URL.Path

	observability.Resource().OnFetch(ctx, host, path)
	start := time.Now()
	resp, err := f.http.Do(req)
	if err != nil {
		observability.Resource().OnError(ctx, host, path, err)
		return nil, "", cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		observability.Resource().OnError(ctx, host, path, err)
		return nil, "", err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
	}
	if int64(len(body)) > f.maxBytes {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "image %s exceeds %d bytes", src, f.maxBytes)
	}
	observability.Resource().OnFetched(ctx, host, path, resp.StatusCode, len(body), time.Since(start))
	return body, resp.Header.Get("Content-Type"), nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: unexpected status %d", cache.ErrNetwork, code)
	}
}

// classify maps fetch failures onto error codes. Errors that already carry
// a code are returned unchanged.
func classify(src string, err error) error {
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeCanceled, err, "fetch %s", src)
	case stderrors.Is(err, cache.ErrNotFound):
		return notFound(src)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", src)
	}
}

func notFound(src string) error {
	return errors.New(errors.ErrCodeNotFound, "image not found: %s", shorten(src))
}

func (f *Fetcher) local(src string) (geom.Image, error) {
	path := strings.TrimPrefix(src, "file://")
	if err := errors.ValidatePath(path); err != nil {
		return geom.Image{}, err
	}
	if !filepath.IsAbs(path) && f.baseDir != "" {
		path = filepath.Join(f.baseDir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return geom.Image{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", src)
		}
		return geom.Image{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > f.maxBytes {
		return geom.Image{}, errors.New(errors.ErrCodeInvalidInput, "image %s exceeds %d bytes", src, f.maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return geom.Image{}, fmt.Errorf("read %s: %w", path, err)
	}
	return decodeImage(src, sniff(data, mime.TypeByExtension(filepath.Ext(path))), data)
}

var _ Resolver = (*Fetcher)(nil)
