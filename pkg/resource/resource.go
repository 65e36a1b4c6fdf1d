// Package resource resolves image sources to inline data URIs.
//
// Rendered SVG documents must be self-contained, so every <image> href
// is a data: URI. A [Fetcher] turns http(s) URLs, local paths and data URIs
// into [geom.Image] values carrying the encoded href and the intrinsic
// size decoded from the image header. Remote fetches are retried on
// transient failures and stored in a [cache.Cache]:
//
//	f := resource.New(resource.WithCache(c, 24*time.Hour))
//	img, err := f.Resolve(ctx, "https://example.com/logo.png")
//
// [Prefetch] resolves many sources concurrently before a render starts.
package resource

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxsvg/pkg/render/geom"
)

// Resolver turns an image source into an inline image.
type Resolver interface {
	Resolve(ctx context.Context, src string) (geom.Image, error)
}

// Func adapts a function to Resolver.
type Func func(ctx context.Context, src string) (geom.Image, error)

// Resolve implements Resolver.
func (f Func) Resolve(ctx context.Context, src string) (geom.Image, error) { return f(ctx, src) }

// Static resolves from a fixed table. Unknown sources are NOT_FOUND.
type Static map[string]geom.Image

// Resolve implements Resolver.
func (s Static) Resolve(_ context.Context, src string) (geom.Image, error) {
	img, ok := s[src]
	if !ok {
		return geom.Image{}, notFound(src)
	}
	return img, nil
}

// Prefetch resolves srcs with at most limit concurrent requests (limit <= 0
// means unbounded). Duplicate sources are resolved once. The first failure
// cancels the remaining fetches and is returned.
func Prefetch(ctx context.Context, r Resolver, srcs []string, limit int) (map[string]geom.Image, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]geom.Image, len(srcs))
	)
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	seen := make(map[string]bool, len(srcs))
	for _, src := range srcs {
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		g.Go(func() error {
			img, err := r.Resolve(ctx, src)
			if err != nil {
				return err
			}
			mu.Lock()
			out[src] = img
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
