package resource

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxsvg/pkg/cache"
	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/render/geom"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResolveDataURI(t *testing.T) {
	data := pngBytes(t, 3, 2)
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	img, err := New().Resolve(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3.0, img.Width)
	assert.Equal(t, 2.0, img.Height)
	assert.Equal(t, src, img.Href)
}

func TestResolveSVGDataURI(t *testing.T) {
	src := `data:image/svg+xml,%3Csvg%20xmlns%3D%22http%3A%2F%2Fwww.w3.org%2F2000%2Fsvg%22%20viewBox%3D%220%200%2024%2016%22%2F%3E`

	img, err := New().Resolve(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 24.0, img.Width)
	assert.Equal(t, 16.0, img.Height)
	assert.True(t, strings.HasPrefix(img.Href, "data:image/svg+xml;base64,"))
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"empty", "", errors.ErrCodeInvalidInput},
		{"no payload", "data:image/png;base64", errors.ErrCodeInvalidFormat},
		{"bad base64", "data:image/png;base64,!!!", errors.ErrCodeInvalidFormat},
		{"not an image", "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello")), errors.ErrCodeInvalidFormat},
		{"missing file", filepath.Join(t.TempDir(), "nope.png"), errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Resolve(context.Background(), tt.src)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}
}

func TestResolveLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), pngBytes(t, 8, 4), 0644))

	img, err := New(WithBaseDir(dir)).Resolve(context.Background(), "logo.png")
	require.NoError(t, err)
	assert.Equal(t, 8.0, img.Width)
	assert.Equal(t, 4.0, img.Height)
	assert.True(t, strings.HasPrefix(img.Href, "data:image/png;base64,"))

	_, err = New(WithBaseDir(dir), WithoutLocalFiles()).Resolve(context.Background(), "logo.png")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = New(WithBaseDir(dir), WithMaxBytes(10)).Resolve(context.Background(), "logo.png")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestResolveRemote(t *testing.T) {
	data := pngBytes(t, 5, 7)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "image/*", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer server.Close()

	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	f := New(WithHTTPClient(server.Client()), WithCache(c, time.Hour))

	img, err := f.Resolve(context.Background(), server.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, 5.0, img.Width)
	assert.Equal(t, 7.0, img.Height)

	again, err := f.Resolve(context.Background(), server.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, img, again)
	assert.Equal(t, int32(1), hits.Load(), "second resolve should be served from cache")
}

func TestResolveRemoteRetries(t *testing.T) {
	data := pngBytes(t, 1, 1)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(data)
	}))
	defer server.Close()

	f := New(WithHTTPClient(server.Client()), WithRetry(3, time.Millisecond))
	img, err := f.Resolve(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1.0, img.Width)
	assert.Equal(t, int32(3), hits.Load())
}

func TestResolveRemoteFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   errors.Code
		calls  int32
	}{
		{"not found", http.StatusNotFound, errors.ErrCodeNotFound, 1},
		{"forbidden", http.StatusForbidden, errors.ErrCodeNetwork, 1},
		{"server error", http.StatusInternalServerError, errors.ErrCodeNetwork, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			f := New(WithHTTPClient(server.Client()), WithRetry(2, time.Millisecond))
			_, err := f.Resolve(context.Background(), server.URL)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
			assert.Equal(t, tt.calls, hits.Load())
		})
	}
}

func TestResolveCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(WithHTTPClient(server.Client()), WithRetry(3, time.Hour)).Resolve(ctx, server.URL)
	assert.True(t, errors.Is(err, errors.ErrCodeCanceled), "error: %v", err)
}

func TestPrefetch(t *testing.T) {
	var calls atomic.Int32
	r := Func(func(ctx context.Context, src string) (geom.Image, error) {
		calls.Add(1)
		return geom.Image{Href: "data:" + src, Width: 1, Height: 1}, nil
	})

	got, err := Prefetch(context.Background(), r, []string{"a", "b", "a", "", "c"}, 2)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "data:b", got["b"].Href)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPrefetchError(t *testing.T) {
	r := Static{"a": {Href: "data:a"}}
	_, err := Prefetch(context.Background(), r, []string{"a", "missing"}, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestSvgSize(t *testing.T) {
	tests := []struct {
		in   string
		w, h float64
		ok   bool
	}{
		{`<svg width="40" height="20" viewBox="0 0 4 2">`, 40, 20, true},
		{`<svg width="40px" height="20px">`, 40, 20, true},
		{`<svg viewBox="0,0,12,6">`, 12, 6, true},
		{`<svg width="50%" viewBox="0 0 12 6">`, 12, 6, true},
		{`<svg>`, 0, 0, false},
		{`<html>`, 0, 0, false},
	}
	for _, tt := range tests {
		w, h, ok := svgSize([]byte(tt.in))
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.w, w, tt.in)
		assert.Equal(t, tt.h, h, tt.in)
	}
}

func TestSniff(t *testing.T) {
	data := pngBytes(t, 1, 1)
	assert.Equal(t, "image/png", sniff(data, ""))
	assert.Equal(t, "image/png", sniff(data, "application/octet-stream"))
	assert.Equal(t, "image/webp", sniff(data, "image/webp; charset=binary"))
	assert.Equal(t, mimeSVG, sniff([]byte(`<?xml version="1.0"?><svg/>`), "text/xml"))
}
