package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxsvg/pkg/cache"
	bserrors "github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Serve.MaxBodyBytes = 256
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := pipeline.NewRunner(fc, nil, nil)
	t.Cleanup(func() { runner.Close() })
	srv := httptest.NewServer(newServer(runner, cfg, log.New(&bytes.Buffer{})).routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestServeRender(t *testing.T) {
	srv := newTestServer(t)
	doc := `{"width": 20, "height": 10, "root": {"style": {"backgroundColor": "red"}}}`

	for i, want := range []string{"miss", "hit"} {
		resp, err := http.Post(srv.URL+"/render", "application/json", strings.NewReader(doc))
		if err != nil {
			t.Fatal(err)
		}
		body := new(bytes.Buffer)
		body.ReadFrom(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, body %s", i, resp.StatusCode, body)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("Content-Type = %q", ct)
		}
		if got := resp.Header.Get("X-Cache"); got != want {
			t.Errorf("request %d: X-Cache = %q, want %q", i, got, want)
		}
		if resp.Header.Get(requestIDHeader) == "" {
			t.Error("missing request id")
		}
		if !strings.Contains(body.String(), `fill="#ff0000"`) {
			t.Errorf("unexpected svg: %s", body)
		}
	}
}

func TestServeRenderJSON(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/render?format=json&width=50", "application/json",
		strings.NewReader(`{"width": 20, "height": 10, "root": {}}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var doc struct {
		Width float64 `json:"width"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.Width != 50 {
		t.Errorf("width = %v, want query override 50", doc.Width)
	}
}

func TestServeRenderErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"bad json", "", `{`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad format", "?format=gif", `{"root": {}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad width", "?width=abc", `{"root": {}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad property", "", `{"width": 10, "height": 10, "root": {"style": {"overflow": "scroll"}}}`, http.StatusBadRequest, "INVALID_PROPERTY_VALUE"},
		{"local image", "", `{"width": 10, "height": 10, "root": {"type": "image", "src": "/etc/passwd"}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"too large", "", `{"root": {"text": "` + strings.Repeat("x", 300) + `"}}`, http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, srv.URL+"/render"+tt.query, strings.NewReader(tt.body))
			req.Header.Set(requestIDHeader, "req-1")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["code"] != tt.code {
				t.Errorf("code = %q, want %q (%s)", body["code"], tt.code, body["error"])
			}
			if body["request_id"] != "req-1" {
				t.Errorf("request_id = %q, want propagated id", body["request_id"])
			}
		})
	}
}

func TestServeHealthAndFonts(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/fonts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var faces []faceInfo
	if err := json.NewDecoder(resp.Body).Decode(&faces); err != nil {
		t.Fatal(err)
	}
	if len(faces) == 0 {
		t.Error("expected bundled font faces")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{bserrors.New(bserrors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{&bserrors.MissingDisplayModeError{}, http.StatusBadRequest},
		{&bserrors.NoFontLoadedError{}, http.StatusUnprocessableEntity},
		{bserrors.New(bserrors.ErrCodeNotFound, "x"), http.StatusUnprocessableEntity},
		{bserrors.New(bserrors.ErrCodeNetwork, "x"), http.StatusBadGateway},
		{bserrors.New(bserrors.ErrCodeCanceled, "x"), http.StatusServiceUnavailable},
		{bserrors.New(bserrors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
