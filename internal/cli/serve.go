package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxsvg/pkg/buildinfo"
	"github.com/matzehuels/boxsvg/pkg/cache"
	bserrors "github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/pipeline"
	"github.com/matzehuels/boxsvg/pkg/resource"
)

// requestIDHeader carries the request id in both directions.
const requestIDHeader = "X-Request-ID"

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// serveCommand creates the serve command, an HTTP API around the pipeline.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve the render pipeline over HTTP.

Endpoints:
  POST /render?format=svg|png|pdf|json   body: JSON document
  GET  /fonts                            registered font faces
  GET  /healthz                          liveness and build info`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Serve
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			return serve(cmd.Context(), newServer(runner, c.Config, loggerFromContext(cmd.Context())), cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// serve runs srv on addr until ctx is canceled, then shuts down gracefully.
func serve(ctx context.Context, s *server, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// server holds the HTTP handlers.
type server struct {
	runner *pipeline.Runner
	config *Config
	logger *log.Logger
}

// newServer wraps runner. Documents posted to the server may only
// reference remote and data URI images.
func newServer(runner *pipeline.Runner, cfg *Config, logger *log.Logger) *server {
	runner.Resolver = resource.New(
		resource.WithCache(cache.WithHooks(runner.Cache, "resource"), cache.TTLResource),
		resource.WithKeyer(runner.Keyer),
		resource.WithLogger(logger),
		resource.WithoutLocalFiles(),
	)
	return &server{runner: runner, config: cfg, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.config.Serve.Timeout > 0 {
		r.Use(middleware.Timeout(s.config.Serve.Timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/fonts", s.handleFonts)
	r.Post("/render", s.handleRender)
	return r
}

type ctxRequestID struct{}

// requestID propagates the caller's request id or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxRequestID{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID{}).(string)
	return id
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", requestIDFrom(r.Context()))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

type faceInfo struct {
	Family string `json:"family"`
	Weight int    `json:"weight"`
	Style  string `json:"style"`
	Size   int    `json:"size"`
}

func (s *server) handleFonts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, faceInfos(s.runner.Fonts))
}

func faceInfos(engine font.Engine) []faceInfo {
	faces := []faceInfo{}
	if lister, ok := engine.(interface{ Faces() []*font.Face }); ok {
		for _, f := range lister.Faces() {
			faces = append(faces, faceInfo{Family: f.Family, Weight: f.Weight, Style: f.Style, Size: len(f.Data)})
		}
	}
	return faces
}

// handleRender renders the posted document. Query parameters override the
// server's config: format, width, height, scale, locale, embed_fonts, refresh.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.Serve.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, bserrors.New(bserrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, http.StatusBadRequest, bserrors.Wrap(bserrors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	opts, err := s.renderOptions(r, body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	format := opts.Formats[0]

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("ETag", strconv.Quote(result.DocHash))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *server) renderOptions(r *http.Request, body []byte) (pipeline.Options, error) {
	opts := s.config.Options()
	opts.Data = body
	opts.Logger = s.logger

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	for name, dst := range map[string]*float64{"width": &opts.Width, "height": &opts.Height, "scale": &opts.Scale} {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return opts, bserrors.New(bserrors.ErrCodeInvalidInput, "invalid %s %q", name, v)
			}
			*dst = f
		}
	}
	if v := q.Get("locale"); v != "" {
		opts.Locale = v
	}
	for name, dst := range map[string]*bool{"embed_fonts": &opts.EmbedFonts, "refresh": &opts.Refresh} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, bserrors.New(bserrors.ErrCodeInvalidInput, "invalid %s %q", name, v)
			}
			*dst = b
		}
	}
	return opts, opts.ValidateAndSetDefaults()
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch bserrors.GetCode(err) {
	case bserrors.ErrCodeInvalidInput, bserrors.ErrCodeInvalidFormat,
		bserrors.ErrCodeInvalidPropertyValue, bserrors.ErrCodeUnknownProperty,
		bserrors.ErrCodeMissingDisplayMode:
		return http.StatusBadRequest
	case bserrors.ErrCodeNotFound, bserrors.ErrCodeFileNotFound, bserrors.ErrCodeNoFontLoaded:
		return http.StatusUnprocessableEntity
	case bserrors.ErrCodeNetwork, bserrors.ErrCodeRateLimited:
		return http.StatusBadGateway
	case bserrors.ErrCodeTimeout, bserrors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	case bserrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := requestIDFrom(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "error", err, "request_id", id)
	}
	code := bserrors.GetCode(err)
	if code == "" {
		code = bserrors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{
		"error":      bserrors.UserMessage(err),
		"code":       string(code),
		"request_id": id,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
