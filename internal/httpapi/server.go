// Package httpapi exposes the soilcheck validators over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/Gobd/soilcheck"
	"github.com/Gobd/soilcheck/openapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type Options struct {
	Validator      *soilcheck.Validator
	Logger         *slog.Logger
	AllowedDomains []string
	RequiredEnv    []string
}

type server struct {
	v           *soilcheck.Validator
	log         *slog.Logger
	allowed     []string
	requiredEnv []string
}

// NewRouter returns the API router. A nil Validator means
// [soilcheck.DefaultValidator] and a nil Logger means [slog.Default].
func NewRouter(opts Options) (http.Handler, error) {
	s := &server{
		v:           opts.Validator,
		log:         opts.Logger,
		allowed:     opts.AllowedDomains,
		requiredEnv: opts.RequiredEnv,
	}
	if s.v == nil {
		s.v = soilcheck.DefaultValidator()
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	apiDoc := Document()
	doc, err := openapi.Handler(apiDoc)
	if err != nil {
		return nil, err
	}
	docYAML, err := openapi.YAMLHandler(apiDoc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/openapi.json", doc)
	r.Method(http.MethodGet, "/openapi.yaml", docYAML)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/readings", s.readings)
		r.Post("/deposits", s.deposits)
		r.Post("/coordinates/filter", s.filterCoordinates)
		r.Post("/redirects/check", s.checkRedirect)
		r.Get("/env", s.env)
	})
	return r, nil
}

// requestLogger logs one line per request after it completes.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.LogAttrs(r.Context(), slog.LevelInfo, "request",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
			)
		})
	}
}
