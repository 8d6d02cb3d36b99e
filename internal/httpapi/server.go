package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/naveenkr153/spectra-sales-review/internal/fileset"
	"github.com/naveenkr153/spectra-sales-review/internal/pipeline"
	"github.com/naveenkr153/spectra-sales-review/pkg/types"
)

// Service defines the methods required by the HTTP API layer. *pipeline.Pipeline
// satisfies it.
type Service interface {
	Status() types.SessionResponse
	Ready() bool
	SetName(name string) bool
	AddFiles(files ...fileset.InputFile) (int, bool)
	RemoveFile(f fileset.InputFile) (removed, ok bool)
	Compile() (*pipeline.Op, bool)
	Submit() (*pipeline.Op, bool)
	Cancel() bool
	Reset()
	ClosePreview() bool
	DismissNotice()
	Preview() (pipeline.Artifact, bool)
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5, "application/json"))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &sessionHandlers{svc: svc}
	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.status)
		r.Put("/name", h.setName)
		r.Post("/files", h.addFiles)
		r.Delete("/files", h.removeFile)
		r.Post("/compile", h.compile)
		r.Post("/submit", h.submit)
		r.Post("/cancel", h.cancel)
		r.Post("/reset", h.reset)
		r.Get("/preview", h.preview)
		r.Delete("/preview", h.closePreview)
		r.Delete("/notice", h.dismissNotice)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("shutting down"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}
