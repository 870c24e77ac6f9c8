// internal/server/router.go
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/common/observability"
)

// Backends groups the read/write services the HTTP layer fronts beyond the
// wizard sessions themselves.
type Backends struct {
	Quotes       QuoteService
	Quotations   QuotationSource
	Documents    DocumentService
	Profiles     ProfileService
	Applications ApplicationSource
	Payments     PaymentSource
}

// Server is the HTTP front of the wizard engine.
type Server struct {
	manager    *Manager
	backends   Backends
	obs        *observability.Observability
	errHandler *commonerrors.ErrorHandler
	logger     logger.Logger
}

func New(manager *Manager, backends Backends, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		manager:    manager,
		backends:   backends,
		obs:        obs,
		errHandler: commonerrors.NewErrorHandler(log),
		logger:     log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// Router builds the full route tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/wizards/{kind}", func(r chi.Router) {
			r.Post("/", s.handleStart)
			r.Get("/", s.handleState)
			r.Put("/fields", s.handleUpdateFields)
			r.Post("/next", s.handleNext)
			r.Post("/previous", s.handlePrevious)
			r.Post("/goto/{step}", s.handleGoTo)
			r.Post("/submit", s.handleSubmit)
		})

		r.Post("/quotes/preview", s.handleQuotePreview)
		r.Get("/quotations/{id}/pdf", s.handleQuotationPDF)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/", s.handleRegisterDocument)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Put("/", s.handleSaveProfile)
		})

		r.Route("/applications", func(r chi.Router) {
			r.Get("/", s.handleListApplications)
			r.Get("/{id}/payments", s.handleApplicationPayments)
		})
	})

	r.Get("/files/{path}", s.handleFileAccess)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request handled", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": ww.Status(),
		})
	})
}
