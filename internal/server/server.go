package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkrelic/casevault/internal/caseopen"
	"github.com/mkrelic/casevault/internal/catalog"
	"github.com/mkrelic/casevault/internal/database"
	"github.com/mkrelic/casevault/internal/feed"
	"github.com/mkrelic/casevault/internal/handler"
	"github.com/mkrelic/casevault/internal/inventory"
	"github.com/mkrelic/casevault/internal/ledger"
	"github.com/mkrelic/casevault/internal/logger"
	"github.com/mkrelic/casevault/internal/metrics"
)

type Server struct {
	httpServer       *http.Server
	dbPool           database.Pool
	catalogService   catalog.Service
	inventoryService inventory.Service
	ledgerService    ledger.Service
	caseOpenService  caseopen.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, catalogService catalog.Service, inventoryService inventory.Service, ledgerService ledger.Service, caseOpenService caseopen.Service, feedClient feed.Client, importer *feed.Importer) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Item catalog routes
		r.Route("/items", func(r chi.Router) {
			r.Get("/", handler.HandleListItems(catalogService))
			r.Post("/", handler.HandleCreateItem(catalogService))
			r.Get("/{itemID}", handler.HandleGetItem(catalogService))
			r.Patch("/{itemID}", handler.HandleUpdateItem(catalogService))
		})

		// Case registry routes
		r.Route("/cases", func(r chi.Router) {
			r.Get("/", handler.HandleListCases(catalogService))
			r.Post("/", handler.HandleCreateCase(catalogService))
			r.Get("/{caseID}", handler.HandleGetCase(catalogService))
			r.Patch("/{caseID}", handler.HandleUpdateCase(catalogService))
		})

		// User routes
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", handler.HandleGetUser(ledgerService))
			r.Post("/daily", handler.HandleClaimDaily(ledgerService))
			r.Post("/open", handler.HandleOpenCase(caseOpenService))

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", handler.HandleGetInventory(inventoryService))
				r.Post("/", handler.HandleGrantItem(inventoryService))
				r.Get("/value", handler.HandleGetInventoryValue(inventoryService))
				r.Get("/rap", handler.HandleGetInventoryRAP(inventoryService))
				r.Delete("/{itemID}", handler.HandleRevokeItem(inventoryService))
			})
		})

		// Feed routes
		r.Route("/feed", func(r chi.Router) {
			r.Get("/search", handler.HandleSearchFeed(feedClient))
			r.Post("/import", handler.HandleImport(importer))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:           dbPool,
		catalogService:   catalogService,
		inventoryService: inventoryService,
		ledgerService:    ledgerService,
		caseOpenService:  caseOpenService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
