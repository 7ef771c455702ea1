package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cedros-labs/x402-facilitator/internal/config"
	"github.com/cedros-labs/x402-facilitator/internal/logger"
	"github.com/cedros-labs/x402-facilitator/internal/metrics"
	"github.com/cedros-labs/x402-facilitator/pkg/x402"
	x402solana "github.com/cedros-labs/x402-facilitator/pkg/x402/solana"
)

// discoveryTimeout bounds the lightweight, no-RPC endpoints.
const discoveryTimeout = 5 * time.Second

// Server wires the facilitator's handlers, middleware, and router.
type Server struct {
	handlers
	httpServer *http.Server
}

type handlers struct {
	cfg      *config.Config
	verifier x402.Verifier
	settler  x402.Settler
	builder      *x402solana.RequirementBuilder
	feePayerAddr string
	metrics      *metrics.Metrics
	logger   zerolog.Logger
}

// New builds the HTTP server with a configured router. feePayer is the
// facilitator's own base58 public key, the value every PaymentRequirement
// and /fee-payer response reports.
func New(cfg *config.Config, verifier x402.Verifier, settler x402.Settler, feePayer string, metricsCollector *metrics.Metrics, appLogger zerolog.Logger) *Server {
	router := chi.NewRouter()

	h := newHandlers(cfg, verifier, settler, feePayer, metricsCollector, appLogger)

	s := &Server{
		handlers: h,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: time.Duration(cfg.X402.DefaultTimeoutSeconds+5) * time.Second,
			IdleTimeout:  60 * time.Second,
			Handler:      router,
		},
	}

	configureRoutes(router, h)

	return s
}

// ConfigureRouter attaches the facilitator's routes to an existing router.
func ConfigureRouter(router chi.Router, cfg *config.Config, verifier x402.Verifier, settler x402.Settler, feePayer string, metricsCollector *metrics.Metrics, appLogger zerolog.Logger) {
	if router == nil {
		return
	}
	configureRoutes(router, newHandlers(cfg, verifier, settler, feePayer, metricsCollector, appLogger))
}

func newHandlers(cfg *config.Config, verifier x402.Verifier, settler x402.Settler, feePayer string, metricsCollector *metrics.Metrics, appLogger zerolog.Logger) handlers {
	builder := x402solana.NewRequirementBuilder(cfg.X402.TokenMint, cfg.X402.TokenDecimals, feePayer, cfg.X402.DefaultTimeoutSeconds)
	return handlers{
		cfg:          cfg,
		verifier:     verifier,
		settler:      settler,
		builder:      builder,
		feePayerAddr: feePayer,
		metrics:      metricsCollector,
		logger:       appLogger,
	}
}

func configureRoutes(router chi.Router, h handlers) {

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-PAYMENT"},
		ExposedHeaders: []string{"X-PAYMENT-RESPONSE"},
		MaxAge:         300,
	}))

	router.Use(securityHeadersMiddleware)
	router.Use(logger.Middleware(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	// Discovery endpoints never touch the chain; keep their deadline short.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(discoveryTimeout))
		r.Get("/v1/x402/supported", h.supported)
		r.Get("/v1/x402/fee-payer", h.feePayer)
		r.Handle("/metrics", promhttp.Handler())
	})

	// Payment endpoints may submit to the chain; bound by the configured
	// default timeout, per §5's end-to-end deadline rule.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(h.requestTimeout()))
		r.Post("/v1/x402/requirements", h.requirements)
		r.Post("/v1/x402/verify", h.verify)
		r.Post("/v1/x402/settle", h.settle)
		r.Get("/v1/x402/demo/protected", h.demoProtected)
	})
}

func (h handlers) requestTimeout() time.Duration {
	seconds := h.cfg.X402.DefaultTimeoutSeconds
	if seconds <= 0 {
		seconds = 60
	}
	return time.Duration(seconds) * time.Second
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
