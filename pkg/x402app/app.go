// Package x402app assembles the facilitator's components into a single
// construct-once App, for embedding in another Go service or for
// cmd/server to serve standalone.
package x402app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/cedros-labs/x402-facilitator/internal/circuitbreaker"
	"github.com/cedros-labs/x402-facilitator/internal/config"
	"github.com/cedros-labs/x402-facilitator/internal/httpserver"
	"github.com/cedros-labs/x402-facilitator/internal/httputil"
	"github.com/cedros-labs/x402-facilitator/internal/lifecycle"
	"github.com/cedros-labs/x402-facilitator/internal/logger"
	"github.com/cedros-labs/x402-facilitator/internal/metrics"
	internalsolana "github.com/cedros-labs/x402-facilitator/internal/solana"
	"github.com/cedros-labs/x402-facilitator/pkg/x402"
	x402solana "github.com/cedros-labs/x402-facilitator/pkg/x402/solana"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// App wires the facilitator's verifier, settler, and HTTP router for
// reuse or standalone serving. Construction fails fast: a malformed
// facilitator key or unrecognized mint surfaces as an error from NewApp,
// never as a lazily-discovered fault on first request.
type App struct {
	Config   *config.Config
	Verifier x402.Verifier
	Settler  x402.Settler
	FeePayer string

	router          chi.Router
	resourceManager *lifecycle.Manager
	metrics         *metrics.Metrics
}

// Option configures App construction.
type Option func(*options)

type options struct {
	verifier x402.Verifier
	settler  x402.Settler
	router   chi.Router
}

// WithVerifier injects a custom x402 Verifier in place of the default
// exact-amount SPL verifier.
func WithVerifier(verifier x402.Verifier) Option {
	return func(o *options) { o.verifier = verifier }
}

// WithSettler injects a custom x402 Settler.
func WithSettler(settler x402.Settler) Option {
	return func(o *options) { o.settler = settler }
}

// WithRouter allows callers to supply an existing chi.Router to register
// routes onto, instead of letting NewApp create one.
func WithRouter(router chi.Router) Option {
	return func(o *options) { o.router = router }
}

// NewApp assembles the facilitator for embedding. cfg must already be
// validated (see config.Load).
func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("x402app: config required")
	}

	optState := options{}
	for _, opt := range opts {
		opt(&optState)
	}

	app := &App{
		Config:          cfg,
		resourceManager: lifecycle.NewManager(),
		metrics:         metrics.New(prometheus.DefaultRegisterer),
	}

	privateKey, err := internalsolana.ParsePrivateKey(cfg.X402.FacilitatorPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("x402app: %w", err)
	}
	app.FeePayer = privateKey.PublicKey().String()

	if optState.verifier != nil {
		app.Verifier = optState.verifier
	} else {
		app.Verifier = x402solana.NewVerifier(cfg.X402.MaxComputeUnitPrice, cfg.X402.TokenDecimals)
	}

	if optState.settler != nil {
		app.Settler = optState.settler
	} else {
		httpClient := httputil.NewClient(x402.DefaultRPCTimeout, cfg.X402.ConnectionPoolSize)
		jsonRPCClient := jsonrpc.NewClientWithOpts(cfg.X402.RPCURL, &jsonrpc.RPCClientOpts{HTTPClient: httpClient})
		rpcClient := rpc.NewWithCustomRPCClient(jsonRPCClient)

		breaker := circuitbreaker.New(circuitbreaker.DefaultConfig())
		chainClient := x402solana.NewChainClient(rpcClient, breaker, app.metrics, x402.DefaultRPCTimeout)

		verifierImpl, ok := app.Verifier.(*x402solana.Verifier)
		if !ok {
			verifierImpl = x402solana.NewVerifier(cfg.X402.MaxComputeUnitPrice, cfg.X402.TokenDecimals)
		}

		app.Settler = x402solana.NewSettler(verifierImpl, chainClient, privateKey, cfg.X402.Network, app.metrics)
	}

	if optState.router != nil {
		app.router = optState.router
	} else {
		app.router = chi.NewRouter()
	}

	appLogger := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		Format:  "json",
		Service: "x402-facilitator",
	})

	httpserver.ConfigureRouter(app.router, cfg, app.Verifier, app.Settler, app.FeePayer, app.metrics, appLogger)

	return app, nil
}

// Router returns the chi router with facilitator routes registered.
func (a *App) Router() chi.Router {
	return a.router
}

// Handler exposes the router as an http.Handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Close releases resources owned by the app.
func (a *App) Close() error {
	return a.resourceManager.Close()
}

// RegisterRoutes attaches facilitator endpoints to router using an
// already-constructed App — for embedding into a larger service's router.
func RegisterRoutes(router chi.Router, app *App) {
	if router == nil || app == nil {
		return
	}
	appLogger := logger.New(logger.Config{Level: app.Config.Logging.Level, Format: "json", Service: "x402-facilitator"})
	httpserver.ConfigureRouter(router, app.Config, app.Verifier, app.Settler, app.FeePayer, app.metrics, appLogger)
}

// NewHandler is a convenience that constructs an App and returns its
// handler plus a shutdown func.
func NewHandler(cfg *config.Config, opts ...Option) (http.Handler, func(context.Context) error, error) {
	app, err := NewApp(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	shutdown := func(ctx context.Context) error {
		return app.Close()
	}
	return app.Handler(), shutdown, nil
}
