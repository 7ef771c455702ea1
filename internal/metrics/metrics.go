package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for the facilitator's
// verify/settle pipeline and its one upstream dependency, the Solana
// RPC endpoint.
type Metrics struct {
	VerifyTotal    *prometheus.CounterVec
	VerifyDuration *prometheus.HistogramVec

	SettlementsTotal    *prometheus.CounterVec
	SettlementAmount    *prometheus.CounterVec
	SettlementDuration  *prometheus.HistogramVec

	RPCCallsTotal   *prometheus.CounterVec
	RPCCallDuration *prometheus.HistogramVec
	RPCErrorsTotal  *prometheus.CounterVec

	CircuitBreakerState prometheus.Gauge
}

// New creates and registers every metric against registry. A nil
// registry falls back to prometheus.DefaultRegisterer.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		VerifyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "x402_verify_total",
				Help: "Total number of payment verification attempts",
			},
			[]string{"result"},
		),
		VerifyDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "x402_verify_duration_seconds",
				Help:    "Time taken to verify a payment transaction",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
			},
			[]string{"result"},
		),

		SettlementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "x402_settlements_total",
				Help: "Total number of settlement attempts",
			},
			[]string{"result"},
		),
		SettlementAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "x402_settlement_amount_atomic_total",
				Help: "Total settled amount, in atomic token units",
			},
			[]string{"asset"},
		),
		SettlementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "x402_settlement_duration_seconds",
				Help:    "Time from settlement request to on-chain confirmation",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"network", "result"},
		),

		RPCCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "x402_rpc_calls_total",
				Help: "Total number of Solana RPC calls",
			},
			[]string{"method"},
		),
		RPCCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "x402_rpc_call_duration_seconds",
				Help:    "Duration of Solana RPC calls",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method"},
		),
		RPCErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "x402_rpc_errors_total",
				Help: "Total number of Solana RPC errors",
			},
			[]string{"method", "error_type"},
		),

		CircuitBreakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "x402_rpc_circuit_breaker_open",
				Help: "1 if the Solana RPC circuit breaker is open, 0 otherwise",
			},
		),
	}
}

// ObserveVerify records a verification attempt.
func (m *Metrics) ObserveVerify(valid bool, duration time.Duration) {
	result := resultLabel(valid)
	m.VerifyTotal.WithLabelValues(result).Inc()
	m.VerifyDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveSettlement records a settlement attempt.
func (m *Metrics) ObserveSettlement(network string, success bool, duration time.Duration, asset string, amountAtomic int64) {
	result := resultLabel(success)
	m.SettlementsTotal.WithLabelValues(result).Inc()
	m.SettlementDuration.WithLabelValues(network, result).Observe(duration.Seconds())
	if success {
		m.SettlementAmount.WithLabelValues(asset).Add(float64(amountAtomic))
	}
}

// ObserveRPCCall records a call to the Solana RPC endpoint.
func (m *Metrics) ObserveRPCCall(method string, duration time.Duration, err error) {
	m.RPCCallsTotal.WithLabelValues(method).Inc()
	m.RPCCallDuration.WithLabelValues(method).Observe(duration.Seconds())
	if err != nil {
		m.RPCErrorsTotal.WithLabelValues(method, classifyRPCErrorType(err)).Inc()
	}
}

// SetCircuitBreakerOpen reflects the breaker's current state.
func (m *Metrics) SetCircuitBreakerOpen(open bool) {
	if open {
		m.CircuitBreakerState.Set(1)
	} else {
		m.CircuitBreakerState.Set(0)
	}
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func classifyRPCErrorType(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	case strings.Contains(msg, "blockhash"):
		return "blockhash"
	case strings.Contains(msg, "not found"):
		return "not_found"
	default:
		return "other"
	}
}
