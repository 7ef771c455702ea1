// Package apierrors defines the facilitator's uniform JSON error envelope
// and the fixed set of error kinds every component maps its failures into.
package apierrors

import "net/http"

// ErrorCode is one of the seven kinds the facilitator ever reports.
type ErrorCode string

const (
	// MalformedTransaction: envelope bytes could not be parsed.
	MalformedTransaction ErrorCode = "malformed_transaction"

	// PolicyViolation: transaction parsed but violated a verifier rule.
	PolicyViolation ErrorCode = "policy_violation"

	// ExpiredBlockhash: chain rejected submission because the block hash aged out.
	ExpiredBlockhash ErrorCode = "expired_blockhash"

	// InsufficientFunds: chain rejected because the sender's balance was too low.
	InsufficientFunds ErrorCode = "insufficient_funds"

	// RpcUnavailable: transport-level failure reaching the chain.
	RpcUnavailable ErrorCode = "rpc_unavailable"

	// ConfigError: facilitator key missing or invalid.
	ConfigError ErrorCode = "config_error"

	// Internal: anything else.
	Internal ErrorCode = "internal"
)

// HTTPStatus returns the status code a given error kind surfaces as.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case MalformedTransaction, PolicyViolation, ExpiredBlockhash, InsufficientFunds:
		return http.StatusPaymentRequired
	case RpcUnavailable, ConfigError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the client (or facilitator) may usefully retry
// the same request unmodified.
func (c ErrorCode) Retryable() bool {
	switch c {
	case ExpiredBlockhash, RpcUnavailable:
		return true
	default:
		return false
	}
}
