package x402

import (
	"fmt"
	"strings"

	"github.com/cedros-labs/x402-facilitator/internal/apierrors"
)

// VerificationError classifies a failure encountered while decoding,
// verifying, or settling a transaction.
type VerificationError struct {
	Code    apierrors.ErrorCode
	Message string
	Err     error
}

func (e VerificationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e VerificationError) Unwrap() error {
	return e.Err
}

// NewVerificationError wraps err under code.
func NewVerificationError(code apierrors.ErrorCode, err error) VerificationError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return VerificationError{Code: code, Message: message, Err: err}
}

// ClassifyRPCError maps a raw chain-client error string to one of the
// facilitator's error kinds, per §7: expired block hash and insufficient
// funds are distinct, retriable-vs-not outcomes from the same RPC call.
func ClassifyRPCError(err error) apierrors.ErrorCode {
	if err == nil {
		return apierrors.Internal
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "blockhash not found"), strings.Contains(msg, "block height exceeded"):
		return apierrors.ExpiredBlockhash
	case strings.Contains(msg, "insufficient funds"), strings.Contains(msg, "insufficient lamports"),
		strings.Contains(msg, "custom program error: 0x1"):
		return apierrors.InsufficientFunds
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"), strings.Contains(msg, "eof"):
		return apierrors.RpcUnavailable
	default:
		return apierrors.Internal
	}
}
