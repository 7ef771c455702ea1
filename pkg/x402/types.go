package x402

import "context"

// PaymentRequirement is what the facilitator hands a client in a 402
// challenge: everything needed to construct a satisfying transaction.
// MaxAmountRequired is a decimal string of an unsigned 64-bit atomic-unit
// count, never a JSON number, so clients never round it through float64.
type PaymentRequirement struct {
	Scheme            string           `json:"scheme"`
	Network           string           `json:"network"`
	MaxAmountRequired string           `json:"maxAmountRequired"`
	Asset             string           `json:"asset"`
	PayTo             string           `json:"payTo"`
	Resource          string           `json:"resource"`
	Description       string           `json:"description"`
	MimeType          string           `json:"mimeType"`
	MaxTimeoutSeconds int              `json:"maxTimeoutSeconds"`
	OutputSchema      any              `json:"outputSchema,omitempty"`
	Extra             RequirementExtra `json:"extra"`
}

// RequirementExtra carries scheme-specific additions to PaymentRequirement.
type RequirementExtra struct {
	FeePayer string `json:"feePayer"`
}

// PaymentRequiredResponse is the body of a 402 response.
type PaymentRequiredResponse struct {
	X402Version int                  `json:"x402Version"`
	Accepts     []PaymentRequirement `json:"accepts"`
	Error       string               `json:"error"`
}

// VerifyResult is the outcome of pure transaction verification.
type VerifyResult struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
}

// SettleResult is the outcome of a settlement attempt.
type SettleResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash,omitempty"`
	Network string `json:"network,omitempty"`
	Payer   string `json:"payer,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SupportedKind names one (scheme, network) pair the facilitator accepts.
type SupportedKind struct {
	Scheme  string `json:"scheme"`
	Network string `json:"network"`
}

// SupportedResponse is the body of GET /v1/x402/supported.
type SupportedResponse struct {
	Kinds []SupportedKind `json:"kinds"`
}

// FeePayerResponse is the body of GET /v1/x402/fee-payer.
type FeePayerResponse struct {
	FeePayer string `json:"feePayer"`
	Network  string `json:"network"`
}

// RequirementsRequest is the body of POST /v1/x402/requirements.
type RequirementsRequest struct {
	Price          string `json:"price"`
	PayTo          string `json:"payTo"`
	Resource       string `json:"resource"`
	Description    string `json:"description,omitempty"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty"`
}

// RequirementsResponse is the body of a successful requirements call.
type RequirementsResponse struct {
	PaymentRequired PaymentRequiredResponse `json:"paymentRequired"`
}

// VerifyRequest is the body of POST /v1/x402/verify and /v1/x402/settle.
// PaymentHeader is the base64 X-PAYMENT envelope; PaymentRequirements is
// the requirement the client claims to satisfy.
type VerifyRequest struct {
	PaymentHeader       string             `json:"paymentHeader"`
	PaymentRequirements PaymentRequirement `json:"paymentRequirements"`
}

// Verifier performs pure structural validation of a base64-encoded
// transaction envelope against a stated payment requirement. No I/O, no
// side effects — decoding failures and rule violations are both reported
// through VerifyResult rather than an error return.
type Verifier interface {
	Verify(paymentHeader string, requirement PaymentRequirement) VerifyResult
}

// Settler orchestrates verify → co-sign → submit and owns the facilitator
// key. It is the only component that touches the chain.
type Settler interface {
	Settle(ctx context.Context, paymentHeader string, requirement PaymentRequirement) SettleResult
}
