package solana

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/cedros-labs/x402-facilitator/internal/money"
	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

// RequirementBuilder turns a user-friendly pricing request into a
// PaymentRequirement, filling in the wire constants and the
// facilitator's own fee-payer address.
type RequirementBuilder struct {
	Asset         string // token mint address
	TokenDecimals uint8
	FeePayer      string // facilitator public key, base58
	DefaultTimeoutSeconds int
}

// NewRequirementBuilder constructs a builder bound to the configured
// mint and facilitator key.
func NewRequirementBuilder(asset string, decimals uint8, feePayer string, defaultTimeoutSeconds int) *RequirementBuilder {
	return &RequirementBuilder{
		Asset:                 asset,
		TokenDecimals:         decimals,
		FeePayer:              feePayer,
		DefaultTimeoutSeconds: defaultTimeoutSeconds,
	}
}

// Build converts req into a PaymentRequirement. price is a USD decimal
// string, optionally prefixed with "$"; it is converted to atomic units
// by multiplying by 10^decimals with round-half-to-even, then clamped to
// [1, 2^64-1].
func (b *RequirementBuilder) Build(req x402.RequirementsRequest) (x402.PaymentRequirement, error) {
	price := strings.TrimPrefix(strings.TrimSpace(req.Price), "$")
	if price == "" {
		return x402.PaymentRequirement{}, fmt.Errorf("price is required")
	}
	if req.PayTo == "" {
		return x402.PaymentRequirement{}, fmt.Errorf("payTo is required")
	}
	if req.Resource == "" {
		return x402.PaymentRequirement{}, fmt.Errorf("resource is required")
	}

	asset := money.Asset{Code: "QUOTE", Decimals: b.TokenDecimals}
	amount, err := money.FromMajorWithRounding(asset, price, money.RoundingBankers)
	if err != nil {
		return x402.PaymentRequirement{}, fmt.Errorf("invalid price %q: %w", req.Price, err)
	}

	atomic := big.NewInt(amount.Atomic)
	one := big.NewInt(1)
	max := new(big.Int).SetUint64(^uint64(0))
	if atomic.Cmp(one) < 0 {
		atomic = one
	}
	if atomic.Cmp(max) > 0 {
		atomic = max
	}

	timeout := req.TimeoutSeconds
	if timeout <= 0 {
		timeout = b.DefaultTimeoutSeconds
	}

	return x402.PaymentRequirement{
		Scheme:            x402.Scheme,
		Network:           x402.Network,
		MaxAmountRequired: atomic.String(),
		Asset:             b.Asset,
		PayTo:             req.PayTo,
		Resource:          req.Resource,
		Description:       req.Description,
		MimeType:          "application/json",
		MaxTimeoutSeconds: timeout,
		Extra:             x402.RequirementExtra{FeePayer: b.FeePayer},
	}, nil
}
