package solana

import (
	"context"
	"strconv"
	"time"

	gosolana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"

	"github.com/cedros-labs/x402-facilitator/internal/metrics"
	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

// Settler orchestrates verify -> co-sign -> submit for the exact-amount
// SPL scheme. It owns the facilitator's private key and is the only
// component in the repository that signs a transaction or talks to the
// chain.
type Settler struct {
	verifier   *Verifier
	chain      *ChainClient
	privateKey gosolana.PrivateKey
	network    string
	metrics    *metrics.Metrics
}

// NewSettler builds a Settler bound to a verifier, chain client, and the
// facilitator's signing key.
func NewSettler(verifier *Verifier, chain *ChainClient, privateKey gosolana.PrivateKey, network string, m *metrics.Metrics) *Settler {
	return &Settler{verifier: verifier, chain: chain, privateKey: privateKey, network: network, metrics: m}
}

// Settle decodes paymentHeader, verifies it against requirement, co-signs
// as fee payer, and submits it. Any verification failure is reported
// through SettleResult rather than an error return; only an unexpected
// downstream fault (RPC unavailable, etc.) still surfaces as a wire
// "error" field per §4.4 but with Success=false.
func (s *Settler) Settle(ctx context.Context, paymentHeader string, requirement x402.PaymentRequirement) x402.SettleResult {
	start := time.Now()

	tx, err := DecodeTransaction(paymentHeader)
	if err != nil {
		return s.fail(start, requirement, err.Error())
	}

	result := s.verifier.verifyTransaction(tx, requirement)
	if !result.IsValid {
		return s.fail(start, requirement, result.InvalidReason)
	}

	const feePayerIndex = 0
	accountKeys := tx.AccountKeys()
	if len(accountKeys) <= feePayerIndex || accountKeys[feePayerIndex] != s.privateKey.PublicKey().String() {
		return s.fail(start, requirement, "transaction fee payer does not match this facilitator's key")
	}

	messageBytes, err := tx.MessageBytes()
	if err != nil {
		return s.fail(start, requirement, "could not serialize transaction message: "+err.Error())
	}

	sig, err := s.privateKey.Sign(messageBytes)
	if err != nil {
		return s.fail(start, requirement, "could not sign transaction: "+err.Error())
	}
	if err := tx.ReplaceSignature(feePayerIndex, sig); err != nil {
		return s.fail(start, requirement, "could not attach fee-payer signature: "+err.Error())
	}

	raw, err := tx.Encode()
	if err != nil {
		return s.fail(start, requirement, "could not encode signed transaction: "+err.Error())
	}

	txHash, err := s.chain.SendRawTransaction(ctx, raw, false, rpc.CommitmentConfirmed)
	if err != nil {
		log.Error().Err(err).Str("network", s.network).Msg("settler.submit_failed")
		return s.fail(start, requirement, err.Error())
	}

	amount, _ := strconv.ParseInt(requirement.MaxAmountRequired, 10, 64)
	s.observe(requirement, start, true, amount)
	return x402.SettleResult{
		Success: true,
		TxHash:  txHash,
		Network: x402.Network,
		Payer:   accountKeys[1],
	}
}

func (s *Settler) fail(start time.Time, requirement x402.PaymentRequirement, reason string) x402.SettleResult {
	s.observe(requirement, start, false, 0)
	return x402.SettleResult{Success: false, Error: reason}
}

func (s *Settler) observe(requirement x402.PaymentRequirement, start time.Time, success bool, amount int64) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSettlement(s.network, success, time.Since(start), requirement.Asset, amount)
}

var _ x402.Settler = (*Settler)(nil)
