package solana

import (
	"context"
	"fmt"
	"time"

	gosolana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/cedros-labs/x402-facilitator/internal/circuitbreaker"
	"github.com/cedros-labs/x402-facilitator/internal/metrics"
	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

// ChainClient is the Settler's only point of contact with the Solana
// network: fetch a blockhash, submit a signed transaction, read a token
// account balance. Every call runs under the circuit breaker and a
// per-call timeout, and is never retried — a caller that wants a retry
// issues a fresh call.
type ChainClient struct {
	rpcClient *rpc.Client
	breaker   *circuitbreaker.Breaker
	metrics   *metrics.Metrics
	timeout   time.Duration
}

// NewChainClient builds a ChainClient around rpcClient. metrics may be nil.
func NewChainClient(rpcClient *rpc.Client, breaker *circuitbreaker.Breaker, m *metrics.Metrics, timeout time.Duration) *ChainClient {
	if timeout <= 0 {
		timeout = x402.DefaultRPCTimeout
	}
	return &ChainClient{rpcClient: rpcClient, breaker: breaker, metrics: m, timeout: timeout}
}

// LatestBlockhash fetches the current blockhash at the given commitment,
// used to stamp freshly-built PaymentRequirement validity windows.
func (c *ChainClient) LatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (gosolana.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.rpcClient.GetLatestBlockhash(ctx, commitment)
	})
	c.observe("getLatestBlockhash", start, err)
	if err != nil {
		return gosolana.Hash{}, c.wrapErr(err)
	}
	resp := result.(*rpc.GetLatestBlockhashResult)
	return resp.Value.Blockhash, nil
}

// SendRawTransaction submits an already-signed, wire-encoded transaction
// and returns its signature. skipPreflight mirrors the RPC flag of the
// same name.
func (c *ChainClient) SendRawTransaction(ctx context.Context, raw []byte, skipPreflight bool, commitment rpc.CommitmentType) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.rpcClient.SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
			SkipPreflight:       skipPreflight,
			PreflightCommitment: commitment,
		})
	})
	c.observe("sendRawTransaction", start, err)
	if err != nil {
		return "", c.wrapErr(err)
	}
	return result.(gosolana.Signature).String(), nil
}

// TokenAccountBalance returns the raw atomic-unit balance of a token
// account, used by the demo client and health checks — never by the
// verifier, which never touches the network.
func (c *ChainClient) TokenAccountBalance(ctx context.Context, tokenAccount gosolana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.rpcClient.GetTokenAccountBalance(ctx, tokenAccount, commitment)
	})
	c.observe("getTokenAccountBalance", start, err)
	if err != nil {
		return 0, c.wrapErr(err)
	}
	resp := result.(*rpc.GetTokenAccountBalanceResult)
	var amount uint64
	if _, err := fmt.Sscanf(resp.Value.Amount, "%d", &amount); err != nil {
		return 0, fmt.Errorf("solana: parse token balance %q: %w", resp.Value.Amount, err)
	}
	return amount, nil
}

func (c *ChainClient) observe(method string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveRPCCall(method, time.Since(start), err)
	c.metrics.SetCircuitBreakerOpen(c.breaker.State() == "open")
}

func (c *ChainClient) wrapErr(err error) error {
	return x402.NewVerificationError(x402.ClassifyRPCError(err), err)
}
