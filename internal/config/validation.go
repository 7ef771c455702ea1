package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cedros-labs/x402-facilitator/internal/money"
)

// finalize applies final defaults and validates the configuration,
// returning a ConfigError-class error if anything required is missing
// or malformed. Startup calls this and exits fatally on failure
// (spec.md §6 exit code 1 for "bad key, bind failure").
func (c *Config) finalize() error {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8402
	}
	if c.X402.TokenDecimals == 0 {
		c.X402.TokenDecimals = 6
	}
	if c.X402.MaxComputeUnitPrice == 0 {
		c.X402.MaxComputeUnitPrice = 5
	}
	if c.X402.DefaultTimeoutSeconds == 0 {
		c.X402.DefaultTimeoutSeconds = 60
	}
	if c.X402.ConnectionPoolSize == 0 {
		c.X402.ConnectionPoolSize = 32
	}

	return c.validate()
}

// validate checks that every required field is present and well-formed.
func (c *Config) validate() error {
	var errs []string

	if c.X402.RPCURL == "" {
		errs = append(errs, "SOLANA_RPC_URL is required")
	}
	if c.X402.TokenMint == "" {
		errs = append(errs, "USDC_MINT is required")
	} else if _, err := money.ValidateStablecoinMint(c.X402.TokenMint); err != nil {
		errs = append(errs, fmt.Sprintf("USDC_MINT: %v", err))
	}
	if c.X402.FacilitatorPrivateKey == "" {
		errs = append(errs, "FACILITATOR_PRIVATE_KEY is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.New(strings.Join(errs, "; ")))
	}
	return nil
}
