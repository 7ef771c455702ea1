package config

import (
	"os"
	"strconv"
)

// applyEnvOverrides applies the facilitator's env vars over the defaults.
// Env var names are exactly those spec.md documents — no prefix, no
// namespacing — since this service has a single, flat configuration
// surface.
func (c *Config) applyEnvOverrides() {
	setIfEnv(&c.Server.Host, "HOST")
	setIntIfEnv(&c.Server.Port, "PORT")

	setIfEnv(&c.X402.RPCURL, "SOLANA_RPC_URL")
	setIfEnv(&c.X402.Network, "SOLANA_NETWORK")
	setIfEnv(&c.X402.TokenMint, "USDC_MINT")
	setUint8IfEnv(&c.X402.TokenDecimals, "USDC_DECIMALS")
	setIfEnv(&c.X402.FacilitatorPrivateKey, "FACILITATOR_PRIVATE_KEY")
	setUint64IfEnv(&c.X402.MaxComputeUnitPrice, "MAX_COMPUTE_UNIT_PRICE")
	setIntIfEnv(&c.X402.DefaultTimeoutSeconds, "DEFAULT_TIMEOUT_SECONDS")

	setIfEnv(&c.Logging.Level, "LOG_LEVEL")
}

// setIfEnv sets a string pointer to the environment variable value if it exists.
func setIfEnv(target *string, key string) {
	if val := os.Getenv(key); val != "" {
		*target = val
	}
}

// setIntIfEnv sets an int pointer from an environment variable, ignoring
// unparsable values (the default is kept).
func setIntIfEnv(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

// setUint8IfEnv sets a uint8 pointer from an environment variable.
func setUint8IfEnv(target *uint8, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			*target = uint8(n)
		}
	}
}

// setUint64IfEnv sets a uint64 pointer from an environment variable.
func setUint64IfEnv(target *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*target = n
		}
	}
}
