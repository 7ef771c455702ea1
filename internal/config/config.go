package config

import "github.com/joho/godotenv"

// Load reads an optional .env file, applies environment overrides over
// sensible defaults, and validates the result. There is no config file
// format beyond env vars — spec.md §6 defines the configuration surface
// as a flat set of environment variables.
func Load() (*Config, error) {
	// Local convenience only; a missing .env is not an error in
	// production, where real env vars are set by the deployment.
	_ = godotenv.Load()

	cfg := defaultConfig()
	cfg.applyEnvOverrides()

	if err := cfg.finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with the defaults spec.md §6 documents.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8402,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		X402: X402Config{
			Network:               "mainnet-beta",
			RPCURL:                "https://api.mainnet-beta.solana.com",
			TokenMint:             "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", // USDC mainnet
			TokenDecimals:         6,
			MaxComputeUnitPrice:   5,
			DefaultTimeoutSeconds: 60,
			ConnectionPoolSize:    32,
		},
	}
}
