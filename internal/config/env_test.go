package config

import (
	"os"
	"testing"
)

func TestEnvOverrides_ServerConfig(t *testing.T) {
	defer os.Clearenv()

	os.Clearenv()
	os.Setenv("HOST", "127.0.0.1")
	os.Setenv("PORT", "9999")

	cfg := defaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host override, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected port override, got %d", cfg.Server.Port)
	}
}

func TestEnvOverrides_X402Config(t *testing.T) {
	defer os.Clearenv()

	tests := []struct {
		name      string
		envVars   map[string]string
		checkFunc func(*testing.T, *Config)
	}{
		{
			name: "SOLANA_RPC_URL override",
			envVars: map[string]string{
				"SOLANA_RPC_URL": "https://custom-rpc.solana.com",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.X402.RPCURL != "https://custom-rpc.solana.com" {
					t.Errorf("expected custom RPC URL, got %s", cfg.X402.RPCURL)
				}
			},
		},
		{
			name: "USDC_DECIMALS override",
			envVars: map[string]string{
				"USDC_DECIMALS": "9",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.X402.TokenDecimals != 9 {
					t.Errorf("expected token decimals 9, got %d", cfg.X402.TokenDecimals)
				}
			},
		},
		{
			name: "MAX_COMPUTE_UNIT_PRICE override",
			envVars: map[string]string{
				"MAX_COMPUTE_UNIT_PRICE": "1000",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.X402.MaxComputeUnitPrice != 1000 {
					t.Errorf("expected max compute unit price 1000, got %d", cfg.X402.MaxComputeUnitPrice)
				}
			},
		},
		{
			name: "invalid USDC_DECIMALS is ignored",
			envVars: map[string]string{
				"USDC_DECIMALS": "not-a-number",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.X402.TokenDecimals != 6 {
					t.Errorf("expected default token decimals 6, got %d", cfg.X402.TokenDecimals)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg := defaultConfig()
			cfg.applyEnvOverrides()
			tt.checkFunc(t, cfg)
		})
	}
}

func TestEnvOverrides_LoggingConfig(t *testing.T) {
	defer os.Clearenv()

	os.Clearenv()
	os.Setenv("LOG_LEVEL", "debug")

	cfg := defaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level override, got %s", cfg.Logging.Level)
	}
}
