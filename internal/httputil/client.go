package httputil

import (
	"net/http"
	"time"
)

// NewClient creates a new HTTP client with the given timeout and a
// connection pool sized for steady traffic to a single Solana RPC
// endpoint. poolSize bounds both MaxIdleConnsPerHost and MaxConnsPerHost
// so the facilitator never opens more concurrent connections to the RPC
// node than it configured.
func NewClient(timeout time.Duration, poolSize int) *http.Client {
	if poolSize <= 0 {
		poolSize = 32
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        poolSize * 2,
			MaxIdleConnsPerHost: poolSize,
			MaxConnsPerHost:     poolSize,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
