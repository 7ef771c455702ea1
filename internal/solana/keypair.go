// Package solana holds the facilitator's own keypair handling — kept out
// of pkg/x402/solana so the transaction-level code never needs to import
// key material directly.
package solana

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
)

// ParsePrivateKey decodes the facilitator's secret key from its base58
// wire form (64 raw bytes: seed ‖ public key, as solana-keygen emits it).
func ParsePrivateKey(base58Key string) (solanago.PrivateKey, error) {
	key, err := solanago.PrivateKeyFromBase58(base58Key)
	if err != nil {
		return nil, fmt.Errorf("solana: parse facilitator private key: %w", err)
	}
	if len(key) != solanago.PrivateKeySize {
		return nil, fmt.Errorf("solana: facilitator private key must be %d bytes, got %d", solanago.PrivateKeySize, len(key))
	}
	return key, nil
}
