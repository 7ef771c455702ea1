package money

import (
	"fmt"
	"sync"
)

// Asset represents an SPL token that the facilitator can quote and settle
// payments in.
type Asset struct {
	Code     string // Asset code (USDC, USDT, ...)
	Decimals uint8  // Number of decimal places (6 for USDC)
	Mint     string // Solana token mint address (base58)
}

// Global asset registry with concurrent access protection.
var (
	assetRegistry = map[string]Asset{
		"USDC": {
			Code:     "USDC",
			Decimals: 6,
			Mint:     "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", // USDC mainnet
		},
		"USDT": {
			Code:     "USDT",
			Decimals: 6,
			Mint:     "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", // USDT mainnet
		},
		"PYUSD": {
			Code:     "PYUSD",
			Decimals: 6,
			Mint:     "2b1kV6DkPAnxd5ixfnxCpjxmKwqjjaYmCZfHsFu24GXo", // PYUSD mainnet
		},
		"CASH": {
			Code:     "CASH",
			Decimals: 6,
			Mint:     "CASHx9KJUStyftLFWGvEVf59SGeG9sh5FfcnZMVPCASH", // CASH mainnet
		},
	}
	assetRegistryMu sync.RWMutex
)

// GetAsset retrieves an asset from the registry.
func GetAsset(code string) (Asset, error) {
	assetRegistryMu.RLock()
	asset, ok := assetRegistry[code]
	assetRegistryMu.RUnlock()

	if !ok {
		return Asset{}, fmt.Errorf("money: unknown asset: %s", code)
	}
	return asset, nil
}

// MustGetAsset retrieves an asset and panics if not found (for tests/constants).
func MustGetAsset(code string) Asset {
	asset, err := GetAsset(code)
	if err != nil {
		panic(err)
	}
	return asset
}

// AssetForMint looks up the registered asset whose mint address matches,
// used when a request names a token mint rather than an asset code.
func AssetForMint(mint string) (Asset, error) {
	assetRegistryMu.RLock()
	defer assetRegistryMu.RUnlock()
	for _, asset := range assetRegistry {
		if asset.Mint == mint {
			return asset, nil
		}
	}
	return Asset{}, fmt.Errorf("money: no registered asset for mint %s", mint)
}

// ListAssets returns all registered assets.
func ListAssets() []Asset {
	assetRegistryMu.RLock()
	assets := make([]Asset, 0, len(assetRegistry))
	for _, asset := range assetRegistry {
		assets = append(assets, asset)
	}
	assetRegistryMu.RUnlock()

	return assets
}
