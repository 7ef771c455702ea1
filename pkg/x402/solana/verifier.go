package solana

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"

	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

// Verifier implements x402.Verifier for the exact-amount SPL
// transfer-checked scheme. It performs the five checks from §4.2 in
// order and reports the first failure; it never touches the network.
type Verifier struct {
	MaxComputeUnitPrice uint64
	TokenDecimals       uint8
}

// NewVerifier builds a Verifier bound to the facilitator's compute-price
// ceiling and configured mint decimals.
func NewVerifier(maxComputeUnitPrice uint64, tokenDecimals uint8) *Verifier {
	return &Verifier{MaxComputeUnitPrice: maxComputeUnitPrice, TokenDecimals: tokenDecimals}
}

// Verify decodes paymentHeader and checks it against requirement.
func (v *Verifier) Verify(paymentHeader string, requirement x402.PaymentRequirement) x402.VerifyResult {
	tx, err := DecodeTransaction(paymentHeader)
	if err != nil {
		return x402.VerifyResult{IsValid: false, InvalidReason: err.Error()}
	}
	return v.verifyTransaction(tx, requirement)
}

func (v *Verifier) verifyTransaction(tx *Transaction, requirement x402.PaymentRequirement) x402.VerifyResult {
	instructions := tx.Instructions()

	// 1. Instruction count.
	if len(instructions) != 3 {
		return invalid("Expected 3 instructions, got %d", len(instructions))
	}

	// 2. Compute-budget prelude.
	if instructions[0].ProgramID != x402.ComputeBudgetProgramID || instructions[1].ProgramID != x402.ComputeBudgetProgramID {
		return invalid("Instructions 0 and 1 must target the compute-budget program")
	}
	limitSeen, priceSeen := false, false
	for _, inst := range instructions[:2] {
		if len(inst.Data) == 0 {
			return invalid("Compute-budget instruction missing discriminator")
		}
		switch inst.Data[0] {
		case x402.DiscriminatorComputeUnitLimit:
			limitSeen = true
		case x402.DiscriminatorComputeUnitPrice:
			priceSeen = true
			if len(inst.Data) < 9 {
				return invalid("Compute-unit-price instruction data too short")
			}
			price := binary.LittleEndian.Uint64(inst.Data[1:9])
			if price > v.MaxComputeUnitPrice {
				return invalid("Compute unit price %d exceeds max %d", price, v.MaxComputeUnitPrice)
			}
		default:
			return invalid("Unrecognized compute-budget discriminator 0x%02x", inst.Data[0])
		}
	}
	if !limitSeen || !priceSeen {
		return invalid("Compute-budget prelude must set both unit limit and unit price")
	}

	// 3. Transfer instruction.
	transfer := instructions[2]
	if transfer.ProgramID != x402.TokenProgramID && transfer.ProgramID != x402.Token2022ProgramID {
		return invalid("Transfer instruction must target a known token program")
	}
	if len(transfer.Data) < 10 {
		return invalid("Transfer instruction data too short")
	}
	if transfer.Data[0] != x402.DiscriminatorTransferChecked {
		return invalid("Transfer instruction must use discriminator 0x%02x (transfer-checked)", x402.DiscriminatorTransferChecked)
	}
	if len(transfer.Accounts) != 4 {
		return invalid("Transfer instruction must reference exactly 4 accounts, got %d", len(transfer.Accounts))
	}

	amount := binary.LittleEndian.Uint64(transfer.Data[1:9])
	decimals := transfer.Data[9]

	required, err := strconv.ParseUint(requirement.MaxAmountRequired, 10, 64)
	if err != nil {
		return invalid("Requirement maxAmountRequired is not a valid amount")
	}
	if amount != required {
		return invalid("Amount %d does not match required %d", amount, required)
	}
	if decimals != v.TokenDecimals {
		return invalid("Transfer decimals %d does not match configured %d", decimals, v.TokenDecimals)
	}

	accountKeys := tx.AccountKeys()
	mintAccount := accountKeys[transfer.Accounts[1]]
	if mintAccount != requirement.Asset {
		return invalid("Transfer mint %s does not match required asset %s", mintAccount, requirement.Asset)
	}

	destAccount := accountKeys[transfer.Accounts[2]]
	expectedATA, err := deriveAssociatedTokenAddress(requirement.PayTo, requirement.Asset, transfer.ProgramID)
	if err != nil {
		return invalid("Could not derive destination ATA: %v", err)
	}
	if destAccount != expectedATA {
		return invalid("Destination %s is not the recipient's associated token account", destAccount)
	}

	// 4. Fee-payer isolation.
	if len(accountKeys) == 0 || accountKeys[0] != requirement.Extra.FeePayer {
		return invalid("Fee payer must be accountKeys[0]")
	}
	feePayerIndex := 0
	for i := 0; i < 3; i++ {
		for _, idx := range instructions[i].Accounts {
			if idx == feePayerIndex {
				return invalid("Fee payer must not be in instruction accounts")
			}
		}
	}

	// 5. No additional signers.
	if tx.NumRequiredSignatures() != 2 {
		return invalid("Expected exactly 2 required signatures, got %d", tx.NumRequiredSignatures())
	}
	if transfer.Accounts[3] != 1 {
		return invalid("Transfer authority must be the second account key")
	}

	return x402.VerifyResult{IsValid: true}
}

func invalid(format string, args ...any) x402.VerifyResult {
	return x402.VerifyResult{IsValid: false, InvalidReason: fmt.Sprintf(format, args...)}
}

// deriveAssociatedTokenAddress computes the ATA for (owner, mint) under
// tokenProgramID, per §4.2's findProgramAddress(seeds=[owner, tokenProgram,
// mint], program=ATA_PROGRAM).
func deriveAssociatedTokenAddress(owner, mint, tokenProgramID string) (string, error) {
	ownerKey, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return "", fmt.Errorf("invalid owner address: %w", err)
	}
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return "", fmt.Errorf("invalid mint address: %w", err)
	}
	tokenProgramKey, err := solana.PublicKeyFromBase58(tokenProgramID)
	if err != nil {
		return "", fmt.Errorf("invalid token program address: %w", err)
	}
	ataProgramKey, err := solana.PublicKeyFromBase58(x402.AssociatedTokenProgramID)
	if err != nil {
		return "", fmt.Errorf("invalid associated-token program address: %w", err)
	}

	seeds := [][]byte{ownerKey.Bytes(), tokenProgramKey.Bytes(), mintKey.Bytes()}
	ata, _, err := solana.FindProgramAddress(seeds, ataProgramKey)
	if err != nil {
		return "", err
	}
	return ata.String(), nil
}
