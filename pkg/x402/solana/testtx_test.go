package solana

import (
	"testing"

	gosolana "github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

// validTxFixture bundles a fully-formed, facilitator-ready transaction
// with the parties and requirement it satisfies, for tests that need a
// baseline to mutate.
type validTxFixture struct {
	payer, feePayer gosolana.PrivateKey
	mint, payTo     gosolana.PublicKey
	requirement     x402.PaymentRequirement
	tx              *gosolana.Transaction
}

const testTokenDecimals = 6
const testComputeUnitLimit = 200_000
const testComputeUnitPrice = 1
const testAmount = 10_000

func newValidTxFixture(t *testing.T) validTxFixture {
	t.Helper()

	payer, err := gosolana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate payer key: %v", err)
	}
	feePayer, err := gosolana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate fee-payer key: %v", err)
	}
	mintKP, err := gosolana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate mint key: %v", err)
	}
	payToKP, err := gosolana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate payTo key: %v", err)
	}
	mint := mintKP.PublicKey()
	payTo := payToKP.PublicKey()

	sourceATA, _, err := gosolana.FindAssociatedTokenAddress(payer.PublicKey(), mint)
	if err != nil {
		t.Fatalf("derive source ATA: %v", err)
	}
	destATA, _, err := gosolana.FindAssociatedTokenAddress(payTo, mint)
	if err != nil {
		t.Fatalf("derive dest ATA: %v", err)
	}

	requirement := x402.PaymentRequirement{
		Scheme:            x402.Scheme,
		Network:           x402.Network,
		MaxAmountRequired: "10000",
		Asset:             mint.String(),
		PayTo:             payTo.String(),
		Resource:          "/v1/x402/demo/protected",
		MaxTimeoutSeconds: 60,
		Extra:             x402.RequirementExtra{FeePayer: feePayer.PublicKey().String()},
	}

	instructions := []gosolana.Instruction{
		computebudget.NewSetComputeUnitLimitInstruction(testComputeUnitLimit).Build(),
		computebudget.NewSetComputeUnitPriceInstruction(testComputeUnitPrice).Build(),
		token.NewTransferCheckedInstruction(
			testAmount,
			testTokenDecimals,
			sourceATA,
			mint,
			destATA,
			payer.PublicKey(),
			nil,
		).Build(),
	}

	tx, err := gosolana.NewTransaction(instructions, gosolana.Hash{1, 2, 3}, gosolana.TransactionPayer(feePayer.PublicKey()))
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}

	if _, err := tx.PartialSign(func(key gosolana.PublicKey) *gosolana.PrivateKey {
		if key.Equals(payer.PublicKey()) {
			return &payer
		}
		return nil
	}); err != nil {
		t.Fatalf("partial sign: %v", err)
	}

	return validTxFixture{
		payer:       payer,
		feePayer:    feePayer,
		mint:        mint,
		payTo:       payTo,
		requirement: requirement,
		tx:          tx,
	}
}

func (f validTxFixture) base64(t *testing.T) string {
	t.Helper()
	encoded, err := f.tx.ToBase64()
	if err != nil {
		t.Fatalf("encode fixture transaction: %v", err)
	}
	return encoded
}
