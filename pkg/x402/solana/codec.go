package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/cedros-labs/x402-facilitator/internal/apierrors"
	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

// Transaction wraps a decoded Solana transaction envelope, exposing just
// the surface the Verifier and Settler need: account keys, instructions,
// and the canonical message bytes a signature is computed over. Legacy
// and versioned (v0) wire formats are both handled by the underlying
// solana-go decoder/encoder — this type never re-derives shortvec framing
// itself, so round-tripping stays byte-identical apart from the signature
// slot the Settler writes.
type Transaction struct {
	tx *solana.Transaction
}

// Instruction is the decoded form of one compiled instruction.
type Instruction struct {
	ProgramID string
	Accounts  []int
	Data      []byte
}

// DecodeTransaction parses a base64-encoded envelope into a Transaction.
func DecodeTransaction(base64Payload string) (*Transaction, error) {
	tx, err := solana.TransactionFromBase64(base64Payload)
	if err != nil {
		return nil, x402.NewVerificationError(apierrors.MalformedTransaction, fmt.Errorf("decode transaction: %w", err))
	}
	if int(tx.Message.Header.NumRequiredSignatures) != len(tx.Signatures) {
		return nil, x402.NewVerificationError(apierrors.MalformedTransaction,
			fmt.Errorf("signature count %d disagrees with header %d", len(tx.Signatures), tx.Message.Header.NumRequiredSignatures))
	}
	numKeys := len(tx.Message.AccountKeys)
	for _, inst := range tx.Message.Instructions {
		if int(inst.ProgramIDIndex) >= numKeys {
			return nil, x402.NewVerificationError(apierrors.MalformedTransaction, fmt.Errorf("program id index %d out of bounds", inst.ProgramIDIndex))
		}
		for _, acc := range inst.Accounts {
			if int(acc) >= numKeys {
				return nil, x402.NewVerificationError(apierrors.MalformedTransaction, fmt.Errorf("account index %d out of bounds", acc))
			}
		}
	}

	return &Transaction{tx: tx}, nil
}

// NumRequiredSignatures returns the header's signer count.
func (t *Transaction) NumRequiredSignatures() int {
	return int(t.tx.Message.Header.NumRequiredSignatures)
}

// AccountKeys returns every account key, base58-encoded, in wire order.
func (t *Transaction) AccountKeys() []string {
	keys := make([]string, len(t.tx.Message.AccountKeys))
	for i, k := range t.tx.Message.AccountKeys {
		keys[i] = k.String()
	}
	return keys
}

// Instructions returns the decoded instruction list, in wire order.
func (t *Transaction) Instructions() []Instruction {
	out := make([]Instruction, len(t.tx.Message.Instructions))
	keys := t.tx.Message.AccountKeys
	for i, inst := range t.tx.Message.Instructions {
		accounts := make([]int, len(inst.Accounts))
		for j, a := range inst.Accounts {
			accounts[j] = int(a)
		}
		out[i] = Instruction{
			ProgramID: keys[inst.ProgramIDIndex].String(),
			Accounts:  accounts,
			Data:      []byte(inst.Data),
		}
	}
	return out
}

// MessageBytes returns the canonical serialized message — everything
// after the signatures array — the exact bytes an Ed25519 signature is
// computed over, for legacy and versioned transactions alike.
func (t *Transaction) MessageBytes() ([]byte, error) {
	return t.tx.Message.MarshalBinary()
}

// ReplaceSignature overwrites the signature at index idx, leaving every
// other signature slot (notably the sender's) untouched.
func (t *Transaction) ReplaceSignature(idx int, sig [64]byte) error {
	if idx < 0 || idx >= len(t.tx.Signatures) {
		return fmt.Errorf("solana: signature index %d out of range (have %d)", idx, len(t.tx.Signatures))
	}
	t.tx.Signatures[idx] = solana.Signature(sig)
	return nil
}

// Encode re-serializes the transaction. Per §4.1, this must be
// byte-identical to the decoded input apart from any signature slots
// ReplaceSignature touched — solana-go's encoder preserves wire order and
// never canonicalizes or reorders.
func (t *Transaction) Encode() ([]byte, error) {
	return t.tx.MarshalBinary()
}

// Base64 returns the base64 encoding of Encode's output, the form
// sendRawTransaction and X-PAYMENT-RESPONSE both expect.
func (t *Transaction) Base64() (string, error) {
	return t.tx.ToBase64()
}
