package solana

import (
	"bytes"
	"testing"
)

func TestDecodeTransaction_RoundTrip(t *testing.T) {
	fixture := newValidTxFixture(t)
	payload := fixture.base64(t)

	tx, err := DecodeTransaction(payload)
	if err != nil {
		t.Fatalf("DecodeTransaction() error = %v", err)
	}

	if got, want := tx.NumRequiredSignatures(), 2; got != want {
		t.Errorf("NumRequiredSignatures() = %d, want %d", got, want)
	}
	if got, want := len(tx.Instructions()), 3; got != want {
		t.Errorf("len(Instructions()) = %d, want %d", got, want)
	}

	reencoded, err := tx.Base64()
	if err != nil {
		t.Fatalf("Base64() error = %v", err)
	}
	if reencoded != payload {
		t.Errorf("round-trip changed the encoding:\n  got  %s\n  want %s", reencoded, payload)
	}
}

func TestDecodeTransaction_Malformed(t *testing.T) {
	if _, err := DecodeTransaction("!!!not-base64!!!"); err == nil {
		t.Fatal("DecodeTransaction() on invalid base64 = nil error, want error")
	}
}

func TestTransaction_ReplaceSignature(t *testing.T) {
	fixture := newValidTxFixture(t)
	tx, err := DecodeTransaction(fixture.base64(t))
	if err != nil {
		t.Fatalf("DecodeTransaction() error = %v", err)
	}

	messageBytes, err := tx.MessageBytes()
	if err != nil {
		t.Fatalf("MessageBytes() error = %v", err)
	}
	sig, err := fixture.feePayer.Sign(messageBytes)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if err := tx.ReplaceSignature(0, sig); err != nil {
		t.Fatalf("ReplaceSignature() error = %v", err)
	}

	raw, err := tx.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Contains(raw, sig[:]) {
		t.Error("encoded transaction does not contain the replaced signature")
	}
}

func TestTransaction_ReplaceSignature_OutOfRange(t *testing.T) {
	fixture := newValidTxFixture(t)
	tx, err := DecodeTransaction(fixture.base64(t))
	if err != nil {
		t.Fatalf("DecodeTransaction() error = %v", err)
	}

	var sig [64]byte
	if err := tx.ReplaceSignature(99, sig); err == nil {
		t.Fatal("ReplaceSignature() with out-of-range index = nil error, want error")
	}
}
