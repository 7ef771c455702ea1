package solana

import (
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestParsePrivateKey_Valid(t *testing.T) {
	testKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate test key: %v", err)
	}

	parsed, err := ParsePrivateKey(testKey.String())
	if err != nil {
		t.Fatalf("ParsePrivateKey() error = %v", err)
	}
	if !parsed.PublicKey().Equals(testKey.PublicKey()) {
		t.Errorf("ParsePrivateKey() public key = %s, want %s", parsed.PublicKey(), testKey.PublicKey())
	}
}

func TestParsePrivateKey_InvalidBase58(t *testing.T) {
	if _, err := ParsePrivateKey("not valid base58 !!!"); err == nil {
		t.Fatal("ParsePrivateKey() on garbage input = nil error, want error")
	}
}

func TestParsePrivateKey_WrongLength(t *testing.T) {
	// A well-formed base58 string that decodes to the wrong byte length.
	short := solana.PublicKey{}.String()
	if _, err := ParsePrivateKey(short); err == nil {
		t.Fatal("ParsePrivateKey() with a 32-byte key = nil error, want error")
	}
}
