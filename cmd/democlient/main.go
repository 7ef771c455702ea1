// Command democlient is a reference x402 payer: it fetches a
// PaymentRequirement from a running facilitator, builds and signs a
// satisfying transaction client-side, and submits it for verification
// and settlement — the "external collaborator" spec.md describes but
// does not itself implement.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

func main() {
	var (
		serverURL        = flag.String("server", "http://localhost:8402", "facilitator base URL")
		rpcURL           = flag.String("rpc", "https://api.devnet.solana.com", "Solana RPC endpoint")
		keypairPath      = flag.String("keypair", "", "path to Solana keypair (JSON produced by solana-keygen)")
		resource         = flag.String("resource", "/v1/x402/demo/protected", "resource path to request a price for")
		price            = flag.String("price", "0.01", "price in major units, e.g. 0.01")
		mode             = flag.String("mode", "settle", "verify or settle")
		tokenDecimals    = flag.Uint64("token-decimals", 6, "decimals of the payment asset, must match the facilitator's configured mint")
		computeUnitLimit = flag.Uint64("compute-unit-limit", 200_000, "compute unit limit to request")
		computeUnitPrice = flag.Uint64("compute-unit-price", 1, "compute unit price in micro-lamports")
	)
	flag.Parse()

	if *keypairPath == "" {
		log.Fatal("keypair flag is required")
	}

	payerKey, err := solana.PrivateKeyFromSolanaKeygenFile(*keypairPath)
	if err != nil {
		log.Fatalf("load keypair: %v", err)
	}
	payerPub := payerKey.PublicKey()

	baseURL := strings.TrimRight(*serverURL, "/")

	requirement, err := fetchRequirement(baseURL, *price, payerPub.String(), *resource)
	if err != nil {
		log.Fatalf("fetch requirement: %v", err)
	}

	mintKey, err := solana.PublicKeyFromBase58(requirement.Asset)
	if err != nil {
		log.Fatalf("invalid asset mint %q: %v", requirement.Asset, err)
	}
	payToKey, err := solana.PublicKeyFromBase58(requirement.PayTo)
	if err != nil {
		log.Fatalf("invalid payTo %q: %v", requirement.PayTo, err)
	}
	feePayerKey, err := solana.PublicKeyFromBase58(requirement.Extra.FeePayer)
	if err != nil {
		log.Fatalf("invalid feePayer %q: %v", requirement.Extra.FeePayer, err)
	}

	sourceATA, _, err := solana.FindAssociatedTokenAddress(payerPub, mintKey)
	if err != nil {
		log.Fatalf("derive payer ATA: %v", err)
	}
	destATA, _, err := solana.FindAssociatedTokenAddress(payToKey, mintKey)
	if err != nil {
		log.Fatalf("derive recipient ATA: %v", err)
	}

	amount, err := strconv.ParseUint(requirement.MaxAmountRequired, 10, 64)
	if err != nil {
		log.Fatalf("parse maxAmountRequired %q: %v", requirement.MaxAmountRequired, err)
	}

	limitInst := computebudget.NewSetComputeUnitLimitInstruction(uint32(*computeUnitLimit)).Build()
	priceInst := computebudget.NewSetComputeUnitPriceInstruction(*computeUnitPrice).Build()
	transferInst := token.NewTransferCheckedInstruction(
		amount,
		uint8(*tokenDecimals),
		sourceATA,
		mintKey,
		destATA,
		payerPub,
		nil,
	).Build()

	rpcClient := rpc.New(*rpcURL)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	blockhash, err := rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		log.Fatalf("latest blockhash: %v", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{limitInst, priceInst, transferInst},
		blockhash.Value.Blockhash,
		solana.TransactionPayer(feePayerKey),
	)
	if err != nil {
		log.Fatalf("build transaction: %v", err)
	}

	// Only the payer's own signature slot is filled; the fee-payer slot
	// stays zero until the facilitator co-signs during settlement.
	if _, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payerPub) {
			return &payerKey
		}
		return nil
	}); err != nil {
		log.Fatalf("sign transaction: %v", err)
	}

	txB64, err := tx.ToBase64()
	if err != nil {
		log.Fatalf("encode transaction: %v", err)
	}

	path := "/v1/x402/settle"
	if *mode == "verify" {
		path = "/v1/x402/verify"
	}

	respBody, err := postJSON(baseURL+path, x402.VerifyRequest{
		PaymentHeader:       txB64,
		PaymentRequirements: requirement,
	})
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}

	fmt.Println(string(respBody))
}

func fetchRequirement(baseURL, price, payTo, resource string) (x402.PaymentRequirement, error) {
	respBody, err := postJSON(baseURL+"/v1/x402/requirements", x402.RequirementsRequest{
		Price:    "$" + price,
		PayTo:    payTo,
		Resource: resource,
	})
	if err != nil {
		return x402.PaymentRequirement{}, err
	}

	var parsed x402.RequirementsResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return x402.PaymentRequirement{}, fmt.Errorf("decode requirements response: %w", err)
	}
	if len(parsed.PaymentRequired.Accepts) == 0 {
		return x402.PaymentRequirement{}, fmt.Errorf("facilitator returned no accepted payment kinds: %s", parsed.PaymentRequired.Error)
	}

	return parsed.PaymentRequired.Accepts[0], nil
}

func postJSON(url string, body any) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
