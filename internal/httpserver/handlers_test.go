package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cedros-labs/x402-facilitator/internal/config"
	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

const testFeePayer = "11111111111111111111111111111111"
const testAsset = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

type stubVerifier struct {
	result x402.VerifyResult
}

func (s stubVerifier) Verify(string, x402.PaymentRequirement) x402.VerifyResult { return s.result }

type stubSettler struct {
	result x402.SettleResult
}

func (s stubSettler) Settle(context.Context, string, x402.PaymentRequirement) x402.SettleResult {
	return s.result
}

func newTestHandlers(verifier x402.Verifier, settler x402.Settler) handlers {
	cfg := &config.Config{X402: config.X402Config{
		TokenMint:             testAsset,
		TokenDecimals:         6,
		DefaultTimeoutSeconds: 60,
	}}
	return newHandlers(cfg, verifier, settler, testFeePayer, nil, zerolog.Nop())
}

func TestHandlers_Supported(t *testing.T) {
	h := newTestHandlers(stubVerifier{}, stubSettler{})
	req := httptest.NewRequest(http.MethodGet, "/v1/x402/supported", nil)
	rec := httptest.NewRecorder()

	h.supported(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body x402.SupportedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Kinds) != 1 || body.Kinds[0].Scheme != x402.Scheme || body.Kinds[0].Network != x402.Network {
		t.Errorf("Kinds = %+v, want exactly [{%s %s}]", body.Kinds, x402.Scheme, x402.Network)
	}
}

func TestHandlers_FeePayer(t *testing.T) {
	h := newTestHandlers(stubVerifier{}, stubSettler{})
	req := httptest.NewRequest(http.MethodGet, "/v1/x402/fee-payer", nil)
	rec := httptest.NewRecorder()

	h.feePayer(rec, req)

	var body x402.FeePayerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.FeePayer != testFeePayer {
		t.Errorf("FeePayer = %q, want %q", body.FeePayer, testFeePayer)
	}
}

func TestHandlers_Requirements(t *testing.T) {
	h := newTestHandlers(stubVerifier{}, stubSettler{})
	body := `{"price":"$1.00","payTo":"` + testFeePayer + `","resource":"/r"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/x402/requirements", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.requirements(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var parsed x402.RequirementsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(parsed.PaymentRequired.Accepts) != 1 {
		t.Fatalf("Accepts = %v, want exactly one requirement", parsed.PaymentRequired.Accepts)
	}
	if got := parsed.PaymentRequired.Accepts[0].MaxAmountRequired; got != "1000000" {
		t.Errorf("MaxAmountRequired = %q, want %q", got, "1000000")
	}
}

func TestHandlers_Requirements_MissingFields(t *testing.T) {
	h := newTestHandlers(stubVerifier{}, stubSettler{})
	req := httptest.NewRequest(http.MethodPost, "/v1/x402/requirements", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.requirements(rec, req)

	if rec.Code == http.StatusOK {
		t.Fatal("requirements() with an empty body = 200, want an error status")
	}
}

func TestHandlers_Requirements_MalformedJSON(t *testing.T) {
	h := newTestHandlers(stubVerifier{}, stubSettler{})
	req := httptest.NewRequest(http.MethodPost, "/v1/x402/requirements", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	h.requirements(rec, req)

	if rec.Code == http.StatusOK {
		t.Fatal("requirements() with malformed JSON = 200, want an error status")
	}
}

func TestHandlers_Verify(t *testing.T) {
	h := newTestHandlers(stubVerifier{result: x402.VerifyResult{IsValid: true}}, stubSettler{})
	req := httptest.NewRequest(http.MethodPost, "/v1/x402/verify", strings.NewReader(`{"paymentHeader":"abc","paymentRequirements":{}}`))
	rec := httptest.NewRecorder()

	h.verify(rec, req)

	var result x402.VerifyResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.IsValid {
		t.Error("verify() did not relay the verifier's IsValid=true result")
	}
}

func TestHandlers_Settle(t *testing.T) {
	h := newTestHandlers(stubVerifier{}, stubSettler{result: x402.SettleResult{Success: true, TxHash: "abc123"}})
	req := httptest.NewRequest(http.MethodPost, "/v1/x402/settle", strings.NewReader(`{"paymentHeader":"abc","paymentRequirements":{}}`))
	rec := httptest.NewRecorder()

	h.settle(rec, req)

	var result x402.SettleResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Success || result.TxHash != "abc123" {
		t.Errorf("settle() result = %+v, want a relayed success with txHash abc123", result)
	}
}

func TestHandlers_DemoProtected_RequiresPayment(t *testing.T) {
	h := newTestHandlers(stubVerifier{}, stubSettler{})
	req := httptest.NewRequest(http.MethodGet, demoResource, nil)
	rec := httptest.NewRecorder()

	h.demoProtected(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusPaymentRequired)
	}
	var challenge x402.PaymentRequiredResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &challenge); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(challenge.Accepts) != 1 {
		t.Fatalf("Accepts = %v, want exactly one requirement", challenge.Accepts)
	}
}

func TestHandlers_DemoProtected_SettlesWithPayment(t *testing.T) {
	h := newTestHandlers(stubVerifier{}, stubSettler{result: x402.SettleResult{Success: true, TxHash: "sig123"}})
	req := httptest.NewRequest(http.MethodGet, demoResource, nil)
	req.Header.Set("X-PAYMENT", "opaque-base64-payload")
	rec := httptest.NewRecorder()

	h.demoProtected(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if rec.Header().Get("X-PAYMENT-RESPONSE") == "" {
		t.Error("demoProtected() success response is missing X-PAYMENT-RESPONSE header")
	}
}

func TestHandlers_DemoProtected_RelaysSettlementFailure(t *testing.T) {
	h := newTestHandlers(stubVerifier{}, stubSettler{result: x402.SettleResult{Success: false, Error: "insufficient funds"}})
	req := httptest.NewRequest(http.MethodGet, demoResource, nil)
	req.Header.Set("X-PAYMENT", "opaque-base64-payload")
	rec := httptest.NewRecorder()

	h.demoProtected(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusPaymentRequired)
	}
}
