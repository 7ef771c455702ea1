package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/cedros-labs/x402-facilitator/internal/apierrors"
	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

const demoResource = "/v1/x402/demo/protected"

// demoProtected implements the demo protected resource from §6: a 402
// challenge without X-PAYMENT, verify+settle with it.
func (h handlers) demoProtected(w http.ResponseWriter, r *http.Request) {
	requirement, err := h.builder.Build(x402.RequirementsRequest{
		Price:       "$0.01",
		PayTo:       h.feePayerAddr,
		Resource:    demoResource,
		Description: "Demo protected resource",
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	paymentHeader := r.Header.Get("X-PAYMENT")
	if paymentHeader == "" {
		apierrors.WriteJSON(w, http.StatusPaymentRequired, x402.PaymentRequiredResponse{
			X402Version: x402.Version,
			Accepts:     []x402.PaymentRequirement{requirement},
			Error:       "X-PAYMENT header is required",
		})
		return
	}

	result := h.settler.Settle(r.Context(), paymentHeader, requirement)
	if !result.Success {
		apierrors.WriteJSON(w, http.StatusPaymentRequired, x402.PaymentRequiredResponse{
			X402Version: x402.Version,
			Accepts:     []x402.PaymentRequirement{requirement},
			Error:       result.Error,
		})
		return
	}

	encodedResult, err := json.Marshal(result)
	if err == nil {
		w.Header().Set("X-PAYMENT-RESPONSE", base64.StdEncoding.EncodeToString(encodedResult))
	}

	apierrors.WriteJSON(w, http.StatusOK, struct {
		Message    string `json:"message"`
		SecretData string `json:"secretData"`
		TxHash     string `json:"txHash"`
	}{
		Message:    "Payment verified — here is the protected resource.",
		SecretData: "the-facilitator-kept-its-promise",
		TxHash:     result.TxHash,
	})
}
