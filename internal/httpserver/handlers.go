package httpserver

import (
	"net/http"

	"github.com/cedros-labs/x402-facilitator/internal/apierrors"
	"github.com/cedros-labs/x402-facilitator/pkg/x402"
)

// supported handles GET /v1/x402/supported.
func (h handlers) supported(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteJSON(w, http.StatusOK, x402.SupportedResponse{
		Kinds: []x402.SupportedKind{{Scheme: x402.Scheme, Network: x402.Network}},
	})
}

// feePayer handles GET /v1/x402/fee-payer.
func (h handlers) feePayer(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteJSON(w, http.StatusOK, x402.FeePayerResponse{
		FeePayer: h.feePayerAddr,
		Network:  x402.Network,
	})
}

// requirements handles POST /v1/x402/requirements.
func (h handlers) requirements(w http.ResponseWriter, r *http.Request) {
	var req x402.RequirementsRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.MalformedTransaction, "invalid request body: "+err.Error())
		return
	}

	requirement, err := h.builder.Build(req)
	if err != nil {
		apierrors.WriteSimpleError(w, apierrors.PolicyViolation, err.Error())
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, x402.RequirementsResponse{
		PaymentRequired: x402.PaymentRequiredResponse{
			X402Version: x402.Version,
			Accepts:     []x402.PaymentRequirement{requirement},
			Error:       "",
		},
	})
}

// verify handles POST /v1/x402/verify.
func (h handlers) verify(w http.ResponseWriter, r *http.Request) {
	var req x402.VerifyRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.MalformedTransaction, "invalid request body: "+err.Error())
		return
	}

	result := h.verifier.Verify(req.PaymentHeader, req.PaymentRequirements)
	apierrors.WriteJSON(w, http.StatusOK, result)
}

// settle handles POST /v1/x402/settle.
func (h handlers) settle(w http.ResponseWriter, r *http.Request) {
	var req x402.VerifyRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.MalformedTransaction, "invalid request body: "+err.Error())
		return
	}

	result := h.settler.Settle(r.Context(), req.PaymentHeader, req.PaymentRequirements)
	apierrors.WriteJSON(w, http.StatusOK, result)
}
