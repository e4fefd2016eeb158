// internal/api/handler/request.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"momo-ledger/internal/service"
)

// RequestHandler handles deposit and withdraw requests submitted by users.
type RequestHandler struct {
	responder
	identity service.IdentityService
	requests service.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(identity service.IdentityService, requests service.RequestService, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{responder: responder{logger: logger}, identity: identity, requests: requests}
}

// SubmitRequest represents the request body for request_deposit and request_withdraw.
type SubmitRequest struct {
	PhoneNumber      string          `json:"phone_number"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionProof string          `json:"transaction_proof"`
}

// RequestDeposit submits a deposit claim for admin review.
// POST /request_deposit
func (h *RequestHandler) RequestDeposit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	request, err := h.requests.SubmitDeposit(r.Context(), req.PhoneNumber, req.Amount, req.TransactionProof)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Demande de dépôt enregistrée",
		"request": request,
	})
}

// RequestWithdraw submits a withdraw request for admin review.
// POST /request_withdraw
func (h *RequestHandler) RequestWithdraw(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.identity.Lookup(r.Context(), req.PhoneNumber)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	request, err := h.requests.SubmitWithdraw(r.Context(), user.ID, req.Amount, req.TransactionProof)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Demande de retrait enregistrée",
		"request": request,
	})
}
