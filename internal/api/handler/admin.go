// internal/api/handler/admin.go
package handler

import (
	"log/slog"
	"net/http"

	"momo-ledger/internal/api/types"
	"momo-ledger/internal/domain"
	"momo-ledger/internal/service"
)

// AdminHandler handles the review of deposit and withdraw requests.
type AdminHandler struct {
	responder
	service service.RequestService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc service.RequestService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{responder: responder{logger: logger}, service: svc}
}

// statusFilter reads the optional ?status= query parameter.
func statusFilter(r *http.Request) (*domain.RequestStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	status, err := domain.ParseRequestStatus(raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ListDeposits lists deposit requests, newest first.
// GET /admin/deposits
func (h *AdminHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	status, err := statusFilter(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	requests, err := h.service.ListDeposits(r.Context(), status)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(requests))
}

// ListWithdraws lists withdraw requests with their owner, newest first.
// GET /admin/withdraws
func (h *AdminHandler) ListWithdraws(w http.ResponseWriter, r *http.Request) {
	status, err := statusFilter(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	requests, err := h.service.ListWithdraws(r.Context(), status)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(requests))
}

// ApproveDeposit credits the deposit, or buffers it for an unregistered phone number.
// POST /admin/approve_deposit/{id}
func (h *AdminHandler) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	approval, err := h.service.ApproveDeposit(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	body := map[string]interface{}{
		"message": "Dépôt approuvé",
		"request": approval.Request,
	}
	if approval.Pending != nil {
		body["pending_deposit"] = approval.Pending
	} else {
		body["transaction"] = approval.Transaction
	}
	h.respondWithJSON(w, http.StatusOK, body)
}

// RejectDeposit closes a deposit request without ledger effect.
// POST /admin/reject_deposit/{id}
func (h *AdminHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	request, err := h.service.RejectDeposit(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Dépôt rejeté",
		"request": request,
	})
}

// ApproveWithdraw debits the user's balance.
// POST /admin/approve_withdraw/{id}
func (h *AdminHandler) ApproveWithdraw(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	approval, err := h.service.ApproveWithdraw(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Retrait approuvé",
		"request":     approval.Request,
		"transaction": approval.Transaction,
	})
}

// RejectWithdraw closes a withdraw request without ledger effect.
// POST /admin/reject_withdraw/{id}
func (h *AdminHandler) RejectWithdraw(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	request, err := h.service.RejectWithdraw(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Retrait rejeté",
		"request": request,
	})
}
