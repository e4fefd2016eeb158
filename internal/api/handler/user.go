// internal/api/handler/user.go
package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"momo-ledger/internal/service"
)

// UserHandler handles account registration.
type UserHandler struct {
	responder
	service service.IdentityService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.IdentityService, logger *slog.Logger) *UserHandler {
	return &UserHandler{responder: responder{logger: logger}, service: svc}
}

// CreateUserRequest represents the request body for registration.
type CreateUserRequest struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

// CreateUser registers a phone number and credits its pending deposits.
// POST /create_user
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	registration, err := h.service.Register(r.Context(), req.PhoneNumber, req.Name)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Utilisateur créé avec succès. %d dépôt(s) en attente ont été crédités",
			registration.DrainedCount()),
		"user":                      registration.User,
		"credited_pending_deposits": registration.DrainedCount(),
	})
}
