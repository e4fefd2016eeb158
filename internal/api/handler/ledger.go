// internal/api/handler/ledger.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"momo-ledger/internal/api/types"
	"momo-ledger/internal/domain"
	"momo-ledger/internal/service"
)

// LedgerHandler handles income, expense and balance requests.
type LedgerHandler struct {
	responder
	service service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{responder: responder{logger: logger}, service: svc}
}

// IncomeRequest represents the request body for add_income.
type IncomeRequest struct {
	PhoneNumber string          `json:"phone_number"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	Note        string          `json:"note"`
	Date        string          `json:"date"`
}

// ExpenseRequest represents the request body for add_expense.
type ExpenseRequest struct {
	PhoneNumber string          `json:"phone_number"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Note        string          `json:"note"`
	Date        string          `json:"date"`
}

// AddIncome records income, or buffers it if the phone number has no account yet.
// POST /add_income
func (h *LedgerHandler) AddIncome(w http.ResponseWriter, r *http.Request) {
	var req IncomeRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	occurredAt, err := domain.ParseOccurredAt(req.Date)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	result, err := h.service.AddIncome(r.Context(), req.PhoneNumber, domain.Entry{
		Amount:     req.Amount,
		Category:   req.Source,
		Note:       req.Note,
		OccurredAt: occurredAt,
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	if result.Pending != nil {
		h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message":         "Numéro non enregistré: revenu mis en attente",
			"pending":         true,
			"pending_deposit": result.Pending,
		})
		return
	}
	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Revenu enregistré",
		"pending":     false,
		"transaction": result.Transaction,
	})
}

// AddExpense records an expense for a registered phone number.
// POST /add_expense
func (h *LedgerHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	occurredAt, err := domain.ParseOccurredAt(req.Date)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	transaction, err := h.service.AddExpense(r.Context(), req.PhoneNumber, domain.Entry{
		Amount:     req.Amount,
		Category:   req.Category,
		Note:       req.Note,
		OccurredAt: occurredAt,
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Dépense enregistrée",
		"transaction": transaction,
	})
}

// GetBalance returns the balance and full history of a user.
// GET /get_balance/{phone_number}
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	statement, err := h.service.Statement(r.Context(), phoneParam(r))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	transactions := statement.Transactions
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"phone_number": statement.User.PhoneNumber,
		"name":         statement.User.Name,
		"balance":      statement.Balance,
		"transactions": transactions,
	})
}

// ListPendingDeposits returns the buffered income for a phone number.
// GET /pending_deposits/{phone_number}
func (h *LedgerHandler) ListPendingDeposits(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.service.PendingDeposits(r.Context(), phoneParam(r))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(deposits))
}
