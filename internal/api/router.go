// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"momo-ledger/internal/api/handler"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Users    *handler.UserHandler
	Ledger   *handler.LedgerHandler
	Requests *handler.RequestHandler
	Admin    *handler.AdminHandler
}

// NewRouter sets up and returns a new HTTP router. A zero timeout means handler.DefaultTimeout.
func NewRouter(h Handlers, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		timeout = handler.DefaultTimeout
	}
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post("/create_user", h.Users.CreateUser)

	r.Post("/add_income", h.Ledger.AddIncome)
	r.Post("/add_expense", h.Ledger.AddExpense)
	r.Get("/get_balance/{phone_number}", h.Ledger.GetBalance)
	r.Get("/pending_deposits/{phone_number}", h.Ledger.ListPendingDeposits)

	r.Post("/request_deposit", h.Requests.RequestDeposit)
	r.Post("/request_withdraw", h.Requests.RequestWithdraw)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/deposits", h.Admin.ListDeposits)
		r.Get("/withdraws", h.Admin.ListWithdraws)
		r.Post("/approve_deposit/{id}", h.Admin.ApproveDeposit)
		r.Post("/reject_deposit/{id}", h.Admin.RejectDeposit)
		r.Post("/approve_withdraw/{id}", h.Admin.ApproveWithdraw)
		r.Post("/reject_withdraw/{id}", h.Admin.RejectWithdraw)
	})

	return r
}
