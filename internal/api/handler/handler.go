// internal/api/handler/handler.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"momo-ledger/internal/api/types"
	"momo-ledger/internal/util"
)

// DefaultTimeout bounds the time a single request may spend in a handler.
const DefaultTimeout = 60 * time.Second

// Amounts are written as JSON numbers, not strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// responder holds the JSON helpers shared by all handlers.
type responder struct {
	logger *slog.Logger
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrValidation),
		util.IsError(err, util.ErrDuplicatePhone),
		util.IsError(err, util.ErrInsufficientBalance):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = err.Error()
	case util.IsError(err, util.ErrConflict):
		statusCode = http.StatusConflict
		message = err.Error()
	default:
		h.logger.Error("Unhandled service error", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message, Code: util.ErrorCode(err)})
}

// decode reads a JSON body into dst. Malformed bodies are reported as invalid input.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return util.ErrInvalidInput
	}
	return nil
}

func requestID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// phoneParam returns the {phone_number} path segment; a percent-encoded '+' is accepted.
func phoneParam(r *http.Request) string {
	raw := chi.URLParam(r, "phone_number")
	if phone, err := url.PathUnescape(raw); err == nil {
		return phone
	}
	return raw
}
