package http

import (
	"encoding/json"
	"net/http"

	"github.com/canteenlab/kiosk-api/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeUnauthenticated     = "unauthenticated"
	codeForbidden           = "forbidden"
	codeInvalidCart         = "invalid_cart"
	codeEmptyOrder          = "empty_order"
	codeNoUnpaidOrders      = "no_unpaid_orders"
	codeAccountFrozen       = "account_frozen"
	codeInsufficientBalance = "insufficient_balance"
	codeAccountNotFound     = "account_not_found"
	codeOrderNotFound       = "order_not_found"
	codeMenuItemNotFound    = "menu_item_not_found"
	codeFeedbackNotFound    = "feedback_not_found"
	codeInvalidAmount       = "invalid_amount"
	codeInvalidQuantity     = "invalid_quantity"
	codeInvalidID           = "invalid_id"
	codeAlreadyVoted        = "already_voted"
	codeNameRequired        = "name_required"
	codeMessageRequired     = "message_required"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps domain errors onto HTTP statuses. Anything unknown
// is a storage-layer fault and surfaces as a retryable internal error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidCart:
		writeError(w, http.StatusBadRequest, codeInvalidCart, err.Error())
	case domain.ErrInvalidQuantity:
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case domain.ErrInvalidAmount:
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrNameRequired:
		writeError(w, http.StatusBadRequest, codeNameRequired, err.Error())
	case domain.ErrMessageRequired:
		writeError(w, http.StatusBadRequest, codeMessageRequired, err.Error())
	case domain.ErrEmptyOrder:
		writeError(w, http.StatusUnprocessableEntity, codeEmptyOrder, err.Error())
	case domain.ErrNoUnpaidOrders:
		writeError(w, http.StatusConflict, codeNoUnpaidOrders, err.Error())
	case domain.ErrAccountFrozen:
		writeError(w, http.StatusConflict, codeAccountFrozen, err.Error())
	case domain.ErrInsufficientBalance:
		writeError(w, http.StatusConflict, codeInsufficientBalance, err.Error())
	case domain.ErrAlreadyVoted:
		writeError(w, http.StatusConflict, codeAlreadyVoted, err.Error())
	case domain.ErrAccountNotFound:
		writeError(w, http.StatusNotFound, codeAccountNotFound, err.Error())
	case domain.ErrOrderNotFound:
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case domain.ErrMenuItemNotFound:
		writeError(w, http.StatusNotFound, codeMenuItemNotFound, err.Error())
	case domain.ErrFeedbackNotFound:
		writeError(w, http.StatusNotFound, codeFeedbackNotFound, err.Error())
	case domain.ErrForbidden:
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
