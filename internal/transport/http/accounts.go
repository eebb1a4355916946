package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/canteenlab/kiosk-api/internal/app"
	"github.com/canteenlab/kiosk-api/internal/domain"
)

// AccountAdminService is the minimal interface for admin account endpoints.
type AccountAdminService interface {
	EnrollStudent(ctx context.Context, actor domain.Actor, in app.EnrollStudentInput) (domain.Account, error)
	TopUp(ctx context.Context, actor domain.Actor, in app.TopUpInput) (domain.Account, error)
	SetFrozen(ctx context.Context, actor domain.Actor, accountID string, frozen bool) error
	ListBalances(ctx context.Context, actor domain.Actor) ([]domain.Account, error)
}

// HandleAdminAccounts serves POST /admin/accounts (enrollment) and
// GET /admin/accounts (student balances).
func HandleAdminAccounts(svc AccountAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req enrollStudentRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			account, err := svc.EnrollStudent(r.Context(), actor, app.EnrollStudentInput{Name: req.Name})
			if err != nil {
				writeServiceError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newAccountResponse(account))
		case http.MethodGet:
			accounts, err := svc.ListBalances(r.Context(), actor)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			resp := make([]accountResponse, 0, len(accounts))
			for _, account := range accounts {
				resp = append(resp, newAccountResponse(account))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleAdminAccountActions serves POST /admin/accounts/{id}/topup and
// POST /admin/accounts/{id}/freeze.
func HandleAdminAccountActions(svc AccountAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		accountID, action, ok := parseAccountPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		switch action {
		case "topup":
			var req topUpRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			account, err := svc.TopUp(r.Context(), actor, app.TopUpInput{
				AccountID: accountID,
				Amount:    req.Amount,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newAccountResponse(account))
		case "freeze":
			var req freezeRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			if err := svc.SetFrozen(r.Context(), actor, accountID, req.Frozen); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

// LedgerReader is the minimal interface for the admin transaction view.
type LedgerReader interface {
	ListTransactions(ctx context.Context, actor domain.Actor) (app.LedgerSummary, error)
}

// HandleAdminTransactions serves GET /admin/transactions.
func HandleAdminTransactions(svc LedgerReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		summary, err := svc.ListTransactions(r.Context(), actor)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := ledgerResponse{
			TotalIn:  summary.TotalIn.StringFixed(2),
			TotalOut: summary.TotalOut.StringFixed(2),
			Records:  make([]transactionResponse, 0, len(summary.Records)),
		}
		for _, rec := range summary.Records {
			resp.Records = append(resp.Records, transactionResponse{
				ID:          rec.ID,
				AccountID:   rec.AccountID,
				Kind:        string(rec.Kind),
				Amount:      rec.Amount.StringFixed(2),
				Description: rec.Description,
				CreatedAt:   rec.CreatedAt,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func parseAccountPath(path string) (accountID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", "", false
	}
	if parts[0] != "admin" || parts[1] != "accounts" || parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}

type enrollStudentRequest struct {
	Name string `json:"name"`
}

type topUpRequest struct {
	Amount int64 `json:"amount"`
}

type freezeRequest struct {
	Frozen bool `json:"frozen"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Balance   int64     `json:"balance"`
	Frozen    bool      `json:"frozen"`
	CreatedAt time.Time `json:"created_at"`
}

func newAccountResponse(account domain.Account) accountResponse {
	return accountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Kind:      string(account.Kind),
		Balance:   account.Balance,
		Frozen:    account.Frozen,
		CreatedAt: account.CreatedAt,
	}
}

type transactionResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id,omitempty"`
	Kind        string    `json:"kind"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type ledgerResponse struct {
	TotalIn  string                `json:"total_in"`
	TotalOut string                `json:"total_out"`
	Records  []transactionResponse `json:"records"`
}
