package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/canteenlab/kiosk-api/internal/app"
)

// Settler is the minimal interface needed to trigger settlement.
type Settler interface {
	Settle(ctx context.Context, accountID string) (app.SettleResult, error)
}

// HandleSettle serves POST /payments: it settles every unpaid order of the
// calling account in one atomic debit.
func HandleSettle(svc Settler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		res, err := svc.Settle(r.Context(), actor.AccountID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(settleResponse{
			TotalCharged:  res.TotalCharged,
			OrdersSettled: res.OrdersSettled,
		})
	}
}

type settleResponse struct {
	TotalCharged  int64 `json:"total_charged"`
	OrdersSettled int   `json:"orders_settled"`
}
