package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canteenlab/kiosk-api/internal/app"
	"github.com/canteenlab/kiosk-api/internal/domain"
)

type stubSettler struct {
	res app.SettleResult
	err error

	gotAccountID string
}

func (s *stubSettler) Settle(_ context.Context, accountID string) (app.SettleResult, error) {
	s.gotAccountID = accountID
	return s.res, s.err
}

func TestHandleSettle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		method     string
		accountID  string
		svc        *stubSettler
		wantStatus int
		wantCode   string
	}{
		{
			name:       "settles the caller's unpaid orders",
			method:     http.MethodPost,
			accountID:  "acc-1",
			svc:        &stubSettler{res: app.SettleResult{TotalCharged: 6, OrdersSettled: 2}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing identity",
			method:     http.MethodPost,
			svc:        &stubSettler{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthenticated",
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			accountID:  "acc-1",
			svc:        &stubSettler{},
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "method_not_allowed",
		},
		{
			name:       "nothing to settle",
			method:     http.MethodPost,
			accountID:  "acc-1",
			svc:        &stubSettler{err: domain.ErrNoUnpaidOrders},
			wantStatus: http.StatusConflict,
			wantCode:   "no_unpaid_orders",
		},
		{
			name:       "frozen account",
			method:     http.MethodPost,
			accountID:  "acc-1",
			svc:        &stubSettler{err: domain.ErrAccountFrozen},
			wantStatus: http.StatusConflict,
			wantCode:   "account_frozen",
		},
		{
			name:       "insufficient balance",
			method:     http.MethodPost,
			accountID:  "acc-1",
			svc:        &stubSettler{err: domain.ErrInsufficientBalance},
			wantStatus: http.StatusConflict,
			wantCode:   "insufficient_balance",
		},
		{
			name:       "storage failure",
			method:     http.MethodPost,
			accountID:  "acc-1",
			svc:        &stubSettler{err: errors.New("connection reset")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/payments", nil)
			if tc.accountID != "" {
				req.Header.Set(actorIDHeader, tc.accountID)
				req.Header.Set(actorKindHeader, "student")
			}
			rec := httptest.NewRecorder()

			HandleSettle(tc.svc)(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if tc.wantCode != "" {
				var body struct {
					Code string `json:"code"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if body.Code != tc.wantCode {
					t.Fatalf("expected code %q, got %q", tc.wantCode, body.Code)
				}
			}
		})
	}

	t.Run("response body", func(t *testing.T) {
		svc := &stubSettler{res: app.SettleResult{TotalCharged: 6, OrdersSettled: 2}}
		req := httptest.NewRequest(http.MethodPost, "/payments", nil)
		req.Header.Set(actorIDHeader, "acc-1")
		rec := httptest.NewRecorder()

		HandleSettle(svc)(rec, req)

		if svc.gotAccountID != "acc-1" {
			t.Fatalf("expected settle for acc-1, got %q", svc.gotAccountID)
		}
		var body struct {
			TotalCharged  int64 `json:"total_charged"`
			OrdersSettled int   `json:"orders_settled"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.TotalCharged != 6 || body.OrdersSettled != 2 {
			t.Fatalf("unexpected body %+v", body)
		}
	})
}
