package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/canteenlab/kiosk-api/internal/app"
	"github.com/canteenlab/kiosk-api/internal/domain"
)

// CartSubmitter is the minimal interface needed to submit a cart.
type CartSubmitter interface {
	SubmitCart(ctx context.Context, in app.SubmitCartInput) (app.SubmitCartResult, error)
}

// OrderReader lists a student's own unpaid orders.
type OrderReader interface {
	ListUnpaid(ctx context.Context, accountID string) ([]domain.OrderLine, error)
}

// HandleOrders serves POST /orders (cart submission) and GET /orders (the
// caller's unpaid orders).
func HandleOrders(carts CartSubmitter, orders OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodPost:
			payload, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			res, err := carts.SubmitCart(r.Context(), app.SubmitCartInput{
				AccountID: actor.AccountID,
				Payload:   payload,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(submitCartResponse{OrdersCreated: res.OrdersCreated})
		case http.MethodGet:
			lines, err := orders.ListUnpaid(r.Context(), actor.AccountID)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			resp := make([]orderLineResponse, 0, len(lines))
			for _, line := range lines {
				resp = append(resp, newOrderLineResponse(line))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// OrderManager covers single-order actions: deletion (with the refund rule)
// and staff fulfillment.
type OrderManager interface {
	DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error
	MarkCompleted(ctx context.Context, actor domain.Actor, orderID string) error
}

// HandleOrderActions serves DELETE /orders/{id} and POST /orders/{id}/complete.
func HandleOrderActions(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		orderID, action, ok := parseOrderPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodDelete:
			if err := svc.DeleteOrder(r.Context(), actor, orderID); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case action == "complete" && r.Method == http.MethodPost:
			if err := svc.MarkCompleted(r.Context(), actor, orderID); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// PaidOrderLister is the staff fulfillment board.
type PaidOrderLister interface {
	ListPaidOrders(ctx context.Context, actor domain.Actor) ([]app.PaidOrderGroup, error)
}

// HandlePaidOrders serves GET /staff/paid-orders.
func HandlePaidOrders(svc PaidOrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		groups, err := svc.ListPaidOrders(r.Context(), actor)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]paidOrderGroupResponse, 0, len(groups))
		for _, g := range groups {
			group := paidOrderGroupResponse{
				AccountID:   g.AccountID,
				StudentName: g.StudentName,
				Orders:      make([]orderLineResponse, 0, len(g.Orders)),
			}
			for _, line := range g.Orders {
				group.Orders = append(group.Orders, newOrderLineResponse(line))
			}
			resp = append(resp, group)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func parseOrderPath(path string) (orderID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch len(parts) {
	case 2:
		if parts[0] != "orders" || parts[1] == "" {
			return "", "", false
		}
		return parts[1], "", true
	case 3:
		if parts[0] != "orders" || parts[1] == "" || parts[2] == "" {
			return "", "", false
		}
		return parts[1], parts[2], true
	default:
		return "", "", false
	}
}

type submitCartResponse struct {
	OrdersCreated int `json:"orders_created"`
}

type orderLineResponse struct {
	ID                string    `json:"id"`
	MenuItemID        string    `json:"menu_item_id"`
	ItemName          string    `json:"item_name"`
	Quantity          int       `json:"quantity"`
	LineTotal         string    `json:"line_total"`
	PaymentStatus     string    `json:"payment_status"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	CreatedAt         time.Time `json:"created_at"`
}

func newOrderLineResponse(line domain.OrderLine) orderLineResponse {
	return orderLineResponse{
		ID:                line.ID,
		MenuItemID:        line.MenuItemID,
		ItemName:          line.ItemName,
		Quantity:          line.Quantity,
		LineTotal:         line.LineTotal.StringFixed(2),
		PaymentStatus:     string(line.PaymentStatus),
		FulfillmentStatus: string(line.FulfillmentStatus),
		CreatedAt:         line.CreatedAt,
	}
}

type paidOrderGroupResponse struct {
	AccountID   string              `json:"account_id"`
	StudentName string              `json:"student_name"`
	Orders      []orderLineResponse `json:"orders"`
}
