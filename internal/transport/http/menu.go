package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/canteenlab/kiosk-api/internal/app"
	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/shopspring/decimal"
)

// MenuReader lists the catalog for the order page.
type MenuReader interface {
	ListMenu(ctx context.Context) ([]domain.MenuItem, error)
}

// HandleMenu serves GET /menu: available items ordered by category then name.
func HandleMenu(svc MenuReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		items, err := svc.ListMenu(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]menuItemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, newMenuItemResponse(item))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// MenuAdminService is the minimal interface for admin catalog endpoints.
type MenuAdminService interface {
	CreateItem(ctx context.Context, actor domain.Actor, in app.CreateMenuItemInput) (domain.MenuItem, error)
	SetAvailability(ctx context.Context, actor domain.Actor, itemID string, available bool) error
}

// HandleAdminMenu serves POST /admin/menu.
func HandleAdminMenu(svc MenuAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req createMenuItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidAmount, "invalid price")
			return
		}

		item, err := svc.CreateItem(r.Context(), actor, app.CreateMenuItemInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       price,
			Category:    req.Category,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newMenuItemResponse(item))
	}
}

// HandleAdminMenuActions serves POST /admin/menu/{id}/availability.
func HandleAdminMenuActions(svc MenuAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		itemID, ok := parseMenuAvailabilityPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req setAvailabilityRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.SetAvailability(r.Context(), actor, itemID, req.Available); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseMenuAvailabilityPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "menu" || parts[2] == "" || parts[3] != "availability" {
		return "", false
	}
	return parts[2], true
}

type createMenuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

type menuItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

func newMenuItemResponse(item domain.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.StringFixed(2),
		Category:    item.Category,
		Available:   item.Available,
		CreatedAt:   item.CreatedAt,
	}
}
