package http

import (
	"net/http"

	"github.com/canteenlab/kiosk-api/internal/domain"
)

// Authentication is handled upstream; the verified identity arrives on these
// headers and is passed into services as an explicit Actor.
const (
	actorIDHeader   = "X-Account-ID"
	actorKindHeader = "X-Account-Kind"
)

func actorFromRequest(r *http.Request) (domain.Actor, bool) {
	id := r.Header.Get(actorIDHeader)
	if id == "" {
		return domain.Actor{}, false
	}

	kind := domain.AccountKind(r.Header.Get(actorKindHeader))
	switch kind {
	case domain.AccountKindStudent, domain.AccountKindParent, domain.AccountKindStaff, domain.AccountKindAdmin:
	default:
		kind = domain.AccountKindStudent
	}
	return domain.Actor{AccountID: id, Kind: kind}, true
}

func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "account identity required")
		return domain.Actor{}, false
	}
	return actor, true
}
