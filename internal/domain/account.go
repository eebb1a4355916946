package domain

import "time"

type AccountKind string

const (
	AccountKindStudent AccountKind = "student"
	AccountKindParent  AccountKind = "parent"
	AccountKindStaff   AccountKind = "staff"
	AccountKindAdmin   AccountKind = "admin"
)

// Account holds a student's prepaid balance. Balance is in whole currency
// units and is only mutated by settlement, top-up and refund-on-delete.
type Account struct {
	ID        string
	Name      string
	Kind      AccountKind
	Balance   int64
	Frozen    bool
	CreatedAt time.Time
}

// Actor identifies the caller of a service operation. Identity is resolved at
// the transport boundary and passed explicitly; services never read it from
// ambient context.
type Actor struct {
	AccountID string
	Kind      AccountKind
}

// CanManage reports whether the actor may perform staff-level operations
// (fulfillment, order cleanup). Admins are a superset of staff.
func (a Actor) CanManage() bool {
	return a.Kind == AccountKindStaff || a.Kind == AccountKindAdmin
}

func (a Actor) IsAdmin() bool {
	return a.Kind == AccountKindAdmin
}
