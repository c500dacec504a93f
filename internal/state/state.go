// Package state is the application state manager: the single owner of the
// session's mutable state (current user, active screen, selections, cart) and
// of every operation that transitions it. All mutations are funneled through
// the Manager so persistence write-through and notifications stay consistent;
// consumers only ever see value snapshots.
package state

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/zakolabs/zako-backend/internal/domain/catalog"
	"github.com/zakolabs/zako-backend/internal/domain/order"
	"github.com/zakolabs/zako-backend/internal/domain/user"
)

// Persisted record keys. Exactly two logical records exist: the current user
// and the pending cart.
const (
	userKey = "zako-user"
	cartKey = "zako-cart"
)

// Screen identifies a client screen. Navigation is unvalidated by contract:
// any screen is settable from any screen, callers own sane transitions.
type Screen string

const (
	ScreenOnboarding   Screen = "onboarding"
	ScreenHome         Screen = "home"
	ScreenCommande     Screen = "commande"
	ScreenTracking     Screen = "tracking"
	ScreenOrders       Screen = "orders"
	ScreenProfile      Screen = "profile"
	ScreenOrderDetails Screen = "order-details"
)

// Valid reports whether s is a known screen identifier.
func (s Screen) Valid() bool {
	switch s {
	case ScreenOnboarding, ScreenHome, ScreenCommande, ScreenTracking,
		ScreenOrders, ScreenProfile, ScreenOrderDetails:
		return true
	}
	return false
}

// Store is the persistence adapter contract the manager writes through to.
type Store interface {
	Save(key string, value any) error
	Load(key string, out any) (bool, error)
	Delete(key string) error
}

// Precondition and lookup errors. Operations that fail with one of these
// leave the session state completely unchanged.
var (
	ErrNoUser        = errors.New("no user signed in")
	ErrNoPressing    = errors.New("no pressing selected")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

// Snapshot is an immutable view of the whole session, handed to consumers on
// every read. Seq increases on each mutation so consumers can detect
// staleness.
type Snapshot struct {
	Seq              uint64            `json:"seq"`
	User             *user.User        `json:"user"`
	Screen           Screen            `json:"screen"`
	SelectedPressing *catalog.Pressing `json:"selectedPressing"`
	SelectedOrder    *order.Order      `json:"selectedOrder"`
	Cart             []order.Item      `json:"cart"`
	Total            decimal.Decimal   `json:"total"`
}
