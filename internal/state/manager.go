package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zakolabs/zako-backend/internal/domain/catalog"
	"github.com/zakolabs/zako-backend/internal/domain/order"
	"github.com/zakolabs/zako-backend/internal/domain/user"
	"github.com/zakolabs/zako-backend/internal/notify"
)

// manualTag groups pass-through notifications sent via SendOrderNotification.
const manualTag = "manual-notification"

// Manager owns the session state. It is the only writer; every operation runs
// under one mutex, persists through the injected Store where the contract
// requires it, and emits notifications through the injected Gateway.
type Manager struct {
	store    Store
	notifier notify.Gateway
	lg       *zap.Logger
	now      func() time.Time

	mu               sync.Mutex
	seq              uint64
	user             *user.User
	screen           Screen
	selectedPressing *catalog.Pressing
	selectedOrder    *order.Order
	cart             []order.Item
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock overrides the time source, used by tests to pin timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager with an empty session on the onboarding screen.
func NewManager(store Store, notifier notify.Gateway, lg *zap.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    store,
		notifier: notifier,
		lg:       lg,
		now:      time.Now,
		screen:   ScreenOnboarding,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rehydrate loads the persisted user and cart records. A malformed record is
// treated as absent. When a user exists with an empty order history, the
// fixed demo order set is backfilled and the session lands on the home
// screen.
func (m *Manager) Rehydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var u user.User
	ok, err := m.store.Load(userKey, &u)
	if err != nil {
		m.lg.Warn("load user record", zap.Error(err))
	}
	if ok {
		if len(u.Orders) == 0 {
			u.Orders = demoOrders(m.now())
		}
		m.user = &u
		m.screen = ScreenHome
	}

	var items []order.Item
	ok, err = m.store.Load(cartKey, &items)
	if err != nil {
		m.lg.Warn("load cart record", zap.Error(err))
	}
	if ok {
		m.cart = m.cart[:0]
		for _, it := range items {
			if it.Quantity > 0 {
				m.cart = append(m.cart, it)
			}
		}
	}
	m.seq++
}

// SetUser replaces the current user wholesale. A nil user represents logout:
// the in-memory user is cleared along with its persisted record. A non-nil
// user is persisted immediately.
func (m *Manager) SetUser(u *user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u == nil {
		m.user = nil
		m.selectedOrder = nil
		if err := m.store.Delete(userKey); err != nil {
			m.lg.Warn("delete user record", zap.Error(err))
		}
		m.seq++
		return
	}

	m.user = u.Clone()
	m.persistUser()
	m.seq++
}

// SetCurrentScreen is pure navigation; nothing is validated or persisted.
func (m *Manager) SetCurrentScreen(s Screen) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.screen = s
	m.seq++
}

// SetSelectedPressing records the pressing the session is composing an order
// against. Session-scoped only, nil clears.
func (m *Manager) SetSelectedPressing(p *catalog.Pressing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		m.selectedPressing = nil
	} else {
		cp := *p
		m.selectedPressing = &cp
	}
	m.seq++
}

// SetSelectedOrder records the order the session is inspecting.
// Session-scoped only, nil clears.
func (m *Manager) SetSelectedOrder(o *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectedOrder = o.Clone()
	m.seq++
}

// AddToCart merges an item into the cart. With delta mode the quantity is
// added to any existing entry of the same type; otherwise it replaces the
// existing quantity. A resulting quantity of zero or less removes the entry.
// The cart keeps at most one entry per type and never holds a non-positive
// quantity.
func (m *Manager) AddToCart(item order.Item, delta bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.cart {
		if m.cart[i].Type != item.Type {
			continue
		}
		qty := item.Quantity
		if delta {
			qty = m.cart[i].Quantity + item.Quantity
		}
		if qty <= 0 {
			m.cart = append(m.cart[:i], m.cart[i+1:]...)
		} else {
			m.cart[i].Quantity = qty
		}
		m.persistCart()
		m.seq++
		return
	}

	if item.Quantity > 0 {
		m.cart = append(m.cart, item)
	}
	m.persistCart()
	m.seq++
}

// RemoveFromCart removes the entry at the given position in the cart's
// current ordered view. An out-of-range index is a silent no-op.
func (m *Manager) RemoveFromCart(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.cart) {
		return
	}
	m.cart = append(m.cart[:index], m.cart[index+1:]...)
	m.persistCart()
	m.seq++
}

// ClearCart empties the cart.
func (m *Manager) ClearCart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = m.cart[:0]
	m.persistCart()
	m.seq++
}

// TotalPrice sums price × quantity over the current cart entries.
func (m *Manager) TotalPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return order.TotalOf(m.cart)
}

// PlaceOrder is the commit point of the whole session. It requires a signed-in
// user, a selected pressing, and a non-empty cart; on any missing
// precondition it returns the matching error with the state untouched.
// On success it snapshots the cart into a new pending order (pressing name
// and phone denormalized, total computed once), prepends it to the user's
// history, persists the user, clears the cart, navigates to the tracking
// screen, and emits a placement notification.
func (m *Manager) PlaceOrder(method order.Fulfillment) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.user == nil:
		return nil, ErrNoUser
	case m.selectedPressing == nil:
		return nil, ErrNoPressing
	case len(m.cart) == 0:
		return nil, ErrEmptyCart
	}

	now := m.now()
	o := order.Order{
		ID:                uuid.New().String(),
		PressingID:        m.selectedPressing.ID,
		PressingName:      m.selectedPressing.Name,
		PressingPhone:     m.selectedPressing.Phone,
		Items:             append([]order.Item(nil), m.cart...),
		Total:             order.TotalOf(m.cart),
		Status:            order.StatusPending,
		CreatedAt:         now,
		EstimatedDelivery: now.Add(order.DeliveryEstimate),
		CollectMethod:     method,
	}

	m.user.Orders = append([]order.Order{o}, m.user.Orders...)
	m.persistUser()
	m.cart = m.cart[:0]
	m.persistCart()
	m.screen = ScreenTracking
	m.seq++

	m.notifier.Notify(
		"Commande confirmée! 🎉",
		fmt.Sprintf("Votre commande a été envoyée à %s. Total: %sF", o.PressingName, o.Total),
		"order-"+o.ID,
	)

	return o.Clone(), nil
}

// AddPoints adds a non-negative points delta to the signed-in user,
// recomputes the VIP level, and emits a level-up notification when the level
// increased. A nil user or negative delta is a no-op.
func (m *Manager) AddPoints(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil || delta < 0 {
		return
	}

	prev := m.user.VIPLevel
	m.user.Points += delta
	m.user.VIPLevel = user.VIPLevelFor(m.user.Points)
	m.persistUser()
	m.seq++

	if m.user.VIPLevel > prev {
		m.notifier.Notify(
			fmt.Sprintf("Nouveau niveau VIP %d! 👑", m.user.VIPLevel),
			fmt.Sprintf("Vous êtes passé VIP level %d!", m.user.VIPLevel),
			"vip-level",
		)
	}
}

// UpdateOrderStatus moves an order of the signed-in user to a new status.
// Backward moves and moves out of a terminal state are rejected with
// order.ErrInvalidTransition; an unknown order id returns ErrOrderNotFound;
// no user returns ErrNoUser. On success the user is persisted and a
// status-specific notification is emitted.
func (m *Manager) UpdateOrderStatus(orderID string, st order.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return ErrNoUser
	}
	idx := m.user.OrderIndex(orderID)
	if idx < 0 {
		return ErrOrderNotFound
	}
	if !order.CanTransition(m.user.Orders[idx].Status, st) {
		return order.ErrInvalidTransition
	}

	m.user.Orders[idx].Status = st
	if m.selectedOrder != nil && m.selectedOrder.ID == orderID {
		m.selectedOrder.Status = st
	}
	m.persistUser()
	m.seq++

	m.notifier.Notify(
		st.Message(),
		fmt.Sprintf("Commande %s - %s", orderID, st),
		"order-"+orderID,
	)
	return nil
}

// SendOrderNotification passes a message straight to the notification gateway
// under the fixed manual tag. No state changes.
func (m *Manager) SendOrderNotification(message string) {
	m.notifier.Notify(message, "", manualTag)
}

// LatestOrder returns a copy of the signed-in user's most recent order.
func (m *Manager) LatestOrder() (order.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil || len(m.user.Orders) == 0 {
		return order.Order{}, false
	}
	return *m.user.Orders[0].Clone(), true
}

// Snapshot returns an immutable view of the whole session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var p *catalog.Pressing
	if m.selectedPressing != nil {
		cp := *m.selectedPressing
		p = &cp
	}
	return Snapshot{
		Seq:              m.seq,
		User:             m.user.Clone(),
		Screen:           m.screen,
		SelectedPressing: p,
		SelectedOrder:    m.selectedOrder.Clone(),
		Cart:             append([]order.Item(nil), m.cart...),
		Total:            order.TotalOf(m.cart),
	}
}

// persistUser writes the current user record through to the store.
// Persistence is best-effort: a failed write is logged, never surfaced.
// Callers must hold m.mu.
func (m *Manager) persistUser() {
	if m.user == nil {
		return
	}
	if err := m.store.Save(userKey, m.user); err != nil {
		m.lg.Warn("persist user record", zap.Error(err))
	}
}

// persistCart writes the pending cart record through to the store.
// Callers must hold m.mu.
func (m *Manager) persistCart() {
	items := m.cart
	if items == nil {
		items = []order.Item{}
	}
	if err := m.store.Save(cartKey, items); err != nil {
		m.lg.Warn("persist cart record", zap.Error(err))
	}
}
