package order

import (
	"github.com/go-faster/errors"
)

// Status is the lifecycle state of a placed order. The normal flow moves
// strictly forward along pending → accepted → washing → ready → delivered.
// Cancelled is reachable from any non-terminal state. Delivered and cancelled
// are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusWashing   Status = "washing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ErrInvalidTransition is returned when a status change would move an order
// backward or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnknownStatus is returned by ParseStatus for values outside the closed set.
var ErrUnknownStatus = errors.New("unknown order status")

// rank positions each status on the forward chain. Cancelled has no rank; it
// is handled separately in CanTransition.
var rank = map[Status]int{
	StatusPending:   0,
	StatusAccepted:  1,
	StatusWashing:   2,
	StatusReady:     3,
	StatusDelivered: 4,
}

// ParseStatus converts a raw string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", errors.Wrap(ErrUnknownStatus, s)
	}
	return st, nil
}

// Valid reports whether s is one of the closed status set.
func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := rank[s]
	return ok
}

// Terminal reports whether no further transitions are possible from s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Next returns the following status on the forward chain. It returns false
// when s is terminal or unknown.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPending:
		return StatusAccepted, true
	case StatusAccepted:
		return StatusWashing, true
	case StatusWashing:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// CanTransition reports whether an order may move from one status to another.
// Forward moves of any distance are allowed; backward moves, self-transitions,
// and moves out of a terminal state are not. Cancellation is allowed from any
// non-terminal state.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return rank[to] > rank[from]
}

// Message returns the user-facing notification title for a status change.
func (s Status) Message() string {
	switch s {
	case StatusPending:
		return "Commande en attente d'acceptation ⏳"
	case StatusAccepted:
		return "Commande acceptée! ✅"
	case StatusWashing:
		return "Vos vêtements sont en lavage 🧼"
	case StatusReady:
		return "Vos vêtements sont prêts! 📦"
	case StatusDelivered:
		return "Commande livrée! 🎉"
	case StatusCancelled:
		return "Commande annulée."
	default:
		return ""
	}
}
