// Package handler exposes the state manager's operations over HTTP. Handlers
// are deliberately thin: they validate input, call one manager operation, and
// render the resulting snapshot.
package handler

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zakolabs/zako-backend/internal/domain/catalog"
	"github.com/zakolabs/zako-backend/internal/notify"
	"github.com/zakolabs/zako-backend/internal/state"
)

// NotificationCenter is the slice of the notification gateway the handlers
// need beyond what the state manager already drives.
type NotificationCenter interface {
	RequestPermission()
	Permission() notify.Permission
	Recent() []notify.Notification
}

// Handler holds the HTTP handler dependencies.
type Handler struct {
	mgr           *state.Manager
	catalog       catalog.Repository
	notifications NotificationCenter
	validate      *validator.Validate
	lg            *zap.Logger
}

// New constructs a Handler.
func New(mgr *state.Manager, cat catalog.Repository, nc NotificationCenter, lg *zap.Logger) *Handler {
	return &Handler{
		mgr:           mgr,
		catalog:       cat,
		notifications: nc,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		lg:            lg,
	}
}
