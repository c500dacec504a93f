package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/zakolabs/zako-backend/internal/domain/catalog"
	"github.com/zakolabs/zako-backend/internal/domain/user"
	"github.com/zakolabs/zako-backend/internal/state"
)

type signUpRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"required,min=9"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// SignUp creates a new user with the welcome points balance, signs them in,
// and lands the session on the home screen.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	u := user.New(req.FirstName, req.LastName, req.Phone, req.Email)
	h.mgr.SetUser(u)
	h.mgr.SetCurrentScreen(state.ScreenHome)

	writeJSON(w, http.StatusCreated, u)
}

// Logout clears the signed-in user and returns to onboarding.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.mgr.SetUser(nil)
	h.mgr.SetCurrentScreen(state.ScreenOnboarding)
	w.WriteHeader(http.StatusNoContent)
}

// GetSession renders the full session snapshot.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.mgr.Snapshot())
}

type setScreenRequest struct {
	Screen string `json:"screen" validate:"required"`
}

// SetScreen navigates the session to another screen.
func (h *Handler) SetScreen(w http.ResponseWriter, r *http.Request) {
	var req setScreenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s := state.Screen(req.Screen)
	if !s.Valid() {
		writeError(w, http.StatusBadRequest, "unknown screen")
		return
	}
	h.mgr.SetCurrentScreen(s)
	w.WriteHeader(http.StatusNoContent)
}

type selectRequest struct {
	ID string `json:"id"`
}

// SelectPressing sets the session's selected pressing. An empty id clears the
// selection.
func (h *Handler) SelectPressing(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		h.mgr.SetSelectedPressing(nil)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	p, err := h.catalog.GetByID(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pressing not found")
			return
		}
		h.lg.Error("get pressing", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.mgr.SetSelectedPressing(p)
	w.WriteHeader(http.StatusNoContent)
}

// SelectOrder sets the session's selected order from the signed-in user's
// history. An empty id clears the selection.
func (h *Handler) SelectOrder(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		h.mgr.SetSelectedOrder(nil)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	snap := h.mgr.Snapshot()
	if snap.User == nil {
		writeError(w, http.StatusConflict, "no user signed in")
		return
	}
	idx := snap.User.OrderIndex(req.ID)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	h.mgr.SetSelectedOrder(&snap.User.Orders[idx])
	w.WriteHeader(http.StatusNoContent)
}
