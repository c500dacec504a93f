package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/zakolabs/zako-backend/internal/domain/order"
	"github.com/zakolabs/zako-backend/internal/notify"
	"github.com/zakolabs/zako-backend/internal/state"
)

// pointsDivisor converts an order total into loyalty points: one point per
// 100 F spent.
var pointsDivisor = decimal.NewFromInt(100)

type placeOrderRequest struct {
	Method string `json:"method" validate:"required,oneof=collect delivery"`
}

// PlaceOrder commits the cart against the selected pressing and awards
// loyalty points for the order value. Precondition failures (no user, no
// pressing, empty cart) leave everything unchanged and map to 409.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	o, err := h.mgr.PlaceOrder(order.Fulfillment(req.Method))
	if err != nil {
		switch {
		case errors.Is(err, state.ErrNoUser):
			writeError(w, http.StatusConflict, "no user signed in")
		case errors.Is(err, state.ErrNoPressing):
			writeError(w, http.StatusConflict, "no pressing selected")
		case errors.Is(err, state.ErrEmptyCart):
			writeError(w, http.StatusConflict, "cart is empty")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.mgr.AddPoints(int(o.Total.Div(pointsDivisor).IntPart()))

	writeJSON(w, http.StatusCreated, o)
}

// ListOrders renders the signed-in user's order history, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	snap := h.mgr.Snapshot()
	if snap.User == nil {
		writeJSON(w, http.StatusOK, []order.Order{})
		return
	}
	writeJSON(w, http.StatusOK, snap.User.Orders)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus moves an order to a new status through the state manager,
// which enforces the forward-only transition rules.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	st, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	err = h.mgr.UpdateOrderStatus(chi.URLParam(r, "id"), st)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, state.ErrNoUser):
		writeError(w, http.StatusConflict, "no user signed in")
	case errors.Is(err, state.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid status transition")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type contactLinkResponse struct {
	Link string `json:"link"`
}

// ContactLink builds a WhatsApp deep link for contacting the pressing about
// an order, using the phone number snapshotted at placement time.
func (h *Handler) ContactLink(w http.ResponseWriter, r *http.Request) {
	snap := h.mgr.Snapshot()
	if snap.User == nil {
		writeError(w, http.StatusConflict, "no user signed in")
		return
	}

	id := chi.URLParam(r, "id")
	idx := snap.User.OrderIndex(id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	o := snap.User.Orders[idx]
	if o.PressingPhone == "" {
		writeError(w, http.StatusConflict, "pressing has no phone number")
		return
	}

	message := fmt.Sprintf("Bonjour, je voudrais des informations sur ma commande #%s", strings.ToUpper(o.ID))
	link := notify.WhatsAppLink(notify.NormalizePhone(o.PressingPhone), message)
	writeJSON(w, http.StatusOK, contactLinkResponse{Link: link})
}
