package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/zakolabs/zako-backend/internal/domain/catalog"
	"github.com/zakolabs/zako-backend/internal/domain/order"
)

type cartView struct {
	Items []order.Item    `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// GetCart renders the current cart entries and their total.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	snap := h.mgr.Snapshot()
	writeJSON(w, http.StatusOK, cartView{Items: snap.Cart, Total: snap.Total})
}

type addCartItemRequest struct {
	Type     string          `json:"type" validate:"required"`
	Quantity int             `json:"quantity" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Delta    bool            `json:"delta"`
}

// AddCartItem merges an item into the cart. The unit price is snapshotted at
// add time: an explicit price wins, otherwise the selected pressing's
// per-piece price, otherwise the garment's default tariff.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	garment, ok := catalog.GarmentByType(req.Type)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown garment type")
		return
	}

	price := req.Price
	if price.IsZero() {
		price = garment.PiecePrice
		if p := h.mgr.Snapshot().SelectedPressing; p != nil && !p.PricePerPiece.IsZero() {
			price = p.PricePerPiece
		}
	}

	h.mgr.AddToCart(order.Item{Type: req.Type, Quantity: req.Quantity, Price: price}, req.Delta)

	snap := h.mgr.Snapshot()
	writeJSON(w, http.StatusOK, cartView{Items: snap.Cart, Total: snap.Total})
}

// RemoveCartItem removes the entry at the given position. An out-of-range
// index is silently ignored, matching the manager's contract.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}
	h.mgr.RemoveFromCart(index)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.mgr.ClearCart()
	w.WriteHeader(http.StatusNoContent)
}
