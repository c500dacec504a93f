package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/zakolabs/zako-backend/internal/domain/catalog"
)

// ListPressings renders the pressing catalog, optionally narrowed by the
// search, delivery, and pricing query parameters.
func (h *Handler) ListPressings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := catalog.Filter{Search: q.Get("search")}
	switch q.Get("delivery") {
	case "true":
		v := true
		f.Delivery = &v
	case "false":
		v := false
		f.Delivery = &v
	case "":
	default:
		writeError(w, http.StatusBadRequest, "delivery must be true or false")
		return
	}
	if mode := catalog.PricingMode(q.Get("pricing")); mode != "" {
		if !mode.Valid() {
			writeError(w, http.StatusBadRequest, "unknown pricing mode")
			return
		}
		f.PricingMode = mode
	}

	pressings, err := h.catalog.Filter(r.Context(), f)
	if err != nil {
		h.lg.Error("filter pressings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, pressings)
}

// ListGarments renders the garment tariff table.
func (h *Handler) ListGarments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Garments())
}
