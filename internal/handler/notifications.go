package handler

import (
	"net/http"
)

type permissionResponse struct {
	Permission string `json:"permission"`
}

// RequestPermission asks the gateway to resolve the notification permission.
// Idempotent: once granted or denied, the state never changes again.
func (h *Handler) RequestPermission(w http.ResponseWriter, r *http.Request) {
	h.notifications.RequestPermission()
	writeJSON(w, http.StatusOK, permissionResponse{
		Permission: h.notifications.Permission().String(),
	})
}

type sendNotificationRequest struct {
	Message string `json:"message" validate:"required"`
}

// SendNotification passes a manual message through the state manager to the
// notification gateway.
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req sendNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.mgr.SendOrderNotification(req.Message)
	w.WriteHeader(http.StatusAccepted)
}

// ListNotifications renders the recently delivered notifications.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.notifications.Recent())
}
