package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router builds the API route tree.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", h.SignUp)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/user", h.Logout)
			r.Put("/screen", h.SetScreen)
			r.Put("/pressing", h.SelectPressing)
			r.Put("/order", h.SelectOrder)
		})

		r.Get("/pressings", h.ListPressings)
		r.Get("/garments", h.ListGarments)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Delete("/items/{index}", h.RemoveCartItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.PlaceOrder)
			r.Put("/{id}/status", h.UpdateOrderStatus)
			r.Get("/{id}/contact-link", h.ContactLink)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Post("/", h.SendNotification)
			r.Post("/permission", h.RequestPermission)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
