package customers

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.ShowNewForm)
	r.Post("/new", h.Create)
	r.Get("/edit/{id}", h.ShowEditForm)
	r.Post("/edit/{id}", h.Update)
	r.Post("/delete/{id}", h.Delete)
}
