package calculation

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the calculation resource onto the given router
// under the /calculations prefix.
func RegisterRoutes(r chi.Router, api *API) {
	r.Route("/calculations", func(r chi.Router) {
		r.Get("/", api.Browse)
		r.Post("/", api.Create)
		r.Post("/validate", api.Validate)
		r.Post("/preview", api.Preview)
		r.Get("/{id}", api.Read)
		r.Put("/{id}", api.Edit)
		r.Delete("/{id}", api.Delete)
	})
}
