package httpapi

import "net/http"

// RegisterRoutes mounts the public discovery endpoints and the admin CRUD
// surface on the mux.
func RegisterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/technicians", handler.HandleBrowse)
	mux.HandleFunc("POST /api/suggest", handler.HandleSuggest)

	mux.HandleFunc("POST /api/admin/technicians", handler.requireAdmin(handler.HandleCreate))
	mux.HandleFunc("GET /api/admin/technicians", handler.requireAdmin(handler.HandleList))
	mux.HandleFunc("GET /api/admin/technicians/{id}", handler.requireAdmin(handler.HandleGet))
	mux.HandleFunc("PATCH /api/admin/technicians/{id}", handler.requireAdmin(handler.HandleUpdate))
	mux.HandleFunc("DELETE /api/admin/technicians/{id}", handler.requireAdmin(handler.HandleDelete))
	mux.HandleFunc("POST /api/admin/technicians/{id}/resync", handler.requireAdmin(handler.HandleResync))
	mux.HandleFunc("POST /api/admin/seed", handler.requireAdmin(handler.HandleSeed))
}
