// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auth"
)

// Routes mounts the project endpoints.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Post("/workspace/{workspaceId}/create", h.HandleCreate)
	r.Get("/workspace/{workspaceId}/all", h.ServeList)
	r.Get("/{id}/workspace/{workspaceId}", h.ServeByID)
	r.Get("/{id}/workspace/{workspaceId}/analytics", h.ServeAnalytics)
	r.Put("/{id}/workspace/{workspaceId}/update", h.HandleUpdate)
	r.Delete("/{id}/workspace/{workspaceId}/delete", h.HandleDelete)

	return r
}
