// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auth"
)

// Routes mounts the task endpoints.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Post("/project/{projectId}/workspace/{workspaceId}/create", h.HandleCreate)
	r.Get("/workspace/{workspaceId}/all", h.ServeList)
	r.Get("/{id}/project/{projectId}/workspace/{workspaceId}", h.ServeByID)
	r.Put("/{id}/project/{projectId}/workspace/{workspaceId}/update", h.HandleUpdate)
	r.Delete("/{id}/workspace/{workspaceId}/delete", h.HandleDelete)

	return r
}
