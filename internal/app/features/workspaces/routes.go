// internal/app/features/workspaces/routes.go
package workspaces

import (
	"github.com/go-chi/chi/v5"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auth"
)

// Routes mounts the workspace endpoints. All of them require a signed-in
// user; workspace-scoped routes additionally pass the membership and
// permission gate inside the handler.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Post("/create/new", h.HandleCreate)
	r.Get("/all", h.ServeList)

	r.Get("/{id}", h.ServeByID)
	r.Get("/{id}/members", h.ServeMembers)
	r.Get("/{id}/analytics", h.ServeAnalytics)

	r.Put("/update/{id}", h.HandleUpdate)
	r.Put("/change/member/role/{id}", h.HandleChangeMemberRole)
	r.Post("/{id}/invite/reset", h.HandleResetInvite)
	r.Delete("/delete/{id}", h.HandleDelete)

	return r
}
