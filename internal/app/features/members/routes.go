// internal/app/features/members/routes.go
package members

import (
	"github.com/go-chi/chi/v5"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auth"
)

// Routes mounts the member endpoints.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Post("/workspace/{inviteCode}/join", h.HandleJoin)

	return r
}
