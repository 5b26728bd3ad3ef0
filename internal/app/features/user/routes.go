// internal/app/features/user/routes.go
package user

import (
	"github.com/go-chi/chi/v5"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auth"
)

// Routes mounts the user profile endpoints.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Get("/current", h.ServeCurrent)

	return r
}
