// internal/app/features/user/handler.go
package user

import (
	"context"
	"net/http"

	"github.com/rabindra-basnet/team-project-saas/internal/app/features/shared"
	userstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/users"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/httpjson"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's profile.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// ServeCurrent handles GET /api/user/current.
// Returns the signed-in user's profile, including the current workspace
// the frontend should open.
func (h *Handler) ServeCurrent(w http.ResponseWriter, r *http.Request) {
	userID, err := shared.UserID(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == userstore.ErrNotFound {
			httpjson.WriteError(w, h.Log, apperror.NotFound("User not found"))
			return
		}
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "User fetched successfully",
		"user":    u.OmitPassword(),
	})
}
