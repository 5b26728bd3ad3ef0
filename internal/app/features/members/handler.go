// internal/app/features/members/handler.go
package members

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rabindra-basnet/team-project-saas/internal/app/features/shared"
	memberstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/members"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auditlog"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/httpjson"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves invite-based workspace joining.
type Handler struct {
	Members  *memberstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(members *memberstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Members: members, AuditLog: audit, Log: logger}
}

// HandleJoin handles POST /api/member/workspace/{inviteCode}/join.
// Adds the signed-in user to the workspace with the MEMBER role. Joining
// a workspace the user already belongs to returns the existing membership.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	userID, err := shared.UserID(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	inviteCode := chi.URLParam(r, "inviteCode")
	if inviteCode == "" {
		httpjson.WriteError(w, h.Log, apperror.BadRequest("Invite code is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, ws, roleName, err := h.Members.JoinByInvite(ctx, userID, inviteCode)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.AuditLog.Record(auditlog.Event{
		Action:  "member.join",
		Actor:   userID,
		Target:  &ws.ID,
		Outcome: "success",
		IP:      auditlog.ClientIP(r),
	})

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":     "Successfully joined the workspace",
		"workspaceId": ws.ID.Hex(),
		"memberId":    member.ID.Hex(),
		"role":        roleName,
	})
}
