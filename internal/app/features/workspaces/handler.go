// internal/app/features/workspaces/handler.go
package workspaces

import (
	"context"
	"net/http"
	"strings"

	"github.com/rabindra-basnet/team-project-saas/internal/app/features/shared"
	workspacestore "github.com/rabindra-basnet/team-project-saas/internal/app/store/workspaces"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auditlog"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/authz"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/httpjson"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves workspace lifecycle and membership endpoints.
type Handler struct {
	Workspaces *workspacestore.Store
	Access     *shared.Access
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(workspaces *workspacestore.Store, access *shared.Access, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Workspaces: workspaces, Access: access, AuditLog: audit, Log: logger}
}

type workspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate handles POST /api/workspace/create/new.
// Any signed-in user may create a workspace; they become its owner.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := shared.UserID(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	var req workspaceRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.WriteError(w, h.Log, apperror.BadRequest("Workspace name is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ws, err := h.Workspaces.Create(ctx, userID, req.Name, req.Description)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.AuditLog.Record(auditlog.Event{
		Action:  "workspace.create",
		Actor:   userID,
		Target:  &ws.ID,
		Outcome: "success",
		IP:      auditlog.ClientIP(r),
	})

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message":   "Workspace created successfully",
		"workspace": ws,
	})
}

// ServeList handles GET /api/workspace/all.
// Lists every workspace the signed-in user is a member of.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID, err := shared.UserID(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	workspaces, err := h.Workspaces.ListForUser(ctx, userID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":    "User workspaces fetched successfully",
		"workspaces": workspaces,
	})
}

// ServeByID handles GET /api/workspace/{id}.
// Membership is required; no particular permission.
func (h *Handler) ServeByID(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "id")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, role, err := h.Access.Require(ctx, r, wsID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ws, err := h.Workspaces.GetByID(ctx, wsID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":   "Workspace fetched successfully",
		"workspace": ws,
		"role":      role,
	})
}

// ServeMembers handles GET /api/workspace/{id}/members.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "id")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, _, err := h.Access.Require(ctx, r, wsID); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	members, err := h.Workspaces.Members(ctx, wsID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "Workspace members fetched successfully",
		"members": members,
	})
}

// ServeAnalytics handles GET /api/workspace/{id}/analytics.
func (h *Handler) ServeAnalytics(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "id")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, _, err := h.Access.Require(ctx, r, wsID); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	analytics, err := h.Workspaces.WorkspaceAnalytics(ctx, wsID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":   "Workspace analytics retrieved successfully",
		"analytics": analytics,
	})
}

// HandleUpdate handles PUT /api/workspace/update/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "id")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	var req workspaceRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, _, err := h.Access.Require(ctx, r, wsID, authz.EditWorkspace); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ws, err := h.Workspaces.Update(ctx, wsID, req.Name, req.Description)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":   "Workspace updated successfully",
		"workspace": ws,
	})
}

type changeRoleRequest struct {
	MemberID string `json:"memberId"`
	RoleID   string `json:"roleId"`
}

// HandleChangeMemberRole handles PUT /api/workspace/change/member/role/{id}.
func (h *Handler) HandleChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "id")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	var req changeRoleRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	memberUserID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperror.BadRequest("Invalid member id"))
		return
	}
	roleID, err := primitive.ObjectIDFromHex(req.RoleID)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperror.BadRequest("Invalid role id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	actorID, _, err := h.Access.Require(ctx, r, wsID, authz.ChangeMemberRole)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	member, err := h.Workspaces.ChangeMemberRole(ctx, wsID, memberUserID, roleID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.AuditLog.Record(auditlog.Event{
		Action:  "workspace.member.role_change",
		Actor:   actorID,
		Target:  &memberUserID,
		Outcome: "success",
		IP:      auditlog.ClientIP(r),
	})

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "Member role changed successfully",
		"member":  member,
	})
}

// HandleResetInvite handles POST /api/workspace/{id}/invite/reset.
// Rotating the code invalidates every previously shared invite link.
func (h *Handler) HandleResetInvite(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "id")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	actorID, _, err := h.Access.Require(ctx, r, wsID, authz.ManageSettings)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ws, err := h.Workspaces.ResetInviteCode(ctx, wsID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.AuditLog.Record(auditlog.Event{
		Action:  "workspace.invite.reset",
		Actor:   actorID,
		Target:  &wsID,
		Outcome: "success",
		IP:      auditlog.ClientIP(r),
	})

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":   "Invite code reset successfully",
		"workspace": ws,
	})
}

// HandleDelete handles DELETE /api/workspace/delete/{id}.
// The permission gate and the ownership check both apply; the store
// re-verifies ownership inside the transaction.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "id")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	userID, _, err := h.Access.Require(ctx, r, wsID, authz.DeleteWorkspace)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	current, err := h.Workspaces.Delete(ctx, wsID, userID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.AuditLog.Record(auditlog.Event{
		Action:  "workspace.delete",
		Actor:   userID,
		Target:  &wsID,
		Outcome: "success",
		IP:      auditlog.ClientIP(r),
	})

	currentHex := ""
	if current != nil {
		currentHex = current.Hex()
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":          "Workspace deleted successfully",
		"currentWorkspace": currentHex,
	})
}
