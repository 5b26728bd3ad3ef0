// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"net/http"
	"strings"

	"github.com/rabindra-basnet/team-project-saas/internal/app/features/shared"
	projectstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/projects"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/authz"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/httpjson"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/paging"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves project endpoints, all scoped to a workspace.
type Handler struct {
	Projects *projectstore.Store
	Access   *shared.Access
	Log      *zap.Logger
}

func NewHandler(projects *projectstore.Store, access *shared.Access, logger *zap.Logger) *Handler {
	return &Handler{Projects: projects, Access: access, Log: logger}
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// HandleCreate handles POST /api/project/workspace/{workspaceId}/create.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "workspaceId")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	var req projectRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.WriteError(w, h.Log, apperror.BadRequest("Project name is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	userID, _, err := h.Access.Require(ctx, r, wsID, authz.CreateProject)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	p, err := h.Projects.Create(ctx, wsID, userID, req.Name, req.Description, req.Emoji)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message": "Project created successfully",
		"project": p,
	})
}

// ServeList handles GET /api/project/workspace/{workspaceId}/all.
// Paginated with pageSize/pageNumber query parameters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "workspaceId")
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

	projects, meta, err := h.Projects.ListPage(ctx, wsID, paging.Parse(r))
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":    "Projects fetched successfully",
		"projects":   projects,
		"pagination": meta,
	})
}

// ServeByID handles GET /api/project/{id}/workspace/{workspaceId}.
func (h *Handler) ServeByID(w http.ResponseWriter, r *http.Request) {
	wsID, projectID, err := pathIDs(r)
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

	p, err := h.Projects.GetByID(ctx, wsID, projectID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "Project fetched successfully",
		"project": p,
	})
}

// ServeAnalytics handles GET /api/project/{id}/workspace/{workspaceId}/analytics.
func (h *Handler) ServeAnalytics(w http.ResponseWriter, r *http.Request) {
	wsID, projectID, err := pathIDs(r)
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

	analytics, err := h.Projects.ProjectAnalytics(ctx, wsID, projectID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":   "Project analytics retrieved successfully",
		"analytics": analytics,
	})
}

// HandleUpdate handles PUT /api/project/{id}/workspace/{workspaceId}/update.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	wsID, projectID, err := pathIDs(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	var req projectRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, _, err := h.Access.Require(ctx, r, wsID, authz.EditProject); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	p, err := h.Projects.Update(ctx, wsID, projectID, req.Name, req.Description, req.Emoji)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "Project updated successfully",
		"project": p,
	})
}

// HandleDelete handles DELETE /api/project/{id}/workspace/{workspaceId}/delete.
// Removes the project together with its tasks.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	wsID, projectID, err := pathIDs(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, _, err := h.Access.Require(ctx, r, wsID, authz.DeleteProject); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	if err := h.Projects.Delete(ctx, wsID, projectID); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "Project deleted successfully",
	})
}

// pathIDs parses the workspace and project ids from the URL.
func pathIDs(r *http.Request) (primitive.ObjectID, primitive.ObjectID, error) {
	wsID, err := shared.URLObjectID(r, "workspaceId")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	projectID, err := shared.URLObjectID(r, "id")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return wsID, projectID, nil
}
