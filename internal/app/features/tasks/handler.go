// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/rabindra-basnet/team-project-saas/internal/app/features/shared"
	taskstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/tasks"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/authz"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/httpjson"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/paging"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves task endpoints, all scoped to a workspace.
type Handler struct {
	Tasks  *taskstore.Store
	Access *shared.Access
	Log    *zap.Logger
}

func NewHandler(tasks *taskstore.Store, access *shared.Access, logger *zap.Logger) *Handler {
	return &Handler{Tasks: tasks, Access: access, Log: logger}
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
}

func (req taskRequest) toInput() (taskstore.Input, error) {
	in := taskstore.Input{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.AssignedTo != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			return taskstore.Input{}, apperror.BadRequest("Invalid assignee id")
		}
		in.AssignedTo = &id
	}
	return in, nil
}

// HandleCreate handles POST /api/task/project/{projectId}/workspace/{workspaceId}/create.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "workspaceId")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	projectID, err := shared.URLObjectID(r, "projectId")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	var req taskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httpjson.WriteError(w, h.Log, apperror.BadRequest("Task title is required"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	userID, _, err := h.Access.Require(ctx, r, wsID, authz.CreateTask)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	task, err := h.Tasks.Create(ctx, wsID, projectID, userID, in)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message": "Task created successfully",
		"task":    task,
	})
}

// HandleUpdate handles PUT /api/task/{id}/project/{projectId}/workspace/{workspaceId}/update.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "workspaceId")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	projectID, err := shared.URLObjectID(r, "projectId")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	taskID, err := shared.URLObjectID(r, "id")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	var req taskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, _, err := h.Access.Require(ctx, r, wsID, authz.EditTask); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	task, err := h.Tasks.Update(ctx, wsID, projectID, taskID, in)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "Task updated successfully",
		"task":    task,
	})
}

// ServeList handles GET /api/task/workspace/{workspaceId}/all.
// Supports projectId, status, priority, assignedTo, keyword, and dueDate
// query filters plus pageSize/pageNumber pagination. List filters take
// comma-separated values.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "workspaceId")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	filter, err := parseFilter(r)
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

	tasks, meta, err := h.Tasks.ListPage(ctx, wsID, filter, paging.Parse(r))
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":    "All tasks fetched successfully",
		"tasks":      tasks,
		"pagination": meta,
	})
}

// ServeByID handles GET /api/task/{id}/project/{projectId}/workspace/{workspaceId}.
func (h *Handler) ServeByID(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "workspaceId")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	projectID, err := shared.URLObjectID(r, "projectId")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	taskID, err := shared.URLObjectID(r, "id")
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

	task, err := h.Tasks.GetByID(ctx, wsID, projectID, taskID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "Task fetched successfully",
		"task":    task,
	})
}

// HandleDelete handles DELETE /api/task/{id}/workspace/{workspaceId}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	wsID, err := shared.URLObjectID(r, "workspaceId")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	taskID, err := shared.URLObjectID(r, "id")
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, _, err := h.Access.Require(ctx, r, wsID, authz.DeleteTask); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	if err := h.Tasks.Delete(ctx, wsID, taskID); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "Task deleted successfully",
	})
}

func parseFilter(r *http.Request) (taskstore.Filter, error) {
	var f taskstore.Filter

	if s := query.Get(r, "projectId"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, apperror.BadRequest("Invalid projectId filter")
		}
		f.ProjectID = &id
	}
	f.Statuses = splitList(query.Get(r, "status"))
	f.Priorities = splitList(query.Get(r, "priority"))
	for _, s := range splitList(query.Get(r, "assignedTo")) {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, apperror.BadRequest("Invalid assignedTo filter")
		}
		f.AssignedTo = append(f.AssignedTo, id)
	}
	f.Keyword = query.Get(r, "keyword")
	if s := query.Get(r, "dueDate"); s != "" {
		due, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, apperror.BadRequest("Invalid dueDate filter; use RFC 3339")
		}
		f.DueDate = &due
	}
	return f, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
