// internal/app/features/shared/access.go

// Package shared holds helpers common to the API feature handlers:
// URL parameter parsing and the membership/permission gate every
// workspace-scoped endpoint passes through.
package shared

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	memberstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/members"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auth"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// URLObjectID parses a chi URL parameter as a Mongo ObjectID.
func URLObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperror.BadRequest("Invalid id: " + raw)
	}
	return id, nil
}

// UserID extracts the signed-in user's ObjectID from the request context.
func UserID(r *http.Request) (primitive.ObjectID, error) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, apperror.Unauthorized("You must be signed in to perform this action")
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, apperror.Unauthorized("Invalid session")
	}
	return id, nil
}

// Access gates workspace-scoped operations: the caller must be a member of
// the workspace and their role must carry every required permission.
type Access struct {
	Members *memberstore.Store
	Guard   *authz.Guard
}

// Require resolves the signed-in user, their role in the workspace, and
// checks the permissions. Returns the user id and role name on success.
func (a *Access) Require(ctx context.Context, r *http.Request, workspaceID primitive.ObjectID, perms ...authz.Permission) (primitive.ObjectID, string, error) {
	userID, err := UserID(r)
	if err != nil {
		return primitive.NilObjectID, "", err
	}

	role, err := a.Members.RoleInWorkspace(ctx, userID, workspaceID)
	if err != nil {
		return primitive.NilObjectID, "", err
	}

	if err := a.Guard.Require(role, perms...); err != nil {
		return primitive.NilObjectID, "", err
	}
	return userID, role, nil
}
