package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/authz"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// SeedRoles inserts the three built-in roles with their permission sets
// and returns them keyed by name.
func (f *Fixtures) SeedRoles(ctx context.Context) map[string]models.Role {
	f.t.Helper()

	out := make(map[string]models.Role, 3)
	for name, perms := range authz.DefaultRoleTable() {
		role := models.Role{
			ID:          primitive.NewObjectID(),
			Name:        name,
			Permissions: authz.Strings(perms),
		}
		if _, err := f.db.Collection("roles").InsertOne(ctx, role); err != nil {
			f.t.Fatalf("failed to seed role %s: %v", name, err)
		}
		out[name] = role
	}
	return out
}

// CreateUser creates a test user. The password field is left empty; use
// the identity store when credential flows are under test.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateWorkspace creates a test workspace owned by the given user.
func (f *Fixtures) CreateWorkspace(ctx context.Context, name string, owner primitive.ObjectID) models.Workspace {
	f.t.Helper()

	now := time.Now().UTC()
	ws := models.Workspace{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Owner:      owner,
		InviteCode: primitive.NewObjectID().Hex()[:8],
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("workspaces").InsertOne(ctx, ws); err != nil {
		f.t.Fatalf("failed to create test workspace: %v", err)
	}
	return ws
}

// CreateMember links a user to a workspace with the given role.
func (f *Fixtures) CreateMember(ctx context.Context, userID, workspaceID, roleID primitive.ObjectID) models.Member {
	f.t.Helper()

	member := models.Member{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		RoleID:      roleID,
		JoinedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("members").InsertOne(ctx, member); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateProject creates a test project in the workspace.
func (f *Fixtures) CreateProject(ctx context.Context, workspaceID, createdBy primitive.ObjectID, name string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		Name:        name,
		NameCI:      text.Fold(name),
		Emoji:       "📊",
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateTask creates a test task with the given status and due date.
func (f *Fixtures) CreateTask(ctx context.Context, workspaceID, projectID, createdBy primitive.ObjectID, title, status string, due *time.Time) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:          primitive.NewObjectID(),
		TaskCode:    "task-" + primitive.NewObjectID().Hex()[:3],
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Title:       title,
		Status:      status,
		Priority:    models.PriorityMedium,
		CreatedBy:   createdBy,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}
