// internal/app/store/workspaces/workspacestore_test.go

package workspacestore

import (
	"testing"
	"time"

	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"github.com/rabindra-basnet/team-project-saas/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestCreateProvisionsOwnerMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	store := New(db, zap.NewNop())

	ws, err := store.Create(ctx, user.ID, "Engineering", "The builders")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ws.Owner != user.ID {
		t.Errorf("owner: got %s, want %s", ws.Owner.Hex(), user.ID.Hex())
	}
	if ws.InviteCode == "" {
		t.Errorf("missing invite code")
	}

	var member models.Member
	err = db.Collection("members").FindOne(ctx, bson.M{"user_id": user.ID, "workspace_id": ws.ID}).Decode(&member)
	if err != nil {
		t.Fatalf("owner membership not created: %v", err)
	}
	if member.RoleID != roles[models.RoleOwner].ID {
		t.Errorf("owner membership has wrong role")
	}

	var stored models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": user.ID}).Decode(&stored); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.CurrentWorkspace == nil || *stored.CurrentWorkspace != ws.ID {
		t.Errorf("current workspace not repointed to the new workspace")
	}
}

func TestUpdatePreservesUnsetFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	store := New(db, zap.NewNop())

	ws, err := store.Create(ctx, user.ID, "Engineering", "The builders")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.Update(ctx, ws.ID, "Platform", "")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Platform" {
		t.Errorf("name: got %q", updated.Name)
	}
	if updated.Description != "The builders" {
		t.Errorf("empty description overwrote the stored value: got %q", updated.Description)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), "X", ""); apperror.Kind(err) != apperror.KindNotFound {
		t.Errorf("update of missing workspace: got %v, want not found", err)
	}
}

func TestDeleteRequiresOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	owner := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	intruder := f.CreateUser(ctx, "Ben Okafor", "ben@example.com")
	store := New(db, zap.NewNop())

	ws, err := store.Create(ctx, owner.ID, "Engineering", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.CreateMember(ctx, intruder.ID, ws.ID, roles[models.RoleMember].ID)

	if _, err := store.Delete(ctx, ws.ID, intruder.ID); apperror.Kind(err) != apperror.KindForbidden {
		t.Fatalf("non-owner delete: got %v, want forbidden", err)
	}

	// Nothing should have been removed.
	if n, _ := db.Collection("workspaces").CountDocuments(ctx, bson.M{"_id": ws.ID}); n != 1 {
		t.Errorf("workspace removed by refused delete")
	}
	if n, _ := db.Collection("members").CountDocuments(ctx, bson.M{"workspace_id": ws.ID}); n != 2 {
		t.Errorf("members removed by refused delete")
	}
}

func TestDeleteCascadesAndRepoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	store := New(db, zap.NewNop())

	first, err := store.Create(ctx, user.ID, "First", "")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := store.Create(ctx, user.ID, "Second", "")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	project := f.CreateProject(ctx, second.ID, user.ID, "Launch")
	f.CreateTask(ctx, second.ID, project.ID, user.ID, "Ship it", models.StatusTodo, nil)

	// Current workspace is "second" (most recently created); deleting it
	// must cascade and repoint to the remaining membership.
	current, err := store.Delete(ctx, second.ID, user.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if current == nil || *current != first.ID {
		t.Errorf("current workspace not repointed to remaining membership")
	}

	for _, col := range []string{"projects", "tasks", "members", "workspaces"} {
		if n, _ := db.Collection(col).CountDocuments(ctx, bson.M{"workspace_id": second.ID}); n != 0 {
			t.Errorf("%s still holds documents of the deleted workspace", col)
		}
	}
	if n, _ := db.Collection("workspaces").CountDocuments(ctx, bson.M{"_id": second.ID}); n != 0 {
		t.Errorf("workspace document survived the delete")
	}

	// Deleting the last workspace clears the pointer.
	current, err = store.Delete(ctx, first.ID, user.ID)
	if err != nil {
		t.Fatalf("delete last workspace: %v", err)
	}
	if current != nil {
		t.Errorf("pointer should be cleared when no membership remains, got %s", current.Hex())
	}

	var stored models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": user.ID}).Decode(&stored); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.CurrentWorkspace != nil {
		t.Errorf("stored current workspace not cleared")
	}
}

func TestResetInviteCodeRotates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	store := New(db, zap.NewNop())

	ws, err := store.Create(ctx, user.ID, "Engineering", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rotated, err := store.ResetInviteCode(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ResetInviteCode: %v", err)
	}
	if rotated.InviteCode == ws.InviteCode {
		t.Errorf("invite code did not change")
	}
	if _, err := store.GetByInviteCode(ctx, ws.InviteCode); apperror.Kind(err) != apperror.KindNotFound {
		t.Errorf("old invite code still resolves")
	}
	if got, err := store.GetByInviteCode(ctx, rotated.InviteCode); err != nil || got.ID != ws.ID {
		t.Errorf("new invite code does not resolve: %v", err)
	}
}

func TestWorkspaceAnalytics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	store := New(db, zap.NewNop())

	ws, err := store.Create(ctx, user.ID, "Engineering", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	project := f.CreateProject(ctx, ws.ID, user.ID, "Launch")

	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)
	f.CreateTask(ctx, ws.ID, project.ID, user.ID, "Overdue", models.StatusTodo, &past)
	f.CreateTask(ctx, ws.ID, project.ID, user.ID, "Done late", models.StatusDone, &past)
	f.CreateTask(ctx, ws.ID, project.ID, user.ID, "On track", models.StatusInProgress, &future)

	a, err := store.WorkspaceAnalytics(ctx, ws.ID)
	if err != nil {
		t.Fatalf("WorkspaceAnalytics: %v", err)
	}
	if a.TotalTasks != 3 || a.OverdueTasks != 1 || a.CompletedTasks != 1 {
		t.Errorf("analytics: got %+v, want 3/1/1", a)
	}
}
