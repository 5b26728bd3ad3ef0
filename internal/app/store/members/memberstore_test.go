// internal/app/store/members/memberstore_test.go

package memberstore

import (
	"testing"

	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"github.com/rabindra-basnet/team-project-saas/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestJoinByInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	owner := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", owner.ID)
	f.CreateMember(ctx, owner.ID, ws.ID, roles[models.RoleOwner].ID)

	joiner := f.CreateUser(ctx, "Ben Okafor", "ben@example.com")
	store := New(db, zap.NewNop())

	member, joined, roleName, err := store.JoinByInvite(ctx, joiner.ID, ws.InviteCode)
	if err != nil {
		t.Fatalf("JoinByInvite: %v", err)
	}
	if joined.ID != ws.ID {
		t.Errorf("joined wrong workspace")
	}
	if roleName != models.RoleMember {
		t.Errorf("role: got %q, want %q", roleName, models.RoleMember)
	}
	if member.RoleID != roles[models.RoleMember].ID {
		t.Errorf("membership has wrong role id")
	}
}

func TestJoinByInviteIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	f.SeedRoles(ctx)

	owner := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", owner.ID)
	joiner := f.CreateUser(ctx, "Ben Okafor", "ben@example.com")
	store := New(db, zap.NewNop())

	first, _, _, err := store.JoinByInvite(ctx, joiner.ID, ws.InviteCode)
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	second, _, _, err := store.JoinByInvite(ctx, joiner.ID, ws.InviteCode)
	if err != nil {
		t.Fatalf("replayed join: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("replayed join created a second membership")
	}

	n, _ := db.Collection("members").CountDocuments(ctx, bson.M{"user_id": joiner.ID, "workspace_id": ws.ID})
	if n != 1 {
		t.Errorf("membership records: got %d, want 1", n)
	}
}

func TestJoinByInvalidInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	f.SeedRoles(ctx)

	joiner := f.CreateUser(ctx, "Ben Okafor", "ben@example.com")
	store := New(db, zap.NewNop())

	_, _, _, err := store.JoinByInvite(ctx, joiner.ID, "deadbeef")
	if apperror.Kind(err) != apperror.KindNotFound {
		t.Fatalf("invalid invite: got %v, want not found", err)
	}

	n, _ := db.Collection("members").CountDocuments(ctx, bson.M{"user_id": joiner.ID})
	if n != 0 {
		t.Errorf("membership created from an invalid invite")
	}
}

func TestRoleInWorkspace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	owner := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", owner.ID)
	f.CreateMember(ctx, owner.ID, ws.ID, roles[models.RoleOwner].ID)

	outsider := f.CreateUser(ctx, "Ben Okafor", "ben@example.com")
	store := New(db, zap.NewNop())

	role, err := store.RoleInWorkspace(ctx, owner.ID, ws.ID)
	if err != nil {
		t.Fatalf("RoleInWorkspace for member: %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("role: got %q, want %q", role, models.RoleOwner)
	}

	if _, err := store.RoleInWorkspace(ctx, outsider.ID, ws.ID); apperror.Kind(err) != apperror.KindUnauthorized {
		t.Errorf("non-member: got %v, want unauthorized", err)
	}
	if _, err := store.RoleInWorkspace(ctx, owner.ID, outsider.ID); apperror.Kind(err) != apperror.KindNotFound {
		t.Errorf("missing workspace: got %v, want not found", err)
	}
}
