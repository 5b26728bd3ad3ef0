// internal/app/features/tasks/handler_test.go
package tasks

import (
	"net/http"
	"testing"

	"github.com/rabindra-basnet/team-project-saas/internal/app/features/shared"
	memberstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/members"
	taskstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/tasks"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/authz"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"github.com/rabindra-basnet/team-project-saas/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, f *testutil.Fixtures) *Handler {
	t.Helper()
	log := zap.NewNop()
	access := &shared.Access{
		Members: memberstore.New(f.DB(), log),
		Guard:   authz.NewGuard(authz.DefaultRoleTable(), log),
	}
	return NewHandler(taskstore.New(f.DB(), log), access, log)
}

func TestMemberCanCreateButNotDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	owner := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	member := f.CreateUser(ctx, "Ben Okafor", "ben@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", owner.ID)
	f.CreateMember(ctx, owner.ID, ws.ID, roles[models.RoleOwner].ID)
	f.CreateMember(ctx, member.ID, ws.ID, roles[models.RoleMember].ID)
	project := f.CreateProject(ctx, ws.ID, owner.ID, "Launch")

	h := newTestHandler(t, f)

	// MEMBER holds CREATE_TASK.
	body := map[string]string{"title": "Write announcement"}
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/create", body), testutil.UserFromModel(member))
	req = testutil.WithChiURLParam(req, "workspaceId", ws.ID.Hex())
	req = testutil.WithChiURLParam(req, "projectId", project.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	task := f.CreateTask(ctx, ws.ID, project.ID, owner.ID, "Doomed", models.StatusTodo, nil)

	// MEMBER does not hold DELETE_TASK.
	req = testutil.NewAuthenticatedRequest("DELETE", "/delete", testutil.UserFromModel(member))
	req = testutil.WithChiURLParam(req, "workspaceId", ws.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec = testutil.NewRecorder()

	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)

	// OWNER does.
	req = testutil.NewAuthenticatedRequest("DELETE", "/delete", testutil.UserFromModel(owner))
	req = testutil.WithChiURLParam(req, "workspaceId", ws.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec = testutil.NewRecorder()

	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusOK)
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	owner := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", owner.ID)
	f.CreateMember(ctx, owner.ID, ws.ID, roles[models.RoleOwner].ID)
	project := f.CreateProject(ctx, ws.ID, owner.ID, "Launch")

	h := newTestHandler(t, f)

	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/create", map[string]string{"title": "  "}), testutil.UserFromModel(owner))
	req = testutil.WithChiURLParam(req, "workspaceId", ws.ID.Hex())
	req = testutil.WithChiURLParam(req, "projectId", project.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "VALIDATION_ERROR")
}
