// internal/app/store/tasks/taskstore_test.go

package taskstore

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/paging"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"github.com/rabindra-basnet/team-project-saas/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestCreateDefaultsAndTaskCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", user.ID)
	f.CreateMember(ctx, user.ID, ws.ID, roles[models.RoleOwner].ID)
	project := f.CreateProject(ctx, ws.ID, user.ID, "Launch")

	store := New(db, zap.NewNop())

	task, err := store.Create(ctx, ws.ID, project.ID, user.ID, Input{Title: "Write announcement"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != models.StatusTodo {
		t.Errorf("default status: got %q, want %q", task.Status, models.StatusTodo)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("default priority: got %q, want %q", task.Priority, models.PriorityMedium)
	}
	if !strings.HasPrefix(task.TaskCode, "task-") || len(task.TaskCode) != len("task-")+3 {
		t.Errorf("task code: got %q", task.TaskCode)
	}
}

func TestCreateValidatesAssigneeAndProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	outsider := f.CreateUser(ctx, "Ben Okafor", "ben@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", user.ID)
	f.CreateMember(ctx, user.ID, ws.ID, roles[models.RoleOwner].ID)
	project := f.CreateProject(ctx, ws.ID, user.ID, "Launch")

	store := New(db, zap.NewNop())

	_, err := store.Create(ctx, ws.ID, project.ID, user.ID, Input{
		Title:      "Ghost assignment",
		AssignedTo: &outsider.ID,
	})
	if apperror.Kind(err) != apperror.KindBadRequest {
		t.Errorf("non-member assignee: got %v, want bad request", err)
	}

	_, err = store.Create(ctx, ws.ID, primitive.NewObjectID(), user.ID, Input{Title: "Orphan"})
	if apperror.Kind(err) != apperror.KindNotFound {
		t.Errorf("missing project: got %v, want not found", err)
	}

	_, err = store.Create(ctx, ws.ID, project.ID, user.ID, Input{Title: "Bad status", Status: "SHIPPED"})
	if apperror.Kind(err) != apperror.KindBadRequest {
		t.Errorf("invalid status: got %v, want bad request", err)
	}
}

func TestUpdatePreservesUnsetFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", user.ID)
	f.CreateMember(ctx, user.ID, ws.ID, roles[models.RoleOwner].ID)
	project := f.CreateProject(ctx, ws.ID, user.ID, "Launch")

	store := New(db, zap.NewNop())

	task, err := store.Create(ctx, ws.ID, project.ID, user.ID, Input{
		Title:    "Write announcement",
		Priority: models.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.Update(ctx, ws.ID, project.ID, task.ID, Input{Status: models.StatusInReview})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.StatusInReview {
		t.Errorf("status not updated")
	}
	if updated.Title != "Write announcement" || updated.Priority != models.PriorityHigh {
		t.Errorf("unset fields were overwritten: %+v", updated)
	}
}

func TestListPageFiltersAndPaginates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", user.ID)
	f.CreateMember(ctx, user.ID, ws.ID, roles[models.RoleOwner].ID)
	project := f.CreateProject(ctx, ws.ID, user.ID, "Launch")
	other := f.CreateProject(ctx, ws.ID, user.ID, "Ops")

	for i := 0; i < 12; i++ {
		f.CreateTask(ctx, ws.ID, project.ID, user.ID, fmt.Sprintf("Prepare item %d", i), models.StatusTodo, nil)
	}
	f.CreateTask(ctx, ws.ID, other.ID, user.ID, "Rotate credentials", models.StatusDone, nil)

	store := New(db, zap.NewNop())

	// Defaults: page 1 of 10.
	tasks, meta, err := store.ListPage(ctx, ws.ID, Filter{}, paging.Request{})
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(tasks) != 10 {
		t.Errorf("page size: got %d, want 10", len(tasks))
	}
	if meta.TotalCount != 13 || meta.TotalPages != 2 {
		t.Errorf("meta: got %+v", meta)
	}

	// Second page holds the remainder.
	tasks, _, err = store.ListPage(ctx, ws.ID, Filter{}, paging.Request{PageSize: 10, PageNumber: 2})
	if err != nil {
		t.Fatalf("ListPage page 2: %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("second page: got %d tasks, want 3", len(tasks))
	}

	// Project filter.
	tasks, meta, err = store.ListPage(ctx, ws.ID, Filter{ProjectID: &other.ID}, paging.Request{})
	if err != nil {
		t.Fatalf("ListPage project filter: %v", err)
	}
	if meta.TotalCount != 1 || tasks[0].Title != "Rotate credentials" {
		t.Errorf("project filter: got %+v", tasks)
	}

	// Status filter.
	_, meta, err = store.ListPage(ctx, ws.ID, Filter{Statuses: []string{models.StatusDone}}, paging.Request{})
	if err != nil {
		t.Fatalf("ListPage status filter: %v", err)
	}
	if meta.TotalCount != 1 {
		t.Errorf("status filter: got %d, want 1", meta.TotalCount)
	}

	// Keyword matches title or description, case-insensitively.
	if _, err := store.Create(ctx, ws.ID, other.ID, user.ID, Input{
		Title:       "Update runbook",
		Description: "Document how we rotate credentials",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, meta, err = store.ListPage(ctx, ws.ID, Filter{Keyword: "rotate"}, paging.Request{})
	if err != nil {
		t.Fatalf("ListPage keyword filter: %v", err)
	}
	if meta.TotalCount != 2 {
		t.Errorf("keyword filter: got %d, want 2", meta.TotalCount)
	}
	_, meta, err = store.ListPage(ctx, ws.ID, Filter{Keyword: "document"}, paging.Request{})
	if err != nil {
		t.Fatalf("ListPage keyword filter: %v", err)
	}
	if meta.TotalCount != 1 {
		t.Errorf("description-only keyword: got %d, want 1", meta.TotalCount)
	}
}

func TestDeleteScopedToWorkspace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", user.ID)
	f.CreateMember(ctx, user.ID, ws.ID, roles[models.RoleOwner].ID)
	project := f.CreateProject(ctx, ws.ID, user.ID, "Launch")
	task := f.CreateTask(ctx, ws.ID, project.ID, user.ID, "Ship it", models.StatusTodo, nil)

	store := New(db, zap.NewNop())

	if err := store.Delete(ctx, primitive.NewObjectID(), task.ID); apperror.Kind(err) != apperror.KindNotFound {
		t.Errorf("delete via foreign workspace id: got %v, want not found", err)
	}
	if err := store.Delete(ctx, ws.ID, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, ws.ID, task.ID); apperror.Kind(err) != apperror.KindNotFound {
		t.Errorf("repeated delete: got %v, want not found", err)
	}
}

func TestDueDateFilterUsesExactMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	roles := f.SeedRoles(ctx)

	user := f.CreateUser(ctx, "Ana Torres", "ana@example.com")
	ws := f.CreateWorkspace(ctx, "Engineering", user.ID)
	f.CreateMember(ctx, user.ID, ws.ID, roles[models.RoleOwner].ID)
	project := f.CreateProject(ctx, ws.ID, user.ID, "Launch")

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.CreateTask(ctx, ws.ID, project.ID, user.ID, "Due March 1", models.StatusTodo, &due)
	f.CreateTask(ctx, ws.ID, project.ID, user.ID, "No due date", models.StatusTodo, nil)

	store := New(db, zap.NewNop())

	_, meta, err := store.ListPage(ctx, ws.ID, Filter{DueDate: &due}, paging.Request{})
	if err != nil {
		t.Fatalf("ListPage due date filter: %v", err)
	}
	if meta.TotalCount != 1 {
		t.Errorf("due date filter: got %d, want 1", meta.TotalCount)
	}
}
