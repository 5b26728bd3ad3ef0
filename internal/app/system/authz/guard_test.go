package authz

import (
	"testing"

	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
)

func testGuard() *Guard {
	return NewGuard(DefaultRoleTable(), nil)
}

func TestRequire_OwnerHasEverything(t *testing.T) {
	g := testGuard()

	all := []Permission{
		CreateWorkspace, DeleteWorkspace, EditWorkspace, ManageSettings,
		AddMember, ChangeMemberRole, RemoveMember,
		CreateProject, EditProject, DeleteProject,
		CreateTask, EditTask, DeleteTask,
		ViewOnly,
	}
	if err := g.Require("OWNER", all...); err != nil {
		t.Fatalf("OWNER should hold every permission, got %v", err)
	}
}

func TestRequire_SubsetRule(t *testing.T) {
	g := testGuard()

	tests := []struct {
		name     string
		role     string
		required []Permission
		wantErr  bool
	}{
		{"member can view", "MEMBER", []Permission{ViewOnly}, false},
		{"member can work tasks", "MEMBER", []Permission{CreateTask, EditTask}, false},
		{"member cannot delete tasks", "MEMBER", []Permission{DeleteTask}, true},
		{"member cannot create projects", "MEMBER", []Permission{CreateProject}, true},
		{"admin can manage projects", "ADMIN", []Permission{CreateProject, EditProject, DeleteProject}, false},
		{"admin cannot delete workspace", "ADMIN", []Permission{DeleteWorkspace}, true},
		{"admin cannot change member role", "ADMIN", []Permission{ChangeMemberRole}, true},
		{"one missing denies all", "ADMIN", []Permission{ViewOnly, DeleteWorkspace}, true},
		{"unknown role fails closed", "VISITOR", []Permission{ViewOnly}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Require(tt.role, tt.required...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Require(%s, %v) error = %v, wantErr %v", tt.role, tt.required, err, tt.wantErr)
			}
			if err != nil && apperror.Kind(err) != apperror.KindUnauthorized {
				t.Errorf("denial must be Unauthorized, got kind %v", apperror.Kind(err))
			}
		})
	}
}

func TestRequire_EmptySetAlwaysPasses(t *testing.T) {
	g := testGuard()

	for _, role := range []string{"OWNER", "ADMIN", "MEMBER", "VISITOR", ""} {
		if err := g.Require(role); err != nil {
			t.Errorf("Require(%q) with no permissions should pass, got %v", role, err)
		}
	}
}

func TestNewGuard_CopiesTable(t *testing.T) {
	table := RoleTable{"CUSTOM": {ViewOnly}}
	g := NewGuard(table, nil)

	// Mutating the source table after construction must not affect the guard.
	table["CUSTOM"] = nil

	if err := g.Require("CUSTOM", ViewOnly); err != nil {
		t.Errorf("guard should keep its own copy of the table, got %v", err)
	}
}

func TestRequire_CustomTable(t *testing.T) {
	g := NewGuard(RoleTable{"VIEWER": {ViewOnly}}, nil)

	if err := g.Require("VIEWER", ViewOnly); err != nil {
		t.Errorf("VIEWER should view, got %v", err)
	}
	if err := g.Require("VIEWER", EditTask); err == nil {
		t.Error("VIEWER must not edit tasks")
	}
}
