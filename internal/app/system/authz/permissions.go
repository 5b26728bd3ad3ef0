// internal/app/system/authz/permissions.go
package authz

// Permission identifies one gated action. The set is closed; permission
// bundles are configuration, not user-definable rules.
type Permission string

const (
	CreateWorkspace Permission = "CREATE_WORKSPACE"
	DeleteWorkspace Permission = "DELETE_WORKSPACE"
	EditWorkspace   Permission = "EDIT_WORKSPACE"
	ManageSettings  Permission = "MANAGE_WORKSPACE_SETTINGS"

	AddMember        Permission = "ADD_MEMBER"
	ChangeMemberRole Permission = "CHANGE_MEMBER_ROLE"
	RemoveMember     Permission = "REMOVE_MEMBER"

	CreateProject Permission = "CREATE_PROJECT"
	EditProject   Permission = "EDIT_PROJECT"
	DeleteProject Permission = "DELETE_PROJECT"

	CreateTask Permission = "CREATE_TASK"
	EditTask   Permission = "EDIT_TASK"
	DeleteTask Permission = "DELETE_TASK"

	ViewOnly Permission = "VIEW_ONLY"
)

// RoleTable maps role names to their permitted actions. Tables are built
// once at startup and treated as immutable afterward.
type RoleTable map[string][]Permission

// DefaultRoleTable is the production role configuration. OWNER holds every
// permission; ADMIN everything except workspace lifecycle and member
// removal; MEMBER can view and work tasks.
func DefaultRoleTable() RoleTable {
	return RoleTable{
		"OWNER": {
			CreateWorkspace, DeleteWorkspace, EditWorkspace, ManageSettings,
			AddMember, ChangeMemberRole, RemoveMember,
			CreateProject, EditProject, DeleteProject,
			CreateTask, EditTask, DeleteTask,
			ViewOnly,
		},
		"ADMIN": {
			AddMember,
			CreateProject, EditProject, DeleteProject,
			CreateTask, EditTask, DeleteTask,
			ManageSettings,
			ViewOnly,
		},
		"MEMBER": {
			ViewOnly,
			CreateTask, EditTask,
		},
	}
}

// Strings converts a permission slice for storage in the roles collection.
func Strings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
