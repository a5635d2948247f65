package types

import "fmt"

// RoleName is the closed set of workspace roles.
type RoleName string

const (
	RoleOwner  RoleName = "OWNER"
	RoleAdmin  RoleName = "ADMIN"
	RoleMember RoleName = "MEMBER"
)

type Permission string

const (
	PermCreateWorkspace         Permission = "CREATE_WORKSPACE"
	PermDeleteWorkspace         Permission = "DELETE_WORKSPACE"
	PermEditWorkspace           Permission = "EDIT_WORKSPACE"
	PermManageWorkspaceSettings Permission = "MANAGE_WORKSPACE_SETTINGS"
	PermAddMember               Permission = "ADD_MEMBER"
	PermChangeMemberRole        Permission = "CHANGE_MEMBER_ROLE"
	PermRemoveMember            Permission = "REMOVE_MEMBER"
	PermCreateProject           Permission = "CREATE_PROJECT"
	PermEditProject             Permission = "EDIT_PROJECT"
	PermDeleteProject           Permission = "DELETE_PROJECT"
	PermCreateTask              Permission = "CREATE_TASK"
	PermEditTask                Permission = "EDIT_TASK"
	PermDeleteTask              Permission = "DELETE_TASK"
	PermViewOnly                Permission = "VIEW_ONLY"
)

var rolePermissions = map[RoleName][]Permission{
	RoleOwner: {
		PermCreateWorkspace,
		PermDeleteWorkspace,
		PermEditWorkspace,
		PermManageWorkspaceSettings,
		PermAddMember,
		PermChangeMemberRole,
		PermRemoveMember,
		PermCreateProject,
		PermEditProject,
		PermDeleteProject,
		PermCreateTask,
		PermEditTask,
		PermDeleteTask,
		PermViewOnly,
	},
	RoleAdmin: {
		PermAddMember,
		PermCreateProject,
		PermEditProject,
		PermDeleteProject,
		PermCreateTask,
		PermEditTask,
		PermDeleteTask,
		PermManageWorkspaceSettings,
		PermViewOnly,
	},
	RoleMember: {
		PermViewOnly,
		PermCreateTask,
		PermEditTask,
	},
}

// Roles lists every role in seed order.
func Roles() []RoleName {
	return []RoleName{RoleOwner, RoleAdmin, RoleMember}
}

func ParseRoleName(s string) (RoleName, error) {
	switch r := RoleName(s); r {
	case RoleOwner, RoleAdmin, RoleMember:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r RoleName) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns a copy of the role's fixed permission set. Unknown
// roles have none.
func (r RoleName) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

func (r RoleName) Has(p Permission) bool {
	for _, perm := range rolePermissions[r] {
		if perm == p {
			return true
		}
	}
	return false
}
