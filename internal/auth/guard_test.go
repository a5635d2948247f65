package auth

import (
	"testing"

	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		role types.RoleName
		perm types.Permission
		ok   bool
	}{
		{types.RoleOwner, types.PermDeleteWorkspace, true},
		{types.RoleAdmin, types.PermDeleteWorkspace, false},
		{types.RoleAdmin, types.PermCreateProject, true},
		{types.RoleMember, types.PermCreateTask, true},
		{types.RoleMember, types.PermDeleteTask, false},
		{types.RoleMember, types.PermViewOnly, true},
		{types.RoleName("GUEST"), types.PermViewOnly, false},
	}

	for _, tt := range tests {
		err := RequirePermission(tt.role, tt.perm)

		if tt.ok && err != nil {
			t.Errorf("%s/%s: unexpected error %v", tt.role, tt.perm, err)
		}
		if !tt.ok && !apperror.IsKind(err, apperror.KindForbidden) {
			t.Errorf("%s/%s: err = %v; want Forbidden", tt.role, tt.perm, err)
		}
	}
}

func TestRoleGuardRequiresAll(t *testing.T) {
	if err := RoleGuard(types.RoleAdmin, types.PermCreateTask, types.PermEditProject); err != nil {
		t.Errorf("admin guard: %v", err)
	}

	err := RoleGuard(types.RoleAdmin, types.PermCreateTask, types.PermChangeMemberRole)
	if !apperror.IsKind(err, apperror.KindForbidden) {
		t.Errorf("err = %v; want Forbidden", err)
	}
}
