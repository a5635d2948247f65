package auth

import (
	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/types"
)

// RequirePermission fails with Forbidden unless role grants permission.
func RequirePermission(role types.RoleName, permission types.Permission) error {
	if !role.Has(permission) {
		return apperror.Forbidden(types.ForbiddenErrorMessage)
	}
	return nil
}

// RoleGuard requires every listed permission.
func RoleGuard(role types.RoleName, permissions ...types.Permission) error {
	for _, p := range permissions {
		if err := RequirePermission(role, p); err != nil {
			return err
		}
	}
	return nil
}
