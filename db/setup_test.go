package db_test

import (
	"errors"
	"testing"

	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/testutil"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
)

func TestSeedRolesIsIdempotent(t *testing.T) {
	conn := testutil.NewDB(t)

	if err := db.SeedRoles(conn); err != nil {
		t.Fatalf("second SeedRoles: %v", err)
	}

	var count int64
	conn.Model(&models.Role{}).Count(&count)
	if count != int64(len(types.Roles())) {
		t.Fatalf("role rows = %d; want %d", count, len(types.Roles()))
	}

	var admin models.Role
	if err := conn.Where("name = ?", types.RoleAdmin).First(&admin).Error; err != nil {
		t.Fatalf("load admin role: %v", err)
	}
	if len(admin.Permissions) != len(types.RoleAdmin.Permissions()) {
		t.Errorf("admin permissions = %v", admin.Permissions)
	}
}

func TestMembershipPairIsUnique(t *testing.T) {
	conn := testutil.NewDB(t)

	first := models.Member{UserID: 1, WorkspaceID: 1, RoleID: 1}
	if err := conn.Create(&first).Error; err != nil {
		t.Fatalf("create member: %v", err)
	}

	dup := models.Member{UserID: 1, WorkspaceID: 1, RoleID: 2}
	err := conn.Create(&dup).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate member err = %v; want gorm.ErrDuplicatedKey", err)
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := db.Connect("oracle", "dsn", nil); err == nil {
		t.Fatal("Connect(oracle) succeeded")
	}
}
