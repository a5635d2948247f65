package services

import (
	"testing"

	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/models"
)

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	user := f.register("ada")

	got, err := f.svc.Users.Current(f.ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentWorkspace == nil || got.CurrentWorkspace.ID != *user.CurrentWorkspaceID {
		t.Errorf("currentWorkspace = %+v", got.CurrentWorkspace)
	}

	if _, err := f.svc.Users.Current(f.ctx, 9999); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}

func TestFindActiveRejectsDisabledUser(t *testing.T) {
	f := newFixture(t)
	user := f.register("ada")

	if _, err := f.svc.Users.FindActive(f.ctx, user.ID); err != nil {
		t.Fatal(err)
	}

	f.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false)

	if _, err := f.svc.Users.FindActive(f.ctx, user.ID); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Errorf("err = %v; want Unauthorized", err)
	}
}
