// Package services holds the domain operations. Every method takes the
// caller's context and returns *apperror.Error values for expected failures.
package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
)

type Services struct {
	Accounts   *AccountService
	Users      *UserService
	Members    *MemberService
	Workspaces *WorkspaceService
	Projects   *ProjectService
	Tasks      *TaskService
}

func New(conn *gorm.DB) *Services {
	return &Services{
		Accounts:   NewAccountService(conn),
		Users:      NewUserService(conn),
		Members:    NewMemberService(conn),
		Workspaces: NewWorkspaceService(conn),
		Projects:   NewProjectService(conn),
		Tasks:      NewTaskService(conn),
	}
}

// randomCode returns n lowercase hex characters taken from a v4 UUID.
func randomCode(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

func newInviteCode() string {
	return randomCode(types.InviteCodeLength)
}

func newTaskCode() string {
	return types.TaskCodePrefix + randomCode(types.TaskCodeSuffixLength)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// findRole loads a seeded role. A missing row means the seed data is broken.
func findRole(tx *gorm.DB, name types.RoleName) (*models.Role, error) {
	var role models.Role

	err := tx.Where("name = ?", name).First(&role).Error
	if isNotFound(err) {
		return nil, apperror.NotFound(roleLabel(name) + " role not found")
	}
	if err != nil {
		return nil, apperror.Internal("load role", err)
	}

	return &role, nil
}

func roleLabel(name types.RoleName) string {
	s := strings.ToLower(string(name))
	return strings.ToUpper(s[:1]) + s[1:]
}

// PageRequest is a normalized page-number/page-size pair.
type PageRequest struct {
	PageSize   int
	PageNumber int
}

// NewPageRequest applies defaults to non-positive values and caps both
// values so the offset cannot overflow.
func NewPageRequest(pageSize, pageNumber int) PageRequest {
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}
	if pageSize > types.MaxPageSize {
		pageSize = types.MaxPageSize
	}
	if pageNumber <= 0 {
		pageNumber = types.DefaultPageNumber
	}
	if pageNumber > types.MaxPageNumber {
		pageNumber = types.MaxPageNumber
	}

	return PageRequest{PageSize: pageSize, PageNumber: pageNumber}
}

func (p PageRequest) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
