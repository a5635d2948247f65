package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
)

type WorkspaceService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewWorkspaceService(conn *gorm.DB) *WorkspaceService {
	return &WorkspaceService{db: conn, now: time.Now}
}

type WorkspaceInput struct {
	Name        string
	Description *string
}

// WorkspaceUpdate only touches the non-nil fields.
type WorkspaceUpdate struct {
	Name        *string
	Description *string
}

func workspaceNotFound() *apperror.Error {
	return apperror.NotFound("Workspace not found")
}

func (s *WorkspaceService) find(conn *gorm.DB, workspaceID uint) (*models.Workspace, error) {
	var workspace models.Workspace

	err := conn.First(&workspace, workspaceID).Error
	if isNotFound(err) {
		return nil, workspaceNotFound()
	}
	if err != nil {
		return nil, apperror.Internal("find workspace", err)
	}

	return &workspace, nil
}

// Create makes a workspace owned by userID and switches the user to it.
func (s *WorkspaceService) Create(ctx context.Context, userID uint, in WorkspaceInput) (*models.Workspace, error) {
	var workspace models.Workspace

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.First(&user, userID).Error
		if isNotFound(err) {
			return apperror.NotFound("User not found").WithCode(apperror.CodeUserNotFound)
		}
		if err != nil {
			return apperror.Internal("find user", err)
		}

		ownerRole, err := findRole(tx, types.RoleOwner)
		if err != nil {
			return err
		}

		workspace = models.Workspace{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			OwnerID:     user.ID,
			InviteCode:  newInviteCode(),
		}
		if err := tx.Create(&workspace).Error; err != nil {
			return fmt.Errorf("create workspace: %w", err)
		}

		member := models.Member{
			UserID:      user.ID,
			WorkspaceID: workspace.ID,
			RoleID:      ownerRole.ID,
			JoinedAt:    s.now().UTC(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("create member: %w", err)
		}

		return tx.Model(&user).Update("current_workspace_id", workspace.ID).Error
	})

	if err != nil {
		return nil, err
	}

	return &workspace, nil
}

// ListForUser returns every workspace userID belongs to, oldest membership
// first.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID uint) ([]models.Workspace, error) {
	workspaces := []models.Workspace{}

	err := s.db.WithContext(ctx).
		Joins("JOIN members ON members.workspace_id = workspaces.id").
		Where("members.user_id = ?", userID).
		Order("members.joined_at ASC").
		Find(&workspaces).Error

	if err != nil {
		return nil, apperror.Internal("list workspaces", err)
	}

	return workspaces, nil
}

// GetByID loads the workspace with its members and their roles.
func (s *WorkspaceService) GetByID(ctx context.Context, workspaceID uint) (*models.Workspace, error) {
	var workspace models.Workspace

	err := s.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC") }).
		Preload("Members.Role").
		Preload("Members.User").
		First(&workspace, workspaceID).Error

	if isNotFound(err) {
		return nil, workspaceNotFound()
	}
	if err != nil {
		return nil, apperror.Internal("get workspace", err)
	}

	return &workspace, nil
}

// Members lists memberships with user and role populated, plus every role
// that can be assigned.
func (s *WorkspaceService) Members(ctx context.Context, workspaceID uint) ([]models.Member, []types.RoleSummary, error) {
	conn := s.db.WithContext(ctx)

	members := []models.Member{}
	err := conn.Preload("User").Preload("Role").
		Where("workspace_id = ?", workspaceID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, nil, apperror.Internal("list members", err)
	}

	roles := []types.RoleSummary{}
	if err := conn.Model(&models.Role{}).Select("id", "name").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, nil, apperror.Internal("list roles", err)
	}

	return members, roles, nil
}

// Analytics counts total, overdue (past due and not DONE) and DONE tasks.
func (s *WorkspaceService) Analytics(ctx context.Context, workspaceID uint) (types.Analytics, error) {
	return taskAnalytics(s.db.WithContext(ctx), s.now().UTC(), "workspace_id = ?", workspaceID)
}

func taskAnalytics(conn *gorm.DB, now time.Time, scope string, args ...interface{}) (types.Analytics, error) {
	var a types.Analytics

	count := func(dst *int64, extra string, extraArgs ...interface{}) error {
		q := conn.Model(&models.Task{}).Where(scope, args...)
		if extra != "" {
			q = q.Where(extra, extraArgs...)
		}
		return q.Count(dst).Error
	}

	if err := count(&a.TotalTasks, ""); err != nil {
		return a, apperror.Internal("count tasks", err)
	}
	if err := count(&a.OverdueTasks, "due_date < ? AND status <> ?", now, types.TaskStatusDone); err != nil {
		return a, apperror.Internal("count overdue tasks", err)
	}
	if err := count(&a.CompletedTasks, "status = ?", types.TaskStatusDone); err != nil {
		return a, apperror.Internal("count completed tasks", err)
	}

	return a, nil
}

// ChangeMemberRole assigns roleID to the member whose user id is memberUserID.
// The owner's role is fixed and OWNER cannot be granted.
func (s *WorkspaceService) ChangeMemberRole(ctx context.Context, workspaceID, memberUserID, roleID uint) (*models.Member, error) {
	var member models.Member

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workspace, err := s.find(tx, workspaceID)
		if err != nil {
			return err
		}

		var role models.Role
		err = tx.First(&role, roleID).Error
		if isNotFound(err) {
			return apperror.NotFound("Role not found")
		}
		if err != nil {
			return apperror.Internal("find role", err)
		}

		if role.Name == types.RoleOwner {
			return apperror.BadRequest("The owner role cannot be assigned")
		}

		err = tx.Where("user_id = ? AND workspace_id = ?", memberUserID, workspaceID).First(&member).Error
		if isNotFound(err) {
			return apperror.NotFound("Member not found in the workspace")
		}
		if err != nil {
			return apperror.Internal("find member", err)
		}

		if member.UserID == workspace.OwnerID {
			return apperror.BadRequest("The workspace owner's role cannot be changed")
		}

		if err := tx.Model(&member).Update("role_id", role.ID).Error; err != nil {
			return apperror.Internal("update member role", err)
		}

		member.RoleID = role.ID
		member.Role = &role
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (s *WorkspaceService) Update(ctx context.Context, workspaceID uint, in WorkspaceUpdate) (*models.Workspace, error) {
	conn := s.db.WithContext(ctx)

	workspace, err := s.find(conn, workspaceID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		workspace.Name = strings.TrimSpace(*in.Name)
		updates["name"] = workspace.Name
	}
	if in.Description != nil {
		workspace.Description = in.Description
		updates["description"] = *in.Description
	}

	if len(updates) == 0 {
		return workspace, nil
	}

	if err := conn.Model(workspace).Updates(updates).Error; err != nil {
		return nil, apperror.Internal("update workspace", err)
	}

	return workspace, nil
}

// Delete removes the workspace with its projects, tasks and memberships.
// Every user whose current workspace pointed at it is moved to their oldest
// remaining membership, or to none. Returns the requester's new current
// workspace.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID, requesterID uint) (*uint, error) {
	var current *uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workspace, err := s.find(tx, workspaceID)
		if err != nil {
			return err
		}

		var requester models.User
		err = tx.First(&requester, requesterID).Error
		if isNotFound(err) {
			return apperror.NotFound("User not found").WithCode(apperror.CodeUserNotFound)
		}
		if err != nil {
			return apperror.Internal("find user", err)
		}

		if workspace.OwnerID != requester.ID {
			return apperror.BadRequest("You are not the owner of this workspace")
		}

		for _, model := range []interface{}{&models.Task{}, &models.Project{}, &models.Member{}} {
			if err := tx.Where("workspace_id = ?", workspace.ID).Delete(model).Error; err != nil {
				return fmt.Errorf("delete workspace children: %w", err)
			}
		}

		var affected []models.User
		if err := tx.Where("current_workspace_id = ?", workspace.ID).Find(&affected).Error; err != nil {
			return fmt.Errorf("find affected users: %w", err)
		}

		for _, user := range affected {
			next, err := nextWorkspace(tx, user.ID)
			if err != nil {
				return err
			}

			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("current_workspace_id", next).Error; err != nil {
				return fmt.Errorf("repair current workspace: %w", err)
			}

			if user.ID == requester.ID {
				current = next
			}
		}

		if requester.CurrentWorkspaceID != nil && *requester.CurrentWorkspaceID != workspace.ID {
			current = requester.CurrentWorkspaceID
		}

		if err := tx.Delete(workspace).Error; err != nil {
			return fmt.Errorf("delete workspace: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return current, nil
}

// nextWorkspace picks the user's oldest remaining membership.
func nextWorkspace(tx *gorm.DB, userID uint) (*uint, error) {
	var member models.Member

	err := tx.Where("user_id = ?", userID).Order("joined_at ASC").First(&member).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find next workspace: %w", err)
	}

	return &member.WorkspaceID, nil
}
