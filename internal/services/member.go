package services

import (
	"context"
	"errors"
	"time"

	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
)

type MemberService struct {
	db *gorm.DB
}

func NewMemberService(conn *gorm.DB) *MemberService {
	return &MemberService{db: conn}
}

type JoinResult struct {
	WorkspaceID uint           `json:"workspaceId"`
	Role        types.RoleName `json:"role"`
}

func alreadyMember() *apperror.Error {
	return apperror.BadRequest("You are already a member of this workspace")
}

// ResolveRole returns the role userID holds in workspaceID. A missing
// workspace is NotFound even for non-members.
func (s *MemberService) ResolveRole(ctx context.Context, userID, workspaceID uint) (types.RoleName, error) {
	conn := s.db.WithContext(ctx)

	var count int64
	if err := conn.Model(&models.Workspace{}).Where("id = ?", workspaceID).Count(&count).Error; err != nil {
		return "", apperror.Internal("find workspace", err)
	}
	if count == 0 {
		return "", apperror.NotFound("Workspace not found")
	}

	var member models.Member
	err := conn.Preload("Role").
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		First(&member).Error

	if isNotFound(err) {
		return "", apperror.Unauthorized("You are not a member of this workspace").
			WithCode(apperror.CodeUnauthorizedAccess)
	}
	if err != nil {
		return "", apperror.Internal("find member", err)
	}

	if member.Role == nil || !member.Role.Name.Valid() {
		return "", apperror.Internal("resolve role", errors.New("member has no valid role"))
	}

	return member.Role.Name, nil
}

// JoinByInviteCode adds userID to the workspace owning code with the MEMBER
// role. The unique (user_id, workspace_id) index rejects concurrent joins.
func (s *MemberService) JoinByInviteCode(ctx context.Context, userID uint, code string) (*JoinResult, error) {
	conn := s.db.WithContext(ctx)

	var workspace models.Workspace
	err := conn.Where("invite_code = ?", code).First(&workspace).Error
	if isNotFound(err) {
		return nil, apperror.NotFound("Invalid invite code or workspace not found")
	}
	if err != nil {
		return nil, apperror.Internal("find workspace", err)
	}

	var count int64
	err = conn.Model(&models.Member{}).
		Where("user_id = ? AND workspace_id = ?", userID, workspace.ID).
		Count(&count).Error
	if err != nil {
		return nil, apperror.Internal("check membership", err)
	}
	if count > 0 {
		return nil, alreadyMember()
	}

	role, err := findRole(conn, types.RoleMember)
	if err != nil {
		return nil, err
	}

	member := models.Member{
		UserID:      userID,
		WorkspaceID: workspace.ID,
		RoleID:      role.ID,
		JoinedAt:    time.Now().UTC(),
	}

	err = conn.Create(&member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, alreadyMember()
	}
	if err != nil {
		return nil, apperror.Internal("create member", err)
	}

	return &JoinResult{WorkspaceID: workspace.ID, Role: role.Name}, nil
}
