package services

import (
	"context"

	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(conn *gorm.DB) *UserService {
	return &UserService{db: conn}
}

// Current loads the user with the current workspace populated.
func (s *UserService) Current(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Preload("CurrentWorkspace").First(&user, userID).Error
	if isNotFound(err) {
		return nil, apperror.NotFound("User not found").WithCode(apperror.CodeUserNotFound)
	}
	if err != nil {
		return nil, apperror.Internal("load user", err)
	}

	return &user, nil
}

// FindActive is used by the auth middleware to resolve a token's subject.
func (s *UserService) FindActive(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error
	if isNotFound(err) {
		return nil, apperror.Unauthorized("Unauthorized. Please log in.").WithCode(apperror.CodeUserNotFound)
	}
	if err != nil {
		return nil, apperror.Internal("load user", err)
	}

	return &user, nil
}
