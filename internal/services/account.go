package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "Invalid email or password"

type AccountService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAccountService(conn *gorm.DB) *AccountService {
	return &AccountService{db: conn, now: time.Now}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// ProviderProfile is an identity asserted by an external login provider.
// Only a verified email resolves to an existing user.
type ProviderProfile struct {
	Provider      types.AccountProvider
	ProviderID    string
	DisplayName   string
	Email         string
	EmailVerified bool
	Picture       *string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailExists() *apperror.Error {
	return apperror.BadRequest("Email already exists").WithCode(apperror.CodeEmailAlreadyExists)
}

// RegisterUser creates a local account together with its default workspace.
func (s *AccountService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperror.Internal("check email", err)
	}
	if count > 0 {
		return nil, emailExists()
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: &hash,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return provisionUser(tx, user, types.ProviderEmail, email)
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, emailExists()
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// LoginOrCreateAccount resolves an external identity to a user, provisioning
// one on first sight. Existing users get the provider account linked.
func (s *AccountService) LoginOrCreateAccount(ctx context.Context, p ProviderProfile) (*models.User, error) {
	if p.ProviderID == "" || p.Email == "" {
		return nil, apperror.Validation("Provider identity requires an id and an email")
	}

	email := normalizeEmail(p.Email)
	var user models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&user).Error

		if isNotFound(err) {
			name := strings.TrimSpace(p.DisplayName)
			if name == "" {
				name = email
			}

			user = models.User{
				Name:           name,
				Email:          email,
				ProfilePicture: p.Picture,
				IsActive:       true,
			}
			return provisionUser(tx, &user, p.Provider, p.ProviderID)
		}

		if err != nil {
			return apperror.Internal("find user", err)
		}

		if !p.EmailVerified {
			return apperror.Unauthorized("Provider email is not verified")
		}

		return linkAccount(tx, user.ID, p.Provider, p.ProviderID)
	})

	if err != nil {
		return nil, err
	}

	if err := s.touchLastLogin(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// VerifyUser checks local credentials and stamps lastLogin.
func (s *AccountService) VerifyUser(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	var account models.Account
	err := s.db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", types.ProviderEmail, email).
		First(&account).Error

	if isNotFound(err) {
		return nil, apperror.Unauthorized(invalidCredentialsMessage).WithCode(apperror.CodeAuthNotFound)
	}
	if err != nil {
		return nil, apperror.Internal("find account", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).First(&user, account.UserID).Error
	if isNotFound(err) {
		return nil, apperror.Unauthorized(invalidCredentialsMessage).WithCode(apperror.CodeUserNotFound)
	}
	if err != nil {
		return nil, apperror.Internal("find user", err)
	}

	if user.PasswordHash == nil || !auth.ComparePassword(*user.PasswordHash, password) {
		return nil, apperror.Unauthorized(invalidCredentialsMessage)
	}

	if !user.IsActive {
		return nil, apperror.Unauthorized("Account is disabled")
	}

	if err := s.touchLastLogin(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *AccountService) touchLastLogin(ctx context.Context, user *models.User) error {
	now := s.now().UTC()

	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Update("last_login", now).Error
	if err != nil {
		return apperror.Internal("update last login", err)
	}

	user.LastLogin = &now
	return nil
}

// provisionUser writes user, account, default workspace and owner membership.
// It must run inside a transaction; any error rolls all of it back.
func provisionUser(tx *gorm.DB, user *models.User, provider types.AccountProvider, providerID string) error {
	if err := tx.Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	account := models.Account{UserID: user.ID, Provider: provider, ProviderID: providerID}
	if err := tx.Create(&account).Error; err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	description := fmt.Sprintf("Workspace created for %s", user.Name)
	workspace := models.Workspace{
		Name:        types.DefaultWorkspaceName,
		Description: &description,
		OwnerID:     user.ID,
		InviteCode:  newInviteCode(),
	}
	if err := tx.Create(&workspace).Error; err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	ownerRole, err := findRole(tx, types.RoleOwner)
	if err != nil {
		return err
	}

	member := models.Member{
		UserID:      user.ID,
		WorkspaceID: workspace.ID,
		RoleID:      ownerRole.ID,
		JoinedAt:    time.Now().UTC(),
	}
	if err := tx.Create(&member).Error; err != nil {
		return fmt.Errorf("create member: %w", err)
	}

	if err := tx.Model(user).Update("current_workspace_id", workspace.ID).Error; err != nil {
		return fmt.Errorf("set current workspace: %w", err)
	}

	user.CurrentWorkspaceID = &workspace.ID
	return nil
}

func linkAccount(tx *gorm.DB, userID uint, provider types.AccountProvider, providerID string) error {
	var account models.Account

	err := tx.Where("provider = ? AND provider_id = ?", provider, providerID).First(&account).Error
	if err == nil {
		if account.UserID != userID {
			return apperror.BadRequest("This account is linked to another user")
		}
		return nil
	}
	if !isNotFound(err) {
		return apperror.Internal("find account", err)
	}

	account = models.Account{UserID: userID, Provider: provider, ProviderID: providerID}
	if err := tx.Create(&account).Error; err != nil {
		return fmt.Errorf("link account: %w", err)
	}

	return nil
}
