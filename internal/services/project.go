package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ProjectService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProjectService(conn *gorm.DB) *ProjectService {
	return &ProjectService{db: conn, now: time.Now}
}

type ProjectInput struct {
	Name        string
	Description *string
	Emoji       *string
}

type ProjectUpdate struct {
	Name        *string
	Description *string
	Emoji       *string
}

func projectNotFound() *apperror.Error {
	return apperror.NotFound("Project not found or does not belong to the specified workspace")
}

func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "profile_picture")
}

// findProject loads a project scoped to its workspace.
func findProject(conn *gorm.DB, workspaceID, projectID uint) (*models.Project, error) {
	var project models.Project

	err := conn.Where("id = ? AND workspace_id = ?", projectID, workspaceID).First(&project).Error
	if isNotFound(err) {
		return nil, projectNotFound()
	}
	if err != nil {
		return nil, apperror.Internal("find project", err)
	}

	return &project, nil
}

func (s *ProjectService) Create(ctx context.Context, workspaceID, userID uint, in ProjectInput) (*models.Project, error) {
	emoji := types.DefaultProjectEmoji
	if in.Emoji != nil && *in.Emoji != "" {
		emoji = *in.Emoji
	}

	project := models.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Emoji:       emoji,
		WorkspaceID: workspaceID,
		CreatedByID: userID,
	}

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, apperror.Internal("create project", err)
	}

	return &project, nil
}

// List returns one page of the workspace's projects, newest first.
func (s *ProjectService) List(ctx context.Context, workspaceID uint, page PageRequest) ([]models.Project, types.Pagination, error) {
	conn := s.db.WithContext(ctx)

	var (
		projects   = []models.Project{}
		totalCount int64
	)

	g := new(errgroup.Group)

	g.Go(func() error {
		return conn.Model(&models.Project{}).Where("workspace_id = ?", workspaceID).Count(&totalCount).Error
	})

	g.Go(func() error {
		return conn.Preload("CreatedBy", selectUserSummary).
			Where("workspace_id = ?", workspaceID).
			Order("created_at DESC").Order("id DESC").
			Offset(page.Offset()).Limit(page.PageSize).
			Find(&projects).Error
	})

	if err := g.Wait(); err != nil {
		return nil, types.Pagination{}, apperror.Internal("list projects", err)
	}

	return projects, types.NewPagination(page.PageSize, page.PageNumber, totalCount), nil
}

func (s *ProjectService) Get(ctx context.Context, workspaceID, projectID uint) (*models.Project, error) {
	var project models.Project

	err := s.db.WithContext(ctx).
		Preload("CreatedBy", selectUserSummary).
		Where("id = ? AND workspace_id = ?", projectID, workspaceID).
		First(&project).Error

	if isNotFound(err) {
		return nil, projectNotFound()
	}
	if err != nil {
		return nil, apperror.Internal("get project", err)
	}

	return &project, nil
}

func (s *ProjectService) Update(ctx context.Context, workspaceID, projectID uint, in ProjectUpdate) (*models.Project, error) {
	conn := s.db.WithContext(ctx)

	project, err := findProject(conn, workspaceID, projectID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		project.Name = strings.TrimSpace(*in.Name)
		updates["name"] = project.Name
	}
	if in.Description != nil {
		project.Description = in.Description
		updates["description"] = *in.Description
	}
	if in.Emoji != nil && *in.Emoji != "" {
		project.Emoji = *in.Emoji
		updates["emoji"] = project.Emoji
	}

	if len(updates) > 0 {
		if err := conn.Model(project).Updates(updates).Error; err != nil {
			return nil, apperror.Internal("update project", err)
		}
	}

	return project, nil
}

// Delete removes the project and all of its tasks atomically.
func (s *ProjectService) Delete(ctx context.Context, workspaceID, projectID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := findProject(tx, workspaceID, projectID)
		if err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete project tasks: %w", err)
		}

		if err := tx.Delete(project).Error; err != nil {
			return fmt.Errorf("delete project: %w", err)
		}

		return nil
	})
}

func (s *ProjectService) Analytics(ctx context.Context, workspaceID, projectID uint) (types.Analytics, error) {
	conn := s.db.WithContext(ctx)

	if _, err := findProject(conn, workspaceID, projectID); err != nil {
		return types.Analytics{}, err
	}

	return taskAnalytics(conn, s.now().UTC(), "project_id = ?", projectID)
}
