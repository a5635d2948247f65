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

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(conn *gorm.DB) *TaskService {
	return &TaskService{db: conn}
}

type TaskInput struct {
	Title       string
	Description *string
	Priority    types.TaskPriority
	Status      types.TaskStatus
	AssignedTo  *uint
	DueDate     *time.Time
}

// TaskUpdate applies non-nil fields. AssignedTo and DueDate use their Set
// flag so an explicit null clears the column.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *types.TaskPriority
	Status      *types.TaskStatus
	AssignedTo  types.NullableID
	DueDate     types.NullableTime
}

// TaskFilters are ANDed. Empty slices and nil pointers do not filter.
type TaskFilters struct {
	ProjectID  *uint
	Status     []types.TaskStatus
	Priority   []types.TaskPriority
	AssignedTo []uint
	DueDate    *time.Time
	Keyword    string
}

func taskNotFound() *apperror.Error {
	return apperror.NotFound("Task not found")
}

func requireAssignee(conn *gorm.DB, workspaceID uint, userID *uint) error {
	if userID == nil {
		return nil
	}

	var count int64
	err := conn.Model(&models.Member{}).
		Where("user_id = ? AND workspace_id = ?", *userID, workspaceID).
		Count(&count).Error
	if err != nil {
		return apperror.Internal("check assignee", err)
	}
	if count == 0 {
		return apperror.NotFound("Assigned user is not a member of this workspace")
	}

	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (s *TaskService) Create(ctx context.Context, workspaceID, projectID, userID uint, in TaskInput) (*models.Task, error) {
	conn := s.db.WithContext(ctx)

	if _, err := findProject(conn, workspaceID, projectID); err != nil {
		return nil, err
	}

	if err := requireAssignee(conn, workspaceID, in.AssignedTo); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = types.TaskStatusTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = types.TaskPriorityMedium
	}

	task := models.Task{
		TaskCode:     newTaskCode(),
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Status:       status,
		Priority:     priority,
		WorkspaceID:  workspaceID,
		ProjectID:    projectID,
		AssignedToID: in.AssignedTo,
		CreatedByID:  userID,
		DueDate:      utcPtr(in.DueDate),
	}

	if err := conn.Create(&task).Error; err != nil {
		return nil, apperror.Internal("create task", err)
	}

	return &task, nil
}

func (s *TaskService) Update(ctx context.Context, workspaceID, projectID, taskID uint, in TaskUpdate) (*models.Task, error) {
	conn := s.db.WithContext(ctx)

	if _, err := findProject(conn, workspaceID, projectID); err != nil {
		return nil, err
	}

	var task models.Task
	err := conn.Where("id = ? AND project_id = ? AND workspace_id = ?", taskID, projectID, workspaceID).First(&task).Error
	if isNotFound(err) {
		return nil, apperror.NotFound("Task not found or is not part of this project")
	}
	if err != nil {
		return nil, apperror.Internal("find task", err)
	}

	if in.AssignedTo.Set {
		if err := requireAssignee(conn, workspaceID, in.AssignedTo.ID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		task.Title = strings.TrimSpace(*in.Title)
		updates["title"] = task.Title
	}
	if in.Description != nil {
		task.Description = in.Description
		updates["description"] = *in.Description
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
		updates["priority"] = task.Priority
	}
	if in.Status != nil {
		task.Status = *in.Status
		updates["status"] = task.Status
	}
	if in.AssignedTo.Set {
		task.AssignedToID = in.AssignedTo.ID
		updates["assigned_to_id"] = task.AssignedToID
	}
	if in.DueDate.Set {
		task.DueDate = utcPtr(in.DueDate.Time)
		updates["due_date"] = task.DueDate
	}

	if len(updates) > 0 {
		if err := conn.Model(&task).Updates(updates).Error; err != nil {
			return nil, apperror.Internal("update task", err)
		}
	}

	return &task, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyTaskFilters narrows q to the workspace and the given filters.
func applyTaskFilters(q *gorm.DB, workspaceID uint, f TaskFilters) *gorm.DB {
	q = q.Where("workspace_id = ?", workspaceID)

	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if len(f.Status) > 0 {
		q = q.Where("status IN ?", f.Status)
	}
	if len(f.Priority) > 0 {
		q = q.Where("priority IN ?", f.Priority)
	}
	if len(f.AssignedTo) > 0 {
		q = q.Where("assigned_to_id IN ?", f.AssignedTo)
	}
	if f.DueDate != nil {
		d := f.DueDate.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("due_date >= ? AND due_date < ?", day, day.AddDate(0, 0, 1))
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(kw)) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
	}

	return q
}

// List filters and pages the workspace's tasks, newest first. The count and
// the page are fetched concurrently.
func (s *TaskService) List(ctx context.Context, workspaceID uint, filters TaskFilters, page PageRequest) ([]models.Task, types.Pagination, error) {
	conn := s.db.WithContext(ctx)

	var (
		tasks      = []models.Task{}
		totalCount int64
	)

	g := new(errgroup.Group)

	g.Go(func() error {
		q := applyTaskFilters(conn.Model(&models.Task{}), workspaceID, filters)
		if err := q.Count(&totalCount).Error; err != nil {
			return fmt.Errorf("count tasks: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		q := applyTaskFilters(conn.Model(&models.Task{}), workspaceID, filters)
		err := q.Preload("AssignedTo", selectUserSummary).
			Preload("Project", func(db *gorm.DB) *gorm.DB { return db.Select("id", "emoji", "name") }).
			Order("created_at DESC").Order("id DESC").
			Offset(page.Offset()).Limit(page.PageSize).
			Find(&tasks).Error
		if err != nil {
			return fmt.Errorf("fetch tasks: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, types.Pagination{}, apperror.Internal("list tasks", err)
	}

	return tasks, types.NewPagination(page.PageSize, page.PageNumber, totalCount), nil
}

func (s *TaskService) Get(ctx context.Context, workspaceID, projectID, taskID uint) (*models.Task, error) {
	conn := s.db.WithContext(ctx)

	if _, err := findProject(conn, workspaceID, projectID); err != nil {
		return nil, err
	}

	var task models.Task
	err := conn.Preload("AssignedTo", selectUserSummary).
		Preload("Project", func(db *gorm.DB) *gorm.DB { return db.Select("id", "emoji", "name") }).
		Where("id = ? AND project_id = ? AND workspace_id = ?", taskID, projectID, workspaceID).
		First(&task).Error

	if isNotFound(err) {
		return nil, taskNotFound()
	}
	if err != nil {
		return nil, apperror.Internal("get task", err)
	}

	return &task, nil
}

func (s *TaskService) Delete(ctx context.Context, workspaceID, taskID uint) (*models.Task, error) {
	var task models.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND workspace_id = ?", taskID, workspaceID).First(&task).Error
		if isNotFound(err) {
			return apperror.NotFound("Task not found or does not belong to this workspace")
		}
		if err != nil {
			return apperror.Internal("find task", err)
		}

		return tx.Delete(&task).Error
	})

	if err != nil {
		return nil, err
	}

	return &task, nil
}

// CountByStatus counts tasks across every workspace. Statuses with no tasks
// are reported as zero.
func (s *TaskService) CountByStatus(ctx context.Context) (map[types.TaskStatus]int64, error) {
	var rows []struct {
		Status types.TaskStatus
		Count  int64
	}

	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.Internal("count tasks by status", err)
	}

	counts := make(map[types.TaskStatus]int64, len(types.TaskStatuses()))
	for _, st := range types.TaskStatuses() {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
