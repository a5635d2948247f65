package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type CreateTaskRequest struct {
	Title       string             `json:"title" binding:"required,max=255"`
	Description *string            `json:"description"`
	Priority    types.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status      types.TaskStatus   `json:"status" binding:"omitempty,oneof=BACKLOG TODO IN_PROGRESS IN_REVIEW DONE"`
	AssignedTo  types.NullableID   `json:"assignedTo"`
	DueDate     types.NullableTime `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       *string             `json:"title" binding:"omitempty,max=255"`
	Description *string             `json:"description"`
	Priority    *types.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status      *types.TaskStatus   `json:"status" binding:"omitempty,oneof=BACKLOG TODO IN_PROGRESS IN_REVIEW DONE"`
	AssignedTo  types.NullableID    `json:"assignedTo"`
	DueDate     types.NullableTime  `json:"dueDate"`
}

func taskFiltersFromQuery(ctx *gin.Context) (services.TaskFilters, error) {
	var f services.TaskFilters

	if ctx.Query("projectId") != "" {
		id, err := utils.GetQueryIDs(ctx, "projectId")
		if err != nil || len(id) != 1 {
			return f, apperror.Validation("projectId must be a single ID")
		}
		f.ProjectID = &id[0]
	}

	for _, s := range utils.GetQueryList(ctx, "status") {
		status := types.TaskStatus(strings.ToUpper(s))
		if !status.Valid() {
			return f, apperror.Validation(fmt.Sprintf("Invalid status %q", s))
		}
		f.Status = append(f.Status, status)
	}

	for _, p := range utils.GetQueryList(ctx, "priority") {
		priority := types.TaskPriority(strings.ToUpper(p))
		if !priority.Valid() {
			return f, apperror.Validation(fmt.Sprintf("Invalid priority %q", p))
		}
		f.Priority = append(f.Priority, priority)
	}

	assignees, err := utils.GetQueryIDs(ctx, "assignedTo")
	if err != nil {
		return f, err
	}
	f.AssignedTo = assignees

	if raw := ctx.Query("dueDate"); raw != "" {
		due, err := types.ParseDate(raw)
		if err != nil {
			return f, apperror.Validation("dueDate must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		}
		f.DueDate = &due
	}

	f.Keyword = ctx.Query("keyword")

	return f, nil
}

func (h *Handler) CreateTask(ctx *gin.Context) {
	projectID, err := utils.GetIDParam(ctx, "projectId", "Project")

	if err != nil {
		fail(ctx, err)
		return
	}

	workspaceID, err := utils.GetWorkspaceID(ctx, "workspaceId")

	if err != nil {
		fail(ctx, err)
		return
	}

	var req CreateTaskRequest

	if !bindJSON(ctx, &req) {
		return
	}

	userID, err := h.authorize(ctx, workspaceID, types.PermCreateTask)

	if err != nil {
		fail(ctx, err)
		return
	}

	task, err := h.Services.Tasks.Create(ctx.Request.Context(), workspaceID, projectID, userID, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo.ID,
		DueDate:     req.DueDate.Time,
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	h.refresh(workspaceID, resourceTasks)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    task,
	})
}

func (h *Handler) UpdateTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "id", "Task")

	if err != nil {
		fail(ctx, err)
		return
	}

	projectID, err := utils.GetIDParam(ctx, "projectId", "Project")

	if err != nil {
		fail(ctx, err)
		return
	}

	workspaceID, err := utils.GetWorkspaceID(ctx, "workspaceId")

	if err != nil {
		fail(ctx, err)
		return
	}

	var req UpdateTaskRequest

	if !bindJSON(ctx, &req) {
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermEditTask); err != nil {
		fail(ctx, err)
		return
	}

	task, err := h.Services.Tasks.Update(ctx.Request.Context(), workspaceID, projectID, taskID, services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	h.refresh(workspaceID, resourceTasks)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    task,
	})
}

func (h *Handler) ListTasks(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "workspaceId")

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermViewOnly); err != nil {
		fail(ctx, err)
		return
	}

	filters, err := taskFiltersFromQuery(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	page, err := pageFromQuery(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	tasks, pagination, err := h.Services.Tasks.List(ctx.Request.Context(), workspaceID, filters, page)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":    "All tasks fetched successfully",
		"tasks":      tasks,
		"pagination": pagination,
	})
}

func (h *Handler) GetTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "id", "Task")

	if err != nil {
		fail(ctx, err)
		return
	}

	projectID, err := utils.GetIDParam(ctx, "projectId", "Project")

	if err != nil {
		fail(ctx, err)
		return
	}

	workspaceID, err := utils.GetWorkspaceID(ctx, "workspaceId")

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermViewOnly); err != nil {
		fail(ctx, err)
		return
	}

	task, err := h.Services.Tasks.Get(ctx.Request.Context(), workspaceID, projectID, taskID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task fetched successfully",
		"task":    task,
	})
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "id", "Task")

	if err != nil {
		fail(ctx, err)
		return
	}

	workspaceID, err := utils.GetWorkspaceID(ctx, "workspaceId")

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermDeleteTask); err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.Services.Tasks.Delete(ctx.Request.Context(), workspaceID, taskID); err != nil {
		fail(ctx, err)
		return
	}

	h.refresh(workspaceID, resourceTasks)

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
