package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
	Emoji       *string `json:"emoji" binding:"omitempty,max=16"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Emoji       *string `json:"emoji" binding:"omitempty,max=16"`
}

// projectParams reads :id and :workspaceId.
func projectParams(ctx *gin.Context) (projectID, workspaceID uint, err error) {
	if projectID, err = utils.GetIDParam(ctx, "id", "Project"); err != nil {
		return 0, 0, err
	}
	if workspaceID, err = utils.GetWorkspaceID(ctx, "workspaceId"); err != nil {
		return 0, 0, err
	}
	return projectID, workspaceID, nil
}

func pageFromQuery(ctx *gin.Context) (services.PageRequest, error) {
	size, err := utils.GetQueryInt(ctx, "pageSize")

	if err != nil {
		return services.PageRequest{}, err
	}

	number, err := utils.GetQueryInt(ctx, "pageNumber")

	if err != nil {
		return services.PageRequest{}, err
	}

	return services.NewPageRequest(size, number), nil
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "workspaceId")

	if err != nil {
		fail(ctx, err)
		return
	}

	var req CreateProjectRequest

	if !bindJSON(ctx, &req) {
		return
	}

	userID, err := h.authorize(ctx, workspaceID, types.PermCreateProject)

	if err != nil {
		fail(ctx, err)
		return
	}

	project, err := h.Services.Projects.Create(ctx.Request.Context(), workspaceID, userID, services.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	h.refresh(workspaceID, resourceProjects)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": project,
	})
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "workspaceId")

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermViewOnly); err != nil {
		fail(ctx, err)
		return
	}

	page, err := pageFromQuery(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	projects, pagination, err := h.Services.Projects.List(ctx.Request.Context(), workspaceID, page)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":    "Projects fetched successfully",
		"projects":   projects,
		"pagination": pagination,
	})
}

func (h *Handler) GetProject(ctx *gin.Context) {
	projectID, workspaceID, err := projectParams(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermViewOnly); err != nil {
		fail(ctx, err)
		return
	}

	project, err := h.Services.Projects.Get(ctx.Request.Context(), workspaceID, projectID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Project fetched successfully",
		"project": project,
	})
}

func (h *Handler) ProjectAnalytics(ctx *gin.Context) {
	projectID, workspaceID, err := projectParams(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermViewOnly); err != nil {
		fail(ctx, err)
		return
	}

	analytics, err := h.Services.Projects.Analytics(ctx.Request.Context(), workspaceID, projectID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Project analytics retrieved successfully",
		"analytics": analytics,
	})
}

func (h *Handler) UpdateProject(ctx *gin.Context) {
	projectID, workspaceID, err := projectParams(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	var req UpdateProjectRequest

	if !bindJSON(ctx, &req) {
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermEditProject); err != nil {
		fail(ctx, err)
		return
	}

	project, err := h.Services.Projects.Update(ctx.Request.Context(), workspaceID, projectID, services.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	h.refresh(workspaceID, resourceProjects)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": project,
	})
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
	projectID, workspaceID, err := projectParams(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermDeleteProject); err != nil {
		fail(ctx, err)
		return
	}

	if err := h.Services.Projects.Delete(ctx.Request.Context(), workspaceID, projectID); err != nil {
		fail(ctx, err)
		return
	}

	h.refresh(workspaceID, resourceProjects)
	h.refresh(workspaceID, resourceTasks)

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
