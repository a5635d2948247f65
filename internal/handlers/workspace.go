package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/metrics"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

const (
	resourceWorkspace = "workspace"
	resourceMembers   = "members"
	resourceProjects  = "projects"
	resourceTasks     = "tasks"
)

type CreateWorkspaceRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
}

type UpdateWorkspaceRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
}

type ChangeRoleRequest struct {
	MemberID uint `json:"memberId" binding:"required"`
	RoleID   uint `json:"roleId" binding:"required"`
}

func (h *Handler) CreateWorkspace(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	var req CreateWorkspaceRequest

	if !bindJSON(ctx, &req) {
		return
	}

	workspace, err := h.Services.Workspaces.Create(ctx.Request.Context(), userID, services.WorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	metrics.WorkspaceEvents.WithLabelValues("created").Inc()

	ctx.JSON(http.StatusCreated, gin.H{
		"message":   "Workspace created successfully",
		"workspace": workspace,
	})
}

func (h *Handler) ListWorkspaces(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	workspaces, err := h.Services.Workspaces.ListForUser(ctx.Request.Context(), userID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":    "User workspaces fetched successfully",
		"workspaces": workspaces,
	})
}

func (h *Handler) GetWorkspace(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "id")

	if err != nil {
		fail(ctx, err)
		return
	}

	// membership is enough to read the workspace itself
	if _, err := h.authorize(ctx, workspaceID); err != nil {
		fail(ctx, err)
		return
	}

	workspace, err := h.Services.Workspaces.GetByID(ctx.Request.Context(), workspaceID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Workspace fetched successfully",
		"workspace": workspace,
	})
}

func (h *Handler) WorkspaceMembers(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "id")

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermViewOnly); err != nil {
		fail(ctx, err)
		return
	}

	members, roles, err := h.Services.Workspaces.Members(ctx.Request.Context(), workspaceID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Workspace members fetched successfully",
		"members": members,
		"roles":   roles,
	})
}

func (h *Handler) WorkspaceAnalytics(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "id")

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermViewOnly); err != nil {
		fail(ctx, err)
		return
	}

	analytics, err := h.Services.Workspaces.Analytics(ctx.Request.Context(), workspaceID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Workspace analytics retrieved successfully",
		"analytics": analytics,
	})
}

func (h *Handler) ChangeMemberRole(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "id")

	if err != nil {
		fail(ctx, err)
		return
	}

	var req ChangeRoleRequest

	if !bindJSON(ctx, &req) {
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermChangeMemberRole); err != nil {
		fail(ctx, err)
		return
	}

	member, err := h.Services.Workspaces.ChangeMemberRole(ctx.Request.Context(), workspaceID, req.MemberID, req.RoleID)

	if err != nil {
		fail(ctx, err)
		return
	}

	metrics.WorkspaceEvents.WithLabelValues("role_changed").Inc()
	h.refresh(workspaceID, resourceMembers)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Member role changed successfully",
		"member":  member,
	})
}

func (h *Handler) UpdateWorkspace(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "id")

	if err != nil {
		fail(ctx, err)
		return
	}

	var req UpdateWorkspaceRequest

	if !bindJSON(ctx, &req) {
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermEditWorkspace); err != nil {
		fail(ctx, err)
		return
	}

	workspace, err := h.Services.Workspaces.Update(ctx.Request.Context(), workspaceID, services.WorkspaceUpdate{
		Name:        req.Name,
		Description: req.Description,
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	h.refresh(workspaceID, resourceWorkspace)

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Workspace updated successfully",
		"workspace": workspace,
	})
}

func (h *Handler) DeleteWorkspace(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "id")

	if err != nil {
		fail(ctx, err)
		return
	}

	userID, err := h.authorize(ctx, workspaceID, types.PermDeleteWorkspace)

	if err != nil {
		fail(ctx, err)
		return
	}

	current, err := h.Services.Workspaces.Delete(ctx.Request.Context(), workspaceID, userID)

	if err != nil {
		fail(ctx, err)
		return
	}

	metrics.WorkspaceEvents.WithLabelValues("deleted").Inc()
	h.refresh(workspaceID, resourceWorkspace)

	ctx.JSON(http.StatusOK, gin.H{
		"message":          "Workspace deleted successfully",
		"currentWorkspace": current,
	})
}
