package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/metrics"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

func (h *Handler) JoinWorkspace(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	code := ctx.Param("inviteCode")

	if code == "" {
		fail(ctx, apperror.Validation("Invite code is required"))
		return
	}

	result, err := h.Services.Members.JoinByInviteCode(ctx.Request.Context(), userID, code)

	if err != nil {
		fail(ctx, err)
		return
	}

	metrics.WorkspaceEvents.WithLabelValues("joined").Inc()
	h.refresh(result.WorkspaceID, resourceMembers)

	ctx.JSON(http.StatusOK, gin.H{
		"message":     "Successfully joined the workspace",
		"workspaceId": result.WorkspaceID,
		"role":        result.Role,
	})
}
