package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type CurrentUserResponse struct {
	types.UserResponse
	CurrentWorkspace *models.Workspace `json:"currentWorkspace"`
}

func (h *Handler) CurrentUser(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	user, err := h.Services.Users.Current(ctx.Request.Context(), userID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User fetched successfully",
		"user": CurrentUserResponse{
			UserResponse:     user.Response(),
			CurrentWorkspace: user.CurrentWorkspace,
		},
	})
}
