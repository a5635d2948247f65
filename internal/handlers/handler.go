package handlers

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/middleware"
	"github.com/taskhive-dev/taskhive/internal/ratelimit"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"gorm.io/gorm"
)

type CookieConfig struct {
	Domain string
	Secure bool
}

type FrontendConfig struct {
	Origin            string
	GoogleCallbackURL string
}

// Deps are the collaborators a Handler needs. Google, Redis, Revocations and
// Limiter may be nil.
type Deps struct {
	Services    *services.Services
	JWT         *auth.JWTManager
	Revocations auth.RevocationStore
	Limiter     *ratelimit.Limiter
	Google      *auth.GoogleProvider
	Hub         *Hub
	DB          *gorm.DB
	Redis       *goredis.Client
	Cookie      CookieConfig
	Frontend    FrontendConfig
	Log         *logrus.Entry
}

type Handler struct {
	Deps
}

func New(deps Deps) *Handler {
	return &Handler{Deps: deps}
}

// authorize resolves the caller's role in workspaceID and checks every
// permission. It returns the caller's user id.
func (h *Handler) authorize(ctx *gin.Context, workspaceID uint, permissions ...types.Permission) (uint, error) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		return 0, err
	}

	role, err := h.Services.Members.ResolveRole(ctx.Request.Context(), userID, workspaceID)

	if err != nil {
		return 0, err
	}

	if err := auth.RoleGuard(role, permissions...); err != nil {
		return 0, err
	}

	return userID, nil
}

func (h *Handler) refresh(workspaceID uint, resource string) {
	if h.Hub != nil {
		h.Hub.BroadcastRefresh(workspaceID, resource)
	}
}

func fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
}

func bindJSON(ctx *gin.Context, dst interface{}) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		middleware.BindError(ctx, err)
		return false
	}
	return true
}
