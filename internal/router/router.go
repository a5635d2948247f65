package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/metrics"
	"github.com/taskhive-dev/taskhive/internal/middleware"
	"github.com/taskhive-dev/taskhive/internal/types"
)

// Options configures NewRouter. Empty AllowedOrigins falls back to the
// development origins.
type Options struct {
	AllowedOrigins []string
}

func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	middleware.UseJSONFieldNames()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = types.AllowedOrigins("", "")
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(h.Log))
	r.Use(middleware.ErrorHandler(h.Log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireAuth := middleware.AuthMiddleware(h.JWT, h.Services.Users, h.Revocations, h.Log)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/ws/:workspaceId", requireAuth, h.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", middleware.LoginRateLimit(h.Limiter, h.Log), h.Login)
			auth.POST("/logout", h.Logout)
			auth.GET("/google", h.GoogleLogin)
			auth.GET("/google/callback", h.GoogleCallback)
		}

		user := api.Group("/user", requireAuth)
		{
			user.GET("/current", h.CurrentUser)
		}

		workspace := api.Group("/workspace", requireAuth)
		{
			workspace.POST("/create/new", h.CreateWorkspace)
			workspace.GET("/all", h.ListWorkspaces)
			workspace.GET("/members/:id", h.WorkspaceMembers)
			workspace.GET("/analytics/:id", h.WorkspaceAnalytics)
			workspace.PUT("/change/member/role/:id", h.ChangeMemberRole)
			workspace.PUT("/update/:id", h.UpdateWorkspace)
			workspace.DELETE("/delete/:id", h.DeleteWorkspace)
			workspace.GET("/:id", h.GetWorkspace)
		}

		member := api.Group("/member", requireAuth)
		{
			member.POST("/workspace/:inviteCode/join", h.JoinWorkspace)
		}

		project := api.Group("/project", requireAuth)
		{
			project.POST("/workspace/:workspaceId/create", h.CreateProject)
			project.GET("/workspace/:workspaceId/all", h.ListProjects)
			project.PUT("/:id/workspace/:workspaceId/update", h.UpdateProject)
			project.DELETE("/:id/workspace/:workspaceId/delete", h.DeleteProject)
			project.GET("/:id/workspace/:workspaceId/analytics", h.ProjectAnalytics)
			project.GET("/:id/workspace/:workspaceId", h.GetProject)
		}

		task := api.Group("/task", requireAuth)
		{
			task.POST("/projects/:projectId/workspace/:workspaceId/create", h.CreateTask)
			task.PUT("/:id/projects/:projectId/workspace/:workspaceId/update", h.UpdateTask)
			task.GET("/workspace/:workspaceId/all", h.ListTasks)
			task.GET("/:id/project/:projectId/workspace/:workspaceId", h.GetTask)
			task.DELETE("/:id/workspace/:workspaceId/delete", h.DeleteTask)
		}
	}

	return r
}
