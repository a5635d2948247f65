package types

import (
	"math"
	"strings"
)

const (
	ContextUserKey      = "user"
	ContextRequestIDKey = "request_id"

	TokenCookieName       = "token"
	OAuthStateCookieName  = "oauth_state"
	DefaultWorkspaceName  = "My Workspace"
	DefaultProjectEmoji   = "📊"
	DefaultPageSize       = 10
	DefaultPageNumber     = 1
	MaxPageSize           = 100
	MaxPageNumber         = math.MaxInt32 / MaxPageSize
	InviteCodeLength      = 8
	TaskCodeSuffixLength  = 8
	TaskCodePrefix        = "task-"
	RequestIDHeader       = "X-Request-ID"
	AuthorizationScheme   = "Bearer"
	AuthorizationHeader   = "Authorization"
	InvalidJSONMessage    = "Invalid JSON format. Please check your request body."
	InternalErrorMessage  = "Internal server error"
	ForbiddenErrorMessage = "You do not have the necessary permissions to perform this action"
)

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}
)

// AllowedOrigins merges the development defaults with the configured frontend
// origin and any extra comma separated origins.
func AllowedOrigins(frontendOrigin, extra string) []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	seen := make(map[string]bool, len(origins))
	for _, o := range origins {
		seen[o] = true
	}

	add := func(origin string) {
		trimmed := strings.TrimRight(strings.TrimSpace(origin), "/")
		if trimmed == "" || seen[trimmed] {
			return
		}
		seen[trimmed] = true
		origins = append(origins, trimmed)
	}

	add(frontendOrigin)

	for _, origin := range strings.Split(extra, ",") {
		add(origin)
	}

	return origins
}
