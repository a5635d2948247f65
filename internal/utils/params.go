package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/apperror"
)

// GetIDParam parses a positive numeric path parameter. label names the
// resource in the error message.
func GetIDParam(ctx *gin.Context, name, label string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, apperror.Validation(fmt.Sprintf("%s ID is required", label))
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, apperror.Validation(fmt.Sprintf("Invalid %s ID", label))
	}

	return uint(id), nil
}

func GetWorkspaceID(ctx *gin.Context, name string) (uint, error) {
	return GetIDParam(ctx, name, "Workspace")
}

// GetQueryInt returns 0 for an absent parameter.
func GetQueryInt(ctx *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(ctx.Query(key))

	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)

	if err != nil {
		return 0, apperror.Validation(fmt.Sprintf("%s must be a number", key))
	}

	return v, nil
}

// GetQueryList splits a comma separated query value, dropping blanks.
func GetQueryList(ctx *gin.Context, key string) []string {
	raw := ctx.Query(key)

	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// GetQueryIDs parses a comma separated list of ids.
func GetQueryIDs(ctx *gin.Context, key string) ([]uint, error) {
	parts := GetQueryList(ctx, key)
	ids := make([]uint, 0, len(parts))

	for _, p := range parts {
		id, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, apperror.Validation(fmt.Sprintf("%s contains an invalid ID", key))
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}
