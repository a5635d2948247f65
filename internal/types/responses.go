package types

import "time"

type UserResponse struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	ProfilePicture     *string    `json:"profilePicture"`
	CurrentWorkspaceID *uint      `json:"currentWorkspace"`
	LastLogin          *time.Time `json:"lastLogin,omitempty"`
}

type RoleSummary struct {
	ID   uint     `json:"id"`
	Name RoleName `json:"name"`
}

type Pagination struct {
	PageSize   int   `json:"pageSize"`
	PageNumber int   `json:"pageNumber"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	Skip       int   `json:"skip"`
}

type Analytics struct {
	TotalTasks     int64 `json:"totalTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
	CompletedTasks int64 `json:"completedTasks"`
}

// NewPagination fills in totals for a page request. pageSize must be positive.
func NewPagination(pageSize, pageNumber int, totalCount int64) Pagination {
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))

	return Pagination{
		PageSize:   pageSize,
		PageNumber: pageNumber,
		TotalCount: totalCount,
		TotalPages: totalPages,
		Skip:       (pageNumber - 1) * pageSize,
	}
}
