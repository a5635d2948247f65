package client

import "time"

type User struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	ProfilePicture     *string    `json:"profilePicture"`
	CurrentWorkspaceID *uint      `json:"currentWorkspace"`
	LastLogin          *time.Time `json:"lastLogin,omitempty"`
}

type UserSummary struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email,omitempty"`
	ProfilePicture *string `json:"profilePicture"`
}

type Role struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

type Member struct {
	ID          uint         `json:"id"`
	UserID      uint         `json:"userId"`
	WorkspaceID uint         `json:"workspaceId"`
	RoleID      uint         `json:"roleId"`
	JoinedAt    time.Time    `json:"joinedAt"`
	User        *UserSummary `json:"user,omitempty"`
	Role        *Role        `json:"role,omitempty"`
}

type Workspace struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     uint      `json:"owner"`
	InviteCode  string    `json:"inviteCode"`
	Members     []Member  `json:"members,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Project struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Emoji       string       `json:"emoji"`
	WorkspaceID uint         `json:"workspaceId"`
	CreatedBy   *UserSummary `json:"createdBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type Task struct {
	ID          uint         `json:"id"`
	TaskCode    string       `json:"taskCode"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	WorkspaceID uint         `json:"workspaceId"`
	ProjectID   uint         `json:"projectId"`
	DueDate     *time.Time   `json:"dueDate"`
	AssignedTo  *UserSummary `json:"assignedTo,omitempty"`
	Project     *struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Emoji string `json:"emoji"`
	} `json:"project,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
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
