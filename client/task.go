package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type TaskInput struct {
	Title       string  `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Status      string  `json:"status,omitempty"`
	AssignedTo  *uint   `json:"assignedTo,omitempty"`
	DueDate     string  `json:"dueDate,omitempty"`
}

// TaskQuery filters ListTasks. Empty fields do not filter.
type TaskQuery struct {
	ProjectID  uint
	Status     []string
	Priority   []string
	AssignedTo []uint
	DueDate    string
	Keyword    string
	Page       Page
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func (c *Client) CreateTask(ctx context.Context, s *Session, workspaceID, projectID uint, in TaskInput) (*Task, error) {
	var resp struct {
		Task Task `json:"task"`
	}

	path := fmt.Sprintf("/task/projects/%d/workspace/%d/create", projectID, workspaceID)
	if err := c.do(ctx, s, http.MethodPost, path, nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// UpdateTask sends a partial update. Fields left empty are unchanged.
func (c *Client) UpdateTask(ctx context.Context, s *Session, workspaceID, projectID, taskID uint, in TaskInput) (*Task, error) {
	var resp struct {
		Task Task `json:"task"`
	}

	path := fmt.Sprintf("/task/%d/projects/%d/workspace/%d/update", taskID, projectID, workspaceID)
	if err := c.do(ctx, s, http.MethodPut, path, nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) ListTasks(ctx context.Context, s *Session, workspaceID uint, q TaskQuery) ([]Task, *Pagination, error) {
	var resp struct {
		Tasks      []Task     `json:"tasks"`
		Pagination Pagination `json:"pagination"`
	}

	values := q.Page.values()
	if q.ProjectID != 0 {
		values.Set("projectId", strconv.FormatUint(uint64(q.ProjectID), 10))
	}
	if len(q.Status) > 0 {
		values.Set("status", strings.Join(q.Status, ","))
	}
	if len(q.Priority) > 0 {
		values.Set("priority", strings.Join(q.Priority, ","))
	}
	if len(q.AssignedTo) > 0 {
		values.Set("assignedTo", joinIDs(q.AssignedTo))
	}
	if q.DueDate != "" {
		values.Set("dueDate", q.DueDate)
	}
	if q.Keyword != "" {
		values.Set("keyword", q.Keyword)
	}

	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/task/workspace/%d/all", workspaceID), values, nil, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Tasks, &resp.Pagination, nil
}

func (c *Client) GetTask(ctx context.Context, s *Session, workspaceID, projectID, taskID uint) (*Task, error) {
	var resp struct {
		Task Task `json:"task"`
	}

	path := fmt.Sprintf("/task/%d/project/%d/workspace/%d", taskID, projectID, workspaceID)
	if err := c.do(ctx, s, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, s *Session, workspaceID, taskID uint) error {
	return c.do(ctx, s, http.MethodDelete, fmt.Sprintf("/task/%d/workspace/%d/delete", taskID, workspaceID), nil, nil, nil)
}
