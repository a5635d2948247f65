package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type ProjectInput struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Emoji       string  `json:"emoji,omitempty"`
}

// Page selects a page of a list. Zero values use the server defaults.
type Page struct {
	Size   int
	Number int
}

func (p Page) values() url.Values {
	q := url.Values{}
	if p.Size > 0 {
		q.Set("pageSize", strconv.Itoa(p.Size))
	}
	if p.Number > 0 {
		q.Set("pageNumber", strconv.Itoa(p.Number))
	}
	return q
}

func (c *Client) CreateProject(ctx context.Context, s *Session, workspaceID uint, in ProjectInput) (*Project, error) {
	var resp struct {
		Project Project `json:"project"`
	}

	if err := c.do(ctx, s, http.MethodPost, fmt.Sprintf("/project/workspace/%d/create", workspaceID), nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Project, nil
}

func (c *Client) ListProjects(ctx context.Context, s *Session, workspaceID uint, page Page) ([]Project, *Pagination, error) {
	var resp struct {
		Projects   []Project  `json:"projects"`
		Pagination Pagination `json:"pagination"`
	}

	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/project/workspace/%d/all", workspaceID), page.values(), nil, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Projects, &resp.Pagination, nil
}

func (c *Client) GetProject(ctx context.Context, s *Session, workspaceID, projectID uint) (*Project, error) {
	var resp struct {
		Project Project `json:"project"`
	}

	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/project/%d/workspace/%d", projectID, workspaceID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Project, nil
}

func (c *Client) ProjectAnalytics(ctx context.Context, s *Session, workspaceID, projectID uint) (*Analytics, error) {
	var resp struct {
		Analytics Analytics `json:"analytics"`
	}

	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/project/%d/workspace/%d/analytics", projectID, workspaceID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Analytics, nil
}

func (c *Client) UpdateProject(ctx context.Context, s *Session, workspaceID, projectID uint, in ProjectInput) (*Project, error) {
	var resp struct {
		Project Project `json:"project"`
	}

	if err := c.do(ctx, s, http.MethodPut, fmt.Sprintf("/project/%d/workspace/%d/update", projectID, workspaceID), nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Project, nil
}

func (c *Client) DeleteProject(ctx context.Context, s *Session, workspaceID, projectID uint) error {
	return c.do(ctx, s, http.MethodDelete, fmt.Sprintf("/project/%d/workspace/%d/delete", projectID, workspaceID), nil, nil, nil)
}
