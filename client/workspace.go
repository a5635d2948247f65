package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type WorkspaceInput struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (c *Client) CreateWorkspace(ctx context.Context, s *Session, in WorkspaceInput) (*Workspace, error) {
	var resp struct {
		Workspace Workspace `json:"workspace"`
	}

	if err := c.do(ctx, s, http.MethodPost, "/workspace/create/new", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Workspace, nil
}

func (c *Client) ListWorkspaces(ctx context.Context, s *Session) ([]Workspace, error) {
	var resp struct {
		Workspaces []Workspace `json:"workspaces"`
	}

	if err := c.do(ctx, s, http.MethodGet, "/workspace/all", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Workspaces, nil
}

func (c *Client) GetWorkspace(ctx context.Context, s *Session, workspaceID uint) (*Workspace, error) {
	var resp struct {
		Workspace Workspace `json:"workspace"`
	}

	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/workspace/%d", workspaceID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Workspace, nil
}

func (c *Client) WorkspaceMembers(ctx context.Context, s *Session, workspaceID uint) ([]Member, []Role, error) {
	var resp struct {
		Members []Member `json:"members"`
		Roles   []Role   `json:"roles"`
	}

	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/workspace/members/%d", workspaceID), nil, nil, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Members, resp.Roles, nil
}

func (c *Client) WorkspaceAnalytics(ctx context.Context, s *Session, workspaceID uint) (*Analytics, error) {
	var resp struct {
		Analytics Analytics `json:"analytics"`
	}

	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/workspace/analytics/%d", workspaceID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Analytics, nil
}

// ChangeMemberRole assigns roleID to the member identified by their user id.
func (c *Client) ChangeMemberRole(ctx context.Context, s *Session, workspaceID, userID, roleID uint) (*Member, error) {
	var resp struct {
		Member Member `json:"member"`
	}

	body := map[string]uint{"memberId": userID, "roleId": roleID}
	if err := c.do(ctx, s, http.MethodPut, fmt.Sprintf("/workspace/change/member/role/%d", workspaceID), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Member, nil
}

func (c *Client) UpdateWorkspace(ctx context.Context, s *Session, workspaceID uint, in WorkspaceInput) (*Workspace, error) {
	var resp struct {
		Workspace Workspace `json:"workspace"`
	}

	if err := c.do(ctx, s, http.MethodPut, fmt.Sprintf("/workspace/update/%d", workspaceID), nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Workspace, nil
}

// DeleteWorkspace returns the caller's current workspace afterwards, nil
// when they have none left.
func (c *Client) DeleteWorkspace(ctx context.Context, s *Session, workspaceID uint) (*uint, error) {
	var resp struct {
		CurrentWorkspace *uint `json:"currentWorkspace"`
	}

	if err := c.do(ctx, s, http.MethodDelete, fmt.Sprintf("/workspace/delete/%d", workspaceID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.CurrentWorkspace, nil
}

// JoinWorkspace returns the joined workspace id and the role granted.
func (c *Client) JoinWorkspace(ctx context.Context, s *Session, inviteCode string) (uint, string, error) {
	var resp struct {
		WorkspaceID uint   `json:"workspaceId"`
		Role        string `json:"role"`
	}

	path := "/member/workspace/" + url.PathEscape(inviteCode) + "/join"
	if err := c.do(ctx, s, http.MethodPost, path, nil, nil, &resp); err != nil {
		return 0, "", err
	}
	return resp.WorkspaceID, resp.Role, nil
}
