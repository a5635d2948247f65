package client

import (
	"context"
	"net/http"
)

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, nil, http.MethodPost, "/auth/register", nil, body, nil)
}

// Login stores the access token and user on s.
func (c *Client) Login(ctx context.Context, s *Session, email, password string) error {
	var resp struct {
		User        User   `json:"user"`
		AccessToken string `json:"access_token"`
	}

	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, nil, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return err
	}

	s.AccessToken = resp.AccessToken
	s.User = &resp.User
	return nil
}

// Logout revokes the token server side and clears s even if the request
// fails.
func (c *Client) Logout(ctx context.Context, s *Session) error {
	err := c.do(ctx, s, http.MethodPost, "/auth/logout", nil, nil, nil)
	s.Clear()
	return err
}

// CurrentUser refreshes s.User and returns the user's current workspace.
func (c *Client) CurrentUser(ctx context.Context, s *Session) (*User, *Workspace, error) {
	var resp struct {
		User struct {
			User
			CurrentWorkspace *Workspace `json:"currentWorkspace"`
		} `json:"user"`
	}

	if err := c.do(ctx, s, http.MethodGet, "/user/current", nil, nil, &resp); err != nil {
		return nil, nil, err
	}

	user := resp.User.User
	if resp.User.CurrentWorkspace != nil {
		user.CurrentWorkspaceID = &resp.User.CurrentWorkspace.ID
	}
	s.User = &user

	return &user, resp.User.CurrentWorkspace, nil
}
