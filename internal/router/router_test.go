package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/testutil"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	hub    *handlers.Hub
}

type session struct {
	token       string
	userID      uint
	workspaceID uint
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conn := testutil.NewDB(t)
	log := testutil.NewLogger()

	jwtManager, err := auth.NewJWTManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	hub := handlers.NewHub(nil, log)

	h := handlers.New(handlers.Deps{
		Services: services.New(conn),
		JWT:      jwtManager,
		Hub:      hub,
		DB:       conn,
		Frontend: handlers.FrontendConfig{
			Origin:            "http://localhost:5173",
			GoogleCallbackURL: "http://localhost:5173/google/callback",
		},
		Log: log,
	})

	return &testServer{t: t, engine: NewRouter(h, Options{AllowedOrigins: []string{"http://localhost:5173"}}), hub: hub}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Fatalf("status = %d; want %d; body %s", w.Code, want, w.Body.String())
	}
}

// signup registers and logs in a user, returning their session.
func (s *testServer) signup(name string) session {
	s.t.Helper()

	email := strings.ToLower(name) + "@example.com"

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	expectStatus(s.t, w, http.StatusCreated)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "password123"})
	expectStatus(s.t, w, http.StatusOK)

	var body struct {
		AccessToken string             `json:"access_token"`
		User        types.UserResponse `json:"user"`
	}
	decode(s.t, w, &body)

	if body.AccessToken == "" || body.User.CurrentWorkspaceID == nil {
		s.t.Fatalf("login response missing token or workspace: %s", w.Body.String())
	}

	return session{token: body.AccessToken, userID: body.User.ID, workspaceID: *body.User.CurrentWorkspaceID}
}

type errorBody struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("Alice")

	w := s.do(http.MethodGet, "/api/user/current", alice.token, nil)
	expectStatus(t, w, http.StatusOK)

	var current struct {
		User struct {
			Email            string `json:"email"`
			CurrentWorkspace struct {
				ID   uint   `json:"id"`
				Name string `json:"name"`
			} `json:"currentWorkspace"`
		} `json:"user"`
	}
	decode(t, w, &current)

	if current.User.Email != "alice@example.com" {
		t.Errorf("email = %q", current.User.Email)
	}
	if current.User.CurrentWorkspace.ID != alice.workspaceID || current.User.CurrentWorkspace.Name != types.DefaultWorkspaceName {
		t.Errorf("currentWorkspace = %+v; want id %d", current.User.CurrentWorkspace, alice.workspaceID)
	}

	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Alice Again",
		"email":    "ALICE@example.com",
		"password": "password123",
	})
	expectStatus(t, w, http.StatusBadRequest)

	var dup errorBody
	decode(t, w, &dup)
	if dup.ErrorCode != string(apperror.CodeEmailAlreadyExists) {
		t.Errorf("duplicate errorCode = %q", dup.ErrorCode)
	}

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrong-password"})
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(http.MethodGet, "/api/user/current", "", nil)
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/api/auth/logout", alice.token, nil)
	expectStatus(t, w, http.StatusOK)

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == types.TokenCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the token cookie")
	}
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", "", `{"name": "Bob",`)
	expectStatus(t, w, http.StatusBadRequest)

	var body errorBody
	decode(t, w, &body)
	if body.Message != types.InvalidJSONMessage {
		t.Errorf("message = %q; want %q", body.Message, types.InvalidJSONMessage)
	}

	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Bob", "password": "password123"})
	expectStatus(t, w, http.StatusBadRequest)

	decode(t, w, &body)
	if !strings.Contains(body.Message, "email") {
		t.Errorf("validation message %q does not name the email field", body.Message)
	}

	alice := s.signup("Alice")

	w = s.do(http.MethodGet, "/api/workspace/xyz", alice.token, nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestGoogleLoginDisabled(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/auth/google", "", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestTaskLifecycleAndPermissions(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("Owner")
	member := s.signup("Member")
	outsider := s.signup("Outsider")

	ws := owner.workspaceID

	w := s.do(http.MethodPost, fmt.Sprintf("/api/project/workspace/%d/create", ws), owner.token, gin.H{"name": "Launch"})
	expectStatus(t, w, http.StatusCreated)

	var created struct {
		Project struct {
			ID    uint   `json:"id"`
			Emoji string `json:"emoji"`
		} `json:"project"`
	}
	decode(t, w, &created)
	projectID := created.Project.ID

	if created.Project.Emoji != types.DefaultProjectEmoji {
		t.Errorf("emoji = %q; want default", created.Project.Emoji)
	}

	w = s.do(http.MethodPost, fmt.Sprintf("/api/task/projects/%d/workspace/%d/create", projectID, ws), owner.token, gin.H{
		"title":      "Write docs",
		"assignedTo": owner.userID,
		"dueDate":    "2026-03-01",
	})
	expectStatus(t, w, http.StatusCreated)

	var task struct {
		Task struct {
			ID       uint   `json:"id"`
			TaskCode string `json:"taskCode"`
			Status   string `json:"status"`
			Priority string `json:"priority"`
		} `json:"task"`
	}
	decode(t, w, &task)

	if !strings.HasPrefix(task.Task.TaskCode, types.TaskCodePrefix) {
		t.Errorf("taskCode = %q", task.Task.TaskCode)
	}
	if task.Task.Status != string(types.TaskStatusTodo) || task.Task.Priority != string(types.TaskPriorityMedium) {
		t.Errorf("defaults = %s/%s", task.Task.Status, task.Task.Priority)
	}

	// assignee must belong to the workspace
	w = s.do(http.MethodPost, fmt.Sprintf("/api/task/projects/%d/workspace/%d/create", projectID, ws), owner.token, gin.H{
		"title":      "Sneaky",
		"assignedTo": outsider.userID,
	})
	expectStatus(t, w, http.StatusNotFound)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/workspace/%d", ws), owner.token, nil)
	expectStatus(t, w, http.StatusOK)

	var workspace struct {
		Workspace struct {
			InviteCode string `json:"inviteCode"`
		} `json:"workspace"`
	}
	decode(t, w, &workspace)

	w = s.do(http.MethodPost, "/api/member/workspace/"+workspace.Workspace.InviteCode+"/join", member.token, nil)
	expectStatus(t, w, http.StatusOK)

	var joined struct {
		WorkspaceID uint   `json:"workspaceId"`
		Role        string `json:"role"`
	}
	decode(t, w, &joined)
	if joined.WorkspaceID != ws || joined.Role != string(types.RoleMember) {
		t.Errorf("join = %+v", joined)
	}

	w = s.do(http.MethodPost, "/api/member/workspace/"+workspace.Workspace.InviteCode+"/join", member.token, nil)
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/task/%d/workspace/%d/delete", task.Task.ID, ws), member.token, nil)
	expectStatus(t, w, http.StatusForbidden)

	var forbidden errorBody
	decode(t, w, &forbidden)
	if forbidden.Message != types.ForbiddenErrorMessage {
		t.Errorf("forbidden message = %q", forbidden.Message)
	}

	w = s.do(http.MethodPut, fmt.Sprintf("/api/task/%d/projects/%d/workspace/%d/update", task.Task.ID, projectID, ws), member.token, gin.H{
		"status":     "IN_PROGRESS",
		"assignedTo": member.userID,
	})
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/task/workspace/%d/all?status=IN_PROGRESS&assignedTo=%d", ws, member.userID), member.token, nil)
	expectStatus(t, w, http.StatusOK)

	var list struct {
		Tasks []struct {
			ID         uint `json:"id"`
			AssignedTo *struct {
				ID uint `json:"id"`
			} `json:"assignedTo"`
		} `json:"tasks"`
		Pagination types.Pagination `json:"pagination"`
	}
	decode(t, w, &list)

	if len(list.Tasks) != 1 || list.Pagination.TotalCount != 1 || list.Pagination.TotalPages != 1 {
		t.Fatalf("list = %s", w.Body.String())
	}
	if list.Tasks[0].AssignedTo == nil || list.Tasks[0].AssignedTo.ID != member.userID {
		t.Errorf("assignedTo = %+v; want user %d", list.Tasks[0].AssignedTo, member.userID)
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/api/task/workspace/%d/all?status=BOGUS", ws), member.token, nil)
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/task/workspace/%d/all", ws), outsider.token, nil)
	expectStatus(t, w, http.StatusUnauthorized)

	var denied errorBody
	decode(t, w, &denied)
	if denied.ErrorCode != string(apperror.CodeUnauthorizedAccess) {
		t.Errorf("non-member errorCode = %q", denied.ErrorCode)
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/api/task/%d/project/%d/workspace/%d", task.Task.ID, projectID, ws), member.token, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/task/%d/workspace/%d/delete", task.Task.ID, ws), owner.token, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/task/%d/project/%d/workspace/%d", task.Task.ID, projectID, ws), owner.token, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestProjectEndpoints(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("Owner")
	ws := owner.workspaceID

	for i := 0; i < 3; i++ {
		w := s.do(http.MethodPost, fmt.Sprintf("/api/project/workspace/%d/create", ws), owner.token, gin.H{
			"name":  fmt.Sprintf("Project %d", i),
			"emoji": "🚀",
		})
		expectStatus(t, w, http.StatusCreated)
	}

	w := s.do(http.MethodGet, fmt.Sprintf("/api/project/workspace/%d/all?pageSize=2&pageNumber=1", ws), owner.token, nil)
	expectStatus(t, w, http.StatusOK)

	var list struct {
		Projects []struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"projects"`
		Pagination types.Pagination `json:"pagination"`
	}
	decode(t, w, &list)

	if len(list.Projects) != 2 || list.Pagination.TotalCount != 3 || list.Pagination.TotalPages != 2 {
		t.Fatalf("list = %s", w.Body.String())
	}
	if list.Projects[0].Name != "Project 2" {
		t.Errorf("first project = %q; want newest first", list.Projects[0].Name)
	}

	projectID := list.Projects[0].ID

	w = s.do(http.MethodPut, fmt.Sprintf("/api/project/%d/workspace/%d/update", projectID, ws), owner.token, gin.H{"name": "Renamed"})
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/project/%d/workspace/%d/analytics", projectID, ws), owner.token, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/project/%d/workspace/%d/delete", projectID, ws), owner.token, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/project/%d/workspace/%d", projectID, ws), owner.token, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestWorkspaceEndpoints(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("Owner")
	admin := s.signup("Admin")

	w := s.do(http.MethodPost, "/api/workspace/create/new", owner.token, gin.H{"name": "Side Project"})
	expectStatus(t, w, http.StatusCreated)

	var created struct {
		Workspace struct {
			ID         uint   `json:"id"`
			InviteCode string `json:"inviteCode"`
		} `json:"workspace"`
	}
	decode(t, w, &created)
	second := created.Workspace.ID

	w = s.do(http.MethodGet, "/api/workspace/all", owner.token, nil)
	expectStatus(t, w, http.StatusOK)

	var all struct {
		Workspaces []struct {
			ID uint `json:"id"`
		} `json:"workspaces"`
	}
	decode(t, w, &all)
	if len(all.Workspaces) != 2 {
		t.Fatalf("workspaces = %s", w.Body.String())
	}

	w = s.do(http.MethodPost, "/api/member/workspace/"+created.Workspace.InviteCode+"/join", admin.token, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/workspace/members/%d", second), owner.token, nil)
	expectStatus(t, w, http.StatusOK)

	var members struct {
		Members []struct {
			UserID uint `json:"userId"`
		} `json:"members"`
		Roles []types.RoleSummary `json:"roles"`
	}
	decode(t, w, &members)
	if len(members.Members) != 2 || len(members.Roles) != 3 {
		t.Fatalf("members = %s", w.Body.String())
	}

	var adminRole uint
	for _, r := range members.Roles {
		if r.Name == types.RoleAdmin {
			adminRole = r.ID
		}
	}

	w = s.do(http.MethodPut, fmt.Sprintf("/api/workspace/change/member/role/%d", second), owner.token, gin.H{
		"memberId": admin.userID,
		"roleId":   adminRole,
	})
	expectStatus(t, w, http.StatusOK)

	// admins may not rename the workspace
	w = s.do(http.MethodPut, fmt.Sprintf("/api/workspace/update/%d", second), admin.token, gin.H{"name": "Mine now"})
	expectStatus(t, w, http.StatusForbidden)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/workspace/update/%d", second), owner.token, gin.H{"name": "Renamed"})
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/workspace/analytics/%d", second), admin.token, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/workspace/delete/%d", second), owner.token, nil)
	expectStatus(t, w, http.StatusOK)

	var deleted struct {
		CurrentWorkspace *uint `json:"currentWorkspace"`
	}
	decode(t, w, &deleted)
	if deleted.CurrentWorkspace == nil || *deleted.CurrentWorkspace != owner.workspaceID {
		t.Errorf("currentWorkspace = %v; want %d", deleted.CurrentWorkspace, owner.workspaceID)
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/api/workspace/%d", second), owner.token, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/health", "", nil)
	expectStatus(t, w, http.StatusOK)

	var health struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decode(t, w, &health)
	if health.Status != "ok" || health.Checks["database"] != "ok" || health.Checks["redis"] != "disabled" {
		t.Errorf("health = %+v", health)
	}

	w = s.do(http.MethodGet, "/metrics", "", nil)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "taskhive_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestWebSocketReceivesRefresh(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("Owner")

	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/api/ws/%d", owner.workspaceID)
	header := http.Header{"Authorization": []string{"Bearer " + owner.token}}

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg handlers.RefreshMessage
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != "connected" {
		t.Fatalf("first message = %+v, %v", msg, err)
	}

	w := s.do(http.MethodPost, fmt.Sprintf("/api/project/workspace/%d/create", owner.workspaceID), owner.token, gin.H{"name": "Live"})
	expectStatus(t, w, http.StatusCreated)

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read refresh: %v", err)
	}
	if msg.Type != "refresh" || msg.Resource != "projects" || msg.WorkspaceID != owner.workspaceID {
		t.Errorf("refresh = %+v", msg)
	}

	// unauthenticated upgrades are rejected before the handshake
	if _, resp, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Error("dial without token succeeded")
	} else if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", resp.StatusCode)
	}
}
