package services

import (
	"testing"
	"time"

	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func TestCreateWorkspaceSwitchesCurrent(t *testing.T) {
	f := newFixture(t)
	user := f.register("ada")

	desc := "Team space"
	ws, err := f.svc.Workspaces.Create(f.ctx, user.ID, WorkspaceInput{Name: "  Team ", Description: &desc})
	if err != nil {
		t.Fatal(err)
	}

	if ws.Name != "Team" || ws.OwnerID != user.ID {
		t.Errorf("workspace = %+v", ws)
	}
	if cur := f.reload(user).CurrentWorkspaceID; cur == nil || *cur != ws.ID {
		t.Errorf("currentWorkspace = %v; want %d", cur, ws.ID)
	}

	role, err := f.svc.Members.ResolveRole(f.ctx, user.ID, ws.ID)
	if err != nil || role != types.RoleOwner {
		t.Errorf("role = %s, %v", role, err)
	}

	list, err := f.svc.Workspaces.ListForUser(f.ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[1].ID != ws.ID {
		t.Errorf("ListForUser = %+v", list)
	}
}

func TestGetByIDAndMembers(t *testing.T) {
	f := newFixture(t)
	owner := f.register("owner")
	other := f.register("other")
	wsID := *owner.CurrentWorkspaceID
	f.join(other, wsID)

	ws, err := f.svc.Workspaces.GetByID(f.ctx, wsID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws.Members) != 2 || ws.Members[0].Role == nil || ws.Members[0].Role.Name != types.RoleOwner {
		t.Fatalf("members = %+v", ws.Members)
	}

	members, roles, err := f.svc.Workspaces.Members(f.ctx, wsID)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[1].User == nil || members[1].User.Name != "other" {
		t.Errorf("members = %+v", members)
	}
	if len(roles) != 3 {
		t.Errorf("roles = %+v", roles)
	}

	if _, err := f.svc.Workspaces.GetByID(f.ctx, 9999); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("missing workspace err = %v", err)
	}
}

func TestWorkspaceAnalytics(t *testing.T) {
	f := newFixture(t)
	owner := f.register("owner")
	wsID := *owner.CurrentWorkspaceID

	project, err := f.svc.Projects.Create(f.ctx, wsID, owner.ID, ProjectInput{Name: "P"})
	if err != nil {
		t.Fatal(err)
	}

	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	inputs := []TaskInput{
		{Title: "overdue", DueDate: &past},
		{Title: "done late", DueDate: &past, Status: types.TaskStatusDone},
		{Title: "upcoming", DueDate: &future},
		{Title: "no date"},
	}
	for _, in := range inputs {
		if _, err := f.svc.Tasks.Create(f.ctx, wsID, project.ID, owner.ID, in); err != nil {
			t.Fatal(err)
		}
	}

	got, err := f.svc.Workspaces.Analytics(f.ctx, wsID)
	if err != nil {
		t.Fatal(err)
	}

	want := types.Analytics{TotalTasks: 4, OverdueTasks: 1, CompletedTasks: 1}
	if got != want {
		t.Errorf("analytics = %+v; want %+v", got, want)
	}
}

func TestChangeMemberRole(t *testing.T) {
	f := newFixture(t)
	owner := f.register("owner")
	other := f.register("other")
	wsID := *owner.CurrentWorkspaceID
	f.join(other, wsID)

	admin, _ := findRole(f.db, types.RoleAdmin)
	ownerRole, _ := findRole(f.db, types.RoleOwner)

	member, err := f.svc.Workspaces.ChangeMemberRole(f.ctx, wsID, other.ID, admin.ID)
	if err != nil {
		t.Fatal(err)
	}
	if member.Role == nil || member.Role.Name != types.RoleAdmin {
		t.Errorf("member = %+v", member)
	}
	if role, _ := f.svc.Members.ResolveRole(f.ctx, other.ID, wsID); role != types.RoleAdmin {
		t.Errorf("stored role = %s", role)
	}

	if _, err := f.svc.Workspaces.ChangeMemberRole(f.ctx, wsID, other.ID, ownerRole.ID); !apperror.IsKind(err, apperror.KindBadRequest) {
		t.Errorf("grant OWNER err = %v", err)
	}
	if _, err := f.svc.Workspaces.ChangeMemberRole(f.ctx, wsID, owner.ID, admin.ID); !apperror.IsKind(err, apperror.KindBadRequest) {
		t.Errorf("demote owner err = %v", err)
	}
	if _, err := f.svc.Workspaces.ChangeMemberRole(f.ctx, wsID, 9999, admin.ID); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("unknown member err = %v", err)
	}
	if _, err := f.svc.Workspaces.ChangeMemberRole(f.ctx, wsID, other.ID, 9999); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("unknown role err = %v", err)
	}
}

func TestUpdateWorkspace(t *testing.T) {
	f := newFixture(t)
	owner := f.register("owner")
	wsID := *owner.CurrentWorkspaceID

	name := "Renamed"
	ws, err := f.svc.Workspaces.Update(f.ctx, wsID, WorkspaceUpdate{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if ws.Name != "Renamed" || ws.Description == nil {
		t.Errorf("workspace = %+v", ws)
	}

	var stored models.Workspace
	f.db.First(&stored, wsID)
	if stored.Name != "Renamed" {
		t.Errorf("stored name = %q", stored.Name)
	}
}

func TestDeleteWorkspaceByNonOwner(t *testing.T) {
	f := newFixture(t)
	owner := f.register("owner")
	other := f.register("other")
	wsID := *owner.CurrentWorkspaceID
	f.join(other, wsID)

	project, _ := f.svc.Projects.Create(f.ctx, wsID, owner.ID, ProjectInput{Name: "P"})
	f.svc.Tasks.Create(f.ctx, wsID, project.ID, owner.ID, TaskInput{Title: "t"})

	_, err := f.svc.Workspaces.Delete(f.ctx, wsID, other.ID)
	if !apperror.IsKind(err, apperror.KindBadRequest) {
		t.Fatalf("err = %v; want BadRequest", err)
	}

	if n := f.count(&models.Workspace{}, "id = ?", wsID); n != 1 {
		t.Error("workspace deleted")
	}
	if n := f.count(&models.Member{}, "workspace_id = ?", wsID); n != 2 {
		t.Errorf("members = %d; want 2", n)
	}
	if n := f.count(&models.Project{}, "workspace_id = ?", wsID); n != 1 {
		t.Errorf("projects = %d; want 1", n)
	}
	if n := f.count(&models.Task{}, "workspace_id = ?", wsID); n != 1 {
		t.Errorf("tasks = %d; want 1", n)
	}
}

func TestDeleteWorkspaceCascadesAndRepairsPointers(t *testing.T) {
	f := newFixture(t)
	owner := f.register("owner")
	other := f.register("other")
	first := *owner.CurrentWorkspaceID

	second, err := f.svc.Workspaces.Create(f.ctx, owner.ID, WorkspaceInput{Name: "Second"})
	if err != nil {
		t.Fatal(err)
	}

	// other switches to the doomed workspace
	f.join(other, second.ID)
	f.db.Model(&models.User{}).Where("id = ?", other.ID).Update("current_workspace_id", second.ID)

	project, _ := f.svc.Projects.Create(f.ctx, second.ID, owner.ID, ProjectInput{Name: "P"})
	f.svc.Tasks.Create(f.ctx, second.ID, project.ID, owner.ID, TaskInput{Title: "t"})

	current, err := f.svc.Workspaces.Delete(f.ctx, second.ID, owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current == nil || *current != first {
		t.Errorf("returned currentWorkspace = %v; want %d", current, first)
	}

	for _, model := range []interface{}{&models.Project{}, &models.Task{}, &models.Member{}} {
		if n := f.count(model, "workspace_id = ?", second.ID); n != 0 {
			t.Errorf("%T rows left = %d", model, n)
		}
	}
	if n := f.count(&models.Workspace{}, "id = ?", second.ID); n != 0 {
		t.Error("workspace row left")
	}

	if cur := f.reload(owner).CurrentWorkspaceID; cur == nil || *cur != first {
		t.Errorf("owner currentWorkspace = %v", cur)
	}
	otherFirst := *other.CurrentWorkspaceID
	if cur := f.reload(other).CurrentWorkspaceID; cur == nil || *cur != otherFirst {
		t.Errorf("other currentWorkspace = %v; want %d", cur, otherFirst)
	}
}

func TestDeleteLastWorkspaceClearsPointer(t *testing.T) {
	f := newFixture(t)
	owner := f.register("owner")

	current, err := f.svc.Workspaces.Delete(f.ctx, *owner.CurrentWorkspaceID, owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current != nil {
		t.Errorf("currentWorkspace = %d; want nil", *current)
	}
	if cur := f.reload(owner).CurrentWorkspaceID; cur != nil {
		t.Errorf("stored currentWorkspace = %d", *cur)
	}
}
