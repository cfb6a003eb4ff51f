package memory_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"workmgmt/internal/infra/persistence/memory"
	"workmgmt/pkg/domain"
)

func TestAddDepartmentAppendsAndSharesSiblings(t *testing.T) {
	store := newSampleStore(t)
	run(t, store, func(tx domain.Transaction) error {
		tx.AddOrganization("Globex", "desc")
		return nil
	})
	before := store.Document()

	var added *domain.Department
	run(t, store, func(tx domain.Transaction) error {
		var ok bool
		added, ok = tx.AddDepartment("1", "X")
		if !ok {
			t.Fatalf("expected organization 1 to resolve")
		}
		return nil
	})
	after := store.Document()

	if got, want := len(after.Organizations[0].Departments), len(before.Organizations[0].Departments)+1; got != want {
		t.Fatalf("expected %d departments, got %d", want, got)
	}
	last := after.Organizations[0].Departments[len(after.Organizations[0].Departments)-1]
	if last != added || last.Name != "X" || last.OrganizationID != "1" || len(last.Projects) != 0 {
		t.Fatalf("unexpected appended department: %+v", last)
	}
	if before.Organizations[1] != after.Organizations[1] {
		t.Fatalf("expected untouched organization to keep its pointer")
	}
	for i, dept := range before.Organizations[0].Departments {
		if after.Organizations[0].Departments[i] != dept {
			t.Fatalf("expected sibling department %s to keep its pointer", dept.ID)
		}
	}
	if before.Organizations[0] == after.Organizations[0] {
		t.Fatalf("expected mutated organization to be rebuilt")
	}
	if len(before.Organizations[0].Departments) != 2 {
		t.Fatalf("expected previous document to stay intact, got %d departments", len(before.Organizations[0].Departments))
	}
}

func TestUnknownIDsLeaveDocumentUnchanged(t *testing.T) {
	const missing = "does-not-exist"
	ops := map[string]func(tx domain.Transaction) bool{
		"updateOrganization": func(tx domain.Transaction) bool { _, ok := tx.UpdateOrganization(missing, "n", "d"); return ok },
		"deleteOrganization": func(tx domain.Transaction) bool { return tx.DeleteOrganization(missing) },
		"addDepartment":      func(tx domain.Transaction) bool { _, ok := tx.AddDepartment(missing, "n"); return ok },
		"updateDepartment":   func(tx domain.Transaction) bool { _, ok := tx.UpdateDepartment(missing, "n"); return ok },
		"deleteDepartment":   func(tx domain.Transaction) bool { return tx.DeleteDepartment(missing) },
		"addProject":         func(tx domain.Transaction) bool { _, ok := tx.AddProject(missing, "n", "d"); return ok },
		"updateProject":      func(tx domain.Transaction) bool { _, ok := tx.UpdateProject(missing, "n", "d"); return ok },
		"deleteProject":      func(tx domain.Transaction) bool { return tx.DeleteProject(missing) },
		"addTeam":            func(tx domain.Transaction) bool { _, ok := tx.AddTeam(missing, "n", "d"); return ok },
		"updateTeam":         func(tx domain.Transaction) bool { _, ok := tx.UpdateTeam(missing, "n", "d"); return ok },
		"deleteTeam":         func(tx domain.Transaction) bool { return tx.DeleteTeam(missing) },
		"addTeamMember": func(tx domain.Transaction) bool {
			_, ok := tx.AddTeamMember(missing, "user1", domain.RoleMember, nil)
			return ok
		},
		"updateTeamMember": func(tx domain.Transaction) bool {
			_, ok := tx.UpdateTeamMember(missing, domain.RoleAdmin, []string{"x"})
			return ok
		},
		"deleteTeamMember": func(tx domain.Transaction) bool { return tx.DeleteTeamMember(missing) },
		// A department id is not an organization id even though both exist.
		"deleteOrganizationWithDepartmentID": func(tx domain.Transaction) bool { return tx.DeleteOrganization("101") },
		"updateTeamWithMemberID": func(tx domain.Transaction) bool {
			_, ok := tx.UpdateTeam("100001", "n", "d")
			return ok
		},
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			store := newSampleStore(t)
			before := store.Document()
			snapshot := before.Clone()
			run(t, store, func(tx domain.Transaction) error {
				if op(tx) {
					t.Fatalf("expected %s to miss", name)
				}
				return nil
			})
			after := store.Document()
			if !reflect.DeepEqual(snapshot, after) {
				t.Fatalf("document changed after %s", name)
			}
			if before.Organizations[0] != after.Organizations[0] {
				t.Fatalf("expected organization pointer to survive a no-op")
			}
		})
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	store := newSampleStore(t)
	run(t, store, func(tx domain.Transaction) error {
		if !tx.DeleteProject("1001") {
			t.Fatalf("expected project 1001 to be deleted")
		}
		return nil
	})
	doc := store.Document()
	for _, id := range []string{"1001", "10001", "100001", "100002"} {
		if doc.Contains(id) {
			t.Fatalf("expected %s to be removed with its project", id)
		}
	}
	if _, ok := doc.FindTeam("10001"); ok {
		t.Fatalf("expected team lookup to fail after cascade")
	}
	if _, ok := doc.FindTeamMember("100001"); ok {
		t.Fatalf("expected member lookup to fail after cascade")
	}
	run(t, store, func(tx domain.Transaction) error {
		if _, ok := tx.UpdateTeamMember("100002", domain.RoleAdmin, nil); ok {
			t.Fatalf("expected deleted member to stay unresolvable")
		}
		if _, ok := tx.AddTeam("1001", "Ghost", ""); ok {
			t.Fatalf("expected deleted project to stay unresolvable")
		}
		return nil
	})
	if dept, _ := doc.FindDepartment("101"); len(dept.Projects) != 0 {
		t.Fatalf("expected engineering to have no projects, got %d", len(dept.Projects))
	}
	if _, ok := doc.FindProject("1002"); !ok {
		t.Fatalf("expected sibling project to survive")
	}
}

func TestDeleteAtEveryLevel(t *testing.T) {
	cases := []struct {
		name    string
		del     func(tx domain.Transaction) bool
		removed []string
		kept    []string
	}{
		{"organization", func(tx domain.Transaction) bool { return tx.DeleteOrganization("1") }, []string{"1", "101", "102", "1002", "10002"}, nil},
		{"department", func(tx domain.Transaction) bool { return tx.DeleteDepartment("102") }, []string{"102", "1002", "10002"}, []string{"101", "10001"}},
		{"team", func(tx domain.Transaction) bool { return tx.DeleteTeam("10001") }, []string{"10001", "100001", "100002"}, []string{"1001"}},
		{"member", func(tx domain.Transaction) bool { return tx.DeleteTeamMember("100001") }, []string{"100001"}, []string{"100002", "10001"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newSampleStore(t)
			run(t, store, func(tx domain.Transaction) error {
				if !tc.del(tx) {
					t.Fatalf("expected delete to resolve")
				}
				return nil
			})
			doc := store.Document()
			for _, id := range tc.removed {
				if doc.Contains(id) {
					t.Fatalf("expected %s removed", id)
				}
			}
			for _, id := range tc.kept {
				if !doc.Contains(id) {
					t.Fatalf("expected %s kept", id)
				}
			}
		})
	}
}

func TestUpdatesReplaceOnlyEditableFields(t *testing.T) {
	store := newSampleStore(t)
	run(t, store, func(tx domain.Transaction) error {
		org, _ := tx.UpdateOrganization("1", "Acme", "Renamed")
		if org.Name != "Acme" || org.Description != "Renamed" || len(org.Departments) != 2 {
			t.Fatalf("unexpected organization: %+v", org)
		}
		dept, _ := tx.UpdateDepartment("101", "R&D")
		if dept.Name != "R&D" || dept.OrganizationID != "1" || len(dept.Projects) != 1 {
			t.Fatalf("unexpected department: %+v", dept)
		}
		proj, _ := tx.UpdateProject("1001", "Redesign", "v2")
		if proj.Name != "Redesign" || proj.Description != "v2" || proj.DepartmentID != "101" {
			t.Fatalf("unexpected project: %+v", proj)
		}
		team, _ := tx.UpdateTeam("10001", "Design", "pixels")
		if team.Name != "Design" || team.ProjectID != "1001" || len(team.Members) != 2 {
			t.Fatalf("unexpected team: %+v", team)
		}
		return nil
	})
	doc := store.Document()
	team, ok := doc.FindTeam("10001")
	if !ok || team.Description != "pixels" {
		t.Fatalf("expected committed team update, got %+v", team)
	}
	if org, _ := doc.FindOrganization("1"); org.Departments[0].Name != "R&D" {
		t.Fatalf("expected path to carry the renamed department")
	}
}

func TestUpdateTeamMemberKeepsUserAndTeam(t *testing.T) {
	store := newSampleStore(t)
	var memberID string
	run(t, store, func(tx domain.Transaction) error {
		m, ok := tx.AddTeamMember("10002", "user4", domain.RoleMember, []string{"QA"})
		if !ok {
			t.Fatalf("expected team 10002 to resolve")
		}
		memberID = m.ID
		return nil
	})
	responsibilities := []string{"QA", "Release"}
	run(t, store, func(tx domain.Transaction) error {
		if _, ok := tx.UpdateTeamMember(memberID, domain.RoleManager, responsibilities); !ok {
			t.Fatalf("expected member to resolve")
		}
		return nil
	})
	responsibilities[0] = "mutated by caller"

	m, ok := store.Document().FindTeamMember(memberID)
	if !ok {
		t.Fatalf("member %s not found", memberID)
	}
	if m.Role != domain.RoleManager {
		t.Fatalf("expected Manager role, got %s", m.Role)
	}
	if !reflect.DeepEqual(m.Responsibilities, []string{"QA", "Release"}) {
		t.Fatalf("unexpected responsibilities %v", m.Responsibilities)
	}
	if m.UserID != "user4" || m.TeamID != "10002" {
		t.Fatalf("expected user/team to be immutable, got %s/%s", m.UserID, m.TeamID)
	}
}

func TestAddTeamMemberToleratesUnknownUser(t *testing.T) {
	store := newSampleStore(t)
	run(t, store, func(tx domain.Transaction) error {
		m, ok := tx.AddTeamMember("10002", "ghost", domain.RoleMember, []string{"A", "A"})
		if !ok || m.UserID != "ghost" || len(m.Responsibilities) != 2 {
			t.Fatalf("unexpected member %+v", m)
		}
		return nil
	})
	team, _ := store.Document().FindTeam("10002")
	if domain.DefaultRoster().DisplayName(team.Members[0].UserID) != domain.UnknownUserName {
		t.Fatalf("expected placeholder for dangling user")
	}
}

func TestGlobexScenario(t *testing.T) {
	store := newSampleStore(t)
	var globexID, opsID string
	run(t, store, func(tx domain.Transaction) error {
		globexID = tx.AddOrganization("Globex", "desc").ID
		return nil
	})
	doc := store.Document()
	if len(doc.Organizations) != 2 {
		t.Fatalf("expected 2 organizations, got %d", len(doc.Organizations))
	}
	if globex, _ := doc.FindOrganization(globexID); globex.Departments == nil || len(globex.Departments) != 0 {
		t.Fatalf("expected empty department list, got %+v", globex.Departments)
	}

	run(t, store, func(tx domain.Transaction) error {
		dept, ok := tx.AddDepartment(globexID, "Ops")
		if !ok {
			t.Fatalf("expected Globex to resolve")
		}
		opsID = dept.ID
		return nil
	})
	globex, _ := store.Document().FindOrganization(globexID)
	if len(globex.Departments) != 1 || globex.Departments[0].Name != "Ops" || len(globex.Departments[0].Projects) != 0 {
		t.Fatalf("unexpected Globex departments %+v", globex.Departments)
	}

	run(t, store, func(tx domain.Transaction) error {
		tx.DeleteOrganization(globexID)
		return nil
	})
	doc = store.Document()
	if len(doc.Organizations) != 1 {
		t.Fatalf("expected 1 organization, got %d", len(doc.Organizations))
	}
	run(t, store, func(tx domain.Transaction) error {
		if _, ok := tx.UpdateDepartment(opsID, "Still here?"); ok {
			t.Fatalf("expected deleted department to be unresolvable")
		}
		if _, ok := tx.AddProject(opsID, "p", ""); ok {
			t.Fatalf("expected deleted department to reject children")
		}
		return nil
	})
}

func TestRunInTransactionErrorDiscardsChanges(t *testing.T) {
	store := newSampleStore(t)
	before := store.Document()
	boom := errors.New("boom")
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		tx.AddOrganization("Doomed", "")
		tx.DeleteDepartment("101")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !reflect.DeepEqual(before, store.Document()) {
		t.Fatalf("expected failed transaction to leave the document untouched")
	}
}

type blockEverything struct{}

func (blockEverything) Name() string { return "block_everything" }

func (blockEverything) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var res domain.Result
	for _, c := range changes {
		res.Violations = append(res.Violations, domain.Violation{Rule: "block_everything", Severity: domain.SeverityBlock, Entity: c.Entity})
	}
	return res, nil
}

func TestBlockingRuleRejectsCommit(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockEverything{})
	store := memory.NewStore(engine)
	store.ImportState(domain.SampleDocument())

	res, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		tx.AddOrganization("Blocked", "")
		return nil
	})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking result")
	}
	if len(store.Document().Organizations) != 1 {
		t.Fatalf("expected blocked organization to be discarded")
	}

	// A transaction without changes never reaches the rules.
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		tx.DeleteTeam("missing")
		return nil
	}); err != nil {
		t.Fatalf("expected no-op transaction to succeed, got %v", err)
	}
}

func TestRunInTransactionHonoursCancelledContext(t *testing.T) {
	store := newSampleStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		tx.AddOrganization("Late", "")
		return nil
	}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSetActiveUser(t *testing.T) {
	store := newSampleStore(t)
	user, _ := domain.DefaultRoster().Lookup("user5")
	run(t, store, func(tx domain.Transaction) error {
		tx.SetActiveUser(user)
		return nil
	})
	user.Name = "changed after the call"
	if got := store.Document().ActiveUser; got == nil || got.ID != "user5" || got.Name != "Jane Smith" {
		t.Fatalf("unexpected active user %+v", got)
	}
	run(t, store, func(tx domain.Transaction) error {
		tx.SetActiveUser(nil)
		return nil
	})
	if err := store.View(context.Background(), func(v domain.TransactionView) error {
		if v.ActiveUser() != nil {
			t.Fatalf("expected no active user")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestExportStateIsIndependent(t *testing.T) {
	store := newSampleStore(t)
	exported := store.ExportState()
	exported.Organizations[0].Name = "Mutated"
	exported.Organizations[0].Departments[0].Projects[0].Teams[0].Members[0].Responsibilities[0] = "Mutated"
	if store.Document().Organizations[0].Name != "Acme Corporation" {
		t.Fatalf("export must not alias the held document")
	}
	if got := store.Document().Organizations[0].Departments[0].Projects[0].Teams[0].Members[0].Responsibilities[0]; got != "UI Design" {
		t.Fatalf("export must not alias responsibilities, got %q", got)
	}
}

func TestImportStateNormalizesSnapshot(t *testing.T) {
	store := memory.NewStore(nil)
	store.ImportState(domain.Document{
		Organizations: []*domain.Organization{
			{ID: "o1", Name: "One", Departments: []*domain.Department{
				{ID: "d1", OrganizationID: "wrong", Projects: []*domain.Project{
					{ID: "p1", DepartmentID: "", Teams: []*domain.Team{
						{ID: "t1", ProjectID: "p9", Members: []*domain.TeamMember{{ID: "m1", TeamID: "x", UserID: "user1"}, nil}},
					}},
				}},
				{ID: "o1", Name: "duplicate of the organization id"},
			}},
			nil,
			{ID: "", Name: "no id"},
			{ID: "o2", Name: "Two"},
		},
	})
	doc := store.Document()
	if len(doc.Organizations) != 2 {
		t.Fatalf("expected 2 organizations after normalization, got %d", len(doc.Organizations))
	}
	org := doc.Organizations[0]
	if len(org.Departments) != 1 {
		t.Fatalf("expected duplicate department to be dropped, got %d", len(org.Departments))
	}
	dept := org.Departments[0]
	proj := dept.Projects[0]
	team := proj.Teams[0]
	if dept.OrganizationID != "o1" || proj.DepartmentID != "d1" || team.ProjectID != "p1" || team.Members[0].TeamID != "t1" {
		t.Fatalf("expected back-references repaired, got %s %s %s %s", dept.OrganizationID, proj.DepartmentID, team.ProjectID, team.Members[0].TeamID)
	}
	if len(team.Members) != 1 {
		t.Fatalf("expected nil member skipped")
	}
	if two := doc.Organizations[1]; two.Departments == nil {
		t.Fatalf("expected nil child slices to become empty")
	}
	if team.Members[0].Responsibilities == nil {
		t.Fatalf("expected empty responsibilities slice")
	}
}

func TestGeneratedIDsSkipCollisions(t *testing.T) {
	store := newSampleStore(t)
	ids := []string{"1", "101", "fresh"}
	store.SetIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	})
	run(t, store, func(tx domain.Transaction) error {
		if org := tx.AddOrganization("New", ""); org.ID != "fresh" {
			t.Fatalf("expected colliding ids to be skipped, got %s", org.ID)
		}
		return nil
	})
}

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSampleStore(t)
	run(t, store, func(tx domain.Transaction) error {
		org := tx.AddOrganization("Globex", "desc")
		dept, _ := tx.AddDepartment(org.ID, "Ops")
		proj, _ := tx.AddProject(dept.ID, "Rollout", "phase 1")
		team, _ := tx.AddTeam(proj.ID, "SRE", "on call")
		tx.AddTeamMember(team.ID, "user4", domain.RoleMember, []string{"QA"})
		return nil
	})

	backend := memory.NewBackend()
	if _, ok, err := backend.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty backend, got ok=%v err=%v", ok, err)
	}
	if err := backend.Save(ctx, store.Document()); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, ok, err := backend.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	restored := memory.NewStore(nil)
	restored.ImportState(loaded)
	if !reflect.DeepEqual(store.Document(), restored.Document()) {
		t.Fatalf("round-trip mismatch")
	}
	if backend.Saves() != 1 {
		t.Fatalf("expected one save, got %d", backend.Saves())
	}
}
