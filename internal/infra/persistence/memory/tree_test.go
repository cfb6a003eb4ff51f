package memory

import (
	"testing"

	"workmgmt/pkg/domain"
)

func TestLocateResolvesNestedIndices(t *testing.T) {
	doc := domain.SampleDocument()

	p, ok := locate(doc, domain.EntityTeamMember, "100002")
	if !ok {
		t.Fatalf("expected member 100002 to resolve")
	}
	if want := (path{org: 0, dept: 0, proj: 0, tm: 0, mem: 1}); p != want {
		t.Fatalf("expected %+v, got %+v", want, p)
	}
	if got := p.member(doc).ID; got != "100002" {
		t.Fatalf("expected member 100002 at path, got %s", got)
	}
	if got := p.team(doc).ID; got != "10001" {
		t.Fatalf("expected enclosing team 10001, got %s", got)
	}

	p, ok = locate(doc, domain.EntityTeam, "10002")
	if !ok || p.dept != 1 || p.team(doc).ID != "10002" {
		t.Fatalf("expected team 10002 under second department, got %+v", p)
	}
	if _, ok := locate(doc, domain.EntityTeam, "100002"); ok {
		t.Fatalf("expected member id not to resolve as a team")
	}
}

func TestSetMemberRebuildsOnlyAncestors(t *testing.T) {
	doc := domain.SampleDocument()
	p, _ := locate(doc, domain.EntityTeamMember, "100002")

	m := *p.member(doc)
	m.Role = domain.RoleManager
	next := setMember(doc, p, &m)

	if got := p.member(next); got != &m {
		t.Fatalf("expected replaced member at path")
	}
	if p.team(next) == p.team(doc) || p.organization(next) == p.organization(doc) {
		t.Fatalf("expected ancestors to be rebuilt")
	}
	if p.team(next).Members[0] != p.team(doc).Members[0] {
		t.Fatalf("expected sibling member to keep its pointer")
	}
	if next.Organizations[0].Departments[1] != doc.Organizations[0].Departments[1] {
		t.Fatalf("expected sibling department to keep its pointer")
	}
	if p.member(doc).Role == domain.RoleManager {
		t.Fatalf("expected previous document to stay intact")
	}
}
