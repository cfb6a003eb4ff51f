package memory

import "workmgmt/pkg/domain"

// path holds sibling indices from the root down to a located node. Only the
// indices up to the located level are meaningful.
type path struct {
	org, dept, proj, tm, mem int
}

// locate scans the document from the root down to level and returns the
// index path of the node carrying id.
func locate(doc Document, level domain.EntityType, id string) (path, bool) {
	for oi, org := range doc.Organizations {
		if level == domain.EntityOrganization {
			if org.ID == id {
				return path{org: oi}, true
			}
			continue
		}
		for di, dept := range org.Departments {
			if level == domain.EntityDepartment {
				if dept.ID == id {
					return path{org: oi, dept: di}, true
				}
				continue
			}
			for pi, proj := range dept.Projects {
				if level == domain.EntityProject {
					if proj.ID == id {
						return path{org: oi, dept: di, proj: pi}, true
					}
					continue
				}
				for ti, team := range proj.Teams {
					if level == domain.EntityTeam {
						if team.ID == id {
							return path{org: oi, dept: di, proj: pi, tm: ti}, true
						}
						continue
					}
					for mi, m := range team.Members {
						if m.ID == id {
							return path{org: oi, dept: di, proj: pi, tm: ti, mem: mi}, true
						}
					}
				}
			}
		}
	}
	return path{}, false
}

func (p path) organization(doc Document) *Organization { return doc.Organizations[p.org] }

func (p path) department(doc Document) *Department {
	return p.organization(doc).Departments[p.dept]
}

func (p path) project(doc Document) *Project { return p.department(doc).Projects[p.proj] }

func (p path) team(doc Document) *Team { return p.project(doc).Teams[p.tm] }

func (p path) member(doc Document) *TeamMember { return p.team(doc).Members[p.mem] }

// The set* helpers rebuild every ancestor of the replaced node. Siblings off
// the path keep their pointers.

func setOrganization(doc Document, p path, org *Organization) Document {
	doc.Organizations = replacedAt(doc.Organizations, p.org, org)
	return doc
}

func setDepartment(doc Document, p path, dept *Department) Document {
	org := *p.organization(doc)
	org.Departments = replacedAt(org.Departments, p.dept, dept)
	return setOrganization(doc, p, &org)
}

func setProject(doc Document, p path, proj *Project) Document {
	dept := *p.department(doc)
	dept.Projects = replacedAt(dept.Projects, p.proj, proj)
	return setDepartment(doc, p, &dept)
}

func setTeam(doc Document, p path, team *Team) Document {
	proj := *p.project(doc)
	proj.Teams = replacedAt(proj.Teams, p.tm, team)
	return setProject(doc, p, &proj)
}

func setMember(doc Document, p path, m *TeamMember) Document {
	team := *p.team(doc)
	team.Members = replacedAt(team.Members, p.mem, m)
	return setTeam(doc, p, &team)
}

func appended[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func replacedAt[T any](s []T, i int, v T) []T {
	out := make([]T, len(s))
	copy(out, s)
	out[i] = v
	return out
}

func removedAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func copyStrings(in []string) []string {
	return append(make([]string, 0, len(in)), in...)
}
