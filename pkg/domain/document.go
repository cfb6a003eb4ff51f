package domain

// Document is the whole persisted state: the ordered organizations and the
// active user. A Document held by a store is immutable; mutations build a new
// Document that shares every untouched node with the previous one.
type Document struct {
	Organizations []*Organization `json:"organizations"`
	ActiveUser    *User           `json:"currentUser"`
}

// FindOrganization returns the organization with the given id.
func (d Document) FindOrganization(id string) (*Organization, bool) {
	for _, org := range d.Organizations {
		if org.ID == id {
			return org, true
		}
	}
	return nil, false
}

// FindDepartment scans every organization for the department.
func (d Document) FindDepartment(id string) (*Department, bool) {
	for _, org := range d.Organizations {
		for _, dept := range org.Departments {
			if dept.ID == id {
				return dept, true
			}
		}
	}
	return nil, false
}

// FindProject scans the document for the project.
func (d Document) FindProject(id string) (*Project, bool) {
	for _, org := range d.Organizations {
		for _, dept := range org.Departments {
			for _, proj := range dept.Projects {
				if proj.ID == id {
					return proj, true
				}
			}
		}
	}
	return nil, false
}

// FindTeam scans the document for the team.
func (d Document) FindTeam(id string) (*Team, bool) {
	for _, org := range d.Organizations {
		for _, dept := range org.Departments {
			for _, proj := range dept.Projects {
				for _, team := range proj.Teams {
					if team.ID == id {
						return team, true
					}
				}
			}
		}
	}
	return nil, false
}

// FindTeamMember scans the document for the membership.
func (d Document) FindTeamMember(id string) (*TeamMember, bool) {
	var found *TeamMember
	d.Walk(func(level EntityType, node any) bool {
		if level != EntityTeamMember {
			return true
		}
		if m := node.(*TeamMember); m.ID == id {
			found = m
			return false
		}
		return true
	})
	return found, found != nil
}

// Contains reports whether any node at any level carries the id.
func (d Document) Contains(id string) bool {
	var hit bool
	d.Walk(func(_ EntityType, node any) bool {
		if nodeID(node) == id {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// Walk visits every node depth-first in sibling order. Returning false from
// fn stops the walk.
func (d Document) Walk(fn func(level EntityType, node any) bool) {
	for _, org := range d.Organizations {
		if !fn(EntityOrganization, org) {
			return
		}
		for _, dept := range org.Departments {
			if !fn(EntityDepartment, dept) {
				return
			}
			for _, proj := range dept.Projects {
				if !fn(EntityProject, proj) {
					return
				}
				for _, team := range proj.Teams {
					if !fn(EntityTeam, team) {
						return
					}
					for _, m := range team.Members {
						if !fn(EntityTeamMember, m) {
							return
						}
					}
				}
			}
		}
	}
}

// Counts returns the number of nodes per level.
func (d Document) Counts() map[EntityType]int {
	counts := make(map[EntityType]int, len(Levels))
	for _, level := range Levels {
		counts[level] = 0
	}
	d.Walk(func(level EntityType, _ any) bool {
		counts[level]++
		return true
	})
	return counts
}

// Clone deep-copies the document so the result shares no memory with d.
func (d Document) Clone() Document {
	out := Document{Organizations: make([]*Organization, 0, len(d.Organizations))}
	if d.ActiveUser != nil {
		u := *d.ActiveUser
		out.ActiveUser = &u
	}
	for _, org := range d.Organizations {
		out.Organizations = append(out.Organizations, cloneOrganization(org))
	}
	return out
}

func cloneOrganization(o *Organization) *Organization {
	cp := *o
	cp.Departments = make([]*Department, 0, len(o.Departments))
	for _, dept := range o.Departments {
		d := *dept
		d.Projects = make([]*Project, 0, len(dept.Projects))
		for _, proj := range dept.Projects {
			p := *proj
			p.Teams = make([]*Team, 0, len(proj.Teams))
			for _, team := range proj.Teams {
				t := *team
				t.Members = make([]*TeamMember, 0, len(team.Members))
				for _, m := range team.Members {
					mm := *m
					mm.Responsibilities = append(make([]string, 0, len(m.Responsibilities)), m.Responsibilities...)
					t.Members = append(t.Members, &mm)
				}
				p.Teams = append(p.Teams, &t)
			}
			d.Projects = append(d.Projects, &p)
		}
		cp.Departments = append(cp.Departments, &d)
	}
	return &cp
}

func nodeID(node any) string {
	switch n := node.(type) {
	case *Organization:
		return n.ID
	case *Department:
		return n.ID
	case *Project:
		return n.ID
	case *Team:
		return n.ID
	case *TeamMember:
		return n.ID
	default:
		return ""
	}
}

// NodeName returns the display name of a node, or the user id for memberships.
func NodeName(node any) string {
	switch n := node.(type) {
	case *Organization:
		return n.Name
	case *Department:
		return n.Name
	case *Project:
		return n.Name
	case *Team:
		return n.Name
	case *TeamMember:
		return n.UserID
	default:
		return ""
	}
}

// NodeID returns the identifier of any hierarchy node.
func NodeID(node any) string { return nodeID(node) }
