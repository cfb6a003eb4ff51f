package memory

import "workmgmt/pkg/domain"

// transaction holds the pending document for one RunInTransaction call.
type transaction struct {
	store   *Store
	doc     Document
	changes []Change
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the pending document.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(tx.doc)
}

// SetActiveUser replaces the active user; nil clears it.
func (tx *transaction) SetActiveUser(user *User) {
	before := tx.doc.ActiveUser
	var after *User
	if user != nil {
		cp := *user
		after = &cp
	}
	tx.doc.ActiveUser = after
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionSwitch, Before: before, After: after})
}

// AddOrganization appends a new organization with no departments.
func (tx *transaction) AddOrganization(name, description string) *Organization {
	org := &Organization{
		ID:          tx.store.newID(tx.doc),
		Name:        name,
		Description: description,
		Departments: []*Department{},
	}
	tx.doc.Organizations = appended(tx.doc.Organizations, org)
	tx.recordChange(Change{Entity: domain.EntityOrganization, Action: domain.ActionCreate, After: org})
	return org
}

// UpdateOrganization replaces the organization's name and description.
func (tx *transaction) UpdateOrganization(id, name, description string) (*Organization, bool) {
	p, ok := locate(tx.doc, domain.EntityOrganization, id)
	if !ok {
		return nil, false
	}
	before := p.organization(tx.doc)
	org := *before
	org.Name = name
	org.Description = description
	tx.doc = setOrganization(tx.doc, p, &org)
	tx.recordChange(Change{Entity: domain.EntityOrganization, Action: domain.ActionUpdate, Before: before, After: &org})
	return &org, true
}

// DeleteOrganization removes the organization and its whole subtree.
func (tx *transaction) DeleteOrganization(id string) bool {
	p, ok := locate(tx.doc, domain.EntityOrganization, id)
	if !ok {
		return false
	}
	before := p.organization(tx.doc)
	tx.doc.Organizations = removedAt(tx.doc.Organizations, p.org)
	tx.recordChange(Change{Entity: domain.EntityOrganization, Action: domain.ActionDelete, Before: before})
	return true
}

// AddDepartment appends a department under the organization.
func (tx *transaction) AddDepartment(organizationID, name string) (*Department, bool) {
	p, ok := locate(tx.doc, domain.EntityOrganization, organizationID)
	if !ok {
		return nil, false
	}
	dept := &Department{
		ID:             tx.store.newID(tx.doc),
		Name:           name,
		OrganizationID: organizationID,
		Projects:       []*Project{},
	}
	org := *p.organization(tx.doc)
	org.Departments = appended(org.Departments, dept)
	tx.doc = setOrganization(tx.doc, p, &org)
	tx.recordChange(Change{Entity: domain.EntityDepartment, Action: domain.ActionCreate, ParentID: organizationID, After: dept})
	return dept, true
}

// UpdateDepartment replaces the department's name.
func (tx *transaction) UpdateDepartment(id, name string) (*Department, bool) {
	p, ok := locate(tx.doc, domain.EntityDepartment, id)
	if !ok {
		return nil, false
	}
	before := p.department(tx.doc)
	dept := *before
	dept.Name = name
	tx.doc = setDepartment(tx.doc, p, &dept)
	tx.recordChange(Change{Entity: domain.EntityDepartment, Action: domain.ActionUpdate, ParentID: dept.OrganizationID, Before: before, After: &dept})
	return &dept, true
}

// DeleteDepartment removes the department and everything below it.
func (tx *transaction) DeleteDepartment(id string) bool {
	p, ok := locate(tx.doc, domain.EntityDepartment, id)
	if !ok {
		return false
	}
	before := p.department(tx.doc)
	org := *p.organization(tx.doc)
	org.Departments = removedAt(org.Departments, p.dept)
	tx.doc = setOrganization(tx.doc, p, &org)
	tx.recordChange(Change{Entity: domain.EntityDepartment, Action: domain.ActionDelete, ParentID: org.ID, Before: before})
	return true
}

// AddProject appends a project under the department.
func (tx *transaction) AddProject(departmentID, name, description string) (*Project, bool) {
	p, ok := locate(tx.doc, domain.EntityDepartment, departmentID)
	if !ok {
		return nil, false
	}
	proj := &Project{
		ID:           tx.store.newID(tx.doc),
		Name:         name,
		Description:  description,
		DepartmentID: departmentID,
		Teams:        []*Team{},
	}
	dept := *p.department(tx.doc)
	dept.Projects = appended(dept.Projects, proj)
	tx.doc = setDepartment(tx.doc, p, &dept)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionCreate, ParentID: departmentID, After: proj})
	return proj, true
}

// UpdateProject replaces the project's name and description.
func (tx *transaction) UpdateProject(id, name, description string) (*Project, bool) {
	p, ok := locate(tx.doc, domain.EntityProject, id)
	if !ok {
		return nil, false
	}
	before := p.project(tx.doc)
	proj := *before
	proj.Name = name
	proj.Description = description
	tx.doc = setProject(tx.doc, p, &proj)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionUpdate, ParentID: proj.DepartmentID, Before: before, After: &proj})
	return &proj, true
}

// DeleteProject removes the project with its teams and memberships.
func (tx *transaction) DeleteProject(id string) bool {
	p, ok := locate(tx.doc, domain.EntityProject, id)
	if !ok {
		return false
	}
	before := p.project(tx.doc)
	dept := *p.department(tx.doc)
	dept.Projects = removedAt(dept.Projects, p.proj)
	tx.doc = setDepartment(tx.doc, p, &dept)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionDelete, ParentID: dept.ID, Before: before})
	return true
}

// AddTeam appends a team under the project.
func (tx *transaction) AddTeam(projectID, name, description string) (*Team, bool) {
	p, ok := locate(tx.doc, domain.EntityProject, projectID)
	if !ok {
		return nil, false
	}
	team := &Team{
		ID:          tx.store.newID(tx.doc),
		Name:        name,
		ProjectID:   projectID,
		Description: description,
		Members:     []*TeamMember{},
	}
	proj := *p.project(tx.doc)
	proj.Teams = appended(proj.Teams, team)
	tx.doc = setProject(tx.doc, p, &proj)
	tx.recordChange(Change{Entity: domain.EntityTeam, Action: domain.ActionCreate, ParentID: projectID, After: team})
	return team, true
}

// UpdateTeam replaces the team's name and description.
func (tx *transaction) UpdateTeam(id, name, description string) (*Team, bool) {
	p, ok := locate(tx.doc, domain.EntityTeam, id)
	if !ok {
		return nil, false
	}
	before := p.team(tx.doc)
	team := *before
	team.Name = name
	team.Description = description
	tx.doc = setTeam(tx.doc, p, &team)
	tx.recordChange(Change{Entity: domain.EntityTeam, Action: domain.ActionUpdate, ParentID: team.ProjectID, Before: before, After: &team})
	return &team, true
}

// DeleteTeam removes the team and its memberships.
func (tx *transaction) DeleteTeam(id string) bool {
	p, ok := locate(tx.doc, domain.EntityTeam, id)
	if !ok {
		return false
	}
	before := p.team(tx.doc)
	proj := *p.project(tx.doc)
	proj.Teams = removedAt(proj.Teams, p.tm)
	tx.doc = setProject(tx.doc, p, &proj)
	tx.recordChange(Change{Entity: domain.EntityTeam, Action: domain.ActionDelete, ParentID: proj.ID, Before: before})
	return true
}

// AddTeamMember appends a membership under the team. userID is stored as given.
func (tx *transaction) AddTeamMember(teamID, userID string, role domain.Role, responsibilities []string) (*TeamMember, bool) {
	p, ok := locate(tx.doc, domain.EntityTeam, teamID)
	if !ok {
		return nil, false
	}
	m := &TeamMember{
		ID:               tx.store.newID(tx.doc),
		UserID:           userID,
		TeamID:           teamID,
		Role:             role,
		Responsibilities: copyStrings(responsibilities),
	}
	team := *p.team(tx.doc)
	team.Members = appended(team.Members, m)
	tx.doc = setTeam(tx.doc, p, &team)
	tx.recordChange(Change{Entity: domain.EntityTeamMember, Action: domain.ActionCreate, ParentID: teamID, After: m})
	return m, true
}

// UpdateTeamMember replaces role and responsibilities. UserID and TeamID are immutable.
func (tx *transaction) UpdateTeamMember(id string, role domain.Role, responsibilities []string) (*TeamMember, bool) {
	p, ok := locate(tx.doc, domain.EntityTeamMember, id)
	if !ok {
		return nil, false
	}
	before := p.member(tx.doc)
	m := *before
	m.Role = role
	m.Responsibilities = copyStrings(responsibilities)
	tx.doc = setMember(tx.doc, p, &m)
	tx.recordChange(Change{Entity: domain.EntityTeamMember, Action: domain.ActionUpdate, ParentID: m.TeamID, Before: before, After: &m})
	return &m, true
}

// DeleteTeamMember removes the membership.
func (tx *transaction) DeleteTeamMember(id string) bool {
	p, ok := locate(tx.doc, domain.EntityTeamMember, id)
	if !ok {
		return false
	}
	before := p.member(tx.doc)
	team := *p.team(tx.doc)
	team.Members = removedAt(team.Members, p.mem)
	tx.doc = setTeam(tx.doc, p, &team)
	tx.recordChange(Change{Entity: domain.EntityTeamMember, Action: domain.ActionDelete, ParentID: team.ID, Before: before})
	return true
}
