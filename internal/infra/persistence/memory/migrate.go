package memory

// migrateSnapshot rebuilds an imported document into the shape the store
// relies on: fresh nodes, non-nil child slices, back-references equal to the
// actual container, and document-wide unique ids. A node whose id is empty
// or already seen is dropped together with its subtree.
func migrateSnapshot(doc Document) Document {
	seen := make(map[string]struct{})
	claim := func(id string) bool {
		if id == "" {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		return true
	}

	out := Document{Organizations: make([]*Organization, 0, len(doc.Organizations))}
	if doc.ActiveUser != nil {
		u := *doc.ActiveUser
		out.ActiveUser = &u
	}
	for _, srcOrg := range doc.Organizations {
		if srcOrg == nil || !claim(srcOrg.ID) {
			continue
		}
		org := *srcOrg
		org.Departments = make([]*Department, 0, len(srcOrg.Departments))
		for _, srcDept := range srcOrg.Departments {
			if srcDept == nil || !claim(srcDept.ID) {
				continue
			}
			dept := *srcDept
			dept.OrganizationID = org.ID
			dept.Projects = make([]*Project, 0, len(srcDept.Projects))
			for _, srcProj := range srcDept.Projects {
				if srcProj == nil || !claim(srcProj.ID) {
					continue
				}
				proj := *srcProj
				proj.DepartmentID = dept.ID
				proj.Teams = make([]*Team, 0, len(srcProj.Teams))
				for _, srcTeam := range srcProj.Teams {
					if srcTeam == nil || !claim(srcTeam.ID) {
						continue
					}
					team := *srcTeam
					team.ProjectID = proj.ID
					team.Members = make([]*TeamMember, 0, len(srcTeam.Members))
					for _, srcMember := range srcTeam.Members {
						if srcMember == nil || !claim(srcMember.ID) {
							continue
						}
						m := *srcMember
						m.TeamID = team.ID
						m.Responsibilities = copyStrings(srcMember.Responsibilities)
						team.Members = append(team.Members, &m)
					}
					proj.Teams = append(proj.Teams, &team)
				}
				dept.Projects = append(dept.Projects, &proj)
			}
			org.Departments = append(org.Departments, &dept)
		}
		out.Organizations = append(out.Organizations, &org)
	}
	return out
}
