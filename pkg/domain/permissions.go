package domain

// Permissions describes which actions a view should offer at one level.
// The store never consults these; any caller can bypass them.
type Permissions struct {
	Create bool
	Edit   bool
	Delete bool
}

// PermissionsFor returns the view gating for a user at the given level.
// Admins may do everything. Managers may create and edit below the
// organization level and may remove team members. Members and the absent
// user are read-only.
func PermissionsFor(user *User, level EntityType) Permissions {
	if user == nil {
		return Permissions{}
	}
	switch user.Role {
	case RoleAdmin:
		return Permissions{Create: true, Edit: true, Delete: true}
	case RoleManager:
		if level == EntityOrganization {
			return Permissions{}
		}
		return Permissions{Create: true, Edit: true, Delete: level == EntityTeamMember}
	default:
		return Permissions{}
	}
}

// Allows reports whether the permissions cover the action.
func (p Permissions) Allows(action Action) bool {
	switch action {
	case ActionCreate:
		return p.Create
	case ActionUpdate:
		return p.Edit
	case ActionDelete:
		return p.Delete
	default:
		return false
	}
}
