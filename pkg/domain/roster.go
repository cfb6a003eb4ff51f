package domain

// UnknownUserName is rendered for memberships whose user id is not on the roster.
const UnknownUserName = "Unknown User"

// Roster is the fixed, ordered list of users available for assignment.
type Roster []User

// DefaultRoster returns the five built-in users.
func DefaultRoster() Roster {
	return Roster{
		{ID: "user1", Name: "Admin User", Email: "admin@example.com", Role: RoleAdmin},
		{ID: "user2", Name: "Manager User", Email: "manager@example.com", Role: RoleManager},
		{ID: "user3", Name: "Team Member", Email: "member@example.com", Role: RoleMember},
		{ID: "user4", Name: "John Doe", Email: "john@example.com", Role: RoleMember},
		{ID: "user5", Name: "Jane Smith", Email: "jane@example.com", Role: RoleManager},
	}
}

// Lookup returns a copy of the user with the given id.
func (r Roster) Lookup(id string) (*User, bool) {
	for _, u := range r {
		if u.ID == id {
			cp := u
			return &cp, true
		}
	}
	return nil, false
}

// DisplayName resolves a user id to its name, or UnknownUserName on a miss.
func (r Roster) DisplayName(id string) string {
	if u, ok := r.Lookup(id); ok {
		return u.Name
	}
	return UnknownUserName
}
