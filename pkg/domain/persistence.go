package domain

import "context"

// Transaction exposes the hierarchy mutations a store must support within an
// atomic scope. Every lookup miss is reported through the boolean result and
// leaves the pending document untouched.
type Transaction interface {
	Snapshot() TransactionView
	SetActiveUser(user *User)
	AddOrganization(name, description string) *Organization
	UpdateOrganization(id, name, description string) (*Organization, bool)
	DeleteOrganization(id string) bool
	AddDepartment(organizationID, name string) (*Department, bool)
	UpdateDepartment(id, name string) (*Department, bool)
	DeleteDepartment(id string) bool
	AddProject(departmentID, name, description string) (*Project, bool)
	UpdateProject(id, name, description string) (*Project, bool)
	DeleteProject(id string) bool
	AddTeam(projectID, name, description string) (*Team, bool)
	UpdateTeam(id, name, description string) (*Team, bool)
	DeleteTeam(id string) bool
	AddTeamMember(teamID, userID string, role Role, responsibilities []string) (*TeamMember, bool)
	UpdateTeamMember(id string, role Role, responsibilities []string) (*TeamMember, bool)
	DeleteTeamMember(id string) bool
}

// TransactionView provides read-only access to a document snapshot.
type TransactionView interface {
	RuleView
	ActiveUser() *User
}

// PersistentStore is the in-process holder of the document. Durable storage
// is delegated to a Backend.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	Document() Document
	ImportState(Document)
}

// Backend stores the serialized document as one named durable record.
type Backend interface {
	// Load returns ok=false when the record does not exist yet.
	Load(ctx context.Context) (doc Document, ok bool, err error)
	Save(ctx context.Context, doc Document) error
	Close() error
}
