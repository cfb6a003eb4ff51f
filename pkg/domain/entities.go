// Package domain defines the hierarchy entities, value types, and rule
// evaluation primitives used by workmgmt.
package domain

import "fmt"

// EntityType identifies the level of a node in the hierarchy.
type EntityType string

// Supported entity type identifiers used in Change records and metrics labels.
const (
	// EntityOrganization identifies a root-level organization.
	EntityOrganization EntityType = "organization"
	// EntityDepartment identifies a department owned by an organization.
	EntityDepartment EntityType = "department"
	// EntityProject identifies a project owned by a department.
	EntityProject EntityType = "project"
	// EntityTeam identifies a team owned by a project.
	EntityTeam EntityType = "team"
	// EntityTeamMember identifies a team membership record.
	EntityTeamMember EntityType = "team_member"
	// EntityUser identifies a roster user. Users only appear in changes that
	// switch the active user.
	EntityUser EntityType = "user"
)

// Levels lists the hierarchy levels from the root down.
var Levels = []EntityType{EntityOrganization, EntityDepartment, EntityProject, EntityTeam, EntityTeamMember}

// Role is shared by roster users (global role) and team members (team-scoped role).
type Role string

// Roles recognised by the permission helpers.
const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleMember  Role = "Member"
)

// ParseRole converts a case-sensitive role name to a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleManager, RoleMember:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User is drawn from the fixed roster; the store never creates or edits users.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Organization is a root node of the hierarchy.
type Organization struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Departments []*Department `json:"departments"`
}

// Department belongs to exactly one organization.
type Department struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	OrganizationID string     `json:"organizationId"`
	Projects       []*Project `json:"projects"`
}

// Project belongs to exactly one department.
type Project struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	DepartmentID string  `json:"departmentId"`
	Teams        []*Team `json:"teams"`
}

// Team belongs to exactly one project.
type Team struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ProjectID   string        `json:"projectId"`
	Description string        `json:"description"`
	Members     []*TeamMember `json:"members"`
}

// TeamMember links a roster user to a team. UserID is not validated against
// the roster; Role is scoped to the team and independent of the user's role.
type TeamMember struct {
	ID               string   `json:"id"`
	UserID           string   `json:"userId"`
	TeamID           string   `json:"teamId"`
	Role             Role     `json:"role"`
	Responsibilities []string `json:"responsibilities"`
}

// Change describes a mutation applied to a node during a transaction.
// Before and After hold the node values (not the subtrees' later versions).
type Change struct {
	Entity   EntityType
	Action   Action
	ParentID string
	Before   any
	After    any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported operations captured in the audit trail.
const (
	// ActionCreate indicates a node was added.
	ActionCreate Action = "create"
	// ActionUpdate indicates a node's editable fields were replaced.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionSwitch indicates the active user changed.
	ActionSwitch Action = "switch"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return fmt.Sprintf("transaction blocked by rule %s: %s", v.Rule, v.Message)
		}
	}
	return "transaction blocked by rules"
}
