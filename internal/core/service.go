// Package core exposes the hierarchy service: the in-memory document store
// plus its rules, metrics and durable record lifecycle.
package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"workmgmt/internal/infra/persistence/memory"
	"workmgmt/pkg/domain"
)

// Service is the consumer surface over the hierarchy document. Mutations are
// applied one at a time; a committed mutation is saved to the backend when
// autosave is enabled.
type Service struct {
	store    *memory.Store
	persist  sync.Mutex
	backend  domain.Backend
	roster   domain.Roster
	logger   Logger
	clock    Clock
	metrics  *Metrics
	autosave bool
	idFn     func() string
}

// NewService builds a service holding the sample hierarchy. Call Load to
// replace it with the stored record.
func NewService(engine *domain.RulesEngine, opts ...Option) *Service {
	s := &Service{
		roster:   domain.DefaultRoster(),
		logger:   noopLogger{},
		clock:    ClockFunc(time.Now),
		autosave: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	s.store = memory.NewStore(engine)
	if s.idFn != nil {
		s.store.SetIDGenerator(s.idFn)
	}
	s.store.ImportState(domain.SampleDocument())
	s.metrics.setNodes(s.store.Document().Counts())
	return s
}

// Store returns the underlying in-memory store.
func (s *Service) Store() *memory.Store { return s.store }

// Metrics returns the service collectors.
func (s *Service) Metrics() *Metrics { return s.metrics }

// Backend returns the configured durable backend, or nil.
func (s *Service) Backend() domain.Backend { return s.backend }

// Load restores the stored record. A missing record keeps the sample
// hierarchy. A failed load also keeps the sample, and the error is returned
// so the caller can report it; the record is left untouched until the next
// successful save.
func (s *Service) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	doc, ok, err := s.backend.Load(ctx)
	if err != nil {
		s.store.ImportState(domain.SampleDocument())
		s.metrics.setNodes(s.store.Document().Counts())
		return fmt.Errorf("load record: %w", err)
	}
	if !ok {
		s.logger.Info("no stored record, starting from sample hierarchy")
		return nil
	}
	s.store.ImportState(doc)
	s.metrics.setNodes(s.store.Document().Counts())
	s.logger.Debug("record loaded", "organizations", len(doc.Organizations))
	return nil
}

// Save writes the committed document to the backend.
func (s *Service) Save(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	if err := s.saveLatest(ctx); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// saveLatest exports and saves under one lock so a later save never carries
// an older document than an earlier one.
func (s *Service) saveLatest(ctx context.Context) error {
	s.persist.Lock()
	defer s.persist.Unlock()
	return s.backend.Save(ctx, s.store.ExportState())
}

// Close releases the backend.
func (s *Service) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// run applies fn in one transaction. fn reports whether its target was
// found; a miss is recorded as a no-op.
func (s *Service) run(ctx context.Context, operation string, fn func(tx domain.Transaction) bool) error {
	start := s.clock.Now()
	applied := false
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		applied = fn(tx)
		return nil
	})
	elapsed := s.clock.Now().Sub(start)
	s.logViolations(operation, res)

	if err != nil {
		s.metrics.observe(operation, OutcomeRejected, elapsed)
		var violation domain.RuleViolationError
		if errors.As(err, &violation) {
			s.logger.Warn("operation rejected", "operation", operation, "error", err)
		}
		return fmt.Errorf("%s: %w", operation, err)
	}
	if !applied {
		s.metrics.observe(operation, OutcomeNoop, elapsed)
		s.logger.Debug("target not found", "operation", operation)
		return nil
	}

	s.metrics.observe(operation, OutcomeApplied, elapsed)
	s.metrics.setNodes(s.store.Document().Counts())
	s.logger.Debug("operation applied", "operation", operation, "elapsed", elapsed)
	if s.autosave && s.backend != nil {
		if err := s.saveLatest(ctx); err != nil {
			s.metrics.persistFailed()
			s.logger.Error("persist document", "operation", operation, "error", err)
		}
	}
	return nil
}

func (s *Service) logViolations(operation string, res domain.Result) {
	for _, v := range res.Violations {
		keyvals := []any{"operation", operation, "rule", v.Rule, "entity", v.Entity, "id", v.EntityID}
		switch v.Severity {
		case domain.SeverityBlock:
			s.logger.Error(v.Message, keyvals...)
		case domain.SeverityWarn:
			s.logger.Warn(v.Message, keyvals...)
		default:
			s.logger.Info(v.Message, keyvals...)
		}
	}
}

// SwitchActiveUser makes the roster user with userID active. An unknown id
// clears the active user.
func (s *Service) SwitchActiveUser(ctx context.Context, userID string) (*domain.User, error) {
	user, _ := s.roster.Lookup(userID)
	err := s.run(ctx, "switch_active_user", func(tx domain.Transaction) bool {
		tx.SetActiveUser(user)
		return true
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AddOrganization appends an organization with no departments.
func (s *Service) AddOrganization(ctx context.Context, name, description string) (*domain.Organization, error) {
	var org *domain.Organization
	err := s.run(ctx, "add_organization", func(tx domain.Transaction) bool {
		org = tx.AddOrganization(name, description)
		return true
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// UpdateOrganization replaces an organization's name and description.
func (s *Service) UpdateOrganization(ctx context.Context, id, name, description string) (*domain.Organization, bool, error) {
	var org *domain.Organization
	var ok bool
	err := s.run(ctx, "update_organization", func(tx domain.Transaction) bool {
		org, ok = tx.UpdateOrganization(id, name, description)
		return ok
	})
	return committed(org, ok, err)
}

// DeleteOrganization removes an organization and everything beneath it.
func (s *Service) DeleteOrganization(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.run(ctx, "delete_organization", func(tx domain.Transaction) bool {
		ok = tx.DeleteOrganization(id)
		return ok
	})
	return ok && err == nil, err
}

// AddDepartment appends a department to an organization.
func (s *Service) AddDepartment(ctx context.Context, organizationID, name string) (*domain.Department, bool, error) {
	var dept *domain.Department
	var ok bool
	err := s.run(ctx, "add_department", func(tx domain.Transaction) bool {
		dept, ok = tx.AddDepartment(organizationID, name)
		return ok
	})
	return committed(dept, ok, err)
}

// UpdateDepartment renames a department.
func (s *Service) UpdateDepartment(ctx context.Context, id, name string) (*domain.Department, bool, error) {
	var dept *domain.Department
	var ok bool
	err := s.run(ctx, "update_department", func(tx domain.Transaction) bool {
		dept, ok = tx.UpdateDepartment(id, name)
		return ok
	})
	return committed(dept, ok, err)
}

// DeleteDepartment removes a department and its projects.
func (s *Service) DeleteDepartment(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.run(ctx, "delete_department", func(tx domain.Transaction) bool {
		ok = tx.DeleteDepartment(id)
		return ok
	})
	return ok && err == nil, err
}

// AddProject appends a project to a department.
func (s *Service) AddProject(ctx context.Context, departmentID, name, description string) (*domain.Project, bool, error) {
	var proj *domain.Project
	var ok bool
	err := s.run(ctx, "add_project", func(tx domain.Transaction) bool {
		proj, ok = tx.AddProject(departmentID, name, description)
		return ok
	})
	return committed(proj, ok, err)
}

// UpdateProject replaces a project's name and description.
func (s *Service) UpdateProject(ctx context.Context, id, name, description string) (*domain.Project, bool, error) {
	var proj *domain.Project
	var ok bool
	err := s.run(ctx, "update_project", func(tx domain.Transaction) bool {
		proj, ok = tx.UpdateProject(id, name, description)
		return ok
	})
	return committed(proj, ok, err)
}

// DeleteProject removes a project and its teams.
func (s *Service) DeleteProject(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.run(ctx, "delete_project", func(tx domain.Transaction) bool {
		ok = tx.DeleteProject(id)
		return ok
	})
	return ok && err == nil, err
}

// AddTeam appends a team to a project.
func (s *Service) AddTeam(ctx context.Context, projectID, name, description string) (*domain.Team, bool, error) {
	var team *domain.Team
	var ok bool
	err := s.run(ctx, "add_team", func(tx domain.Transaction) bool {
		team, ok = tx.AddTeam(projectID, name, description)
		return ok
	})
	return committed(team, ok, err)
}

// UpdateTeam replaces a team's name and description.
func (s *Service) UpdateTeam(ctx context.Context, id, name, description string) (*domain.Team, bool, error) {
	var team *domain.Team
	var ok bool
	err := s.run(ctx, "update_team", func(tx domain.Transaction) bool {
		team, ok = tx.UpdateTeam(id, name, description)
		return ok
	})
	return committed(team, ok, err)
}

// DeleteTeam removes a team and its members.
func (s *Service) DeleteTeam(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.run(ctx, "delete_team", func(tx domain.Transaction) bool {
		ok = tx.DeleteTeam(id)
		return ok
	})
	return ok && err == nil, err
}

// AddTeamMember appends a membership. userID is not checked against the roster.
func (s *Service) AddTeamMember(ctx context.Context, teamID, userID string, role domain.Role, responsibilities []string) (*domain.TeamMember, bool, error) {
	var member *domain.TeamMember
	var ok bool
	err := s.run(ctx, "add_team_member", func(tx domain.Transaction) bool {
		member, ok = tx.AddTeamMember(teamID, userID, role, responsibilities)
		return ok
	})
	return committed(member, ok, err)
}

// UpdateTeamMember replaces a membership's role and responsibilities.
func (s *Service) UpdateTeamMember(ctx context.Context, id string, role domain.Role, responsibilities []string) (*domain.TeamMember, bool, error) {
	var member *domain.TeamMember
	var ok bool
	err := s.run(ctx, "update_team_member", func(tx domain.Transaction) bool {
		member, ok = tx.UpdateTeamMember(id, role, responsibilities)
		return ok
	})
	return committed(member, ok, err)
}

// DeleteTeamMember removes a membership.
func (s *Service) DeleteTeamMember(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.run(ctx, "delete_team_member", func(tx domain.Transaction) bool {
		ok = tx.DeleteTeamMember(id)
		return ok
	})
	return ok && err == nil, err
}

func committed[T any](node *T, ok bool, err error) (*T, bool, error) {
	if err != nil || !ok {
		return nil, false, err
	}
	return node, true, nil
}

// Document returns the committed document. Callers must not modify it.
func (s *Service) Document() domain.Document { return s.store.Document() }

// Organizations returns the top-level organizations in order.
func (s *Service) Organizations() []*domain.Organization {
	return slices.Clone(s.store.Document().Organizations)
}

// ActiveUser returns a copy of the active user, or nil.
func (s *Service) ActiveUser() *domain.User {
	u := s.store.Document().ActiveUser
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

// FindOrganization returns the committed organization with id.
func (s *Service) FindOrganization(id string) (*domain.Organization, bool) {
	return s.store.Document().FindOrganization(id)
}

// FindDepartment returns the committed department with id.
func (s *Service) FindDepartment(id string) (*domain.Department, bool) {
	return s.store.Document().FindDepartment(id)
}

// FindProject returns the committed project with id.
func (s *Service) FindProject(id string) (*domain.Project, bool) {
	return s.store.Document().FindProject(id)
}

// FindTeam returns the committed team with id.
func (s *Service) FindTeam(id string) (*domain.Team, bool) {
	return s.store.Document().FindTeam(id)
}

// FindTeamMember returns the committed membership with id.
func (s *Service) FindTeamMember(id string) (*domain.TeamMember, bool) {
	return s.store.Document().FindTeamMember(id)
}

// Roster returns the users available for assignment.
func (s *Service) Roster() domain.Roster { return slices.Clone(s.roster) }

// ResolveUserName maps a user id to a display name.
func (s *Service) ResolveUserName(userID string) string { return s.roster.DisplayName(userID) }

// MemberLabel renders a membership as "name (role)".
func (s *Service) MemberLabel(m *domain.TeamMember) string {
	return fmt.Sprintf("%s (%s)", s.ResolveUserName(m.UserID), m.Role)
}
