// Package memory provides the in-memory document store that every backend
// hydrates and snapshots. It is also used directly for tests and ephemeral
// environments.
package memory

import (
	"context"
	"fmt"
	"sync"

	"workmgmt/pkg/domain"

	"github.com/google/uuid"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Document aliases domain.Document for in-memory persistence operations.
	Document = domain.Document
	// Organization aliases domain.Organization.
	Organization = domain.Organization
	// Department aliases domain.Department.
	Department = domain.Department
	// Project aliases domain.Project.
	Project = domain.Project
	// Team aliases domain.Team.
	Team = domain.Team
	// TeamMember aliases domain.TeamMember.
	TeamMember = domain.TeamMember
	// User aliases domain.User.
	User = domain.User
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// maxIDAttempts bounds regeneration when an id generator collides with an existing node.
const maxIDAttempts = 8

// Store provides an in-memory transactional holder for the hierarchy document.
// The held document is immutable; each committed transaction swaps in a new one.
type Store struct {
	mu     sync.RWMutex
	state  Document
	engine *RulesEngine
	idFn   func() string
}

// NewStore constructs an empty in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  Document{Organizations: []*Organization{}},
		engine: engine,
		idFn:   uuid.NewString,
	}
}

// SetIDGenerator replaces the identifier source. Intended for tests.
func (s *Store) SetIDGenerator(fn func() string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		fn = uuid.NewString
	}
	s.idFn = fn
}

// RulesEngine exposes the configured engine so callers can register rules.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Document returns the committed document. Callers must not modify it.
func (s *Store) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ExportState deep-copies the committed document for external persistence.
func (s *Store) ExportState() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ImportState replaces the held document with a normalized copy of doc.
func (s *Store) ImportState(doc Document) {
	migrated := migrateSnapshot(doc)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = migrated
}

// RunInTransaction executes fn against a pending copy of the document and
// commits it when fn and every blocking rule succeed.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{store: s, doc: s.state}
	if err := fn(tx); err != nil {
		return Result{}, err
	}
	if len(tx.changes) == 0 {
		return Result{}, nil
	}

	var result Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, newTransactionView(tx.doc), tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.doc
	return result, nil
}

// View executes fn against the committed document.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	doc := s.state
	s.mu.RUnlock()
	return fn(newTransactionView(doc))
}

// newID must be called with s.mu held.
func (s *Store) newID(doc Document) string {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.idFn()
		if id != "" && !doc.Contains(id) {
			return id
		}
	}
	panic(fmt.Errorf("memory store: id generator produced %d colliding ids", maxIDAttempts))
}

type transactionView struct {
	doc Document
}

func newTransactionView(doc Document) TransactionView {
	return transactionView{doc: doc}
}

func (v transactionView) Document() Document { return v.doc }

func (v transactionView) ActiveUser() *User {
	if v.doc.ActiveUser == nil {
		return nil
	}
	u := *v.doc.ActiveUser
	return &u
}

func (v transactionView) FindOrganization(id string) (*Organization, bool) {
	return v.doc.FindOrganization(id)
}

func (v transactionView) FindDepartment(id string) (*Department, bool) {
	return v.doc.FindDepartment(id)
}

func (v transactionView) FindProject(id string) (*Project, bool) { return v.doc.FindProject(id) }

func (v transactionView) FindTeam(id string) (*Team, bool) { return v.doc.FindTeam(id) }

func (v transactionView) FindTeamMember(id string) (*TeamMember, bool) {
	return v.doc.FindTeamMember(id)
}
