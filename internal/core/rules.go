package core

import (
	"context"
	"fmt"
	"strings"

	"workmgmt/pkg/domain"
)

// NonEmptyNameRuleName identifies violations raised by NonEmptyNameRule.
const NonEmptyNameRuleName = "non_empty_name"

// NonEmptyNameRule flags organizations, departments, projects and teams that
// are created or renamed with a blank name.
type NonEmptyNameRule struct {
	severity domain.Severity
}

// NewNonEmptyNameRule returns the rule reporting at the given severity.
// An empty severity defaults to warn.
func NewNonEmptyNameRule(severity domain.Severity) NonEmptyNameRule {
	if severity == "" {
		severity = domain.SeverityWarn
	}
	return NonEmptyNameRule{severity: severity}
}

// Name implements domain.Rule.
func (r NonEmptyNameRule) Name() string { return NonEmptyNameRuleName }

// Evaluate implements domain.Rule.
func (r NonEmptyNameRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var res domain.Result
	for _, change := range changes {
		if change.Action != domain.ActionCreate && change.Action != domain.ActionUpdate {
			continue
		}
		name, ok := namedNode(change.After)
		if !ok || strings.TrimSpace(name) != "" {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: r.severity,
			Message:  fmt.Sprintf("%s name must not be empty", change.Entity),
			Entity:   change.Entity,
			EntityID: domain.NodeID(change.After),
		})
	}
	return res, nil
}

func namedNode(node any) (string, bool) {
	switch node.(type) {
	case *domain.Organization, *domain.Department, *domain.Project, *domain.Team:
		return domain.NodeName(node), true
	default:
		return "", false
	}
}

// NewDefaultRulesEngine returns the engine the service uses out of the box.
// Strict mode makes blank names block the transaction instead of warning.
func NewDefaultRulesEngine(strict bool) *domain.RulesEngine {
	severity := domain.SeverityWarn
	if strict {
		severity = domain.SeverityBlock
	}
	engine := domain.NewRulesEngine()
	engine.Register(NewNonEmptyNameRule(severity))
	return engine
}
