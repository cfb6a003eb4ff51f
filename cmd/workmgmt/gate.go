package main

import (
	"errors"
	"fmt"
	"strings"

	"workmgmt/internal/core"
	"workmgmt/pkg/domain"
)

var errForbidden = errors.New("not permitted for the active user")

// authorize applies the role gating for the active user at one level.
func authorize(svc *core.Service, level domain.EntityType, action domain.Action) error {
	user := svc.ActiveUser()
	if domain.PermissionsFor(user, level).Allows(action) {
		return nil
	}
	who := "no active user"
	if user != nil {
		who = fmt.Sprintf("%s (%s)", user.Name, user.Role)
	}
	return fmt.Errorf("%s %s: %w: %s", action, level, errForbidden, who)
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errEmptyName
	}
	return nil
}

func notFound(level domain.EntityType, id string) error {
	return fmt.Errorf("%s %q not found", level, id)
}

// collect returns every node of type T accepted by keep, in document order.
func collect[T any](doc domain.Document, keep func(T) bool) []T {
	var out []T
	doc.Walk(func(_ domain.EntityType, node any) bool {
		if n, ok := node.(T); ok && keep(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
