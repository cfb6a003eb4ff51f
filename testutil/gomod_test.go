package testutil

import (
	"os"
	"slices"
	"testing"

	"golang.org/x/mod/modfile"
)

func TestGoModRequiresAreSorted(t *testing.T) {
	data, err := os.ReadFile("../go.mod")
	if err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	f, err := modfile.Parse("go.mod", data, nil)
	if err != nil {
		t.Fatalf("parse go.mod: %v", err)
	}
	if f.Module.Mod.Path != ModulePath {
		t.Fatalf("module path %s, want %s", f.Module.Mod.Path, ModulePath)
	}
	var direct, indirect []string
	for _, r := range f.Require {
		if r.Indirect {
			indirect = append(indirect, r.Mod.Path)
		} else {
			direct = append(direct, r.Mod.Path)
		}
	}
	for name, paths := range map[string][]string{"direct": direct, "indirect": indirect} {
		if !slices.IsSorted(paths) {
			t.Errorf("%s requirements out of order: %v", name, paths)
		}
		if len(slices.Compact(slices.Clone(paths))) != len(paths) {
			t.Errorf("%s requirements repeat a module: %v", name, paths)
		}
	}
}
