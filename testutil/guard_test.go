package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestPredicates(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"internal", InternalImportForbidden, "workmgmt/internal/core", true},
		{"internal root", InternalImportForbidden, "workmgmt/internal", true},
		{"internal pkg", InternalImportForbidden, "workmgmt/pkg/domain", false},
		{"third party", ThirdPartyImportForbidden, "github.com/spf13/cobra", true},
		{"stdlib", ThirdPartyImportForbidden, "encoding/json", false},
		{"own module", ThirdPartyImportForbidden, "workmgmt/pkg/domain", false},
		{"allowed", ModuleImportsExcept("workmgmt/pkg/domain"), "workmgmt/pkg/domain", false},
		{"not allowed", ModuleImportsExcept("workmgmt/pkg/domain"), "workmgmt/internal/config", true},
		{"outside module", ModuleImportsExcept(), "context", false},
	}
	for _, c := range cases {
		if got := c.fn(c.in); got != c.want {
			t.Fatalf("%s: predicate(%q)=%v want %v", c.name, c.in, got, c.want)
		}
	}
}

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func writeFile(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package tmp\nimport (\n\t\"fmt\"\n\t\"workmgmt/internal/core\"\n)\nvar _ = fmt.Sprint\nvar _ core.Option\n")
	writeFile(t, dir, "a_test.go", "package tmp\nimport \"github.com/x/y\"\n")
	writeFile(t, dir, "notes.txt", "import \"workmgmt/internal/log\"")
	if err := os.Mkdir(filepath.Join(dir, "sub.go"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	viols, err := directImportViolations(dir, InternalImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "workmgmt/internal/core (in a.go)" {
		t.Fatalf("unexpected violations %v", viols)
	}
	viols, _ = directImportViolations(dir, ThirdPartyImportForbidden)
	if len(viols) != 0 {
		t.Fatalf("test files must be ignored, got %v", viols)
	}
	AssertNoDirectImports(t, dir, ThirdPartyImportForbidden, "clean")
}

func TestFailIfViolations(t *testing.T) {
	rec := &recordingFatal{}
	failIfViolations(rec, "bad imports", "reason", nil)
	if rec.msg != "" {
		t.Fatalf("no violations must not fail")
	}
	failIfViolations(rec, "bad imports", "reason", []string{"a", "b"})
	if rec.msg != "bad imports (reason):\na\nb" {
		t.Fatalf("unexpected message %q", rec.msg)
	}
}

func TestAssertNoTransitiveDependencyUsesGoList(t *testing.T) {
	orig := goListDeps
	t.Cleanup(func() { goListDeps = orig })
	goListDeps = func(string) ([]byte, error) {
		return []byte("context\nworkmgmt/pkg/domain\n\n"), nil
	}
	AssertNoTransitiveDependency(t, ".", InternalImportForbidden, "stdlib only")

	goListDeps = func(string) ([]byte, error) { return []byte("boom"), errors.New("exit 1") }
	if _, err := goListDeps("."); err == nil {
		t.Fatalf("stub should fail")
	}
}
