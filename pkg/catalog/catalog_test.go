package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestDefaultCatalogIsValid(t *testing.T) {
	cat := Default()
	if err := cat.validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	if len(cat.Packages) == 0 {
		t.Fatal("default catalog has no packages")
	}
	if cat.IDESuite.Note == "" {
		t.Fatal("default IDE suite should carry a version substitution note")
	}
}

func TestAttempts(t *testing.T) {
	cat := Catalog{
		Packages:    []Descriptor{{ID: "A"}, {ID: "B"}},
		IDEPackages: []Descriptor{{ID: "C"}},
	}
	// 2 packages + IDE suite + SDK archive + 1 IDE package.
	if got := cat.Attempts(); got != 5 {
		t.Fatalf("expected 5 attempts, got %d", got)
	}
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeCatalog(t, `
packages:
  - id: Zed.Last
    name: Last
  - id: Aaa.First
    name: First
`)
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Packages[0].ID != "Zed.Last" || cat.Packages[1].ID != "Aaa.First" {
		t.Fatalf("expected file order preserved, got %+v", cat.Packages)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeCatalog(t, `
packages:
  - id: Git.Git
    name: Git
`)
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defaults := Default()
	if cat.IDESuite.ID != defaults.IDESuite.ID {
		t.Fatalf("expected default IDE suite, got %+v", cat.IDESuite)
	}
	if cat.SDK.URL != defaults.SDK.URL {
		t.Fatalf("expected default SDK, got %+v", cat.SDK)
	}
	if len(cat.IDEPackages) != len(defaults.IDEPackages) {
		t.Fatalf("expected default IDE packages, got %+v", cat.IDEPackages)
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := writeCatalog(t, `
packages:
  - id: Git.Git
  - id: Git.Git
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	if !strings.Contains(err.Error(), "duplicate id") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsWhitespaceID(t *testing.T) {
	path := writeCatalog(t, `
packages:
  - id: "Git Git"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected whitespace id error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeCatalog(t, "")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}
