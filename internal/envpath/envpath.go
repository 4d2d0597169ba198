package envpath

import (
	"strings"
)

// Store reads and writes the persisted machine-wide PATH variable. Changes
// are visible to newly launched processes only, never the current one.
type Store interface {
	Get() (string, error)
	Set(value string) error
}

// Append adds dir to the machine PATH unless it already appears there. The
// check-then-append is not atomic against concurrent external mutation; the
// provisioning run is the only writer while it is active. It reports whether
// the variable was changed.
func Append(store Store, dir string) (bool, error) {
	current, err := store.Get()
	if err != nil {
		return false, err
	}

	if containsFold(current, dir) {
		return false, nil
	}

	updated := current
	if updated != "" && !strings.HasSuffix(updated, ";") {
		updated += ";"
	}
	updated += dir

	if err := store.Set(updated); err != nil {
		return false, err
	}
	return true, nil
}

// containsFold is a case-insensitive substring check. Windows paths compare
// case-insensitively, so "c:\src\flutter\bin" already on PATH counts.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
