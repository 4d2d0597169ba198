package execx

import (
	"errors"
	"fmt"
	"testing"
)

type fakeExitError struct {
	code int
}

func (e *fakeExitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e *fakeExitError) ExitCode() int { return e.code }

func TestExitCode(t *testing.T) {
	code, ok := ExitCode(&fakeExitError{code: 3010})
	if !ok {
		t.Fatal("expected exit code to be recognized")
	}
	if code != 3010 {
		t.Fatalf("expected code 3010, got %d", code)
	}
}

func TestExitCodeWrapped(t *testing.T) {
	err := fmt.Errorf("dism: %w", &fakeExitError{code: 1})
	code, ok := ExitCode(err)
	if !ok {
		t.Fatal("expected wrapped exit code to be recognized")
	}
	if code != 1 {
		t.Fatalf("expected code 1, got %d", code)
	}
}

func TestExitCodeSpawnFailure(t *testing.T) {
	if _, ok := ExitCode(errors.New("executable file not found")); ok {
		t.Fatal("expected plain error to report no exit code")
	}
}
