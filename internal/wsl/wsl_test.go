package wsl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rigup/internal/execx"
	"rigup/internal/fetch"
)

type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e *exitError) ExitCode() int { return e.code }

// scriptedRunner replays canned responses keyed by command name, recording
// each invocation.
type scriptedRunner struct {
	calls     [][]string
	responses map[string]func(args []string) (execx.RunResult, error)
}

func (r *scriptedRunner) Run(_ context.Context, command string, args []string, _ execx.RunOptions) (execx.RunResult, error) {
	r.calls = append(r.calls, append([]string{command}, args...))
	if fn, ok := r.responses[command]; ok {
		return fn(args)
	}
	return execx.RunResult{}, nil
}

func stubDownload(t *testing.T, fn func(ctx context.Context, dir, url string) (string, error)) {
	t.Helper()
	orig := downloadArtifact
	downloadArtifact = fn
	t.Cleanup(func() { downloadArtifact = orig })
}

func writeKernelMSI(t *testing.T, dir string) func(ctx context.Context, d, url string) (string, error) {
	t.Helper()
	return func(_ context.Context, _, url string) (string, error) {
		path := filepath.Join(dir, filepath.Base(url))
		if err := os.WriteFile(path, []byte("msi"), 0o644); err != nil {
			return "", err
		}
		return path, nil
	}
}

func TestAlreadyEnabledSkipsMutation(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]func([]string) (execx.RunResult, error){
		"wsl": func(args []string) (execx.RunResult, error) {
			return execx.RunResult{Stdout: []byte("Default Distribution: Ubuntu\nDefault Version: 2\n")}, nil
		},
	}}

	res := New(runner, t.TempDir(), nil).Enable(context.Background())
	if res.State != StateAlreadyEnabled {
		t.Fatalf("expected already-enabled, got %s", res.State)
	}
	if res.RestartRequired {
		t.Fatal("expected no restart for already-enabled state")
	}
	for _, call := range runner.calls {
		if call[0] == "dism.exe" || call[0] == "msiexec" {
			t.Fatalf("expected no mutation, got %v", call)
		}
	}
}

func TestEnableSetsRestartFromDism(t *testing.T) {
	dir := t.TempDir()
	stubDownload(t, writeKernelMSI(t, dir))

	runner := &scriptedRunner{responses: map[string]func([]string) (execx.RunResult, error){
		"wsl": func(args []string) (execx.RunResult, error) {
			if len(args) > 0 && args[0] == "--status" {
				return execx.RunResult{}, errors.New("wsl not installed")
			}
			return execx.RunResult{}, nil
		},
		"dism.exe": func(args []string) (execx.RunResult, error) {
			// First feature wants a restart, second is clean.
			if strings.Contains(strings.Join(args, " "), featureWSL) {
				return execx.RunResult{}, &exitError{code: exitRestartRequired}
			}
			return execx.RunResult{}, nil
		},
	}}

	res := New(runner, dir, nil).Enable(context.Background())
	if res.State != StateJustEnabled {
		t.Fatalf("expected just-enabled, got %s (err=%v)", res.State, res.Err)
	}
	if !res.RestartRequired {
		t.Fatal("expected restart flag from dism exit 3010")
	}
}

func TestRestartFlagSurvivesLaterSteps(t *testing.T) {
	// Restart reported by dism, then the kernel download fails: the state is
	// EnableFailed but the restart requirement must not be lost.
	stubDownload(t, func(context.Context, string, string) (string, error) {
		return "", &fetch.TransportError{URL: kernelUpdateURL, Err: errors.New("timeout")}
	})

	runner := &scriptedRunner{responses: map[string]func([]string) (execx.RunResult, error){
		"wsl": func([]string) (execx.RunResult, error) {
			return execx.RunResult{}, errors.New("not installed")
		},
		"dism.exe": func([]string) (execx.RunResult, error) {
			return execx.RunResult{}, &exitError{code: exitRestartRequired}
		},
	}}

	res := New(runner, t.TempDir(), nil).Enable(context.Background())
	if res.State != StateEnableFailed {
		t.Fatalf("expected enable-failed, got %s", res.State)
	}
	if !res.RestartRequired {
		t.Fatal("expected restart flag to survive the download failure")
	}
	if res.Err == nil {
		t.Fatal("expected recorded error")
	}
}

func TestDismFailureIsNonFatal(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]func([]string) (execx.RunResult, error){
		"wsl": func([]string) (execx.RunResult, error) {
			return execx.RunResult{}, errors.New("not installed")
		},
		"dism.exe": func([]string) (execx.RunResult, error) {
			return execx.RunResult{}, &exitError{code: 87}
		},
	}}

	res := New(runner, t.TempDir(), nil).Enable(context.Background())
	if res.State != StateEnableFailed {
		t.Fatalf("expected enable-failed, got %s", res.State)
	}
	if res.Err == nil {
		t.Fatal("expected recorded error for dism failure")
	}
}

func TestKernelUpdateInstallAndCleanup(t *testing.T) {
	dir := t.TempDir()
	stubDownload(t, writeKernelMSI(t, dir))

	var msiArg string
	runner := &scriptedRunner{responses: map[string]func([]string) (execx.RunResult, error){
		"wsl": func(args []string) (execx.RunResult, error) {
			if len(args) > 0 && args[0] == "--status" {
				return execx.RunResult{}, errors.New("not installed")
			}
			return execx.RunResult{}, nil
		},
		"msiexec": func(args []string) (execx.RunResult, error) {
			if len(args) >= 2 {
				msiArg = args[1]
			}
			return execx.RunResult{}, nil
		},
	}}

	res := New(runner, dir, nil).Enable(context.Background())
	if res.State != StateJustEnabled {
		t.Fatalf("expected just-enabled, got %s (err=%v)", res.State, res.Err)
	}
	if filepath.Base(msiArg) != "wsl_update_x64.msi" {
		t.Fatalf("expected msiexec to install the kernel update, got %q", msiArg)
	}
	if _, err := os.Stat(msiArg); !os.IsNotExist(err) {
		t.Fatal("expected transient msi to be deleted after install")
	}

	// The default version must be switched to 2 after the kernel update.
	var setDefault bool
	for _, call := range runner.calls {
		if call[0] == "wsl" && len(call) >= 3 && call[1] == "--set-default-version" && call[2] == "2" {
			setDefault = true
		}
	}
	if !setDefault {
		t.Fatal("expected wsl --set-default-version 2 invocation")
	}
}

func TestReportsVersionTwo(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   bool
	}{
		{"version two", "Default Version: 2", true},
		{"version one", "Default Version: 1", false},
		{"utf16 artifacts", "D\x00e\x00f\x00a\x00u\x00l\x00t\x00 Version: 2\x00", true},
		{"no version line", "WSL version: unknown state", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reportsVersionTwo(tc.output); got != tc.want {
				t.Fatalf("reportsVersionTwo(%q) = %v, want %v", tc.output, got, tc.want)
			}
		})
	}
}
