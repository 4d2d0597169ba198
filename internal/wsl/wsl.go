package wsl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rigup/internal/execx"
	"rigup/internal/fetch"
)

// State is the terminal classification of a feature-enable pass.
type State int

const (
	StateUnknown State = iota
	StateAlreadyEnabled
	StateJustEnabled
	StateEnableFailed
)

func (s State) String() string {
	switch s {
	case StateAlreadyEnabled:
		return "already-enabled"
	case StateJustEnabled:
		return "just-enabled"
	case StateEnableFailed:
		return "enable-failed"
	default:
		return "unknown"
	}
}

// Result carries the terminal state plus whether any step reported that a
// restart is pending. RestartRequired is monotonic: once true it stays true
// for the rest of the run.
type Result struct {
	State           State
	RestartRequired bool
	Err             error
}

type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

const (
	featureWSL      = "Microsoft-Windows-Subsystem-Linux"
	featureVMP      = "VirtualMachinePlatform"
	kernelUpdateURL = "https://wslstorestorage.blob.core.windows.net/wslblob/wsl_update_x64.msi"

	// dism reports a pending restart through this exit code rather than
	// through output.
	exitRestartRequired = 3010
)

var downloadArtifact = fetch.Download

// Enabler turns on the WSL 2 feature set: the two optional OS features, the
// kernel update package, and the default subsystem version. A failure at any
// step is recorded, never fatal; the rest of the provisioning run proceeds
// without WSL.
type Enabler struct {
	Runner       execx.Runner
	DownloadsDir string
	Logger       Logger

	// Status receives human-readable phase updates, if set.
	Status func(msg string)
}

func New(runner execx.Runner, downloadsDir string, logger Logger) *Enabler {
	if runner == nil {
		runner = execx.CmdRunner{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Enabler{Runner: runner, DownloadsDir: downloadsDir, Logger: logger}
}

func (e *Enabler) status(msg string) {
	if e.Status != nil {
		e.Status(msg)
	}
}

// Enable walks the state machine to a terminal state. It never returns an
// error; failures land in Result.Err with StateEnableFailed.
func (e *Enabler) Enable(ctx context.Context) Result {
	res := Result{State: StateUnknown}

	e.status("Checking WSL status...")
	installed, versionTwo := e.queryStatus(ctx)
	if installed && versionTwo {
		e.Logger.Printf("wsl already enabled with default version 2")
		res.State = StateAlreadyEnabled
		return res
	}

	for _, feature := range []string{featureWSL, featureVMP} {
		e.status(fmt.Sprintf("Enabling %s...", feature))
		restart, err := e.enableFeature(ctx, feature)
		if restart {
			res.RestartRequired = true
		}
		if err != nil {
			e.Logger.Printf("enable feature %s: %v", feature, err)
			res.State = StateEnableFailed
			res.Err = fmt.Errorf("enable feature %s: %w", feature, err)
			return res
		}
	}

	e.status("Downloading WSL kernel update...")
	msiPath, err := downloadArtifact(ctx, e.DownloadsDir, kernelUpdateURL)
	if err != nil {
		e.Logger.Printf("kernel update download: %v", err)
		res.State = StateEnableFailed
		res.Err = fmt.Errorf("download kernel update: %w", err)
		return res
	}

	e.status("Installing WSL kernel update...")
	if err := e.installKernelUpdate(ctx, msiPath); err != nil {
		e.Logger.Printf("kernel update install: %v", err)
		res.State = StateEnableFailed
		res.Err = err
		return res
	}

	res.State = StateJustEnabled
	e.Logger.Printf("wsl enabled, restart required=%v", res.RestartRequired)
	return res
}

// Probe reports whether wsl is installed and defaulting to version 2 without
// changing anything. Used by health checks.
func (e *Enabler) Probe(ctx context.Context) (installed, versionTwo bool) {
	return e.queryStatus(ctx)
}

// queryStatus asks wsl whether it is installed and defaulting to version 2.
// Any failure reads as "not installed"; the enable path is idempotent anyway.
func (e *Enabler) queryStatus(ctx context.Context) (installed, versionTwo bool) {
	result, err := e.Runner.Run(ctx, "wsl", []string{"--status"}, execx.RunOptions{})
	if err != nil {
		return false, false
	}
	return true, reportsVersionTwo(string(result.Stdout))
}

// reportsVersionTwo scans `wsl --status` output for a default-version line
// ending in 2. Output is localized; the version digit is not.
func reportsVersionTwo(output string) bool {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\x00", ""))
		if line == "" || !strings.Contains(line, ":") {
			continue
		}
		if strings.Contains(strings.ToLower(line), "version") && strings.HasSuffix(line, "2") {
			return true
		}
	}
	return false
}

func (e *Enabler) enableFeature(ctx context.Context, name string) (restartRequired bool, err error) {
	args := []string{"/online", "/enable-feature", "/featurename:" + name, "/all", "/norestart"}
	_, runErr := e.Runner.Run(ctx, "dism.exe", args, execx.RunOptions{})
	if runErr == nil {
		return false, nil
	}
	if code, exited := execx.ExitCode(runErr); exited && code == exitRestartRequired {
		return true, nil
	}
	return false, runErr
}

func (e *Enabler) installKernelUpdate(ctx context.Context, msiPath string) error {
	if _, err := e.Runner.Run(ctx, "msiexec", []string{"/i", msiPath, "/quiet", "/norestart"}, execx.RunOptions{}); err != nil {
		return fmt.Errorf("install kernel update: %w", err)
	}
	if _, err := e.Runner.Run(ctx, "wsl", []string{"--set-default-version", "2"}, execx.RunOptions{}); err != nil {
		return fmt.Errorf("set default version: %w", err)
	}
	if err := os.Remove(msiPath); err != nil {
		// The staging dir is transient; a leftover msi is not a failure.
		e.Logger.Printf("remove kernel update artifact: %v", err)
	}
	return nil
}
