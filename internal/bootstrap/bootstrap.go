package bootstrap

import (
	"context"
	"fmt"

	"rigup/internal/execx"
	"rigup/internal/fetch"
)

type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// downloadArtifact is swapped in tests to simulate network failures.
var downloadArtifact = fetch.Download

// Bootstrapper installs winget itself. Every step is fatal on failure: the
// rest of the program is useless without the package manager, so the caller
// terminates the process with guidance instead of continuing.
type Bootstrapper struct {
	Runner       execx.Runner
	DownloadsDir string
	Logger       Logger

	// Status receives human-readable phase updates, if set.
	Status func(msg string)
}

func New(runner execx.Runner, downloadsDir string, logger Logger) *Bootstrapper {
	if runner == nil {
		runner = execx.CmdRunner{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Bootstrapper{Runner: runner, DownloadsDir: downloadsDir, Logger: logger}
}

func (b *Bootstrapper) status(msg string) {
	if b.Status != nil {
		b.Status(msg)
	}
}

// Run fetches and installs the bootstrap chain in its fixed order. The first
// failure aborts: a missing dependency would leave the App Installer bundle
// unable to register, so later artifacts are never attempted.
func (b *Bootstrapper) Run(ctx context.Context) error {
	for _, artifact := range Artifacts() {
		b.status(fmt.Sprintf("Downloading %s...", artifact.Name))
		b.Logger.Printf("bootstrap download kind=%s url=%s", artifact.Kind, artifact.URL)

		localPath, err := downloadArtifact(ctx, b.DownloadsDir, artifact.URL)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", artifact.Name, err)
		}

		b.status(fmt.Sprintf("Installing %s...", artifact.Name))
		if err := b.install(ctx, artifact, localPath); err != nil {
			return fmt.Errorf("install %s: %w", artifact.Name, err)
		}
		b.Logger.Printf("bootstrap installed %s from %s", artifact.Name, localPath)
	}
	return nil
}

func (b *Bootstrapper) install(ctx context.Context, artifact Artifact, localPath string) error {
	switch artifact.Method {
	case MethodExecute:
		// Silent installer; block until it finishes so the next artifact
		// sees its runtime registered.
		_, err := b.Runner.Run(ctx, localPath, artifact.ExecuteArgs, execx.RunOptions{})
		if err != nil {
			return fmt.Errorf("run installer: %w", err)
		}
		return nil
	default:
		args := []string{"-NoProfile", "-NonInteractive", "-Command", "Add-AppxPackage", "-Path", localPath}
		_, err := b.Runner.Run(ctx, "powershell", args, execx.RunOptions{})
		if err != nil {
			return fmt.Errorf("register package: %w", err)
		}
		return nil
	}
}
