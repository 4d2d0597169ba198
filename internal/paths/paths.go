package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StagingPaths captures canonical locations for a provisioning run. Everything
// under Root is transient; artifacts are fetched there and removed (or left
// for inspection on failure) before the process exits.
type StagingPaths struct {
	Root         string
	DownloadsDir string
	LogsDir      string
	ConfigFile   string
}

// Resolve determines the staging root using the optional --staging flag or a
// fixed directory under the system temp location when the flag is empty.
func Resolve(stagingFlag string) (StagingPaths, error) {
	var (
		root string
		err  error
	)

	if stagingFlag != "" {
		root, err = filepath.Abs(stagingFlag)
		if err != nil {
			return StagingPaths{}, fmt.Errorf("resolve staging root: %w", err)
		}
	} else {
		root = filepath.Join(os.TempDir(), "rigup")
	}

	return newStagingPaths(root), nil
}

func newStagingPaths(root string) StagingPaths {
	return StagingPaths{
		Root:         root,
		DownloadsDir: filepath.Join(root, "downloads"),
		LogsDir:      filepath.Join(root, "logs"),
		ConfigFile:   configFileLocation(),
	}
}

// configFileLocation returns the optional rigup.yaml in the working
// directory. A missing file is not an error; config.Load falls back to
// defaults.
func configFileLocation() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "rigup.yaml"
	}
	return filepath.Join(cwd, "rigup.yaml")
}

// EnsureDirs creates the staging directory tree.
func (p StagingPaths) EnsureDirs() error {
	for _, dir := range []string{p.Root, p.DownloadsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure staging dir %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// DirExists reports whether path names an existing directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
