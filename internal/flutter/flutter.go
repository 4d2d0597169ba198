package flutter

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rigup/internal/envpath"
	"rigup/internal/fetch"
	"rigup/pkg/catalog"
)

type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

var downloadArtifact = fetch.Download

// Installer performs the one non-winget install: the SDK archive is fetched,
// extracted into its fixed root (overwriting whatever is there), and the bin
// directory is appended to the machine PATH at most once.
type Installer struct {
	DownloadsDir string
	Store        envpath.Store
	Logger       Logger

	// Status receives human-readable phase updates, if set.
	Status func(msg string)
}

func New(downloadsDir string, store envpath.Store, logger Logger) *Installer {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Installer{DownloadsDir: downloadsDir, Store: store, Logger: logger}
}

func (i *Installer) status(msg string) {
	if i.Status != nil {
		i.Status(msg)
	}
}

// Install places the SDK under sdk.Root and registers its bin directory on
// the machine PATH. Re-running against an installed SDK overwrites the tree
// and leaves PATH untouched.
func (i *Installer) Install(ctx context.Context, sdk catalog.SDK) error {
	if err := os.MkdirAll(sdk.Root, 0o755); err != nil {
		return fmt.Errorf("ensure sdk root: %w", err)
	}

	i.status(fmt.Sprintf("Downloading %s...", sdk.Name))
	archivePath, err := downloadArtifact(ctx, i.DownloadsDir, sdk.URL)
	if err != nil {
		return fmt.Errorf("fetch sdk archive: %w", err)
	}

	i.status(fmt.Sprintf("Extracting %s...", sdk.Name))
	if err := extractZip(archivePath, sdk.Root); err != nil {
		return fmt.Errorf("extract sdk archive: %w", err)
	}
	i.Logger.Printf("sdk extracted to %s", sdk.Root)

	binDir := filepath.Join(sdk.Root, "bin")
	if i.Store == nil {
		return fmt.Errorf("machine PATH store unavailable on this platform")
	}
	changed, err := envpath.Append(i.Store, binDir)
	if err != nil {
		return fmt.Errorf("update machine PATH: %w", err)
	}
	if changed {
		i.Logger.Printf("machine PATH appended: %s", binDir)
	} else {
		i.Logger.Printf("machine PATH already contains %s", binDir)
	}
	return nil
}

// extractZip unpacks the archive into dest, overwriting existing files. When
// every entry sits under a single top-level directory (the SDK archives ship
// as flutter/...), that component is stripped so the payload lands directly
// in dest.
func extractZip(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	strip := commonRoot(reader.File)

	for _, file := range reader.File {
		name := file.Name
		if strip != "" {
			name = strings.TrimPrefix(name, strip)
			if name == "" {
				continue
			}
		}

		target := filepath.Join(dest, filepath.FromSlash(name))
		rel, err := filepath.Rel(dest, target)
		if err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("zip entry %q escapes destination", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("prepare file %s: %w", target, err)
		}
		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", file.Name, err)
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode())
		if err != nil {
			rc.Close()
			return fmt.Errorf("create file %s: %w", target, err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			rc.Close()
			out.Close()
			return fmt.Errorf("copy file %s: %w", target, err)
		}
		rc.Close()
		if err := out.Close(); err != nil {
			return fmt.Errorf("close file %s: %w", target, err)
		}
	}
	return nil
}

// commonRoot returns the shared "dir/" prefix when every entry lives under
// one top-level directory, otherwise "".
func commonRoot(files []*zip.File) string {
	root := ""
	for _, file := range files {
		name := strings.TrimSuffix(file.Name, "/")
		idx := strings.Index(name, "/")
		var top string
		if idx < 0 {
			if file.FileInfo().IsDir() {
				top = name
			} else {
				return ""
			}
		} else {
			top = name[:idx]
		}
		if top == "." || top == ".." {
			return ""
		}
		if root == "" {
			root = top
		} else if root != top {
			return ""
		}
	}
	if root == "" {
		return ""
	}
	return root + "/"
}
