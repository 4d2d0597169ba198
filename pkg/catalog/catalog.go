package catalog

// Descriptor identifies one winget package. ID is winget's canonical key;
// Name is for reporting only.
type Descriptor struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Suite describes the main IDE install. PinnedVersion is the version the
// catalog author wanted; when winget does not carry it the current stable
// build is installed instead and Note is surfaced to the operator.
type Suite struct {
	Descriptor `yaml:",inline"`
	PinnedVersion string `yaml:"pinned_version,omitempty"`
	Note          string `yaml:"note,omitempty"`
}

// SDK describes the one non-winget install: a versioned archive extracted
// into Root, with Root\bin appended to the machine PATH.
type SDK struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Root string `yaml:"root"`
}

// Catalog is the ordered set of software a provisioning run installs. Order
// within each list is install order.
type Catalog struct {
	Packages    []Descriptor `yaml:"packages"`
	IDESuite    Suite        `yaml:"ide_suite"`
	IDEPackages []Descriptor `yaml:"ide_packages"`
	SDK         SDK          `yaml:"sdk"`
}

// Attempts returns the number of install operations a full run of this
// catalog performs: every package, the IDE suite, the SDK archive, and every
// IDE sub-catalog package.
func (c Catalog) Attempts() int {
	return len(c.Packages) + 1 + 1 + len(c.IDEPackages)
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		Packages: []Descriptor{
			{ID: "Git.Git", Name: "Git"},
			{ID: "Google.Chrome", Name: "Google Chrome"},
			{ID: "Microsoft.VisualStudioCode", Name: "Visual Studio Code"},
			{ID: "Microsoft.WindowsTerminal", Name: "Windows Terminal"},
			{ID: "7zip.7zip", Name: "7-Zip"},
			{ID: "Microsoft.PowerToys", Name: "PowerToys"},
		},
		IDESuite: Suite{
			Descriptor:    Descriptor{ID: "Google.AndroidStudio", Name: "Android Studio"},
			PinnedVersion: "2023.2.1",
			Note:          "Android Studio 2023.2.1 is not published in winget yet; installing the current stable build instead",
		},
		IDEPackages: []Descriptor{
			{ID: "Google.PlatformTools", Name: "Android platform-tools"},
			{ID: "Microsoft.OpenJDK.17", Name: "Microsoft OpenJDK 17"},
		},
		SDK: SDK{
			Name: "Flutter SDK",
			URL:  "https://storage.googleapis.com/flutter_infra_release/releases/stable/windows/flutter_windows_3.22.2-stable.zip",
			Root: `C:\src\flutter`,
		},
	}
}
