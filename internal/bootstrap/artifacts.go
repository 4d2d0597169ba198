package bootstrap

// Kind orders bootstrap artifacts: the App Installer bundle cannot register
// until the runtime and its dependencies are in place.
type Kind int

const (
	KindRuntime Kind = iota
	KindDependency
	KindMainPackage
)

func (k Kind) String() string {
	switch k {
	case KindRuntime:
		return "runtime"
	case KindDependency:
		return "dependency"
	case KindMainPackage:
		return "main-package"
	default:
		return "unknown"
	}
}

// Method selects how a fetched artifact is installed.
type Method int

const (
	// MethodRegister hands the package to Add-AppxPackage.
	MethodRegister Method = iota
	// MethodExecute runs the artifact as a silent installer and awaits it.
	MethodExecute
)

// Artifact is one piece of the winget bootstrap chain.
type Artifact struct {
	Name        string
	URL         string
	Kind        Kind
	Method      Method
	ExecuteArgs []string
}

// Artifacts returns the bootstrap chain in install order. Kinds are
// non-decreasing: Runtime before Dependency before MainPackage. The desktop
// runtime installer must be executed and awaited before the App Installer
// bundle can register, so it sits ahead of the bundle as a dependency.
func Artifacts() []Artifact {
	return []Artifact{
		{
			Name:   "Microsoft VCLibs Desktop runtime",
			URL:    "https://aka.ms/Microsoft.VCLibs.x64.14.00.Desktop.appx",
			Kind:   KindRuntime,
			Method: MethodRegister,
		},
		{
			Name:   "Microsoft UI Xaml 2.8",
			URL:    "https://github.com/microsoft/microsoft-ui-xaml/releases/download/v2.8.6/Microsoft.UI.Xaml.2.8.x64.appx",
			Kind:   KindDependency,
			Method: MethodRegister,
		},
		{
			Name:        "Windows Desktop Runtime 8.0",
			URL:         "https://builds.dotnet.microsoft.com/dotnet/WindowsDesktop/8.0.6/windowsdesktop-runtime-8.0.6-win-x64.exe",
			Kind:        KindDependency,
			Method:      MethodExecute,
			ExecuteArgs: []string{"/install", "/quiet", "/norestart"},
		},
		{
			Name:   "winget (App Installer)",
			URL:    "https://github.com/microsoft/winget-cli/releases/latest/download/Microsoft.DesktopAppInstaller_8wekyb3d8bbwe.msixbundle",
			Kind:   KindMainPackage,
			Method: MethodRegister,
		},
	}
}
