package common

import "fmt"

// Project version information
const (
	ProjectName    = "Gold Candle Backtester"
	ProjectVersion = "1.0.0"
	ProjectRepo    = "github.com/Arbuzovtd/Backtester"
)

// VersionInfo holds version details for a tool
type VersionInfo struct {
	Name    string
	Version string
	Repo    string
}

// GetVersionInfo returns the project version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Name:    ProjectName,
		Version: ProjectVersion,
		Repo:    ProjectRepo,
	}
}

// GetFullVersion returns a single-line version string
func GetFullVersion() string {
	return fmt.Sprintf("%s v%s", ProjectName, ProjectVersion)
}

// PrintVersion prints version information to stdout
func PrintVersion() {
	info := GetVersionInfo()
	fmt.Printf("%s v%s\n", info.Name, info.Version)
	fmt.Printf("Repository: %s\n", info.Repo)
}
