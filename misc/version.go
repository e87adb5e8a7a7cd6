// Package misc keeps build time information.
package misc

// Set by the linker: -ldflags "-X lawparse/misc.version=... -X lawparse/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "lawparse"

// GetAppName returns program name used for logs, reports and CLI.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns hash of the commit program was built from.
func GetGitHash() string {
	return gitHash
}
