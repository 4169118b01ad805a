package version

// Build variables to be set via ldflags during compilation:
// -X 'github.com/flowgate/n8n-mcp/pkg/version.Version=v1.0.0'
// -X 'github.com/flowgate/n8n-mcp/pkg/version.CommitHash=abc123'
var (
	// Version is the semantic version of the binary (e.g., "1.0.0")
	Version = "dev"
	// CommitHash is the git commit hash used to build the binary
	CommitHash = "unknown"
)

// GetVersion returns the version string.
func GetVersion() string {
	return Version
}

// GetCommitHash returns the commit hash.
func GetCommitHash() string {
	return CommitHash
}
