package observability

// Binary versioning for logs and /api/version.
// Values are overwritten via -ldflags during build.
var (
	Version = "dev"  // release version
	Commit  = "none" // short commit
	Date    = ""     // ISO8601 UTC build time
)

type BuildInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date,omitempty"`
}

func Build() BuildInfo {
	return BuildInfo{Name: "heartrate-monitor", Version: Version, Commit: Commit, Date: Date}
}
