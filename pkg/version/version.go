// Package version provides build version information for auggie-mcp.
// These variables are set at build time via ldflags.
package version

import (
	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	commonversion "github.com/prometheus/common/version"
)

// Name is the server name reported in the MCP initialize handshake.
const Name = "Auggie MCP"

// Program is the binary and metric namespace name.
const Program = "auggie_mcp"

// Build information variables, set via ldflags.
// Example: go build -ldflags "-X auggie-mcp/pkg/version.Version=v1.2.3".
//
//nolint:gochecknoglobals // These must be package-level vars for ldflags injection.
var (
	// Version is the semantic version (e.g., "v1.2.3" or "dev" for development builds).
	Version = "dev"

	// Commit is the git commit SHA of the build.
	Commit = "none"

	// Date is the build date in ISO format.
	Date = "unknown"
)

// sync copies the ldflags values into the shared prometheus build info.
func sync() {
	commonversion.Version = Version
	commonversion.Revision = Commit
	commonversion.BuildDate = Date
}

// String returns a one-line build description for logs.
func String() string {
	sync()
	return Name + " " + commonversion.Info() + " " + commonversion.BuildContext()
}

// Collector exposes auggie_mcp_build_info on a metrics registry.
func Collector() prometheus.Collector {
	sync()
	return versioncollector.NewCollector(Program)
}
