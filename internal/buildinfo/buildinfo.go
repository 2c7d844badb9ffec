// Package buildinfo holds the linker-injected version metadata the root
// command and the update checker report, the same pattern cmd/root/version.go
// uses.
package buildinfo

// Version, BuildTime and Commit are set via -ldflags at release build time
// (e.g. -X github.com/lasantosr/intelli-shell/internal/buildinfo.Version=v1.2.3).
// They stay at these placeholder values for a `go run`/dev build.
var (
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "unknown"
)
