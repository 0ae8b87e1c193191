package version

import "runtime"

// Version, GitCommit, and BuildDate are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/newtron-network/netonboard/pkg/version.Version=v0.3.0 \
//	  -X github.com/newtron-network/netonboard/pkg/version.GitCommit=abc1234 \
//	  -X github.com/newtron-network/netonboard/pkg/version.BuildDate=2026-10-01T00:00:00Z"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a formatted version string for display, including the Go
// toolchain the binary was built with.
func Info() string {
	return Version + " (" + GitCommit + ") built " + BuildDate + " " + runtime.Version()
}
