// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/ndnc-automation/ndncctl/internal/buildinfo.Version=v1.2.0
package buildinfo

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
