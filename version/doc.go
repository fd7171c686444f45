// Package version reports build version information for pipelayer binaries.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/pipelayer/version.Version=1.0.0" ./cmd/pipelayer
package version
