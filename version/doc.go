// Package version carries build information for the command binaries.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/fyaic/multimedia-to-note/version.Version=1.0.0" ./cmd/transcribe
package version
