// Package version reports the engine's build version.
//
// Version and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/bindkit/version.Version=1.0.0"
//
// Fields not injected at build time are filled from the binary's embedded
// build info when available.
package version
