// Package version exposes build information for /info and -version.
//
// Values are injected at link time and fall back to the VCS stamp that the
// Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/transcriptiond/version.Version=1.2.0" ./cmd/transcriptiond
package version
