// Package version holds the release string reported by the binaries.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/AaronLay10/SliderEngine/internal/version.Version=x.y.z"
var Version = "0.3.0"
