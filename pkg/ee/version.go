package ee

// version is overridden at build time:
//
//	go build -ldflags "-X github.com/randalmurphal/libee/pkg/ee.version=v1.2.3"
var version = "v0.1.0-dev"

// Version returns the release string of the library that is actually linked,
// not the one a caller was compiled against.
//
//go:noinline
func Version() string {
	return version
}
