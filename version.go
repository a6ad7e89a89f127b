package brreg

// Build metadata, overridable at link time:
//
//	go build -ldflags "-X github.com/sondreal/brreg-wrapper.Version=v1.2.3"
var (
	// Version is the library version reported in the User-Agent header.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)
