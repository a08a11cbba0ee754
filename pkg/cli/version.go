package cli

// Version is the running build's semantic version, compared against the
// latest GitHub release by CheckForUpdates. Override at build time with
// -ldflags "-X github.com/nordlicht/tilefill/pkg/cli.Version=1.2.3".
var Version = "0.1.0"
