package version

// Version is the build version, set via ldflags.
var Version = "dev"
