package version

// Version is overridden at build time with -ldflags "-X msapair/internal/version.Version=...".
var Version = "dev"
