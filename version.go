package brix

// Version is the brix release version. Overridden at build time via
// -ldflags "-X github.com/brix-build/brix.Version=...". Left unset, it
// reports "dev", matching the teacher's root package convention of a
// single build-time-overridable identity string.
var Version = "dev"
