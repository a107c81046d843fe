package version

// Version is the current capereport release.
const Version = "0.2.0"
