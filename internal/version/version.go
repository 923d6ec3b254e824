// internal/version/version.go
package version

// Version is stamped by the release workflow; keep the dev default odd.
var Version = "0.3.0-dev"
