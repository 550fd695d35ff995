package version

// Build holds the build identifier, injected via
// -ldflags "-X netcheck/pkg/version.Build=...". Default "dev".
var Build = "dev"

// UserAgent identifies device requests to the controller.
func UserAgent() string {
	return "netcheck/" + Build
}
