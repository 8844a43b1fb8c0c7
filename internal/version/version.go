package version

// Set at build time via -ldflags.
var (
	AppName     = "Shamash"
	AppFullName = "Shamash — custom command butler"
	Version     = "dev"
	BuildDate   = ""
	GoVersion   = ""
)
