package app

// Build information populated via -ldflags at build time.
var (
	// BuildVersion is reported by /health and `goreader --version`.
	BuildVersion = "1.0.0"
	BuildCommit  = "unknown"
)
