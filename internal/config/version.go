package config

import (
	"os"
	"runtime/debug"
)

// Version is overridden at build time with -ldflags "-X weatherdesk/internal/config.Version=..."
var Version = ""

// GetVersion returns the version from APP_VERSION, the linker flag or the module build info
func GetVersion() string {
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "0.1.0"
}
