package runner

import "runtime"

// FallbackExecutable is used on any host family without an explicit entry.
const FallbackExecutable = "mvn"

// defaultExecutables maps host family (GOOS) to the Maven launcher name.
var defaultExecutables = map[string]string{
	"windows": "mvn.bat",
}

var hostOS = runtime.GOOS

// DefaultExecutable returns the Maven launcher name for the given GOOS.
func DefaultExecutable(goos string) string {
	if name, ok := defaultExecutables[goos]; ok {
		return name
	}
	return FallbackExecutable
}

// HostDefaultExecutable returns the launcher name for the running host.
func HostDefaultExecutable() string {
	return DefaultExecutable(hostOS)
}
