package report

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Metadata describes the host a report was produced on.
type Metadata struct {
	Platform       string
	RuntimeVersion string
}

// HostMetadata collects platform information for crash reports. Lookup
// failures are not errors: the runtime's GOOS/GOARCH pair is used instead.
func HostMetadata() Metadata {
	return Metadata{
		Platform:       platform(),
		RuntimeVersion: runtime.Version(),
	}
}

func platform() string {
	fallback := fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)

	info, err := host.Info()
	if err != nil || info == nil {
		return fallback
	}

	var parts []string
	for _, p := range []string{info.OS, info.Platform, info.PlatformVersion} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return fallback
	}

	arch := info.KernelArch
	if arch == "" {
		arch = runtime.GOARCH
	}
	return fmt.Sprintf("%s (%s)", strings.Join(parts, " "), arch)
}
