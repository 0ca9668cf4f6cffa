// Package platform describes the host to project configs.
//
// Detection uses runtime for OS and architecture and gopsutil for the
// Linux distribution. The result is exposed to aidlc.lua as a read-only
// global platform table, so a config can pick a rules folder per machine.
package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Info is what the platform table exposes.
type Info struct {
	OS     string // "linux", "darwin", "windows"
	Arch   string // "amd64", "arm64", or GOARCH as-is
	Distro string // lowercase distribution ID, Linux only
}

func (i *Info) IsLinux() bool   { return i.OS == "linux" }
func (i *Info) IsMacOS() bool   { return i.OS == "darwin" }
func (i *Info) IsWindows() bool { return i.OS == "windows" }

// Detector returns information about the current host.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// HostDetector inspects the running machine.
type HostDetector struct{}

// NewDetector creates a detector for the running machine.
func NewDetector() Detector {
	return HostDetector{}
}

// Detect never fails for an unknown distribution; the Distro field is
// left empty instead. A cancelled context is an error.
func (HostDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:   runtime.GOOS,
		Arch: normalizeArch(runtime.GOARCH),
	}

	if !info.IsLinux() {
		return info, nil
	}

	id, _, _, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}
	info.Distro = strings.ToLower(strings.TrimSpace(id))

	return info, nil
}

// Static is a Detector that always reports the same host.
type Static Info

func (s Static) Detect(context.Context) (*Info, error) {
	info := Info(s)
	return &info, nil
}

func normalizeArch(arch string) string {
	switch arch {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return arch
	}
}
