// Package device probes the host the tuner runs on. The simulated
// runtime executes on the host CPU, so the probe reports host facts.
package device

import (
	"os"
	"runtime"
)

// Info describes one compute device visible to the tuner.
type Info struct {
	Name     string `json:"name"`
	Hostname string `json:"hostname,omitempty"`
	Platform string `json:"platform"`
	Arch     string `json:"arch"`
	Cores    int    `json:"cores"`
	// MemoryBytes is total physical memory, zero when the platform
	// offers no cheap way to read it.
	MemoryBytes uint64 `json:"memory_bytes,omitempty"`
	// KernelRelease is the OS kernel release string, empty off Linux.
	KernelRelease string `json:"kernel_release,omitempty"`
}

// Probe returns the host device.
func Probe() Info {
	info := Info{
		Name:     "host-cpu",
		Platform: runtime.GOOS,
		Arch:     runtime.GOARCH,
		Cores:    runtime.NumCPU(),
	}
	if host, err := os.Hostname(); err == nil {
		info.Hostname = host
	}
	fillPlatform(&info)
	return info
}
