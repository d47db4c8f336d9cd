package device

import (
	"runtime"
	"testing"
)

func TestProbe(t *testing.T) {
	info := Probe()
	if info.Name != "host-cpu" {
		t.Errorf("name = %q", info.Name)
	}
	if info.Platform != runtime.GOOS || info.Arch != runtime.GOARCH {
		t.Errorf("platform = %q/%q", info.Platform, info.Arch)
	}
	if info.Cores < 1 {
		t.Errorf("cores = %d", info.Cores)
	}
}
