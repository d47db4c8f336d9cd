//go:build linux

package device

import "golang.org/x/sys/unix"

func fillPlatform(info *Info) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		info.KernelRelease = unix.ByteSliceToString(uts.Release[:])
	}
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		info.MemoryBytes = uint64(si.Totalram) * uint64(si.Unit)
	}
}
