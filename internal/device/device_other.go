//go:build !linux

package device

func fillPlatform(info *Info) {}
