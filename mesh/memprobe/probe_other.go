//go:build !linux

package memprobe

// Default returns the preferred probe for the running platform.
func Default() Probe { return VirtualMemory{} }
