//go:build linux

package memprobe

import "golang.org/x/sys/unix"

// Sysinfo reads the total RAM from the sysinfo(2) system call.
type Sysinfo struct{}

// TotalMemory returns totalram scaled by the kernel's memory unit.
func (Sysinfo) TotalMemory() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	total := uint64(info.Totalram) * unit
	if total == 0 {
		return 0, ErrUnknown
	}
	return total, nil
}

// Default returns the preferred probe for the running platform.
func Default() Probe { return Sysinfo{} }
