// Package memprobe reports the physical memory of the host.
//
// The planner treats the result as an upper bound for memory budgets. A probe
// that fails is not fatal: Detect turns the failure into "unknown" (0) and
// the planner falls back to its defaults.
package memprobe

import (
	"errors"
	"io"
	"log/slog"

	"github.com/shirou/gopsutil/mem"
)

// ErrUnknown indicates that a probe could not determine the memory size.
var ErrUnknown = errors.New("memprobe: total memory unknown")

// Probe reports total physical memory in bytes.
type Probe interface {
	TotalMemory() (uint64, error)
}

// Func adapts a function to Probe.
type Func func() (uint64, error)

// TotalMemory calls f.
func (f Func) TotalMemory() (uint64, error) { return f() }

// Fixed is a Probe that always reports the same size. Zero means unknown.
type Fixed uint64

// TotalMemory returns f, or ErrUnknown if f is zero.
func (f Fixed) TotalMemory() (uint64, error) {
	if f == 0 {
		return 0, ErrUnknown
	}
	return uint64(f), nil
}

// VirtualMemory reads the host memory through gopsutil. It works on every
// platform gopsutil supports.
type VirtualMemory struct{}

// TotalMemory returns the total physical memory reported by gopsutil.
func (VirtualMemory) TotalMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	if vm.Total == 0 {
		return 0, ErrUnknown
	}
	return vm.Total, nil
}

// Detect queries p and returns 0 when the size is unknown. Failures are
// logged at debug level; a nil probe or logger is allowed.
func Detect(p Probe, log *slog.Logger) uint64 {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p == nil {
		log.Debug("no memory probe configured")
		return 0
	}
	total, err := p.TotalMemory()
	if err != nil {
		log.Debug("memory probe failed", "error", err)
		return 0
	}
	log.Debug("detected physical memory", "bytes", total)
	return total
}
