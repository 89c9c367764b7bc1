// Package profiling writes pprof profiles for slow searches and imports.
package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler owns at most one running CPU profile.
type Profiler struct {
	cpuFile *os.File
}

// NewProfiler creates a Profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// StartCPU starts CPU profiling into path. The returned stop function
// flushes and closes the file.
func (p *Profiler) StartCPU(path string) (stop func(), err error) {
	if p.cpuFile != nil {
		return nil, fmt.Errorf("CPU profile already running")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to start CPU profile: %w", err)
	}
	p.cpuFile = f

	return func() {
		pprof.StopCPUProfile()
		_ = p.cpuFile.Close()
		p.cpuFile = nil
	}, nil
}

// WriteHeap writes a heap snapshot to path after a GC.
func (p *Profiler) WriteHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create heap profile file: %w", err)
	}
	defer func() { _ = f.Close() }()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write heap profile: %w", err)
	}
	return nil
}
