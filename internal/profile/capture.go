// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profile file names inside a run's report directory.
const (
	// CPUProfileFileName holds the pprof CPU profile.
	CPUProfileFileName = "cpu.pprof"
	// HeapProfileFileName holds the pprof heap profile.
	HeapProfileFileName = "heap.pprof"
)

// CaptureCPU runs fn with CPU profiling enabled and writes the profile to
// path. The profile covers exactly the lifetime of fn; fn's error wins over
// profile write errors.
func CaptureCPU(path string, fn func() error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("start cpu profile: %w", err)
	}

	runErr := fn()
	pprof.StopCPUProfile()
	if err := f.Close(); err != nil && runErr == nil {
		return fmt.Errorf("close cpu profile: %w", err)
	}
	return runErr
}

// CaptureHeap runs fn, then writes a heap profile to path. A GC runs first
// so the profile reflects live objects rather than collectable garbage.
func CaptureHeap(path string, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("write heap profile: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close heap profile: %w", err)
	}
	return nil
}

// PprofHints returns follow-up commands for inspecting a captured profile.
func PprofHints(profilePath string) []string {
	exe := "neargrid"
	if path, err := os.Executable(); err == nil {
		exe = path
	}
	return []string{
		fmt.Sprintf("go tool pprof %s %s", exe, profilePath),
		fmt.Sprintf("go tool pprof -http=:8080 %s %s", exe, profilePath),
	}
}
