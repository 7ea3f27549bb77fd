// Package device selects the compute device and numeric precision used
// for inference, based on what the host machine reports.
package device

import (
	"fmt"
)

// Kind identifies the compute device class.
type Kind string

const (
	KindCPU         Kind = "cpu"
	KindAccelerator Kind = "accelerator"
)

// Precision is the floating-point width used for model weights.
type Precision string

const (
	PrecisionHalf   Precision = "float16"
	PrecisionSingle Precision = "float32"
)

// Memory tiers for the selection policy, in GiB. Lower bounds are
// inclusive: exactly 8 GiB gets performance mode, exactly 4 GiB gets
// the memory-saver configuration.
const (
	performanceThresholdGiB = 8.0
	halfPrecisionFloorGiB   = 4.0
)

// Profile describes the device configuration computed once at startup.
// It is immutable for the process lifetime.
type Profile struct {
	Kind      Kind
	Name      string
	MemoryGiB float64
	Precision Precision

	// Performance requests the fastest configuration; only set on
	// accelerators with ample memory.
	Performance bool

	// MemorySaver trades reproducibility for peak-memory headroom on
	// mid-size accelerators (kernel auto-tuning on, strict determinism
	// off).
	MemorySaver bool
}

// Accelerator is the result of probing the host for a compute accelerator.
type Accelerator struct {
	Present   bool
	Name      string
	MemoryGiB float64
}

// SelectProfile maps an accelerator probe result to a device profile.
// The policy is deterministic:
//
//	no accelerator       -> CPU, float32
//	>= 8 GiB             -> accelerator, float16, performance mode
//	4 GiB <= mem < 8 GiB -> accelerator, float16, memory saver
//	< 4 GiB              -> accelerator, float32
//
// Half precision is rejected below 4 GiB to avoid numeric overflow on
// small devices, not because the model requires it.
func SelectProfile(acc Accelerator) Profile {
	if !acc.Present {
		return Profile{
			Kind:      KindCPU,
			Precision: PrecisionSingle,
		}
	}

	p := Profile{
		Kind:      KindAccelerator,
		Name:      acc.Name,
		MemoryGiB: acc.MemoryGiB,
	}

	switch {
	case acc.MemoryGiB >= performanceThresholdGiB:
		p.Precision = PrecisionHalf
		p.Performance = true
	case acc.MemoryGiB >= halfPrecisionFloorGiB:
		p.Precision = PrecisionHalf
		p.MemorySaver = true
	default:
		p.Precision = PrecisionSingle
	}

	return p
}

// String renders the profile the way the model-info endpoints report it.
func (p Profile) String() string {
	if p.Kind == KindCPU {
		return "CPU"
	}
	if p.Name == "" {
		return fmt.Sprintf("GPU (%.1fGB)", p.MemoryGiB)
	}
	return fmt.Sprintf("GPU (%s, %.1fGB)", p.Name, p.MemoryGiB)
}

// IsAccelerator reports whether inference runs on a hardware accelerator.
func (p Profile) IsAccelerator() bool {
	return p.Kind == KindAccelerator
}
