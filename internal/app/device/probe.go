package device

import (
	"context"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	probeOnce   sync.Once
	probeResult Accelerator
)

// Detect probes the host for a CUDA accelerator via nvidia-smi. The probe
// is best-effort and memoized for the process lifetime; a missing or
// broken nvidia-smi simply reports no accelerator, it never fails.
func Detect() Accelerator {
	probeOnce.Do(func() {
		probeResult = runProbe()
	})
	return probeResult
}

func runProbe() Accelerator {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "nvidia-smi",
		"--query-gpu=name,memory.total",
		"--format=csv,noheader,nounits")
	output, err := cmd.Output()
	if err != nil {
		log.Printf("no accelerator detected, falling back to CPU")
		return Accelerator{}
	}

	acc, ok := parseProbeOutput(string(output))
	if !ok {
		log.Printf("could not parse nvidia-smi output, falling back to CPU")
		return Accelerator{}
	}

	log.Printf("detected accelerator: %s (%.1f GiB)", acc.Name, acc.MemoryGiB)
	return acc
}

// parseProbeOutput reads the first line of
// "name, memory.total" CSV output; memory is reported in MiB.
func parseProbeOutput(output string) (Accelerator, bool) {
	line := strings.TrimSpace(strings.SplitN(output, "\n", 2)[0])
	if line == "" {
		return Accelerator{}, false
	}

	idx := strings.LastIndex(line, ",")
	if idx < 0 {
		return Accelerator{}, false
	}

	name := strings.TrimSpace(line[:idx])
	memMiB, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
	if err != nil || memMiB <= 0 {
		return Accelerator{}, false
	}

	return Accelerator{
		Present:   true,
		Name:      name,
		MemoryGiB: memMiB / 1024,
	}, true
}
