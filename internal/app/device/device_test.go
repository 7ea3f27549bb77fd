package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectProfile(t *testing.T) {
	tests := []struct {
		name            string
		acc             Accelerator
		wantKind        Kind
		wantPrecision   Precision
		wantPerformance bool
		wantMemorySaver bool
	}{
		{
			name:          "no accelerator",
			acc:           Accelerator{},
			wantKind:      KindCPU,
			wantPrecision: PrecisionSingle,
		},
		{
			name:          "small 2GiB accelerator keeps float32",
			acc:           Accelerator{Present: true, MemoryGiB: 2},
			wantKind:      KindAccelerator,
			wantPrecision: PrecisionSingle,
		},
		{
			name:            "4GiB boundary is inclusive for memory saver",
			acc:             Accelerator{Present: true, MemoryGiB: 4},
			wantKind:        KindAccelerator,
			wantPrecision:   PrecisionHalf,
			wantMemorySaver: true,
		},
		{
			name:            "6GiB mid-range gets half precision with memory saver",
			acc:             Accelerator{Present: true, MemoryGiB: 6},
			wantKind:        KindAccelerator,
			wantPrecision:   PrecisionHalf,
			wantMemorySaver: true,
		},
		{
			name:            "8GiB boundary is inclusive for performance mode",
			acc:             Accelerator{Present: true, MemoryGiB: 8},
			wantKind:        KindAccelerator,
			wantPrecision:   PrecisionHalf,
			wantPerformance: true,
		},
		{
			name:            "10GiB gets performance mode",
			acc:             Accelerator{Present: true, MemoryGiB: 10},
			wantKind:        KindAccelerator,
			wantPrecision:   PrecisionHalf,
			wantPerformance: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectProfile(tt.acc)

			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantPrecision, got.Precision)
			assert.Equal(t, tt.wantPerformance, got.Performance)
			assert.Equal(t, tt.wantMemorySaver, got.MemorySaver)
		})
	}
}

func TestSelectProfileNeverSetsBothModes(t *testing.T) {
	for _, mem := range []float64{0.5, 2, 3.9, 4, 5, 7.9, 8, 12, 24} {
		p := SelectProfile(Accelerator{Present: true, MemoryGiB: mem})
		assert.False(t, p.Performance && p.MemorySaver,
			"performance and memory saver are mutually exclusive at %.1f GiB", mem)
	}
}

func TestProfileString(t *testing.T) {
	assert.Equal(t, "CPU", SelectProfile(Accelerator{}).String())

	p := SelectProfile(Accelerator{Present: true, Name: "NVIDIA GeForce RTX 3060", MemoryGiB: 12})
	assert.Equal(t, "GPU (NVIDIA GeForce RTX 3060, 12.0GB)", p.String())
}

func TestParseProbeOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantOK  bool
		wantGiB float64
	}{
		{
			name:    "single device",
			output:  "NVIDIA GeForce RTX 3060, 12288\n",
			wantOK:  true,
			wantGiB: 12,
		},
		{
			name:    "first of multiple devices wins",
			output:  "Tesla T4, 15360\nTesla T4, 15360\n",
			wantOK:  true,
			wantGiB: 15,
		},
		{
			name:   "empty output",
			output: "\n",
			wantOK: false,
		},
		{
			name:   "garbage output",
			output: "command not found",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, ok := parseProbeOutput(tt.output)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, acc.Present)
				assert.InDelta(t, tt.wantGiB, acc.MemoryGiB, 0.01)
			}
		})
	}
}
