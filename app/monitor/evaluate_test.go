package monitor

import (
	"testing"

	"github.com/procwatch-io/procwatch/app/utils/assert"
)

func TestEvaluate(t *testing.T) {
	config := &Config{
		CPUThreshold: 80,
		MemThreshold: 80,
	}

	tests := []struct {
		name   string
		metric ProcessMetric
		want   ViolationKind
	}{
		{
			name:   "no violation",
			metric: ProcessMetric{CPUPercent: 10, MemPercent: 10},
			want:   0,
		},
		{
			name:   "cpu over threshold",
			metric: ProcessMetric{CPUPercent: 80.01, MemPercent: 10},
			want:   ViolationCPU,
		},
		{
			name:   "cpu exactly at threshold does not violate",
			metric: ProcessMetric{CPUPercent: 80, MemPercent: 10},
			want:   0,
		},
		{
			name:   "mem over threshold",
			metric: ProcessMetric{CPUPercent: 10, MemPercent: 95},
			want:   ViolationMEM,
		},
		{
			name:   "mem exactly at threshold does not violate",
			metric: ProcessMetric{CPUPercent: 10, MemPercent: 80},
			want:   0,
		},
		{
			name:   "both over threshold",
			metric: ProcessMetric{CPUPercent: 91, MemPercent: 92},
			want:   ViolationCPU | ViolationMEM,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Evaluate(tt.metric, config), tt.want)
		})
	}
}

func TestViolationKindString(t *testing.T) {
	tests := []struct {
		kind ViolationKind
		want string
	}{
		{0, ""},
		{ViolationCPU, "CPU"},
		{ViolationMEM, "MEM"},
		{ViolationCPU | ViolationMEM, "CPU,MEM"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind.String(), tt.want)
	}
}
