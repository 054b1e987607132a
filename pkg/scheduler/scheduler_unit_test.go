package scheduler

import (
	"testing"

	"github.com/cuemby/pulse-scheduler/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestPriorityValue(t *testing.T) {
	tests := []struct {
		name     string
		priority types.Priority
		want     int
	}{
		{"low", types.PriorityLow, 1},
		{"normal", types.PriorityNormal, 10},
		{"high", types.PriorityHigh, 50},
		{"urgent", types.PriorityUrgent, 100},
		{"unknown defaults to normal", types.Priority("bogus"), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priority.Value())
		})
	}
}

func TestZeroPad(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{1, "000001"},
		{42, "000042"},
		{123456, "123456"},
		{1234567, "1234567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, zeroPad(tt.n, 6))
	}
}

func TestNextJobIDIsMonotonicAndZeroPadded(t *testing.T) {
	s := New("test")
	assert.Equal(t, "000001", s.nextJobID())
	assert.Equal(t, "000002", s.nextJobID())
}

func TestStableHashIsDeterministic(t *testing.T) {
	a := stableHash("000042")
	b := stableHash("000042")
	assert.Equal(t, a, b)
}

func TestNodeIDFormat(t *testing.T) {
	id := nodeID("debug", "000001", 1)
	assert.Equal(t, "debug-node-01", id)

	id2 := nodeID("gpu", "000001", 4)
	assert.Regexp(t, `^gpu-node-0[1-4]$`, id2)
}

func TestNodeIDStableAcrossCalls(t *testing.T) {
	first := nodeID("cpu", "some-job-id", 4)
	second := nodeID("cpu", "some-job-id", 4)
	assert.Equal(t, first, second)
}
