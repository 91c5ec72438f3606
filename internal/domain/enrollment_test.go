package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed []bool
		want      int
	}{
		{"empty course", []bool{}, 0},
		{"nil set", nil, 0},
		{"half done", []bool{true, false}, 50},
		{"single lecture done", []bool{true}, 100},
		{"nothing done", []bool{false, false, false}, 0},
		{"one of three, rounds to nearest", []bool{true, false, false}, 33},
		{"two of three", []bool{true, true, false}, 67},
		{"all done", []bool{true, true, true, true}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeProgress(tt.completed))
		})
	}
}
