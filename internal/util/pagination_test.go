package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		from, lim  int
	}{
		{"defaults", 0, 0, 0, 10},
		{"first page", 1, 20, 0, 20},
		{"third page", 3, 20, 40, 20},
		{"negative page clamps", -5, 10, 0, 10},
		{"oversized page size clamps", 1, 500, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, lim := Calculate(tt.page, tt.size)
			require.Equal(t, tt.from, from)
			require.Equal(t, tt.lim, lim)
		})
	}
}
