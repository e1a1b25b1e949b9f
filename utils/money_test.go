package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "€0.00"},
		{5, "€0.05"},
		{1200, "€12.00"},
		{1250, "€12.50"},
		{99999, "€999.99"},
		{-1250, "-€12.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEUR(tt.cents))
	}
}
