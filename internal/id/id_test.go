package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGUID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		g := NewGUID()
		assert.Len(t, g, GUIDLength)
		assert.True(t, ValidGUID(g), "guid %q", g)
		assert.False(t, seen[g], "duplicate guid %q", g)
		seen[g] = true
	}
}

func TestValidGUID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0123456789abcdef0123456789abcdef", true},
		{"0123456789ABCDEF0123456789ABCDEF", true},
		{"0123456789abcdef", false},
		{"0123456789abcdef0123456789abcdeg", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidGUID(tt.input), "ValidGUID(%q)", tt.input)
	}
}

func TestNormalize(t *testing.T) {
	got, ok := Normalize("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
	require.True(t, ok)
	assert.Equal(t, "6ba7b8109dad11d180b400c04fd430c8", got)

	got, ok = Normalize("6BA7B8109DAD11D180B400C04FD430C8")
	require.True(t, ok)
	assert.Equal(t, "6ba7b8109dad11d180b400c04fd430c8", got)

	_, ok = Normalize("not-a-guid")
	assert.False(t, ok)
}
