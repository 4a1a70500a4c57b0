package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"equal", "1.0.0", "1.0.0", 0},
		{"equal with v prefix", "v1.0.0", "1.0.0", 0},
		{"major greater", "2.0.0", "1.9.9", 1},
		{"major smaller", "1.0.0", "2.0.0", -1},
		{"minor ordering", "1.10.0", "1.9.0", 1},
		{"patch ordering", "1.0.1", "1.0.2", -1},
		{"short form equal", "1.2", "1.2.0", 0},
		{"short form smaller", "1.2", "1.2.1", -1},
		{"four segments", "1.2.3.4", "1.2.3.5", -1},
		{"four vs three", "1.2.3.1", "1.2.3", 1},
		{"whitespace tolerated", " 1.0.0 ", "1.0.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compare(tt.a, tt.b))
		})
	}
}

func TestConstraint_Satisfies(t *testing.T) {
	tests := []struct {
		name       string
		constraint Constraint
		version    string
		expected   bool
	}{
		{"empty constraint", Constraint{}, "1.0.0", true},
		{"exact match", Constraint{Exact: "1.0.0"}, "1.0.0", true},
		{"exact mismatch", Constraint{Exact: "1.0.0"}, "1.0.1", false},
		{"min satisfied", Constraint{Min: "1.0.0"}, "1.5.0", true},
		{"min boundary", Constraint{Min: "1.0.0"}, "1.0.0", true},
		{"min violated", Constraint{Min: "2.0.0"}, "1.5.0", false},
		{"max satisfied", Constraint{Max: "2.0.0"}, "1.5.0", true},
		{"max boundary", Constraint{Max: "2.0.0"}, "2.0.0", true},
		{"max violated", Constraint{Max: "2.0.0"}, "2.0.1", false},
		{"range inside", Constraint{Min: "1.0.0", Max: "2.0.0"}, "1.5.0", true},
		{"range below", Constraint{Min: "1.0.0", Max: "2.0.0"}, "0.9.0", false},
		{"range above", Constraint{Min: "1.0.0", Max: "2.0.0"}, "2.1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constraint.Satisfies(tt.version))
		})
	}
}

func TestConstraint_String(t *testing.T) {
	assert.Equal(t, "*", Constraint{}.String())
	assert.Equal(t, "=1.0.0", Constraint{Exact: "1.0.0"}.String())
	assert.Equal(t, ">=1.0.0", Constraint{Min: "1.0.0"}.String())
	assert.Equal(t, "<=2.0.0", Constraint{Max: "2.0.0"}.String())
	assert.Equal(t, ">=1.0.0 <=2.0.0", Constraint{Min: "1.0.0", Max: "2.0.0"}.String())
}

func TestConstraint_IsZero(t *testing.T) {
	assert.True(t, Constraint{}.IsZero())
	assert.False(t, Constraint{Min: "1.0.0"}.IsZero())
}
