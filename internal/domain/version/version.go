// Package version compares dotted numeric version strings and evaluates
// exact/min/max constraints against them.
package version

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Compare returns -1, 0, or 1 depending on whether a is ordered before,
// equal to, or after b. Versions are dotted numeric strings ("1.3.0");
// an optional leading "v" is ignored. Versions with more than three
// segments are compared segment by segment.
func Compare(a, b string) int {
	va, vb := normalize(a), normalize(b)
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb)
	}
	return compareSegments(a, b)
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	return v
}

// compareSegments compares dotted numeric versions ordinally.
// Missing segments count as zero; non-numeric segments count as zero.
func compareSegments(a, b string) int {
	as := strings.Split(strings.TrimPrefix(strings.TrimSpace(a), "v"), ".")
	bs := strings.Split(strings.TrimPrefix(strings.TrimSpace(b), "v"), ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(as) {
			x, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			y, _ = strconv.Atoi(bs[i])
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

// Constraint bounds acceptable versions of a dependency.
// Each bound is optional; an absent bound is unconstrained on that side.
type Constraint struct {
	// Exact requires the version to match exactly.
	Exact string `yaml:"exact,omitempty"`
	// Min is the inclusive lower bound.
	Min string `yaml:"min,omitempty"`
	// Max is the inclusive upper bound.
	Max string `yaml:"max,omitempty"`
}

// IsZero reports whether the constraint places no bounds at all.
func (c Constraint) IsZero() bool {
	return c.Exact == "" && c.Min == "" && c.Max == ""
}

// Satisfies reports whether the given version meets every bound.
// An empty constraint is satisfied by any version.
func (c Constraint) Satisfies(v string) bool {
	if c.Exact != "" && Compare(v, c.Exact) != 0 {
		return false
	}
	if c.Min != "" && Compare(v, c.Min) < 0 {
		return false
	}
	if c.Max != "" && Compare(v, c.Max) > 0 {
		return false
	}
	return true
}

// String renders the constraint in operator form, e.g. "=1.0.0",
// ">=1.0.0 <=2.0.0", or "*" for an unconstrained value.
func (c Constraint) String() string {
	if c.Exact != "" {
		return "=" + c.Exact
	}
	parts := make([]string, 0, 2)
	if c.Min != "" {
		parts = append(parts, ">="+c.Min)
	}
	if c.Max != "" {
		parts = append(parts, "<="+c.Max)
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}
