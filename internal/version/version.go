// Package version parses and orders paper version identifiers.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"paperflow/internal/apperr"
)

// Initial is the version assigned to a newly created paper.
const Initial = "v1.0"

// Version is the (major, minor) tuple behind a version string.
type Version struct {
	Major uint64
	Minor uint64
}

func (v Version) String() string {
	return fmt.Sprintf("v%d.%d", v.Major, v.Minor)
}

// Parse reads a version string of the form "<major>.<minor>" with an optional
// leading "v" or "V". Components must be non-negative integers.
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Version{}, apperr.Validation("INVALID_VERSION_FORMAT", "version is required")
	}
	trimmed := raw
	if len(trimmed) > 0 && (trimmed[0] == 'v' || trimmed[0] == 'V') {
		trimmed = trimmed[1:]
	}
	major, minor, ok := strings.Cut(trimmed, ".")
	if !ok {
		return Version{}, apperr.Validation("INVALID_VERSION_FORMAT", fmt.Sprintf("invalid version %q: expected <major>.<minor>", raw))
	}
	maj, err := parseComponent(major)
	if err != nil {
		return Version{}, apperr.Validation("INVALID_VERSION_FORMAT", fmt.Sprintf("invalid version %q: bad major component", raw))
	}
	min, err := parseComponent(minor)
	if err != nil {
		return Version{}, apperr.Validation("INVALID_VERSION_FORMAT", fmt.Sprintf("invalid version %q: bad minor component", raw))
	}
	return Version{Major: maj, Minor: min}, nil
}

func parseComponent(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty component")
	}
	// strconv.ParseUint accepts a leading "+"; the version grammar does not.
	if s[0] == '+' || s[0] == '-' {
		return 0, fmt.Errorf("signed component")
	}
	return strconv.ParseUint(s, 10, 64)
}

// Compare orders two parsed versions by tuple order.
// It returns -1 if a < b, 0 if equal, and 1 if a > b.
func Compare(a, b Version) int {
	switch {
	case a.Major < b.Major:
		return -1
	case a.Major > b.Major:
		return 1
	case a.Minor < b.Minor:
		return -1
	case a.Minor > b.Minor:
		return 1
	}
	return 0
}
