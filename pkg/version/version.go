// Package version provides service interface version parsing, comparison and
// streaming.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is a "major.minor.patch" service interface version.
//
// On the wire a Version is a CBOR array of three unsigned integers in the
// fixed order major, minor, patch.
type Version struct {
	_     struct{} `cbor:",toarray"`
	Major uint32
	Minor uint32
	Patch uint32
}

// Zero is the invalid version.
var Zero = Version{}

// New returns the version major.minor.patch.
func New(major, minor, patch uint32) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse parses "major.minor.patch". The patch part may be omitted.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor[.patch]", s)
	}

	nums := make([]uint32, 3)
	names := []string{"major", "minor", "patch"}
	for i, p := range parts {
		if p == "" {
			return Version{}, fmt.Errorf("invalid version %q: empty %s component", s, names[i])
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: bad %s component", s, names[i])
		}
		nums[i] = uint32(n)
	}

	return New(nums[0], nums[1], nums[2]), nil
}

// String returns the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsValid returns true if major or minor is non-zero.
func (v Version) IsValid() bool {
	return v.Major != 0 || v.Minor != 0
}

// IsCompatible returns true if v can serve a consumer built against other:
// the major versions are equal and v's minor is not older.
func (v Version) IsCompatible(other Version) bool {
	return v.Major == other.Major && v.Minor >= other.Minor
}

// Equal returns true if all three components match.
func (v Version) Equal(other Version) bool {
	return v.Major == other.Major && v.Minor == other.Minor && v.Patch == other.Patch
}

// Compare returns -1, 0 or 1 ordering v against other.
func (v Version) Compare(other Version) int {
	for _, d := range [][2]uint32{{v.Major, other.Major}, {v.Minor, other.Minor}, {v.Patch, other.Patch}} {
		switch {
		case d[0] < d[1]:
			return -1
		case d[0] > d[1]:
			return 1
		}
	}
	return 0
}

// MarshalYAML writes the version as a scalar.
func (v Version) MarshalYAML() (any, error) {
	return v.String(), nil
}

// UnmarshalYAML reads a "major.minor[.patch]" scalar.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: version must be a scalar", node.Line)
	}
	parsed, err := Parse(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = parsed
	return nil
}
