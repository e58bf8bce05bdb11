package update

import (
	"fmt"
	"strconv"
	"strings"
)

// Version represents a parsed release version. A fourth build component,
// when present, is ignored.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease bool
	Raw        string
}

// ParseVersion parses "v1.2.3", "1.2.3", "1.2.3.4" or "v1.2.3-beta.1".
// Each component keeps its leading digits only. The "dev" version is a
// special case that returns a zero version.
func ParseVersion(v string) (*Version, error) {
	raw := v
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")

	if v == "dev" || v == "" {
		return &Version{Raw: raw}, nil
	}

	core, pre, hasPre := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) < 3 {
		return nil, fmt.Errorf("parsing version %q: expected format MAJOR.MINOR.PATCH", raw)
	}

	nums := make([]int, 3)
	names := []string{"major", "minor", "patch"}
	for i := range nums {
		n, err := leadingInt(parts[i])
		if err != nil {
			return nil, fmt.Errorf("parsing %s version %q: %w", names[i], parts[i], err)
		}
		nums[i] = n
	}

	return &Version{
		Major:      nums[0],
		Minor:      nums[1],
		Patch:      nums[2],
		Prerelease: hasPre && pre != "",
		Raw:        raw,
	}, nil
}

func leadingInt(s string) (int, error) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return strconv.Atoi(s[:end])
}

// IsDev returns true if this is a development build (not a proper release version).
func (v *Version) IsDev() bool {
	return v.Raw == "dev" || v.Raw == ""
}

// String returns the version string in "vMAJOR.MINOR.PATCH" format.
func (v *Version) String() string {
	if v.IsDev() {
		return "dev"
	}
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare compares two versions and returns:
//   - -1 if v < other
//   - 0 if v == other
//   - 1 if v > other
//
// Dev versions are always considered less than any proper version. A
// prerelease sorts before the release with the same numbers.
func (v *Version) Compare(other *Version) int {
	if v.IsDev() && other.IsDev() {
		return 0
	}
	if v.IsDev() {
		return -1
	}
	if other.IsDev() {
		return 1
	}

	if v.Major != other.Major {
		return compareInts(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return compareInts(v.Minor, other.Minor)
	}
	if v.Patch != other.Patch {
		return compareInts(v.Patch, other.Patch)
	}
	switch {
	case v.Prerelease == other.Prerelease:
		return 0
	case v.Prerelease:
		return -1
	default:
		return 1
	}
}

// IsNewerThan returns true if v is newer than other.
func (v *Version) IsNewerThan(other *Version) bool {
	return v.Compare(other) > 0
}

func compareInts(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
