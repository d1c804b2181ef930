// Package parse extracts structured facts from command output: versions,
// extension listings and table counts.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionPattern matches the first dotted version. Trailing build metadata
// such as "-dev", "RC1-1234", "-MariaDB" or "+build" is tolerated and dropped.
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Version is a parsed major.minor.patch triple.
type Version struct {
	Major    int
	Minor    int
	Patch    int
	HasPatch bool
}

// String renders the numeric part of the version, e.g. "8.3.4" or "15.1".
func (v Version) String() string {
	if v.HasPatch {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is at or above minimum, comparing major then minor.
// Patch levels are ignored; minimums are stated as major.minor.
func (v Version) AtLeast(minimum Version) bool {
	if v.Major != minimum.Major {
		return v.Major > minimum.Major
	}
	return v.Minor >= minimum.Minor
}

// ParseVersion returns the first version found in text.
func ParseVersion(text string) (Version, bool) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return Version{}, false
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, false
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, false
	}

	v := Version{Major: major, Minor: minor}
	if m[3] != "" {
		patch, err := strconv.Atoi(m[3])
		if err != nil {
			return Version{}, false
		}
		v.Patch = patch
		v.HasPatch = true
	}
	return v, true
}

// ParseMinimum parses a "major.minor" requirement such as "7.4".
func ParseMinimum(value string) (Version, error) {
	v, ok := ParseVersion(strings.TrimSpace(value))
	if !ok {
		return Version{}, fmt.Errorf("invalid minimum version %q", value)
	}
	return v, nil
}

// MissingExtensions returns the entries of required that do not appear as a
// line of listing, compared case-insensitively. Order follows required.
func MissingExtensions(listing string, required []string) []string {
	present := make(map[string]struct{})
	for _, line := range strings.Split(listing, "\n") {
		name := strings.ToLower(strings.TrimSpace(line))
		if name == "" || strings.HasPrefix(name, "[") {
			continue
		}
		present[name] = struct{}{}
	}

	var missing []string
	for _, ext := range required {
		if _, ok := present[strings.ToLower(strings.TrimSpace(ext))]; !ok {
			missing = append(missing, ext)
		}
	}
	return missing
}

// CountTables counts table rows in SHOW TABLES or "wp db tables" output.
// Blank lines, the Tables_in_* header and ASCII table borders are ignored.
func CountTables(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "+") {
			continue
		}
		line = strings.TrimSpace(strings.Trim(line, "|"))
		if line == "" || strings.HasPrefix(line, "Tables_in_") {
			continue
		}
		count++
	}
	return count
}
