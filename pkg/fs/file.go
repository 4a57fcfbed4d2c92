package fs

import (
	"fmt"
	"strconv"
	"strings"
)

// BackupName builds the file name of a backup with the given age,
// for example "app.log.2". Age 0 is the active file itself.
func BackupName(base string, age uint64) string {
	if age == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, age)
}

// ParseAge extracts the age of a file belonging to base.
// It returns (0, true) for base itself and (N, true) for "base.N" where N
// is a positive decimal integer. Every other name is rejected.
func ParseAge(base, name string) (uint64, bool) {
	if name == base {
		return 0, true
	}

	suffix, ok := strings.CutPrefix(name, base+".")
	if !ok || suffix == "" {
		return 0, false
	}

	// ParseUint accepts neither signs nor spaces, but it does accept leading
	// zeros; "app.log.01" is not a backup we produce.
	if suffix[0] == '0' {
		return 0, false
	}

	age, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil || age == 0 {
		return 0, false
	}

	return age, true
}
