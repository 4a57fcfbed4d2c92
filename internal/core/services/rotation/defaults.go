package rotation

import "os"

const (
	// DefaultMaxBackups is used when a policy is created with a count below 1.
	DefaultMaxBackups = 1

	// DefaultFilePermission applies to the empty active file left behind by Perform.
	DefaultFilePermission os.FileMode = 0644
)

func clampMaxBackups(maxBackups int) int {
	if maxBackups < DefaultMaxBackups {
		return DefaultMaxBackups
	}
	return maxBackups
}
