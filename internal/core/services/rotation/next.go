package rotation

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/rotlog/internal/core/ports"
	"github.com/iamNilotpal/rotlog/pkg/fs"
)

// NextBackupPath returns the name the next backup of path would get: one
// past the highest existing suffix, capped at maxNumber. It returns path
// unchanged when path does not exist or maxNumber is not positive.
func NextBackupPath(fsys ports.FileSystem, path string, maxNumber int) (string, error) {
	if maxNumber <= 0 {
		return path, nil
	}

	if _, err := fsys.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		return "", err
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	names, err := fsys.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var highest uint64
	for _, name := range names {
		if age, ok := fs.ParseAge(base, name); ok && age > highest {
			highest = age
		}
	}

	next := min(highest+1, uint64(maxNumber))
	return filepath.Join(dir, fs.BackupName(base, next)), nil
}
