package fs

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
)

// LocalFileSystem performs file operations against the host filesystem.
type LocalFileSystem struct{}

func NewLocalFileSystem() *LocalFileSystem {
	return &LocalFileSystem{}
}

// Creates a directory and all missing parents. Fails if the path exists but isn't a directory.
func (lfs *LocalFileSystem) MkdirAll(dirPath string, permission os.FileMode) error {
	stat, err := os.Stat(dirPath)
	if err == nil {
		if !stat.IsDir() {
			return errors.New("existing path isn't a directory")
		}
		return nil
	}

	return os.MkdirAll(dirPath, permission)
}

// Returns file info, following symlinks.
func (lfs *LocalFileSystem) Stat(filePath string) (os.FileInfo, error) {
	return os.Stat(filePath)
}

// Resolves all symlinks of the given path.
func (lfs *LocalFileSystem) EvalSymlinks(filePath string) (string, error) {
	return filepath.EvalSymlinks(filePath)
}

// Reads the directory and retrieves all entry names, sorted.
func (lfs *LocalFileSystem) ReadDir(dirName string) ([]string, error) {
	entries, err := os.ReadDir(dirName)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// Renames a file, replacing the destination if it exists.
func (lfs *LocalFileSystem) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Deletes a file.
func (lfs *LocalFileSystem) Remove(filePath string) error {
	return os.Remove(filePath)
}

// Writes to a file, creating or truncating it.
func (lfs *LocalFileSystem) WriteFile(filePath string, permission os.FileMode, contents []byte) error {
	return os.WriteFile(filePath, contents, permission)
}

// Opens a file with the given flags.
func (lfs *LocalFileSystem) OpenFile(filePath string, flag int, permission os.FileMode) (*os.File, error) {
	return os.OpenFile(filePath, flag, permission)
}
