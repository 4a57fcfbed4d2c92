package ports

import "os"

// FileSystem is the set of filesystem operations the stream and the transfer
// policy need. Every call is scoped to one directory at a time.
type FileSystem interface {
	MkdirAll(dirPath string, permission os.FileMode) error
	Stat(filePath string) (os.FileInfo, error)
	EvalSymlinks(filePath string) (string, error)
	ReadDir(dirName string) ([]string, error)

	OpenFile(filePath string, flag int, permission os.FileMode) (*os.File, error)
	WriteFile(filePath string, permission os.FileMode, contents []byte) error
	Rename(oldPath, newPath string) error
	Remove(filePath string) error
}
