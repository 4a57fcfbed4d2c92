package domain

import "os"

// StreamOptions defines the configuration of a rotating file stream.
type StreamOptions struct {
	// MaxSize is the size in bytes at which the active file is rotated.
	// Rotation happens once the accumulated size is greater than or equal to it.
	// Zero disables size based rotation entirely.
	//
	// Default: 0
	MaxSize int64

	// MaxBackups bounds the number of files kept on rotation, counting the
	// file being rotated away: a file whose new age would reach MaxBackups is
	// deleted instead of renamed. Values below 1 are clamped to 1, which
	// discards the active file's content on every rotation.
	//
	// Default: 1
	MaxBackups int

	// SyncOnWrite forces an fsync after every appended record.
	// Provides better durability at the cost of throughput.
	//
	// Default: false
	SyncOnWrite bool

	// ErrorBuffer is the capacity of the channel returned by Stream.Errors.
	// Errors reported while the channel is full are dropped and counted.
	//
	// Default: 64
	ErrorBuffer int

	// FilePermission is used when the active file is created.
	//
	// Default: 0644
	FilePermission os.FileMode

	// DirPermission is used when missing parent directories are created.
	//
	// Default: 0755
	DirPermission os.FileMode
}
