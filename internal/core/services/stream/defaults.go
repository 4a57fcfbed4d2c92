package stream

import (
	"os"

	"github.com/iamNilotpal/rotlog/internal/core/domain"
)

const (
	DefaultMaxBackups  = 1
	DefaultErrorBuffer = 64

	DefaultFilePermission os.FileMode = 0644
	DefaultDirPermission  os.FileMode = 0755
)

// DefaultOptions returns options that never rotate and keep one file.
func DefaultOptions() *domain.StreamOptions {
	return &domain.StreamOptions{
		MaxBackups:     DefaultMaxBackups,
		ErrorBuffer:    DefaultErrorBuffer,
		FilePermission: DefaultFilePermission,
		DirPermission:  DefaultDirPermission,
	}
}

func prepareDefaults(opts *domain.StreamOptions) *domain.StreamOptions {
	if opts.MaxBackups < DefaultMaxBackups {
		opts.MaxBackups = DefaultMaxBackups
	}

	if opts.ErrorBuffer == 0 {
		opts.ErrorBuffer = DefaultErrorBuffer
	}

	if opts.FilePermission == 0 {
		opts.FilePermission = DefaultFilePermission
	}

	if opts.DirPermission == 0 {
		opts.DirPermission = DefaultDirPermission
	}

	return opts
}
