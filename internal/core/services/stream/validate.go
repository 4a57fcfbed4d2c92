package stream

import (
	"fmt"
	"os"
	"strings"

	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/iamNilotpal/rotlog/pkg/errors"
)

// Validate checks the options before defaults are applied. A negative
// MaxBackups is accepted and clamped later.
func Validate(path string, opts *domain.StreamOptions) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewValidationError("path", path, fmt.Errorf("path is required"))
	}

	if opts.MaxSize < 0 {
		return errors.NewValidationError(
			"max_size", opts.MaxSize, fmt.Errorf("must be zero (disabled) or positive, got %d", opts.MaxSize),
		)
	}

	if opts.ErrorBuffer < 0 {
		return errors.NewValidationError(
			"error_buffer", opts.ErrorBuffer, fmt.Errorf("must not be negative, got %d", opts.ErrorBuffer),
		)
	}

	if err := validatePermission("file_permission", opts.FilePermission); err != nil {
		return err
	}

	return validatePermission("dir_permission", opts.DirPermission)
}

func validatePermission(field string, perm os.FileMode) error {
	if perm&^os.ModePerm != 0 {
		return errors.NewValidationError(
			field, perm, fmt.Errorf("only permission bits are allowed, got %v", perm),
		)
	}
	return nil
}
