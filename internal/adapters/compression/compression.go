package compression

import (
	"fmt"
	"runtime"

	"github.com/iamNilotpal/rotlog/internal/core/domain"
)

// Returns CompressionOptions for zstd initialized with recommended defaults
// that balance compression ratio and per-record latency.
func DefaultOptions() *domain.CompressionOptions {
	return &domain.CompressionOptions{
		Level:              DefaultLevel,
		EncoderConcurrency: uint8(runtime.NumCPU()),
		DecoderConcurrency: uint8(runtime.NumCPU()),
	}
}

// Checks if the zstd options are valid and returns an error if any option
// is outside acceptable bounds.
func Validate(input *domain.CompressionOptions) error {
	if input.Level < FastestLevel || input.Level > BestLevel {
		return fmt.Errorf("compression level must be between %d and %d, got %d", FastestLevel, BestLevel, input.Level)
	}

	if int(input.EncoderConcurrency) > runtime.NumCPU() {
		return fmt.Errorf(
			"encoder concurrency must be between 0 and %d, got %d", runtime.NumCPU(), input.EncoderConcurrency,
		)
	}

	if int(input.DecoderConcurrency) > runtime.NumCPU() {
		return fmt.Errorf(
			"decoder concurrency must be between 0 and %d, got %d", runtime.NumCPU(), input.DecoderConcurrency,
		)
	}

	return nil
}

// Checks gzip options. Concurrency settings are ignored by gzip.
func ValidateGzip(input *domain.CompressionOptions) error {
	if input.Level < GzipFastestLevel || input.Level > GzipBestLevel {
		return fmt.Errorf(
			"gzip compression level must be between %d and %d, got %d", GzipFastestLevel, GzipBestLevel, input.Level,
		)
	}
	return nil
}

func concurrency(n uint8) int {
	if n == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return int(n)
}
