// Package compression provides compression stages for the transform pipeline.
// Every stage emits self-delimiting output, so records compressed one by one and
// appended to the same file still form a valid stream for standard tools.
package compression

import (
	"fmt"
	"sync"

	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/klauspost/compress/zstd"
)

// Zstd implements CompressionPort using the zstd compression algorithm.
// Each record becomes one complete zstd frame; a file of concatenated frames
// decompresses as a whole with Decompress or the zstd command line tool.
type Zstd struct {
	level   uint8         // Current compression level (1-4)
	mu      sync.RWMutex  // Protects concurrent access to compression state
	closed  bool          // Set once Close released the encoder and decoder
	decoder *zstd.Decoder // Thread-safe decoder instance for decompression
	encoder *zstd.Encoder // Thread-safe encoder instance for compression
}

// Compression level constants define the trade-off between compression ratio and speed.
const (
	FastestLevel = uint8(zstd.SpeedFastest)           // Optimized for speed with minimal compression
	DefaultLevel = uint8(zstd.SpeedDefault)           // Balanced between speed and compression ratio
	BestLevel    = uint8(zstd.SpeedBestCompression)   // Maximum compression ratio, higher CPU usage
	BetterLevel  = uint8(zstd.SpeedBetterCompression) // Better ratio at roughly twice the CPU cost
)

// NewZstd creates a new zstd compression stage.
//
// Returns an error if:
// - The compression level is invalid
// - The encoder or decoder initialization fails
func NewZstd(opts domain.CompressionOptions) (*Zstd, error) {
	if err := Validate(&opts); err != nil {
		return nil, err
	}

	encoder, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderLevel(zstd.EncoderLevel(opts.Level)),
		zstd.WithEncoderConcurrency(concurrency(opts.EncoderConcurrency)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(concurrency(opts.DecoderConcurrency)))
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &Zstd{encoder: encoder, decoder: decoder, level: opts.Level}, nil
}

// Transform compresses a record as a pipeline stage.
func (z *Zstd) Transform(data []byte) ([]byte, error) {
	return z.Compress(data)
}

// Compress encodes data as a single zstd frame.
// The operation is thread-safe and can be called concurrently.
func (z *Zstd) Compress(data []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.closed {
		return nil, ErrClosed
	}

	return z.encoder.EncodeAll(data, make([]byte, 0, len(data)/2+16)), nil
}

// Decompress restores the original data from one or more concatenated frames.
// The operation is thread-safe and can be called concurrently.
func (z *Zstd) Decompress(data []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.closed {
		return nil, ErrClosed
	}

	decompressed, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}

	return decompressed, nil
}

// Level returns the current compression level.
func (z *Zstd) Level() uint8 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.level
}

// Close releases the encoder and decoder. The stage cannot be used afterwards.
func (z *Zstd) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.closed {
		return nil
	}
	z.closed = true

	if err := z.encoder.Close(); err != nil {
		return fmt.Errorf("error closing encoder : %w", err)
	}

	z.decoder.Close()
	return nil
}
