package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/klauspost/compress/gzip"
)

// ErrClosed is returned by a compression stage used after Close.
var ErrClosed = errors.New("compressor is closed")

const (
	GzipFastestLevel = uint8(gzip.BestSpeed)       // 1
	GzipDefaultLevel = uint8(6)                    // gzip's own default
	GzipBestLevel    = uint8(gzip.BestCompression) // 9
)

// Gzip implements CompressionPort with gzip members. Concatenated members
// are a valid multi-member gzip file, readable with zcat.
type Gzip struct {
	level   uint8
	writers sync.Pool
	mu      sync.RWMutex
	closed  bool
}

// NewGzip creates a gzip compression stage.
func NewGzip(opts domain.CompressionOptions) (*Gzip, error) {
	if err := ValidateGzip(&opts); err != nil {
		return nil, err
	}

	g := &Gzip{level: opts.Level}
	g.writers.New = func() any {
		// The level is validated above, NewWriterLevel cannot fail.
		w, _ := gzip.NewWriterLevel(io.Discard, int(opts.Level))
		return w
	}

	return g, nil
}

// Transform compresses a record as a pipeline stage.
func (g *Gzip) Transform(data []byte) ([]byte, error) {
	return g.Compress(data)
}

// Compress encodes data as a single gzip member.
func (g *Gzip) Compress(data []byte) ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.closed {
		return nil, ErrClosed
	}

	var buf bytes.Buffer
	w := g.writers.Get().(*gzip.Writer)
	defer g.writers.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress restores the data of one or more concatenated members.
func (g *Gzip) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	defer r.Close()

	decompressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}

	return decompressed, nil
}

// Level returns the current compression level.
func (g *Gzip) Level() uint8 {
	return g.level
}

// Close marks the stage closed; pooled writers are left to the garbage collector.
func (g *Gzip) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}
