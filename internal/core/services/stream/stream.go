// Package stream appends log records to a file and rotates it into numbered
// backups once it grows past a size limit.
package stream

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/rotlog/internal/adapters/format"
	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/iamNilotpal/rotlog/internal/core/ports"
	"github.com/iamNilotpal/rotlog/internal/core/services/pipeline"
	"github.com/iamNilotpal/rotlog/internal/core/services/rotation"
	rerrors "github.com/iamNilotpal/rotlog/pkg/errors"
	"github.com/iamNilotpal/rotlog/pkg/fs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const openFlags = os.O_CREATE | os.O_RDWR | os.O_APPEND

var (
	_ io.WriteCloser      = (*Stream)(nil)
	_ zapcore.WriteSyncer = (*Stream)(nil)
)

// Stream is a file backed log sink. Every record is formatted, run through
// the transform pipeline and appended to the active file as a single write.
// When the trigger fires the transfer policy moves the file into the backup
// set and a fresh file takes its place.
//
// A Stream is safe for concurrent use. Records from one goroutine keep their
// order; records from different goroutines never interleave.
type Stream struct {
	path    string // Logical path of the active file, never the symlink target.
	options *domain.StreamOptions

	fs        ports.FileSystem
	formatter ports.Formatter
	pipeline  *pipeline.Pipeline
	trigger   ports.RotationTrigger // nil disables automatic rotation.
	transfer  ports.TransferPolicy  // nil disables rotation entirely.
	log       *zap.SugaredLogger

	// Error reporting side channel.
	onError    func(error)
	errs       chan error
	errsMu     sync.RWMutex // Guards errsClosed against concurrent sends.
	errsClosed bool
	dropped    atomic.Uint64

	// mu guards the handle, the accumulator and the closed flag as a unit.
	mu     sync.Mutex
	file   *os.File
	size   *rotation.SizeAccumulator
	closed bool
}

// Open opens or creates the log file at path. Missing parent directories are
// created. If the file already reached the rotation limit it is rotated once
// before Open returns. Open fails when that rotation leaves the oversized file
// in place; a rotation that moved the active file but stumbled on an older
// backup is only reported through the error handler and the Errors channel.
func Open(path string, opts ...Option) (*Stream, error) {
	cfg := settings{options: *DefaultOptions()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := Validate(path, &cfg.options); err != nil {
		return nil, err
	}
	options := prepareDefaults(&cfg.options)

	if cfg.fs == nil {
		cfg.fs = fs.NewLocalFileSystem()
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop().Sugar()
	}
	if cfg.formatter == nil {
		cfg.formatter = format.Default()
	}
	if cfg.pipeline == nil {
		cfg.pipeline = pipeline.New()
	}
	if !cfg.triggerSet && options.MaxSize > 0 {
		cfg.trigger = rotation.SizeLimit(options.MaxSize)
	}
	if !cfg.transferSet {
		cfg.transfer = rotation.NewCountingTransferPolicy(
			options.MaxBackups,
			rotation.WithTransferFileSystem(cfg.fs),
			rotation.WithTransferLogger(cfg.log),
			rotation.WithTransferPermission(options.FilePermission),
		)
	}

	s := &Stream{
		path:      filepath.Clean(path),
		options:   options,
		fs:        cfg.fs,
		formatter: cfg.formatter,
		pipeline:  cfg.pipeline,
		trigger:   cfg.trigger,
		transfer:  cfg.transfer,
		log:       cfg.log.With("path", filepath.Clean(path)),
		onError:   cfg.onError,
		errs:      make(chan error, options.ErrorBuffer),
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), options.DirPermission); err != nil {
		return nil, rerrors.NewStreamError(rerrors.KindIO, "create directory", filepath.Dir(s.path), err)
	}

	if info, err := s.fs.Stat(s.path); err == nil && info.IsDir() {
		return nil, rerrors.NewStreamError(
			rerrors.KindInvalidTarget, "open", s.path, errors.New("path is a directory"),
		)
	}

	file, size, err := s.openActive()
	if err != nil {
		return nil, err
	}
	s.file = file
	s.size = rotation.NewSizeAccumulator(size)

	if s.shouldRotate() {
		s.log.Infow("Active file reached its limit, rotating before first write", "size", size)
		if err := s.rotateLocked(); err != nil {
			if s.file == nil || s.shouldRotate() {
				if s.file != nil {
					s.file.Close()
					s.file = nil
				}
				return nil, err
			}
			s.report(err)
		}
	}

	s.log.Debugw("Stream opened", "size", s.size.Size(), "maxSize", options.MaxSize, "maxBackups", options.MaxBackups)
	return s, nil
}

// OpenWithLimits opens a stream rotating at limit bytes and keeping up to
// maxBackups files.
func OpenWithLimits(path string, limit int64, maxBackups int, opts ...Option) (*Stream, error) {
	return Open(path, append([]Option{WithLimits(limit, maxBackups)}, opts...)...)
}

// WriteRecord formats items and appends them as one record. It never
// fails; errors are delivered to the error handler and the Errors channel.
// A record that formats to nothing is skipped without touching the file.
func (s *Stream) WriteRecord(items []any, meta domain.Metadata) {
	data := s.formatter.Format(items, meta)
	if data == nil {
		return
	}

	if _, err := s.append(data); err != nil {
		s.report(err)
	}
}

// Write appends p as one record after running it through the pipeline.
// It lets a Stream back an io.Writer or a zap core. Once the record is in
// the file it reports len(p) bytes written, whatever the pipeline made of
// them, even if the sync or rotation that follows fails.
func (s *Stream) Write(p []byte) (int, error) {
	n, err := s.append(p)
	if err != nil {
		s.report(err)
	}
	return n, err
}

// append returns len(data) once the transformed record reached the file.
func (s *Stream) append(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, rerrors.ErrStreamClosed
	}

	out, err := s.pipeline.Apply(data)
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return len(data), nil
	}

	if s.file == nil {
		// A previous rotation could not reopen the active file.
		if err := s.reopen(); err != nil {
			s.logReopenFailure(err)
			return 0, err
		}
	}

	n, err := s.file.Write(out)
	s.size.Add(n)
	if err != nil {
		return 0, rerrors.NewStreamError(rerrors.KindIO, "write", s.path, err)
	}

	if s.options.SyncOnWrite {
		if err := s.file.Sync(); err != nil {
			return len(data), rerrors.NewStreamError(rerrors.KindIO, "sync", s.path, err)
		}
	}

	if s.shouldRotate() {
		return len(data), s.rotateLocked()
	}

	return len(data), nil
}

// Rotate moves the active file into the backup set now, whatever its size.
func (s *Stream) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return rerrors.ErrStreamClosed
	}

	return s.rotateLocked()
}

func (s *Stream) shouldRotate() bool {
	return s.trigger != nil && s.transfer != nil && s.trigger.ShouldRotate(s.size.Size())
}

// rotateLocked releases the current handle before the transfer policy runs,
// then opens whatever is at the active path afterwards. If the policy could
// not move the active file the stream keeps appending to it.
func (s *Stream) rotateLocked() error {
	if s.transfer == nil {
		return nil
	}

	if s.file != nil {
		if err := s.file.Sync(); err != nil {
			s.log.Warnw("Failed to sync file before rotation", "error", err)
		}
		if err := s.file.Close(); err != nil {
			s.log.Warnw("Failed to close file before rotation", "error", err)
		}
		s.file = nil
	}

	rotated := s.size.Size()
	oldest, perr := rotation.NextBackupPath(s.fs, s.path, s.options.MaxBackups-1)
	if perr != nil {
		s.log.Debugw("Failed to resolve oldest backup path", "error", perr)
	}

	err := s.transfer.Perform(s.path, true)
	if err != nil {
		s.log.Errorw("Rotation failed", "size", rotated, "error", err)
	}

	if rerr := s.reopen(); rerr != nil {
		s.logReopenFailure(rerr)
		return multierr.Append(err, rerr)
	}

	if err == nil {
		s.log.Infow("Rotated active file", "size", rotated, "oldestBackup", oldest)
	}
	return err
}

func (s *Stream) logReopenFailure(err error) {
	var se *rerrors.StreamError
	if errors.As(err, &se) && !se.IsRetryable() {
		s.log.Errorw("Active path is unusable, writes will keep failing until it is fixed", "error", err)
		return
	}
	s.log.Warnw("Failed to reopen active file, retrying on next write", "error", err)
}

func (s *Stream) reopen() error {
	file, size, err := s.openActive()
	if err != nil {
		return err
	}

	s.file = file
	s.size.Reset(size)
	return nil
}

// openActive opens the active path for appending and returns its length.
func (s *Stream) openActive() (*os.File, int64, error) {
	file, err := s.fs.OpenFile(s.path, openFlags, s.options.FilePermission)
	if err != nil {
		if info, serr := s.fs.Stat(s.path); serr == nil && info.IsDir() {
			return nil, 0, rerrors.NewStreamError(rerrors.KindInvalidTarget, "open", s.path, err)
		}
		return nil, 0, rerrors.NewStreamError(rerrors.KindIO, "open", s.path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, rerrors.NewStreamError(rerrors.KindIO, "stat", s.path, err)
	}

	if info.IsDir() {
		file.Close()
		return nil, 0, rerrors.NewStreamError(
			rerrors.KindInvalidTarget, "open", s.path, errors.New("path is a directory"),
		)
	}

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return nil, 0, rerrors.NewStreamError(rerrors.KindIO, "seek", s.path, err)
	}

	return file, info.Size(), nil
}

// Sync commits the active file to stable storage.
func (s *Stream) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return rerrors.ErrStreamClosed
	}
	if s.file == nil {
		return nil
	}

	if err := s.file.Sync(); err != nil {
		return rerrors.NewStreamError(rerrors.KindIO, "sync", s.path, err)
	}
	return nil
}

// Flush is an alias of Sync. Records are never buffered in memory.
func (s *Stream) Flush() error {
	return s.Sync()
}

// Close syncs and releases the active file. Subsequent writes fail with
// ErrStreamClosed. Closing twice is a no-op.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true

	var err error
	if s.file != nil {
		if serr := s.file.Sync(); serr != nil {
			err = multierr.Append(err, rerrors.NewStreamError(rerrors.KindIO, "sync", s.path, serr))
		}
		if cerr := s.file.Close(); cerr != nil {
			err = multierr.Append(err, rerrors.NewStreamError(rerrors.KindIO, "close", s.path, cerr))
		}
		s.file = nil
	}
	s.mu.Unlock()

	s.errsMu.Lock()
	s.errsClosed = true
	close(s.errs)
	s.errsMu.Unlock()

	if n := s.dropped.Load(); n > 0 {
		s.log.Warnw("Stream closed with dropped errors", "dropped", n)
	}
	return err
}

// report hands err to the error handler and the Errors channel. It runs
// without s.mu held so a handler may log through the same stream.
func (s *Stream) report(err error) {
	if s.onError != nil {
		s.onError(err)
	}

	s.errsMu.RLock()
	defer s.errsMu.RUnlock()

	if s.errsClosed {
		s.dropped.Add(1)
		return
	}

	select {
	case s.errs <- err:
	default:
		if s.dropped.Add(1) == 1 {
			s.log.Warnw("Error channel is full, dropping errors", "error", err)
		}
	}
}

// Errors returns the channel receiving write, sync and rotation errors. It
// is closed by Close. Errors are dropped while the channel is full.
func (s *Stream) Errors() <-chan error {
	return s.errs
}

// Dropped returns the number of errors that did not fit in the Errors channel.
func (s *Stream) Dropped() uint64 {
	return s.dropped.Load()
}

// Size returns the number of bytes appended to the active file since it
// was opened or last rotated.
func (s *Stream) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size.Size()
}

func (s *Stream) Path() string {
	return s.path
}

// Pipeline returns the transform pipeline, which may be modified while the
// stream is in use.
func (s *Stream) Pipeline() *pipeline.Pipeline {
	return s.pipeline
}
