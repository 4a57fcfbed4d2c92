package stream

import (
	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/iamNilotpal/rotlog/internal/core/ports"
	"github.com/iamNilotpal/rotlog/internal/core/services/pipeline"
	"go.uber.org/zap"
)

// Option configures a Stream at Open.
type Option func(*settings)

type settings struct {
	options   domain.StreamOptions
	fs        ports.FileSystem
	formatter ports.Formatter
	pipeline  *pipeline.Pipeline
	log       *zap.SugaredLogger
	onError   func(error)

	trigger     ports.RotationTrigger
	triggerSet  bool
	transfer    ports.TransferPolicy
	transferSet bool
}

// WithOptions replaces the stream options.
func WithOptions(opts domain.StreamOptions) Option {
	return func(s *settings) {
		s.options = opts
	}
}

// WithLimits rotates once the active file holds limit bytes, keeping up to
// maxBackups files. A limit of zero disables size based rotation.
func WithLimits(limit int64, maxBackups int) Option {
	return func(s *settings) {
		s.options.MaxSize = limit
		s.options.MaxBackups = maxBackups
	}
}

// WithSyncOnWrite fsyncs the file after every record.
func WithSyncOnWrite(enable bool) Option {
	return func(s *settings) {
		s.options.SyncOnWrite = enable
	}
}

// WithFormatter sets the encoder used by WriteRecord. Defaults to format.Default().
func WithFormatter(f ports.Formatter) Option {
	return func(s *settings) {
		s.formatter = f
	}
}

// WithPipeline shares an existing pipeline with the stream.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(s *settings) {
		s.pipeline = p
	}
}

// WithTransformers appends stages to the stream's pipeline.
func WithTransformers(stages ...ports.Transformer) Option {
	return func(s *settings) {
		if s.pipeline == nil {
			s.pipeline = pipeline.New()
		}
		s.pipeline.Add(stages...)
	}
}

// WithTrigger replaces the size based trigger. A nil trigger disables
// automatic rotation; Rotate still works.
func WithTrigger(t ports.RotationTrigger) Option {
	return func(s *settings) {
		s.trigger = t
		s.triggerSet = true
	}
}

// WithTransferPolicy replaces the counting policy. A nil policy disables
// rotation entirely.
func WithTransferPolicy(p ports.TransferPolicy) Option {
	return func(s *settings) {
		s.transfer = p
		s.transferSet = true
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// WithErrorHandler registers a callback receiving every error that a write,
// sync or rotation runs into. It is called without the stream lock held but
// must not block for long, it runs on the writing goroutine.
func WithErrorHandler(fn func(error)) Option {
	return func(s *settings) {
		s.onError = fn
	}
}

// WithFileSystem replaces the host filesystem, mainly for tests.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(s *settings) {
		s.fs = fs
	}
}
