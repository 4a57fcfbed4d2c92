package engine

import (
	"strings"

	"github.com/iamNilotpal/rotlog/internal/adapters/format"
	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/iamNilotpal/rotlog/internal/core/ports"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Console writes records through a zap logger, mapping log types to zap
// levels. The category travels as a field instead of a message prefix.
type Console struct {
	category  string
	log       *zap.Logger
	formatter ports.Formatter
}

// NewConsole creates a console engine. A nil formatter uses format.Console().
func NewConsole(defaultCategory string, log *zap.Logger, formatter ports.Formatter) *Console {
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	if formatter == nil {
		formatter = format.Console()
	}
	return &Console{category: defaultCategory, log: log, formatter: formatter}
}

func (e *Console) Write(meta domain.Metadata, items ...any) {
	if meta.Category == "" {
		meta.Category = e.category
	}

	msg := e.formatter.Format(items, meta)
	if msg == nil {
		return
	}

	// zap terminates every entry on its own.
	text := strings.TrimSuffix(string(msg), meta.WithDefaults().Terminator)
	if ce := e.log.Check(Level(meta.Type), text); ce != nil {
		ce.Write(zap.String("category", meta.Category), zap.Stringer("type", meta.Type))
	}
}

func (e *Console) Flush() error {
	return e.log.Sync()
}

// Level maps a log type to the zap level it is logged at.
func Level(t domain.LogType) zapcore.Level {
	switch t {
	case domain.LogDebug:
		return zapcore.DebugLevel
	case domain.LogError, domain.LogFault:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
