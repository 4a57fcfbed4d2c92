package engine

import (
	"path/filepath"
	"runtime"

	"github.com/iamNilotpal/rotlog/internal/core/domain"
)

// Logger is a convenience front end for an Engine. It stamps every record
// with its category and the file and line of the caller.
type Logger struct {
	engine   Engine
	category string
}

// NewLogger creates a logger. An empty category leaves the choice to the engine.
func NewLogger(engine Engine, category string) *Logger {
	return &Logger{engine: engine, category: category}
}

// With returns a logger for another category sharing the same engine.
func (l *Logger) With(category string) *Logger {
	return &Logger{engine: l.engine, category: category}
}

func (l *Logger) Log(items ...any)   { l.write(domain.LogDefault, items) }
func (l *Logger) Debug(items ...any) { l.write(domain.LogDebug, items) }
func (l *Logger) Info(items ...any)  { l.write(domain.LogInfo, items) }
func (l *Logger) Error(items ...any) { l.write(domain.LogError, items) }
func (l *Logger) Fault(items ...any) { l.write(domain.LogFault, items) }

func (l *Logger) Flush() error {
	return l.engine.Flush()
}

func (l *Logger) write(t domain.LogType, items []any) {
	meta := domain.Metadata{Category: l.category, Type: t}

	// Skip write and the exported helper.
	if _, file, line, ok := runtime.Caller(2); ok {
		meta.File = filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file))
		meta.Line = line
	}

	l.engine.Write(meta, items...)
}
