// Package engine routes log calls to sinks: a rotating file, the console or
// several of them at once.
package engine

import (
	"github.com/iamNilotpal/rotlog/internal/core/domain"
)

// DefaultCategory is used by engines created without a category.
const DefaultCategory = "default"

// Engine writes the items of one log call to its sink.
type Engine interface {
	Write(meta domain.Metadata, items ...any)
	Flush() error
}

// RecordWriter is the part of a rotating stream an engine needs.
type RecordWriter interface {
	WriteRecord(items []any, meta domain.Metadata)
	Flush() error
}

// Streamed writes records into a RecordWriter, usually a *stream.Stream
// which formats and transforms them.
type Streamed struct {
	category string
	stream   RecordWriter
}

func NewStreamed(defaultCategory string, stream RecordWriter) *Streamed {
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	return &Streamed{category: defaultCategory, stream: stream}
}

func (e *Streamed) Write(meta domain.Metadata, items ...any) {
	if meta.Category == "" {
		meta.Category = e.category
	}
	e.stream.WriteRecord(items, meta)
}

func (e *Streamed) Flush() error {
	return e.stream.Flush()
}
