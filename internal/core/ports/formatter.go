package ports

import "github.com/iamNilotpal/rotlog/internal/core/domain"

// Formatter encodes the items of a record into the bytes written to a sink.
// A nil result means there is nothing to write.
type Formatter interface {
	Format(items []any, meta domain.Metadata) []byte
}

// FormatterFunc adapts an ordinary function to the Formatter interface.
type FormatterFunc func(items []any, meta domain.Metadata) []byte

func (f FormatterFunc) Format(items []any, meta domain.Metadata) []byte {
	return f(items, meta)
}
