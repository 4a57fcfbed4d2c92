// Package format turns the items of a log call into the text written to a sink.
package format

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/iamNilotpal/rotlog/pkg/pool"
)

// Option selects the optional parts of a message.
type Option uint32

const (
	PrintFile Option = 1 << iota
	PrintLine
	PrintCategory
)

const (
	// DefaultOptions prints every optional part.
	DefaultOptions = PrintFile | PrintLine | PrintCategory
	// ConsoleOptions omits the category, which console sinks show on their own.
	ConsoleOptions = PrintFile | PrintLine

	defaultBufferSize = 256
)

// MessageConstructor builds messages shaped like
//
//	[<category>] <type> <items joined by separator>
//	<file>:<line><terminator>
//
// It is safe for concurrent use.
type MessageConstructor struct {
	options   Option
	converter TypeConverter
	buffers   *pool.BufferPool
}

// NewMessageConstructor creates a constructor printing the parts selected by options.
func NewMessageConstructor(options Option, converter TypeConverter) *MessageConstructor {
	return &MessageConstructor{
		options:   options,
		converter: converter,
		buffers:   pool.NewBufferPool(defaultBufferSize),
	}
}

// Default prints every part with both type name and circle.
func Default() *MessageConstructor {
	return NewMessageConstructor(DefaultOptions, DefaultTypeConverter())
}

// Console prints everything but the category.
func Console() *MessageConstructor {
	return NewMessageConstructor(ConsoleOptions, DefaultTypeConverter())
}

// Format implements ports.Formatter. It returns nil when there are no items.
func (mc *MessageConstructor) Format(items []any, meta domain.Metadata) []byte {
	if len(items) == 0 {
		return nil
	}
	meta = meta.WithDefaults()

	buf := mc.buffers.Get()
	defer mc.buffers.Put(buf)

	if mc.options&PrintCategory != 0 {
		buf.WriteByte('[')
		buf.WriteString(meta.Category)
		buf.WriteString("] ")
	}

	if typeString := mc.converter.String(meta.Type); typeString != "" {
		buf.WriteString(typeString)
		buf.WriteByte(' ')
	}

	for i, item := range items {
		if i > 0 {
			buf.WriteString(meta.Separator)
		}
		fmt.Fprint(buf, item)
	}

	mc.writeLocation(buf, meta)
	buf.WriteString(meta.Terminator)

	return bytes.Clone(buf.Bytes())
}

func (mc *MessageConstructor) writeLocation(buf *bytes.Buffer, meta domain.Metadata) {
	printFile := mc.options&PrintFile != 0
	printLine := mc.options&PrintLine != 0
	if !printFile && !printLine {
		return
	}

	buf.WriteByte('\n')
	if printFile {
		buf.WriteString(meta.File)
	}
	if printFile && printLine {
		buf.WriteByte(':')
	}
	if printLine {
		buf.WriteString(strconv.Itoa(meta.Line))
	}
}
