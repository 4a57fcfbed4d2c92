package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrStreamClosed is returned (and reported) for any operation on a closed stream.
var ErrStreamClosed = errors.New("stream is closed")

// Kind classifies the different failures a log stream can run into.
// It lets callers and error handlers decide how to react without
// matching on message text.
type Kind int

const (
	// KindIO indicates create, open, read, write, rename or delete failures
	// of the underlying filesystem.
	KindIO Kind = iota + 1

	// KindInvalidTarget indicates that the active log path cannot hold a log
	// file, for example because it refers to a directory.
	KindInvalidTarget

	// KindTransform indicates that a stage of the transform pipeline
	// rejected its input.
	KindTransform
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInvalidTarget:
		return "invalid-target"
	case KindTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// StreamError describes a failed stream operation.
type StreamError struct {
	Err       error
	Op        string
	Path      string
	Kind      Kind
	Timestamp time.Time
}

// NewStreamError creates a StreamError stamped with the current time.
func NewStreamError(kind Kind, op, path string, err error) *StreamError {
	return &StreamError{
		Err:       err,
		Op:        op,
		Path:      path,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

func (e *StreamError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%v] %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("[%v] %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether repeating the failed operation may succeed.
func (e *StreamError) IsRetryable() bool {
	switch e.Kind {
	case KindIO:
		// Disk full or a transient permission problem can go away.
		return true
	case KindInvalidTarget, KindTransform:
		return false
	default:
		return false
	}
}

// IsKind reports whether any error in err's chain is a StreamError of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
