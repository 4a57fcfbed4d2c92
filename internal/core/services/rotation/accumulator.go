// Package rotation decides when the active log file is full and moves it
// into the numbered backup set when it is.
package rotation

// SizeAccumulator counts the bytes appended to the active file since it was
// opened or last rotated. It is not safe for concurrent use; the owning
// stream guards it together with the file handle.
type SizeAccumulator struct {
	size int64
}

// NewSizeAccumulator starts counting from the length of an existing file.
func NewSizeAccumulator(initial int64) *SizeAccumulator {
	if initial < 0 {
		initial = 0
	}
	return &SizeAccumulator{size: initial}
}

// Add advances the count by n bytes actually written. Negative values are ignored.
func (a *SizeAccumulator) Add(n int) int64 {
	if n > 0 {
		a.size += int64(n)
	}
	return a.size
}

// Reset sets the count to size, typically 0 after a rotation or the real
// length of a file that was reopened.
func (a *SizeAccumulator) Reset(size int64) {
	if size < 0 {
		size = 0
	}
	a.size = size
}

func (a *SizeAccumulator) Size() int64 {
	return a.size
}
