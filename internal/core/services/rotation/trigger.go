package rotation

// ShouldRotate reports whether a file of size bytes has reached limit.
// A limit of zero or less never triggers.
func ShouldRotate(size, limit int64) bool {
	return limit > 0 && size >= limit
}

// SizeLimit rotates once the active file holds at least that many bytes.
// SizeLimit(0) disables rotation.
type SizeLimit int64

func (l SizeLimit) ShouldRotate(size int64) bool {
	return ShouldRotate(size, int64(l))
}
