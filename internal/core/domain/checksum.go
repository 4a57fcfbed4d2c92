package domain

// ChecksumAlgorithm represents supported checksum algorithms
type ChecksumAlgorithm string

// ChecksumOptions defines how frames written by the framing transform are protected.
type ChecksumOptions struct {
	// Enable controls whether a checksum is appended to every frame.
	//
	// Default: true
	Enable bool

	// Algorithm specifies which checksum algorithm to use.
	// Defaults to CRC32IEEE if not specified.
	Algorithm ChecksumAlgorithm
}
