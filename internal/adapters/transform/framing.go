package transform

import (
	"errors"
	"fmt"

	"github.com/iamNilotpal/rotlog/internal/core/ports"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrChecksumMismatch is returned by ReadFrames when a frame fails verification.
var ErrChecksumMismatch = errors.New("frame checksum mismatch")

// Framing prefixes each record with its varint encoded length, the same
// encoding protobuf uses for length-delimited fields, and optionally appends
// a fixed 64-bit checksum. It makes binary stages (compression, encryption)
// splittable again when the file is read back.
type Framing struct {
	checksum ports.ChecksumPort
}

// NewFraming creates a framing stage. A nil checksum writes bare frames.
func NewFraming(checksum ports.ChecksumPort) *Framing {
	return &Framing{checksum: checksum}
}

// Transform wraps data into a single frame.
func (f *Framing) Transform(data []byte) ([]byte, error) {
	size := protowire.SizeBytes(len(data))
	if f.checksum != nil {
		size += protowire.SizeFixed64()
	}

	frame := protowire.AppendBytes(make([]byte, 0, size), data)
	if f.checksum != nil {
		frame = protowire.AppendFixed64(frame, f.checksum.Calculate(data))
	}

	return frame, nil
}

// ReadFrames splits data written by a Framing stage configured with the same
// checksum back into the original records.
func ReadFrames(data []byte, checksum ports.ChecksumPort) ([][]byte, error) {
	var frames [][]byte

	for offset := 0; offset < len(data); {
		payload, n := protowire.ConsumeBytes(data[offset:])
		if n < 0 {
			return frames, fmt.Errorf("invalid frame at offset %d: %w", offset, protowire.ParseError(n))
		}
		offset += n

		if checksum != nil {
			sum, m := protowire.ConsumeFixed64(data[offset:])
			if m < 0 {
				return frames, fmt.Errorf("invalid frame checksum at offset %d: %w", offset, protowire.ParseError(m))
			}
			offset += m

			if !checksum.Verify(payload, sum) {
				return frames, fmt.Errorf("frame ending at offset %d: %w", offset, ErrChecksumMismatch)
			}
		}

		frames = append(frames, payload)
	}

	return frames, nil
}
