package transform

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"slices"
	"testing"

	"github.com/iamNilotpal/rotlog/internal/adapters/checksum"
	"github.com/iamNilotpal/rotlog/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.Transformer = Func(nil)
	_ ports.Transformer = (*Framing)(nil)
)

func TestFuncTransformIsCalled(t *testing.T) {
	reverse := Infallible(func(data []byte) []byte {
		out := slices.Clone(data)
		slices.Reverse(out)
		return out
	})

	out, err := reverse.Transform([]byte("Hello, World!"))
	require.NoError(t, err)
	assert.Equal(t, "!dlroW ,olleH", string(out))

	failing := Func(func([]byte) ([]byte, error) { return nil, errors.New("rejected") })
	_, err = failing.Transform([]byte("x"))
	assert.EqualError(t, err, "rejected")
}

func TestFramingRoundTrip(t *testing.T) {
	crc, err := checksum.NewCheckSummer(checksum.CRC32IEEE)
	require.NoError(t, err)

	for name, sum := range map[string]ports.ChecksumPort{"bare": nil, "crc32": crc} {
		t.Run(name, func(t *testing.T) {
			framing := NewFraming(sum)
			records := [][]byte{[]byte("first"), {}, bytes.Repeat([]byte{0xff}, 300)}

			var file []byte
			for _, record := range records {
				frame, err := framing.Transform(record)
				require.NoError(t, err)
				file = append(file, frame...)
			}

			frames, err := ReadFrames(file, sum)
			require.NoError(t, err)
			require.Len(t, frames, len(records))
			for i := range records {
				assert.True(t, bytes.Equal(records[i], frames[i]))
			}
		})
	}
}

func TestReadFramesDetectsCorruption(t *testing.T) {
	crc, err := checksum.NewCheckSummer(checksum.CRC32IEEE)
	require.NoError(t, err)

	frame, err := NewFraming(crc).Transform([]byte("payload"))
	require.NoError(t, err)

	corrupted := slices.Clone(frame)
	corrupted[2] ^= 0x01
	_, err = ReadFrames(corrupted, crc)
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	_, err = ReadFrames(frame[:len(frame)-3], crc)
	assert.Error(t, err)

	frames, err := ReadFrames(append(slices.Clone(frame), 0x05), crc)
	assert.Error(t, err)
	assert.Len(t, frames, 1)
}

func TestBase64Lines(t *testing.T) {
	stage := Base64Lines()

	var file []byte
	for _, record := range []string{"one", "two\nlines", ""} {
		out, err := stage.Transform([]byte(record))
		require.NoError(t, err)
		file = append(file, out...)
	}

	var decoded []string
	scanner := bufio.NewScanner(bytes.NewReader(file))
	for scanner.Scan() {
		raw, err := base64.StdEncoding.DecodeString(scanner.Text())
		require.NoError(t, err)
		decoded = append(decoded, string(raw))
	}
	assert.Equal(t, []string{"one", "two\nlines", ""}, decoded)
}

func TestXOR(t *testing.T) {
	_, err := XOR(nil)
	assert.ErrorIs(t, err, ErrEmptyKey)

	key := []byte("k3y")
	stage, err := XOR(key)
	require.NoError(t, err)
	key[0] = 'x'

	hidden, err := stage.Transform([]byte("secret token"))
	require.NoError(t, err)
	assert.NotEqual(t, "secret token", string(hidden))

	restored, err := stage.Transform(hidden)
	require.NoError(t, err)
	assert.Equal(t, "secret token", string(restored))
}
