package transform

import (
	"encoding/base64"
	"errors"
)

// ErrEmptyKey is returned when an obfuscation key is empty.
var ErrEmptyKey = errors.New("obfuscation key must not be empty")

// Base64Lines encodes each record with standard base64 and terminates it
// with a newline, keeping binary stages line oriented on disk.
func Base64Lines() Func {
	return Infallible(func(data []byte) []byte {
		out := make([]byte, base64.StdEncoding.EncodedLen(len(data))+1)
		base64.StdEncoding.Encode(out, data)
		out[len(out)-1] = '\n'
		return out
	})
}

// XOR obfuscates each record with a repeating key. Applying the same stage
// twice restores the input. It hides content from casual reading only.
func XOR(key []byte) (Func, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	key = append([]byte(nil), key...)
	return Infallible(func(data []byte) []byte {
		out := make([]byte, len(data))
		for i, b := range data {
			out[i] = b ^ key[i%len(key)]
		}
		return out
	}), nil
}
