// Package checksum provides the checksum algorithms used to protect frames
// written by the framing transform.
package checksum

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"hash/crc64"

	"github.com/cespare/xxhash/v2"
	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/iamNilotpal/rotlog/internal/core/ports"
)

const (
	// CRC32IEEE uses the IEEE polynomial for CRC32 checksums
	CRC32IEEE domain.ChecksumAlgorithm = "crc32-ieee"

	// CRC64ISO uses the ISO polynomial for CRC64 checksums
	CRC64ISO domain.ChecksumAlgorithm = "crc64-iso"

	// CRC64ECMA uses the ECMA polynomial for CRC64 checksums
	CRC64ECMA domain.ChecksumAlgorithm = "crc64-ecma"

	// SHA1 provides SHA-1 checksums truncated to 64 bits
	SHA1 domain.ChecksumAlgorithm = "sha1"

	// SHA256 provides SHA-256 checksums truncated to 64 bits
	SHA256 domain.ChecksumAlgorithm = "sha256"

	// XXHash64 is a fast non-cryptographic 64-bit hash
	XXHash64 domain.ChecksumAlgorithm = "xxhash64"
)

// Returns recommended checksum settings.
func DefaultOptions() *domain.ChecksumOptions {
	return &domain.ChecksumOptions{
		Enable:    true,
		Algorithm: CRC32IEEE,
	}
}

func Validate(input *domain.ChecksumOptions) error {
	switch input.Algorithm {
	case CRC32IEEE, CRC64ISO, CRC64ECMA, SHA1, SHA256, XXHash64:
		return nil
	default:
		return fmt.Errorf("unsupported checksum algorithm: %s", input.Algorithm)
	}
}

// NewCheckSummer returns the implementation of the given algorithm.
func NewCheckSummer(algorithm domain.ChecksumAlgorithm) (ports.ChecksumPort, error) {
	switch algorithm {
	case CRC32IEEE, "":
		return &crc32Checksum{name: string(CRC32IEEE), table: crc32.MakeTable(crc32.IEEE)}, nil
	case CRC64ISO:
		return &crc64Checksum{name: string(CRC64ISO), table: crc64.MakeTable(crc64.ISO)}, nil
	case CRC64ECMA:
		return &crc64Checksum{name: string(CRC64ECMA), table: crc64.MakeTable(crc64.ECMA)}, nil
	case SHA1:
		return &digestChecksum{name: string(SHA1), newHash: sha1.New}, nil
	case SHA256:
		return &digestChecksum{name: string(SHA256), newHash: sha256.New}, nil
	case XXHash64:
		return xxhashChecksum{}, nil
	default:
		return nil, fmt.Errorf("unsupported checksum algorithm: %s", algorithm)
	}
}

type crc32Checksum struct {
	name  string
	table *crc32.Table
}

func (c *crc32Checksum) Calculate(data []byte) uint64 {
	return uint64(crc32.Checksum(data, c.table))
}

func (c *crc32Checksum) Verify(data []byte, expected uint64) bool {
	return c.Calculate(data) == expected
}

func (c *crc32Checksum) Size() uint8 {
	return crc32.Size
}

func (c *crc32Checksum) Name() string {
	return c.name
}

type crc64Checksum struct {
	name  string
	table *crc64.Table
}

func (c *crc64Checksum) Calculate(data []byte) uint64 {
	return crc64.Checksum(data, c.table)
}

func (c *crc64Checksum) Verify(data []byte, expected uint64) bool {
	return c.Calculate(data) == expected
}

func (c *crc64Checksum) Size() uint8 {
	return crc64.Size
}

func (c *crc64Checksum) Name() string {
	return c.name
}

// digestChecksum keeps the first 8 bytes of a cryptographic digest.
type digestChecksum struct {
	name    string
	newHash func() hash.Hash
}

func (d *digestChecksum) Calculate(data []byte) uint64 {
	h := d.newHash()
	h.Write(data)
	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}

func (d *digestChecksum) Verify(data []byte, expected uint64) bool {
	return d.Calculate(data) == expected
}

func (d *digestChecksum) Size() uint8 {
	return 8
}

func (d *digestChecksum) Name() string {
	return d.name
}

type xxhashChecksum struct{}

func (xxhashChecksum) Calculate(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func (x xxhashChecksum) Verify(data []byte, expected uint64) bool {
	return x.Calculate(data) == expected
}

func (xxhashChecksum) Size() uint8 {
	return 8
}

func (xxhashChecksum) Name() string {
	return string(XXHash64)
}
