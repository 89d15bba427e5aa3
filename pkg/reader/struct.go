package reader

import (
	"errors"
)

var (
	// ErrFormat indicates a record that does not conform to the zip specification
	ErrFormat = errors.New("zip: invalid record format")
	// ErrFieldExtraction indicates a local file header whose fixed fields run past the end of the buffer
	ErrFieldExtraction = errors.New("zip: local file header truncated")
	// ErrCommentLength indicates an invalid comment length
	ErrCommentLength = errors.New("zip: invalid comment length")
)

const (
	directoryEndLen    = 22
	directoryHeaderLen = 46
	fileHeaderLen      = 30 // + filename + extra

	directoryEndSignature    = 0x06054b50
	directoryHeaderSignature = 0x02014b50
	fileHeaderSignature      = 0x04034b50

	// flagDataDescriptor is general purpose bit 3: sizes follow the payload
	flagDataDescriptor = 0x8

	// DefaultTailLimit bounds the payload of a final entry whose declared size is unusable.
	DefaultTailLimit = 1 << 20
)

// LocalEntryHeader holds the fixed fields and name decoded from one local file header.
type LocalEntryHeader struct {
	// Name is the decoded filename. Invalid UTF-8 bytes are replaced with U+FFFD.
	Name           string
	NameLen        uint16
	ExtraLen       uint16
	Flags          uint16
	Method         uint16
	CRC32          uint32
	CompressedSize uint32
}

// HasDataDescriptor reports whether the writer deferred sizes to a trailing data descriptor.
func (h *LocalEntryHeader) HasDataDescriptor() bool {
	return h.Flags&flagDataDescriptor != 0
}

// DirectoryHeader describes a central directory record found by the scanner.
type DirectoryHeader struct {
	Offset             int
	Name               string
	Method             uint16
	CompressedSize64   uint64
	UncompressedSize64 uint64
	HeaderOffset       int64
}

// DirectoryEnd describes an EOCD record
type DirectoryEnd struct {
	Offset           int
	DirectoryRecords uint64
	DirectorySize    uint64
	DirectoryOffset  uint64 // relative to file
	Comment          string
}
