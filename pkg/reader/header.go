package reader

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ReadLocalHeader decodes the local file header starting at offset.
//
// It fails with ErrFieldExtraction when the 30-byte fixed header does not fit
// in b. A filename that runs past the end of b is decoded from the bytes that
// are present.
func ReadLocalHeader(b []byte, offset int) (*LocalEntryHeader, error) {
	if offset < 0 || offset > len(b)-fileHeaderLen {
		return nil, fmt.Errorf("offset %d of %d bytes: %w", offset, len(b), ErrFieldExtraction)
	}
	buf := readBuf(b[offset : offset+fileHeaderLen])
	if sig := buf.uint32(); sig != fileHeaderSignature {
		return nil, ErrFormat
	}
	h := &LocalEntryHeader{}
	h.Flags = buf.skip(2).uint16()
	h.Method = buf.uint16()
	h.CRC32 = buf.skip(4).uint32()
	h.CompressedSize = buf.uint32()
	h.NameLen = buf.skip(4).uint16()
	h.ExtraLen = buf.uint16()

	start := offset + fileHeaderLen
	end := min(start+int(h.NameLen), len(b))
	h.Name = decodeName(b[start:end])
	return h, nil
}

// decodeName converts raw filename bytes to text, substituting one
// utf8.RuneError for every byte that is not part of a valid encoding.
func decodeName(p []byte) string {
	if utf8.Valid(p) {
		return string(p)
	}
	var sb strings.Builder
	sb.Grow(len(p))
	for len(p) > 0 {
		r, size := utf8.DecodeRune(p)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(p[:size])
		}
		p = p[size:]
	}
	return sb.String()
}
