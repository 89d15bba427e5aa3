package reader

import (
	"rsc.io/binaryregexp"
)

// The three record signatures share no border, so leftmost non-overlapping
// matches visit every occurrence exactly once.
var signaturePattern = binaryregexp.MustCompile(`PK(?:\x03\x04|\x01\x02|\x05\x06)`)

// SignatureSet holds the offsets of every record signature found in a buffer.
type SignatureSet struct {
	// LocalHeaders lists local file header offsets in ascending order.
	LocalHeaders []int
	// DirectoryHeaders lists central directory header offsets in ascending order.
	DirectoryHeaders []int
	// DirectoryEnd is the offset of the last EOCD signature, or -1.
	DirectoryEnd int
}

// HasDirectoryEnd reports whether an EOCD signature was found.
func (s SignatureSet) HasDirectoryEnd() bool { return s.DirectoryEnd >= 0 }

// Next returns the offset of the local header following index i, or -1 if i is the last one.
func (s SignatureSet) Next(i int) int {
	if i+1 < len(s.LocalHeaders) {
		return s.LocalHeaders[i+1]
	}
	return -1
}

// Scan finds all local header, central directory header and EOCD signatures in b.
func Scan(b []byte) SignatureSet {
	set := SignatureSet{DirectoryEnd: -1}
	for _, m := range signaturePattern.FindAllIndex(b, -1) {
		p := m[0]
		sig := readBuf(b[p:])
		switch sig.uint32() {
		case fileHeaderSignature:
			set.LocalHeaders = append(set.LocalHeaders, p)
		case directoryHeaderSignature:
			set.DirectoryHeaders = append(set.DirectoryHeaders, p)
		case directoryEndSignature:
			set.DirectoryEnd = p
		}
	}
	return set
}
