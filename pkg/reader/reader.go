package reader

import (
	"encoding/binary"
	"fmt"
)

// ReadDirectoryEnd parses the EOCD record whose signature starts at offset.
func ReadDirectoryEnd(b []byte, offset int) (*DirectoryEnd, error) {
	if offset < 0 || offset > len(b)-directoryEndLen {
		return nil, fmt.Errorf("directory end at %d: %w", offset, ErrFormat)
	}
	buf := readBuf(b[offset:])
	if sig := buf.uint32(); sig != directoryEndSignature {
		return nil, ErrFormat
	}
	buf.skip(6) // disk numbers & records on this disk
	d := &DirectoryEnd{
		Offset:           offset,
		DirectoryRecords: uint64(buf.uint16()),
		DirectorySize:    uint64(buf.uint32()),
		DirectoryOffset:  uint64(buf.uint32()),
	}
	l := int(buf.uint16())
	if l > len(buf) {
		return d, ErrCommentLength
	}
	d.Comment = string(buf[:l])
	return d, nil
}

// ReadDirectoryHeader parses the central directory record whose signature starts at offset.
func ReadDirectoryHeader(b []byte, offset int) (*DirectoryHeader, error) {
	if offset < 0 || offset > len(b)-directoryHeaderLen {
		return nil, fmt.Errorf("directory header at %d: %w", offset, ErrFormat)
	}
	buf := readBuf(b[offset:])
	if sig := buf.uint32(); sig != directoryHeaderSignature {
		return nil, ErrFormat
	}
	f := &DirectoryHeader{Offset: offset}
	f.Method = buf.skip(6).uint16()
	compressed := buf.skip(8).uint32()
	uncompressed := buf.uint32()
	f.CompressedSize64 = uint64(compressed)
	f.UncompressedSize64 = uint64(uncompressed)
	filenameLen := int(buf.uint16())
	extraLen := int(buf.uint16())
	buf.skip(2) // comment length
	f.HeaderOffset = int64(buf.skip(8).uint32())

	if filenameLen > len(buf) {
		return f, fmt.Errorf("directory header at %d: name: %w", offset, ErrFormat)
	}
	f.Name = decodeName(buf.sub(filenameLen))
	if extraLen > len(buf) {
		extraLen = len(buf)
	}
	extra := buf.sub(extraLen)

	needUSize := uncompressed == ^uint32(0)
	needCSize := compressed == ^uint32(0)
	needHeaderOffset := f.HeaderOffset == int64(^uint32(0))

	for len(extra) >= 4 {
		fieldTag := extra.uint16()
		fieldSize := int(extra.uint16())
		if len(extra) < fieldSize {
			break
		}
		fieldBuf := extra.sub(fieldSize)

		if fieldTag != zip64ExtraID {
			continue
		}
		// zip64 values are only consulted if the sizes read earlier are maxed out.
		if needUSize && len(fieldBuf) >= 8 {
			needUSize = false
			f.UncompressedSize64 = fieldBuf.uint64()
		}
		if needCSize && len(fieldBuf) >= 8 {
			needCSize = false
			f.CompressedSize64 = fieldBuf.uint64()
		}
		if needHeaderOffset && len(fieldBuf) >= 8 {
			needHeaderOffset = false
			f.HeaderOffset = int64(fieldBuf.uint64())
		}
	}
	return f, nil
}

const zip64ExtraID = 0x0001 // Zip64 extended information

type readBuf []byte

func (b *readBuf) uint16() uint16 {
	v := binary.LittleEndian.Uint16(*b)
	*b = (*b)[2:]
	return v
}

func (b *readBuf) uint32() uint32 {
	v := binary.LittleEndian.Uint32(*b)
	*b = (*b)[4:]
	return v
}

func (b *readBuf) uint64() uint64 {
	v := binary.LittleEndian.Uint64(*b)
	*b = (*b)[8:]
	return v
}

func (b *readBuf) sub(n int) readBuf {
	b2 := (*b)[:n]
	*b = (*b)[n:]
	return b2
}

func (b *readBuf) skip(n int) *readBuf {
	*b = (*b)[n:]
	return b
}
