package zipfile

import (
	"fmt"

	"github.com/alec-rabold/zipfix/pkg/reader"
)

// Inventory describes every record signature found in a raw buffer.
type Inventory struct {
	Size       int
	Signatures reader.SignatureSet
	// Locals has one entry per local header, as Recover would resolve it.
	Locals    []RecoveredEntry
	Directory []*reader.DirectoryHeader
	End       *reader.DirectoryEnd
	// Problems lists inconsistencies between the records.
	Problems []string
}

// Inspect scans buf and cross-checks local headers, central directory
// headers and the EOCD record against one another.
func Inspect(buf []byte, tailLimit int) *Inventory {
	set := reader.Scan(buf)
	inv := &Inventory{Size: len(buf), Signatures: set}

	locals := make(map[int64]bool, len(set.LocalHeaders))
	for i, off := range set.LocalHeaders {
		inv.Locals = append(inv.Locals, recoverEntry(buf, set, i, tailLimit))
		locals[int64(off)] = true
	}
	if len(set.LocalHeaders) == 0 {
		inv.problemf("no local file headers")
	}

	for _, off := range set.DirectoryHeaders {
		d, err := reader.ReadDirectoryHeader(buf, off)
		if err != nil {
			inv.problemf("central directory header at %d: %v", off, err)
			continue
		}
		inv.Directory = append(inv.Directory, d)
		if !locals[d.HeaderOffset] {
			inv.problemf("central directory entry %q points to %d, which is not a local header", d.Name, d.HeaderOffset)
		}
	}
	if len(set.DirectoryHeaders) == 0 {
		inv.problemf("no central directory headers")
	}

	if !set.HasDirectoryEnd() {
		inv.problemf("no end of central directory record")
		return inv
	}
	end, err := reader.ReadDirectoryEnd(buf, set.DirectoryEnd)
	if err != nil {
		inv.problemf("end of central directory at %d: %v", set.DirectoryEnd, err)
	}
	if end == nil {
		return inv
	}
	inv.End = end
	if n := uint64(len(set.DirectoryHeaders)); end.DirectoryRecords != n {
		inv.problemf("end of central directory declares %d records, found %d", end.DirectoryRecords, n)
	}
	if len(set.DirectoryHeaders) > 0 && end.DirectoryOffset != uint64(set.DirectoryHeaders[0]) {
		inv.problemf("end of central directory points to %d, first central directory header is at %d",
			end.DirectoryOffset, set.DirectoryHeaders[0])
	}
	return inv
}

// Consistent reports whether no problems were found.
func (inv *Inventory) Consistent() bool { return len(inv.Problems) == 0 }

func (inv *Inventory) problemf(format string, args ...interface{}) {
	inv.Problems = append(inv.Problems, fmt.Sprintf(format, args...))
}
