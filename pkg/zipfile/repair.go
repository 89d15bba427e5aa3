package zipfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alec-rabold/zipfix/pkg/reader"
	"github.com/klauspost/compress/zip"
	log "github.com/sirupsen/logrus"
)

// ErrNoSignatures indicates a buffer without a single local file header signature.
var ErrNoSignatures = errors.New("no local file header signatures found")

// RecoveredEntry is the outcome of recovering one local file header.
type RecoveredEntry struct {
	Index  int
	Offset int
	// Name is the decoded filename, or recovered_file_<Index>.bin.
	Name        string
	Synthesized bool
	Header      *reader.LocalEntryHeader
	// HeaderErr is set when the fixed header fields could not be read.
	HeaderErr error
	Span      reader.Span
	// Data aliases the raw buffer.
	Data []byte
	// Err is set when the entry could not be committed to the output container.
	Err error
}

// RepairReport summarizes a repair pass.
type RepairReport struct {
	Entries   []RecoveredEntry
	Recovered int
}

// Failed returns the entries that could not be written.
func (r *RepairReport) Failed() []RecoveredEntry {
	var failed []RecoveredEntry
	for _, e := range r.Entries {
		if e.Err != nil {
			failed = append(failed, e)
		}
	}
	return failed
}

// Repairer rebuilds an archive from the local file headers found in a raw buffer.
type Repairer struct {
	// Method is the compression method used for recovered entries. If zero, Store is used.
	Method uint16
	// TailLimit bounds the payload of a final entry with no usable declared size.
	TailLimit int
	Log       log.FieldLogger
}

// NewRepairer creates a Repairer with the default method and tail limit.
func NewRepairer(logger log.FieldLogger) *Repairer {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Repairer{
		Method:    zip.Store,
		TailLimit: reader.DefaultTailLimit,
		Log:       logger,
	}
}

// Recover scans buf and resolves the name and payload of every local file
// header in ascending offset order. It does not write anything.
func (r *Repairer) Recover(buf []byte) ([]RecoveredEntry, error) {
	set := reader.Scan(buf)
	if len(set.LocalHeaders) == 0 {
		return nil, ErrNoSignatures
	}
	entries := make([]RecoveredEntry, len(set.LocalHeaders))
	for i := range set.LocalHeaders {
		entries[i] = recoverEntry(buf, set, i, r.TailLimit)
	}
	return entries, nil
}

func recoverEntry(buf []byte, set reader.SignatureSet, i, tailLimit int) RecoveredEntry {
	e := RecoveredEntry{Index: i, Offset: set.LocalHeaders[i]}
	e.Header, e.HeaderErr = reader.ReadLocalHeader(buf, e.Offset)
	if e.HeaderErr != nil {
		e.Header = nil
	}
	e.Span = reader.InferSpan(buf, e.Offset, e.Header, set.Next(i), tailLimit)
	e.Data = e.Span.Slice(buf)
	if e.Header != nil && e.Header.Name != "" {
		e.Name = e.Header.Name
	} else {
		e.Name = SynthesizedName(i)
		e.Synthesized = true
	}
	return e
}

// SynthesizedName returns the filename given to the entry at index i when its own name is unusable.
func SynthesizedName(i int) string {
	return fmt.Sprintf("recovered_file_%d.bin", i)
}

// Repair writes a new archive holding every recovered entry to w.
// Entries that fail to write are recorded in the report and skipped.
func (r *Repairer) Repair(buf []byte, w io.Writer) (*RepairReport, error) {
	entries, err := r.Recover(buf)
	if err != nil {
		return nil, err
	}
	return r.write(entries, w)
}

// RepairFile writes the rebuilt archive to dst. dst is not created when buf holds no local headers.
func (r *Repairer) RepairFile(buf []byte, dst string) (report *RepairReport, err error) {
	entries, err := r.Recover(buf)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()
	return r.write(entries, f)
}

func (r *Repairer) write(entries []RecoveredEntry, w io.Writer) (*RepairReport, error) {
	r.Log.Infof("found %d file entries", len(entries))
	zw := zip.NewWriter(w)
	report := r.commit(entries, zw)
	if err := zw.Close(); err != nil {
		return report, fmt.Errorf("finish archive: %w", err)
	}
	return report, nil
}

// entryWriter is the part of zip.Writer used to commit entries.
type entryWriter interface {
	CreateHeader(fh *zip.FileHeader) (io.Writer, error)
}

func (r *Repairer) commit(entries []RecoveredEntry, zw entryWriter) *RepairReport {
	method := r.Method
	modified := time.Now()
	report := &RepairReport{Entries: entries}
	for i := range entries {
		e := &report.Entries[i]
		logger := r.Log.WithFields(log.Fields{"index": e.Index, "offset": e.Offset})
		if e.HeaderErr != nil {
			logger.WithError(e.HeaderErr).Warn("unreadable local header, using synthesized name")
		}
		e.Err = writeEntry(zw, &zip.FileHeader{
			Name:     e.Name,
			Method:   method,
			Modified: modified,
		}, e.Data)
		if e.Err != nil {
			logger.WithError(e.Err).Warnf("error processing file at offset %d", e.Offset)
			continue
		}
		report.Recovered++
		logger.WithFields(log.Fields{"span": e.Span.String()}).Infof("recovered file: %s", e.Name)
	}
	return report
}

func writeEntry(zw entryWriter, fh *zip.FileHeader, data []byte) error {
	w, err := zw.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("create entry %q: %w", fh.Name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write entry %q: %w", fh.Name, err)
	}
	return nil
}
