package zipfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	log "github.com/sirupsen/logrus"
)

// ErrOpenContainer indicates an archive the standard reader could not open.
var ErrOpenContainer = errors.New("unable to open zip archive")

// Extractor extracts every file of an intact archive into a directory
type Extractor struct {
	// Overwrite allows existing files in the output directory to be replaced.
	Overwrite bool
	Log       log.FieldLogger
}

// ExtractReport lists the outcome of a direct extraction.
type ExtractReport struct {
	Extracted []string
	Failed    map[string]error
}

// NewExtractor creates a new instance of Extractor
func NewExtractor(logger log.FieldLogger) *Extractor {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Extractor{Overwrite: true, Log: logger}
}

// Extract opens buf as a zip archive and writes its files below outDir.
// Per-file failures are reported, not returned; the error is non-nil only
// when the archive itself cannot be opened or outDir cannot be created.
func (x *Extractor) Extract(buf []byte, outDir string) (*ExtractReport, error) {
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenContainer, err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	report := &ExtractReport{Failed: make(map[string]error)}
	for _, f := range zr.File {
		if err := x.extractFile(f, outDir); err != nil {
			x.Log.WithError(err).Warnf("failed to extract %s", f.Name)
			report.Failed[f.Name] = err
			continue
		}
		x.Log.Infof("extracted: %s", f.Name)
		report.Extracted = append(report.Extracted, f.Name)
	}
	return report, nil
}

// ExtractFile reads the archive at src and extracts it below outDir.
func (x *Extractor) ExtractFile(src, outDir string) (*ExtractReport, error) {
	buf, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	return x.Extract(buf, outDir)
}

func (x *Extractor) extractFile(f *zip.File, outDir string) error {
	dest, err := entryPath(outDir, f.Name)
	if err != nil {
		return err
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !x.Overwrite {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(dest, flags, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// entryPath maps an archive name below dir, dropping drive letters, leading
// slashes and ".." components so the result never leaves dir.
func entryPath(dir, name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if hasDriveLetter(name) {
		name = name[2:]
	}
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" {
		return "", fmt.Errorf("entry name %q: %w", name, os.ErrInvalid)
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), nil
}

func hasDriveLetter(name string) bool {
	if len(name) < 2 || name[1] != ':' {
		return false
	}
	c := name[0] | 0x20
	return 'a' <= c && c <= 'z'
}
