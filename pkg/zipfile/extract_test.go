package zipfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	logger, _ := test.NewNullLogger()
	return NewExtractor(logger)
}

func TestExtract(t *testing.T) {
	archive := createTestArchive(t, testFiles)
	out := filepath.Join(t.TempDir(), "out")

	report, err := newTestExtractor().Extract(archive, out)
	require.NoError(t, err)
	assert.Len(t, report.Extracted, len(testFiles))
	assert.Empty(t, report.Failed)

	for _, f := range testFiles {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(f.name)))
		require.NoError(t, err)
		assert.Equal(t, f.data, string(data))
	}
}

func TestExtractCorrupt(t *testing.T) {
	archive := stripDirectory(t, createTestArchive(t, testFiles))

	_, err := newTestExtractor().Extract(archive, t.TempDir())
	assert.ErrorIs(t, err, ErrOpenContainer)
}

func TestExtractUnsafeNames(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"../evil.txt", "/abs/file.txt", "sub/", "C:\\win\\x.txt"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		if name != "sub/" {
			_, err = io.WriteString(w, name)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	root := t.TempDir()
	out := filepath.Join(root, "out")

	report, err := newTestExtractor().Extract(buf.Bytes(), out)
	require.NoError(t, err)
	assert.Empty(t, report.Failed)

	assert.FileExists(t, filepath.Join(out, "evil.txt"))
	assert.FileExists(t, filepath.Join(out, "abs", "file.txt"))
	assert.DirExists(t, filepath.Join(out, "sub"))
	assert.FileExists(t, filepath.Join(out, "win", "x.txt"))
	assert.NoFileExists(t, filepath.Join(root, "evil.txt"))
}

func TestExtractNoOverwrite(t *testing.T) {
	archive := createTestArchive(t, testFiles[:1])
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "a.txt"), []byte("keep"), 0644))
	x := newTestExtractor()
	x.Overwrite = false

	report, err := x.Extract(archive, out)
	require.NoError(t, err)
	assert.Contains(t, report.Failed, "a.txt")

	data, err := os.ReadFile(filepath.Join(out, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestEntryPath(t *testing.T) {
	_, err := entryPath("out", "../..")
	assert.Error(t, err)

	p, err := entryPath("out", "a/../../b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "b.txt"), p)
}

func TestExtractColonInName(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"logs/12:30.log", "other/12:30.log"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, name)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	out := t.TempDir()

	report, err := newTestExtractor().Extract(buf.Bytes(), out)
	require.NoError(t, err)
	assert.Empty(t, report.Failed)

	for _, name := range []string{"logs/12:30.log", "other/12:30.log"} {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, name, string(data))
	}
	assert.NoFileExists(t, filepath.Join(out, "30.log"))
}

func TestEntryPathDriveLetter(t *testing.T) {
	p, err := entryPath("out", "c:/win/x.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "win", "x.txt"), p)

	p, err = entryPath("out", "ab:c.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "ab:c.txt"), p)

	p, err = entryPath("out", "1:x.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "1:x.txt"), p)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.zip")
	require.NoError(t, os.WriteFile(src, createTestArchive(t, testFiles), 0644))
	out := filepath.Join(dir, "out")

	report, err := newTestExtractor().ExtractFile(src, out)
	require.NoError(t, err)
	assert.Len(t, report.Extracted, len(testFiles))

	_, err = newTestExtractor().ExtractFile(filepath.Join(dir, "missing.zip"), out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
