package zipfile

import (
	"encoding/binary"
	"testing"

	"github.com/alec-rabold/zipfix/pkg/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectHealthy(t *testing.T) {
	archive := createTestArchive(t, testFiles)

	inv := Inspect(archive, reader.DefaultTailLimit)
	assert.True(t, inv.Consistent(), inv.Problems)
	assert.Len(t, inv.Locals, len(testFiles))
	require.Len(t, inv.Directory, len(testFiles))
	require.NotNil(t, inv.End)
	assert.Equal(t, uint64(len(testFiles)), inv.End.DirectoryRecords)
	for i, d := range inv.Directory {
		assert.Equal(t, testFiles[i].name, d.Name)
		assert.Equal(t, int64(inv.Signatures.LocalHeaders[i]), d.HeaderOffset)
	}
}

func TestInspectStripped(t *testing.T) {
	archive := stripDirectory(t, createTestArchive(t, testFiles))

	inv := Inspect(archive, reader.DefaultTailLimit)
	assert.False(t, inv.Consistent())
	assert.Nil(t, inv.End)
	assert.Contains(t, inv.Problems, "no central directory headers")
	assert.Contains(t, inv.Problems, "no end of central directory record")
}

func TestInspectMisplacedHeaderOffset(t *testing.T) {
	archive := createTestArchive(t, testFiles)
	set := reader.Scan(archive)
	cd := set.DirectoryHeaders[1]
	binary.LittleEndian.PutUint32(archive[cd+42:cd+46], 3)

	inv := Inspect(archive, reader.DefaultTailLimit)
	require.Len(t, inv.Problems, 1)
	assert.Contains(t, inv.Problems[0], `"dir/b.txt" points to 3`)
}

func TestInspectEmpty(t *testing.T) {
	inv := Inspect([]byte("nothing"), reader.DefaultTailLimit)
	assert.Empty(t, inv.Locals)
	assert.Contains(t, inv.Problems, "no local file headers")
}
