package wad

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadmesh/internal/wadtest"
)

func TestOpen(t *testing.T) {
	data := wadtest.New().
		Lump("PLAYPAL", []byte{1, 2, 3}).
		Lump("F_START", nil).
		Lump("flat1", bytes.Repeat([]byte{7}, 16)).
		Bytes()

	w, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "PWAD", w.Header().Type)
	assert.Equal(t, 3, w.Header().NumLumps)
	require.Len(t, w.Lumps(), 3)

	playpal := w.Lumps()[0]
	assert.Equal(t, "PLAYPAL", playpal.Name)
	assert.Equal(t, 12, playpal.Filepos)
	assert.Equal(t, 3, playpal.Size)
	assert.Equal(t, []byte{1, 2, 3}, playpal.Data)

	marker := w.Lumps()[1]
	assert.Equal(t, "F_START", marker.Name)
	assert.Zero(t, marker.Size)
	assert.Nil(t, marker.Data)

	// Names are upper-cased on read
	assert.Equal(t, "FLAT1", w.Lumps()[2].Name)
}

func TestOpenIWAD(t *testing.T) {
	b := wadtest.New().Lump("ENDOOM", []byte{0})
	b.Magic = "IWAD"
	w, err := Open(b.Reader())
	require.NoError(t, err)
	assert.Equal(t, "IWAD", w.Header().Type)
}

func TestNewWAD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wad")
	data := wadtest.New().Map("E1M1", wadtest.TwoRooms()).Bytes()
	require.NoError(t, os.WriteFile(path, data, 0o644))

	w, err := NewWAD(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"E1M1"}, w.LevelNames())

	_, err = NewWAD(filepath.Join(t.TempDir(), "missing.wad"))
	assert.Error(t, err)
}

func TestFindLumpLastWins(t *testing.T) {
	w, err := Open(wadtest.New().
		Lump("SECTORS", []byte{1}).
		Lump("THINGS", []byte{2}).
		Lump("SECTORS", []byte{3}).
		Reader())
	require.NoError(t, err)

	lump, ok := w.FindLump("SECTORS")
	require.True(t, ok)
	assert.Equal(t, []byte{3}, lump.Data)

	num, ok := w.LumpNum("SECTORS")
	require.True(t, ok)
	assert.Equal(t, 2, num)
}

func TestFindLumpCaseInsensitive(t *testing.T) {
	w, err := Open(wadtest.New().Lump("Colormap", []byte{9}).Reader())
	require.NoError(t, err)

	for _, name := range []string{"COLORMAP", "colormap", "ColorMap", "COLORMAP\x00junk"} {
		lump, ok := w.FindLump(name)
		if assert.True(t, ok, name) {
			assert.Equal(t, []byte{9}, lump.Data)
		}
	}

	_, ok := w.FindLump("PLAYPAL")
	assert.False(t, ok)
}

func TestLevelNames(t *testing.T) {
	w, err := Open(wadtest.New().
		Map("MAP02", wadtest.TwoRooms()).
		Lump("DEMO1", []byte{0}).
		Map("MAP01", wadtest.TwoRooms()).
		Reader())
	require.NoError(t, err)
	assert.Equal(t, []string{"MAP01", "MAP02"}, w.LevelNames())
}

func TestOpenMalformed(t *testing.T) {
	valid := func() []byte {
		return wadtest.New().
			Lump("A", []byte{1, 2, 3, 4}).
			Lump("B", []byte{5, 6}).
			Lump("C", nil).
			Bytes()
	}
	dirOfs := func(data []byte) int {
		return int(binary.LittleEndian.Uint32(data[8:]))
	}

	tests := []struct {
		name   string
		mangle func([]byte) []byte
	}{
		{
			name: "lump count exceeds directory",
			mangle: func(d []byte) []byte {
				binary.LittleEndian.PutUint32(d[4:], 5)
				return d
			},
		},
		{
			name: "negative lump count",
			mangle: func(d []byte) []byte {
				binary.LittleEndian.PutUint32(d[4:], 0xffffffff)
				return d
			},
		},
		{
			name: "directory offset past end",
			mangle: func(d []byte) []byte {
				binary.LittleEndian.PutUint32(d[8:], uint32(len(d)+1))
				return d
			},
		},
		{
			name: "lump size past end",
			mangle: func(d []byte) []byte {
				binary.LittleEndian.PutUint32(d[dirOfs(d)+4:], 1000)
				return d
			},
		},
		{
			name: "negative lump position",
			mangle: func(d []byte) []byte {
				binary.LittleEndian.PutUint32(d[dirOfs(d)+16:], 0xfffffff0)
				return d
			},
		},
		{
			name: "bad magic",
			mangle: func(d []byte) []byte {
				copy(d, "JUNK")
				return d
			},
		},
		{
			name: "short header",
			mangle: func(d []byte) []byte {
				return d[:7]
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(bytes.NewReader(tt.mangle(valid())))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedArchive), "got %v", err)
		})
	}
}

func TestString8(t *testing.T) {
	assert.Equal(t, "E1M1", String8{'E', '1', 'M', '1'}.String())
	assert.Equal(t, "TEXTURE1", String8{'T', 'E', 'X', 'T', 'U', 'R', 'E', '1'}.String())
	assert.Equal(t, "", String8{}.String())
}
