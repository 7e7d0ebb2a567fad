// Package wad provides access to Doom's data archives also known as WAD files,
// and decodes the level data they carry into a cross-referenced Level.
// The file format is documented in The Unofficial DOOM Specs:
// http://www.gamers.org/dhs/helpdocs/dmsp1666.html
package wad

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// WAD is a struct that represents Doom's data archive. The data is organized
// as named lumps, all of which are held in memory once the archive is open.
type WAD struct {
	header   *Header
	lumps    []Lump
	lumpNums map[string]int // Last directory index for each name
	levels   map[string]int // Label lump index for each level
}

type binHeader struct {
	Magic        [4]byte
	NumLumps     int32
	InfoTableOfs int32
}

type Header struct {
	Type         string // IWAD or PWAD
	NumLumps     int
	InfoTableOfs int
}

type binLumpInfo struct {
	Filepos int32
	Size    int32
	Name    String8
}

// Lump is one named entry of the archive directory with its payload.
// Data is nil for zero sized lumps such as level labels and markers.
type Lump struct {
	Name    string
	Filepos int
	Size    int
	Data    []byte
}

// WAD eight-character string type. Null-terminated for short strings.
type String8 [8]byte

// String converts String8 to string
func (s String8) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return string(s[0:i])
}

const (
	headerSize    = 12
	lumpInfoSize  = 16
	magicIWAD     = "IWAD"
	magicPWAD     = "PWAD"
	maxLevelLumps = 10
)

// NewWAD reads the named WAD file into memory. The file is closed before
// returning.
func NewWAD(filename string) (*WAD, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Open(file)
}

// Open reads the archive header, the lump directory and every lump payload
// from r, which must be positioned anywhere inside a complete archive.
func Open(r io.ReadSeeker) (*WAD, error) {
	logger.Debug("Start reading WAD")

	// Determine source length so offsets can be checked before reading
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// Read header
	if end < headerSize {
		return nil, errors.Wrapf(ErrMalformedArchive, "%d byte archive is shorter than its header", end)
	}
	var bh binHeader
	if err := binary.Read(r, binary.LittleEndian, &bh); err != nil {
		return nil, errors.Wrapf(ErrMalformedArchive, "reading header: %v", err)
	}
	magic := string(bh.Magic[:])
	if magic != magicIWAD && magic != magicPWAD {
		return nil, errors.Wrapf(ErrMalformedArchive, "bad magic: %q", bh.Magic[:])
	}
	if bh.NumLumps < 0 {
		return nil, errors.Wrapf(ErrMalformedArchive, "negative lump count %d", bh.NumLumps)
	}
	if bh.InfoTableOfs < 0 ||
		int64(bh.InfoTableOfs)+int64(bh.NumLumps)*lumpInfoSize > end {
		return nil, errors.Wrapf(ErrMalformedArchive,
			"directory of %d lumps at offset %d runs past end of %d byte archive",
			bh.NumLumps, bh.InfoTableOfs, end)
	}

	w := &WAD{header: &Header{magic, int(bh.NumLumps), int(bh.InfoTableOfs)}}
	if err := w.readInfoTables(r, end); err != nil {
		return nil, err
	}
	if err := w.readLumps(r); err != nil {
		return nil, err
	}
	logger.Debug("Read WAD directory",
		zap.String("type", w.header.Type), zap.Int("lumps", len(w.lumps)), zap.Int("levels", len(w.levels)))
	return w, nil
}

func (w *WAD) readInfoTables(r io.ReadSeeker, end int64) error {
	if _, err := r.Seek(int64(w.header.InfoTableOfs), io.SeekStart); err != nil {
		return err
	}
	binInfos := make([]binLumpInfo, w.header.NumLumps)
	if err := binary.Read(r, binary.LittleEndian, binInfos); err != nil {
		return errors.Wrapf(ErrMalformedArchive, "reading directory: %v", err)
	}

	lumpNums := map[string]int{}
	levels := map[string]int{}
	lumps := make([]Lump, len(binInfos))
	for i, bi := range binInfos {
		if bi.Filepos < 0 || bi.Size < 0 || int64(bi.Filepos)+int64(bi.Size) > end {
			return errors.Wrapf(ErrMalformedArchive, "lump %d (%v) at %d size %d runs past end of archive",
				i, bi.Name, bi.Filepos, bi.Size)
		}
		lump := Lump{
			Name:    normalizeName(bi.Name.String()),
			Filepos: int(bi.Filepos),
			Size:    int(bi.Size),
		}
		if lump.Name == lumpThings && i > 0 {
			levels[lumps[i-1].Name] = i - 1
		}
		lumpNums[lump.Name] = i // Later entries override earlier ones
		lumps[i] = lump
	}
	w.lumps = lumps
	w.lumpNums = lumpNums
	w.levels = levels
	return nil
}

// readLumps loads the payload of every non-empty lump.
func (w *WAD) readLumps(r io.ReadSeeker) error {
	for i := range w.lumps {
		lump := &w.lumps[i]
		if lump.Size == 0 {
			continue
		}
		if _, err := r.Seek(int64(lump.Filepos), io.SeekStart); err != nil {
			return err
		}
		lump.Data = make([]byte, lump.Size)
		if _, err := io.ReadFull(r, lump.Data); err != nil {
			return errors.Wrapf(ErrMalformedArchive, "truncated lump %v: %v", lump.Name, err)
		}
	}
	return nil
}

// normalizeName upper-cases a lump name and clips it to eight characters.
func normalizeName(name string) string {
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	if len(name) > 8 {
		name = name[:8]
	}
	return strings.ToUpper(name)
}

// Header returns the decoded archive header.
func (w *WAD) Header() Header {
	return *w.header
}

// Lumps returns the directory in archive order.
func (w *WAD) Lumps() []Lump {
	return w.lumps
}

// LumpNum returns the directory index of the last lump with the given name.
// Names match case-insensitively.
func (w *WAD) LumpNum(name string) (int, bool) {
	i, ok := w.lumpNums[normalizeName(name)]
	return i, ok
}

// FindLump returns the last lump with the given name. Names match
// case-insensitively.
func (w *WAD) FindLump(name string) (*Lump, bool) {
	i, ok := w.LumpNum(name)
	if !ok {
		return nil, false
	}
	return &w.lumps[i], true
}

// LevelNames returns a slice of level names found in the WAD archive.
func (w *WAD) LevelNames() []string {
	result := make([]string, 0, len(w.levels))
	for name := range w.levels {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
