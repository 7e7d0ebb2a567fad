// Package wadtest builds WAD archives in memory for tests.
package wadtest

import (
	"bytes"
	"encoding/binary"
)

// Builder collects lumps and encodes them as a WAD archive. Lump payloads
// are written after the header and the directory last.
type Builder struct {
	Magic string
	lumps []lump
}

type lump struct {
	name string
	data []byte
}

// New returns a Builder for a PWAD.
func New() *Builder {
	return &Builder{Magic: "PWAD"}
}

// Lump appends a lump. A nil or empty payload gives a zero sized lump.
func (b *Builder) Lump(name string, data []byte) *Builder {
	b.lumps = append(b.lumps, lump{name, data})
	return b
}

// Bytes encodes the archive.
func (b *Builder) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(b.Magic)
	binary.Write(buf, binary.LittleEndian, int32(len(b.lumps)))
	binary.Write(buf, binary.LittleEndian, int32(0)) // Patched below

	offsets := make([]int32, len(b.lumps))
	for i, l := range b.lumps {
		offsets[i] = int32(buf.Len())
		buf.Write(l.data)
	}

	dirOfs := int32(buf.Len())
	for i, l := range b.lumps {
		binary.Write(buf, binary.LittleEndian, offsets[i])
		binary.Write(buf, binary.LittleEndian, int32(len(l.data)))
		buf.Write(name8(l.name))
	}

	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[8:], uint32(dirOfs))
	return data
}

// Reader returns the encoded archive as a seekable source.
func (b *Builder) Reader() *bytes.Reader {
	return bytes.NewReader(b.Bytes())
}

func name8(s string) []byte {
	n := make([]byte, 8)
	copy(n, s)
	return n
}

type Vertex struct{ X, Y int16 }

type Line struct{ V1, V2, Flags, Special, Tag, Side0, Side1 int16 }

type Side struct {
	XOffset, YOffset     int16
	Upper, Lower, Middle string
	Sector               int16
}

type Sector struct {
	Floor, Ceiling               int16
	FloorTexture, CeilingTexture string
	Light, Special, Tag          int16
}

type Seg struct{ V1, V2, Angle, Line, Dir, Offset int16 }

type SubSector struct{ Count, First int16 }

type Thing struct{ X, Y, Angle, Type, Options int16 }

type Node struct {
	X, Y, DX, DY   int16
	BBoxR, BBoxL   [4]int16
	ChildR, ChildL uint16
}

// Map holds the records of one level.
type Map struct {
	Things     []Thing
	Lines      []Line
	Sides      []Side
	Vertexes   []Vertex
	Segs       []Seg
	SubSectors []SubSector
	Nodes      []Node
	Sectors    []Sector
}

// Map appends a level label followed by the ten level lumps in archive
// order. REJECT and BLOCKMAP are left empty.
func (b *Builder) Map(label string, m Map) *Builder {
	b.Lump(label, nil)
	b.Lump("THINGS", Encode(m.Things))
	b.Lump("LINEDEFS", Encode(m.Lines))
	b.Lump("SIDEDEFS", EncodeSides(m.Sides))
	b.Lump("VERTEXES", Encode(m.Vertexes))
	b.Lump("SEGS", Encode(m.Segs))
	b.Lump("SSECTORS", Encode(m.SubSectors))
	b.Lump("NODES", Encode(m.Nodes))
	b.Lump("SECTORS", EncodeSectors(m.Sectors))
	b.Lump("REJECT", nil)
	b.Lump("BLOCKMAP", nil)
	return b
}

// Encode writes fixed size records little-endian.
func Encode[T any](records []T) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, records)
	return buf.Bytes()
}

// EncodeSides writes SIDEDEFS records.
func EncodeSides(sides []Side) []byte {
	buf := new(bytes.Buffer)
	for _, s := range sides {
		binary.Write(buf, binary.LittleEndian, [2]int16{s.XOffset, s.YOffset})
		buf.Write(name8(s.Upper))
		buf.Write(name8(s.Lower))
		buf.Write(name8(s.Middle))
		binary.Write(buf, binary.LittleEndian, s.Sector)
	}
	return buf.Bytes()
}

// EncodeSectors writes SECTORS records.
func EncodeSectors(sectors []Sector) []byte {
	buf := new(bytes.Buffer)
	for _, s := range sectors {
		binary.Write(buf, binary.LittleEndian, [2]int16{s.Floor, s.Ceiling})
		buf.Write(name8(s.FloorTexture))
		buf.Write(name8(s.CeilingTexture))
		binary.Write(buf, binary.LittleEndian, [3]int16{s.Light, s.Special, s.Tag})
	}
	return buf.Bytes()
}

// TwoRooms returns a level of two square rooms side by side, joined by the
// two-sided line 1 at x = 64. Room 0 spans floor 0 to ceiling 128 and room 1
// floor 16 to ceiling 96. Each room is one subsector; the last segment of
// subsector 1 lies on the back side of line 1. The player 1 start is at
// (32, 32) facing north.
//
//	3 ---- 2 ---- 5
//	|  s0  |  s1  |
//	0 ---- 1 ---- 4
func TwoRooms() Map {
	return Map{
		Things: []Thing{
			{X: 96, Y: 32, Angle: 180, Type: 3004, Options: 7},
			{X: 32, Y: 32, Angle: 90, Type: 1, Options: 7},
		},
		Vertexes: []Vertex{{0, 0}, {64, 0}, {64, 64}, {0, 64}, {128, 0}, {128, 64}},
		Sectors: []Sector{
			{Floor: 0, Ceiling: 128, FloorTexture: "FLOOR4_8", CeilingTexture: "CEIL3_5", Light: 160},
			{Floor: 16, Ceiling: 96, FloorTexture: "FLAT14", CeilingTexture: "F_SKY1", Light: 255, Special: 9, Tag: 3},
		},
		Sides: []Side{
			{Middle: "STARTAN3", Sector: 0},             // 0: line 0
			{Middle: "STARTAN3", Sector: 0},             // 1: line 2
			{Middle: "STARTAN3", Sector: 0},             // 2: line 3
			{Upper: "STEP1", Lower: "STEP1", Sector: 0}, // 3: line 1 front
			{Upper: "-", Lower: "-", Sector: 1},         // 4: line 1 back
			{Middle: "BROWN1", Sector: 1},               // 5: line 4
			{Middle: "BROWN1", Sector: 1},               // 6: line 5
			{Middle: "BROWN1", Sector: 1},               // 7: line 6
		},
		Lines: []Line{
			{V1: 0, V2: 1, Flags: 1, Side0: 0, Side1: -1},
			{V1: 1, V2: 2, Flags: 4, Side0: 3, Side1: 4},
			{V1: 2, V2: 3, Flags: 1, Side0: 1, Side1: -1},
			{V1: 3, V2: 0, Flags: 1, Side0: 2, Side1: -1},
			{V1: 1, V2: 4, Flags: 1, Side0: 5, Side1: -1},
			{V1: 4, V2: 5, Flags: 1, Side0: 6, Side1: -1},
			{V1: 5, V2: 2, Flags: 1, Side0: 7, Side1: -1},
		},
		Segs: []Seg{
			{V1: 0, V2: 1, Angle: 0, Line: 0},
			{V1: 1, V2: 2, Angle: 0x4000, Line: 1},
			{V1: 2, V2: 3, Angle: -0x8000, Line: 2},
			{V1: 3, V2: 0, Angle: -0x4000, Line: 3},
			{V1: 1, V2: 4, Angle: 0, Line: 4},
			{V1: 4, V2: 5, Angle: 0x4000, Line: 5},
			{V1: 5, V2: 2, Angle: -0x8000, Line: 6},
			{V1: 2, V2: 1, Angle: -0x4000, Line: 1, Dir: 1},
		},
		SubSectors: []SubSector{{Count: 4, First: 0}, {Count: 4, First: 4}},
		Nodes: []Node{
			{X: 64, Y: 0, DX: 0, DY: 64,
				BBoxR: [4]int16{64, 0, 64, 128}, BBoxL: [4]int16{64, 0, 0, 64},
				ChildR: 0x8001, ChildL: 0x8000},
		},
	}
}
