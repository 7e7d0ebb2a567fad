package wad

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

// On-disk record layouts. All fields are little-endian.

type binVertex struct {
	X, Y int16
}

type binSector struct {
	FloorHeight    int16
	CeilingHeight  int16
	FloorTexture   String8
	CeilingTexture String8
	LightLevel     int16
	Special        int16
	TagNum         int16
}

type binSide struct {
	XOffset       int16
	YOffset       int16
	UpperTexture  String8
	LowerTexture  String8
	MiddleTexture String8
	SectorNum     int16
}

type binSegment struct {
	V1        int16
	V2        int16
	Angle     int16 // Full circle is -32768 to 32767.
	LineNum   int16
	Direction int16 // 0 - same as linedef, 1 - opposite to linedef
	Offset    int16 // Distance along line to start of segment
}

type binSubSector struct {
	NumSegments  int16
	FirstSegment int16
}

type binThing struct {
	X       int16
	Y       int16
	Angle   int16
	Type    int16
	Options int16
}

type binBBox struct {
	Top    int16
	Bottom int16
	Left   int16
	Right  int16
}

type binNode struct {
	X, Y                 int16
	DX, DY               int16
	BBoxR, BBoxL         binBBox
	ChildNumR, ChildNumL int16
}

// recordSize returns the encoded size of one B record.
func recordSize[B any]() int {
	var b B
	return binary.Size(b)
}

// RecordCount returns the number of whole records of size recordSize in a
// lump payload. A trailing partial record is ignored.
func RecordCount(data []byte, recordSize int) int {
	return len(data) / recordSize
}

// decodeRecord reads record i of type B from a lump payload.
func decodeRecord[B any](data []byte, i int) (B, error) {
	var b B
	size := binary.Size(b)
	if i < 0 || i >= RecordCount(data, size) {
		return b, errors.Wrapf(ErrRecordIndex, "record %d of %d", i, RecordCount(data, size))
	}
	err := binary.Read(bytes.NewReader(data[i*size:(i+1)*size]), binary.LittleEndian, &b)
	return b, err
}

// decodeLump reads every whole B record of a lump and translates each one to
// its canonical form.
func decodeLump[B, T any](lump *Lump, translate func(b B) T) ([]T, error) {
	size := recordSize[B]()
	count := RecordCount(lump.Data, size)
	if rem := len(lump.Data) - count*size; rem != 0 {
		logger.Warn("Lump size is not a multiple of its record size",
			zap.String("lump", lump.Name), zap.Int("size", lump.Size), zap.Int("record", size), zap.Int("trailing", rem))
	}
	binRecords := make([]B, count)
	if err := binary.Read(bytes.NewReader(lump.Data[:count*size]), binary.LittleEndian, binRecords); err != nil {
		return nil, errors.Wrapf(err, "decoding %v", lump.Name)
	}

	// Translate to canonical
	records := make([]T, count)
	for i, b := range binRecords {
		records[i] = translate(b)
	}
	return records, nil
}

// Translation from on-disk records to canonical records. Cross references are
// left as numbers; the level builder resolves them.

func vertexFromBin(v binVertex) Vertex {
	return Vertex{X: int(v.X), Y: int(v.Y)}
}

func sectorFromBin(s binSector) Sector {
	return Sector{
		FloorHeight:        int(s.FloorHeight),
		CeilingHeight:      int(s.CeilingHeight),
		FloorTextureName:   normalizeName(s.FloorTexture.String()),
		CeilingTextureName: normalizeName(s.CeilingTexture.String()),
		LightLevel:         int(s.LightLevel),
		Special:            int(s.Special),
		TagNum:             int(s.TagNum),
	}
}

func sideFromBin(s binSide) Side {
	return Side{
		XOffset:           int(s.XOffset),
		YOffset:           int(s.YOffset),
		UpperTextureName:  textureName(s.UpperTexture),
		LowerTextureName:  textureName(s.LowerTexture),
		MiddleTextureName: textureName(s.MiddleTexture),
		SectorNum:         int(s.SectorNum),
	}
}

func lineFromBin(l binLine) Line {
	return Line{
		V1Num:        int(l.V1),
		V2Num:        int(l.V2),
		Flags:        LineFlags(uint16(l.Flags)),
		Special:      int(l.Special),
		SectorTagNum: int(l.SectorTag),
		SideRNum:     int(l.SideR),
		SideLNum:     int(l.SideL),
	}
}

func segmentFromBin(s binSegment) Segment {
	return Segment{
		V1Num:   int(s.V1),
		V2Num:   int(s.V2),
		Angle:   bamToRadians(s.Angle),
		LineNum: int(s.LineNum),
		IsSideL: s.Direction != 0,
		Offset:  int(s.Offset),
	}
}

func subSectorFromBin(s binSubSector) SubSector {
	return SubSector{
		NumSegments:  int(s.NumSegments),
		FirstSegment: int(s.FirstSegment),
	}
}

func thingFromBin(t binThing) Thing {
	return Thing{
		X:               int(t.X),
		Y:               int(t.Y),
		Angle:           degreesToRadians(t.Angle),
		Type:            int(t.Type),
		Skill1and2:      t.Options&1 != 0,
		Skill3:          t.Options&2 != 0,
		Skill4and5:      t.Options&4 != 0,
		Ambush:          t.Options&8 != 0,
		MultiplayerOnly: t.Options&0x10 != 0,
	}
}

func nodeFromBin(n binNode) Node {
	return Node{
		X:         int(n.X),
		Y:         int(n.Y),
		DX:        int(n.DX),
		DY:        int(n.DY),
		BBoxR:     bboxFromBin(n.BBoxR),
		BBoxL:     bboxFromBin(n.BBoxL),
		ChildNumR: int(uint16(n.ChildNumR)),
		ChildNumL: int(uint16(n.ChildNumL)),
	}
}

func bboxFromBin(b binBBox) BoundBox {
	return BoundBox{Top: int(b.Top), Bottom: int(b.Bottom), Left: int(b.Left), Right: int(b.Right)}
}

// textureName maps the "-" placeholder used by editors to the empty name.
func textureName(s String8) string {
	name := normalizeName(s.String())
	if name == "-" {
		return ""
	}
	return name
}

// Single record decoders, one per lump kind.

// DecodeVertex decodes record i of a VERTEXES payload.
func DecodeVertex(data []byte, i int) (Vertex, error) {
	b, err := decodeRecord[binVertex](data, i)
	return vertexFromBin(b), err
}

// DecodeSector decodes record i of a SECTORS payload.
func DecodeSector(data []byte, i int) (Sector, error) {
	b, err := decodeRecord[binSector](data, i)
	s := sectorFromBin(b)
	s.Index = i
	return s, err
}

// DecodeSide decodes record i of a SIDEDEFS payload.
func DecodeSide(data []byte, i int) (Side, error) {
	b, err := decodeRecord[binSide](data, i)
	return sideFromBin(b), err
}

// DecodeLine decodes record i of a LINEDEFS payload.
func DecodeLine(data []byte, i int) (Line, error) {
	b, err := decodeRecord[binLine](data, i)
	return lineFromBin(b), err
}

// DecodeSegment decodes record i of a SEGS payload.
func DecodeSegment(data []byte, i int) (Segment, error) {
	b, err := decodeRecord[binSegment](data, i)
	return segmentFromBin(b), err
}

// DecodeSubSector decodes record i of a SSECTORS payload.
func DecodeSubSector(data []byte, i int) (SubSector, error) {
	b, err := decodeRecord[binSubSector](data, i)
	s := subSectorFromBin(b)
	s.Index = i
	return s, err
}

// DecodeThing decodes record i of a THINGS payload.
func DecodeThing(data []byte, i int) (Thing, error) {
	b, err := decodeRecord[binThing](data, i)
	return thingFromBin(b), err
}

// DecodeNode decodes record i of a NODES payload.
func DecodeNode(data []byte, i int) (Node, error) {
	b, err := decodeRecord[binNode](data, i)
	return nodeFromBin(b), err
}

// degreesToRadians
func degreesToRadians[T constraints.Integer | constraints.Float](n T) float64 {
	return float64(n) * (math.Pi / 180)
}

const halfScale = 1 << 15

// bamToRadians converts a binary angle, where the full int16 range covers one
// turn, to radians in [0, 2π).
func bamToRadians[T constraints.Signed](n T) float64 {
	return float64(uint16(n)) * math.Pi / halfScale
}
