package wad

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadmesh/internal/wadtest"
)

func TestRecordSizes(t *testing.T) {
	assert.Equal(t, 4, recordSize[binVertex]())
	assert.Equal(t, 14, recordSize[binLine]())
	assert.Equal(t, 30, recordSize[binSide]())
	assert.Equal(t, 26, recordSize[binSector]())
	assert.Equal(t, 12, recordSize[binSegment]())
	assert.Equal(t, 4, recordSize[binSubSector]())
	assert.Equal(t, 10, recordSize[binThing]())
	assert.Equal(t, 28, recordSize[binNode]())
}

func TestRecordCountTruncates(t *testing.T) {
	assert.Equal(t, 0, RecordCount(nil, 4))
	assert.Equal(t, 2, RecordCount(make([]byte, 9), 4))
	assert.Equal(t, 3, RecordCount(make([]byte, 12), 4))
}

func TestDecodeVertex(t *testing.T) {
	data := wadtest.Encode([]wadtest.Vertex{{X: 0, Y: 0}, {X: 64, Y: 0}, {X: -32, Y: 1024}})

	v, err := DecodeVertex(data, 2)
	require.NoError(t, err)
	assert.Equal(t, Vertex{X: -32, Y: 1024}, v)

	_, err = DecodeVertex(data, 3)
	assert.True(t, errors.Is(err, ErrRecordIndex))
	_, err = DecodeVertex(data, -1)
	assert.True(t, errors.Is(err, ErrRecordIndex))

	// A trailing partial record is not addressable
	_, err = DecodeVertex(append(data, 1, 2), 3)
	assert.True(t, errors.Is(err, ErrRecordIndex))
}

func TestDecodeLine(t *testing.T) {
	data := wadtest.Encode([]wadtest.Line{
		{V1: 0, V2: 1, Flags: 1, Side0: 0, Side1: -1},
		{V1: 1, V2: 2, Flags: 0x4 | 0x8 | 0x100, Special: 11, Tag: 5, Side0: 3, Side1: 4},
	})

	one, err := DecodeLine(data, 0)
	require.NoError(t, err)
	assert.Equal(t, -1, one.SideLNum)
	assert.True(t, one.Flags.Has(LineBlocking))
	assert.False(t, one.Flags.Has(LineTwoSided))

	two, err := DecodeLine(data, 1)
	require.NoError(t, err)
	assert.Equal(t, Line{
		V1Num:        1,
		V2Num:        2,
		Flags:        LineTwoSided | LineUpperUnpegged | LineAlwaysMap,
		Special:      11,
		SectorTagNum: 5,
		SideRNum:     3,
		SideLNum:     4,
	}, two)
}

func TestDecodeSide(t *testing.T) {
	data := wadtest.EncodeSides([]wadtest.Side{
		{XOffset: 8, YOffset: -16, Upper: "startan3", Lower: "-", Middle: "BIGDOOR2", Sector: 7},
	})

	s, err := DecodeSide(data, 0)
	require.NoError(t, err)
	assert.Equal(t, Side{
		XOffset:           8,
		YOffset:           -16,
		UpperTextureName:  "STARTAN3",
		LowerTextureName:  "",
		MiddleTextureName: "BIGDOOR2",
		SectorNum:         7,
	}, s)
}

func TestDecodeSector(t *testing.T) {
	data := wadtest.EncodeSectors([]wadtest.Sector{
		{Floor: -8, Ceiling: 72, FloorTexture: "NUKAGE1", CeilingTexture: "F_SKY1", Light: 144, Special: 7, Tag: 2},
		{Floor: 0, Ceiling: 128},
	})

	s, err := DecodeSector(data, 0)
	require.NoError(t, err)
	assert.Equal(t, Sector{
		Index:              0,
		FloorHeight:        -8,
		CeilingHeight:      72,
		FloorTextureName:   "NUKAGE1",
		CeilingTextureName: "F_SKY1",
		LightLevel:         144,
		Special:            7,
		TagNum:             2,
	}, s)

	s, err = DecodeSector(data, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Index)
}

func TestDecodeSegment(t *testing.T) {
	data := wadtest.Encode([]wadtest.Seg{
		{V1: 4, V2: 5, Angle: 0x4000, Line: 9, Dir: 0, Offset: 32},
		{V1: 5, V2: 4, Angle: -0x8000, Line: 9, Dir: 1},
	})

	s, err := DecodeSegment(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, s.V1Num)
	assert.Equal(t, 5, s.V2Num)
	assert.Equal(t, 9, s.LineNum)
	assert.False(t, s.IsSideL)
	assert.Equal(t, 32, s.Offset)
	assert.InDelta(t, math.Pi/2, s.Angle, 1e-9)

	s, err = DecodeSegment(data, 1)
	require.NoError(t, err)
	assert.True(t, s.IsSideL)
	assert.InDelta(t, math.Pi, s.Angle, 1e-9)
}

func TestDecodeSubSector(t *testing.T) {
	data := wadtest.Encode([]wadtest.SubSector{{Count: 4, First: 0}, {Count: 3, First: 4}})

	s, err := DecodeSubSector(data, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, 3, s.NumSegments)
	assert.Equal(t, 4, s.FirstSegment)
}

func TestDecodeThing(t *testing.T) {
	data := wadtest.Encode([]wadtest.Thing{{X: 100, Y: -200, Angle: 90, Type: 1, Options: 0x1 | 0x4 | 0x10}})

	th, err := DecodeThing(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, th.X)
	assert.Equal(t, -200, th.Y)
	assert.Equal(t, PlayerOneStart, th.Type)
	assert.InDelta(t, math.Pi/2, th.Angle, 1e-9)
	assert.True(t, th.Skill1and2)
	assert.False(t, th.Skill3)
	assert.True(t, th.Skill4and5)
	assert.False(t, th.Ambush)
	assert.True(t, th.MultiplayerOnly)
}

func TestDecodeNode(t *testing.T) {
	data := wadtest.Encode(wadtest.TwoRooms().Nodes)

	n, err := DecodeNode(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 64, n.X)
	assert.Equal(t, 64, n.DY)
	assert.Equal(t, BoundBox{Top: 64, Bottom: 0, Left: 64, Right: 128}, n.BBoxR)
	assert.Equal(t, 0x8001, n.ChildNumR)
	assert.Equal(t, 0x8000, n.ChildNumL)
}

func TestDecodeLumpTruncated(t *testing.T) {
	data := wadtest.Encode([]wadtest.Vertex{{X: 1, Y: 2}, {X: 3, Y: 4}})
	lump := &Lump{Name: "VERTEXES", Size: len(data) + 3, Data: append(data, 0xff, 0xff, 0xff)}

	vertexes, err := decodeLump(lump, vertexFromBin)
	require.NoError(t, err)
	assert.Equal(t, []Vertex{{1, 2}, {3, 4}}, vertexes)
}

func TestAngleConversions(t *testing.T) {
	assert.InDelta(t, 0, bamToRadians(int16(0)), 1e-9)
	assert.InDelta(t, 3*math.Pi/2, bamToRadians(int16(-0x4000)), 1e-9)
	assert.InDelta(t, math.Pi, degreesToRadians(180), 1e-9)
	assert.InDelta(t, math.Pi/4, degreesToRadians(45.0), 1e-9)
}
