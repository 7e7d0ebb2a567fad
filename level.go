package wad

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Level is the decoded, cross-referenced data of one map. Records reference
// each other through pointers into the slices held here, so many sides may
// share one sector. A Level is never modified after ReadLevel returns.
type Level struct {
	Name       string
	Things     []Thing
	Lines      []Line
	Sides      []Side
	Vertexes   []Vertex
	Segments   []Segment
	SubSectors []SubSector
	Nodes      []Node
	Sectors    []Sector
	RootNode   BSPMember // nil when the map has no NODES

	// Subsectors whose segments disagree on their sector
	Warnings []*SectorWarning
}

type Vertex struct {
	X, Y int
}

type Sector struct {
	Index              int
	FloorHeight        int
	CeilingHeight      int
	FloorTextureName   string
	CeilingTextureName string
	LightLevel         int
	Special            int
	TagNum             int
}

// Side is a SIDEDEF. Empty texture names mean no texture.
type Side struct {
	XOffset           int
	YOffset           int
	UpperTextureName  string
	LowerTextureName  string
	MiddleTextureName string
	SectorNum         int

	Sector *Sector
}

// Segment is the part of a line bounding one subsector, produced by the
// node builder.
type Segment struct {
	V1Num   int
	V2Num   int
	Angle   float64 // Radians
	LineNum int
	IsSideL bool // false - same as linedef, true - opposite to linedef
	Offset  int  // Distance along line to start of segment

	V1          Vertex
	V2          Vertex
	Line        *Line
	Side        *Side   // The side of Line this segment lies on
	FrontSector *Sector // Sector of Side
	BackSector  *Sector // Sector across Line, nil if one-sided
}

// SubSector is a convex region of one sector, bounded by a contiguous run of
// segments.
type SubSector struct {
	Index        int
	NumSegments  int
	FirstSegment int

	Segments []Segment // Sub-slice of Level.Segments
	Sector   *Sector   // Sector of the first segment, nil if empty
}

type Thing struct {
	X, Y            int
	Angle           float64 // Radians
	Type            int
	Skill1and2      bool
	Skill3          bool
	Skill4and5      bool
	Ambush          bool
	MultiplayerOnly bool
}

// PlayerOneStart is the thing type of the player 1 start.
const PlayerOneStart = 1

type BoundBox struct {
	Top, Bottom, Left, Right int
}

type Node struct {
	X, Y                 int
	DX, DY               int
	BBoxR, BBoxL         BoundBox
	ChildNumR, ChildNumL int // Bit 15 set means subsector
	ChildR, ChildL       BSPMember
}

// subSectorBit marks a node child index as a subsector index.
const subSectorBit = 0x8000

// Return child for side
func (n *Node) Child(side int) BSPMember {
	if side == 0 {
		return n.ChildR
	}
	return n.ChildL
}

type BSPType int

const (
	BSPNode BSPType = iota
	BSPSubSector
)

type BSPMember interface {
	BSPType() BSPType
}

func (s *SubSector) BSPType() BSPType {
	return BSPSubSector
}

func (n *Node) BSPType() BSPType {
	return BSPNode
}

// Level lump names, in archive order after the label.
const (
	lumpThings     = "THINGS"
	lumpLines      = "LINEDEFS"
	lumpSides      = "SIDEDEFS"
	lumpVertexes   = "VERTEXES"
	lumpSegments   = "SEGS"
	lumpSubSectors = "SSECTORS"
	lumpNodes      = "NODES"
	lumpSectors    = "SECTORS"
	lumpReject     = "REJECT"
	lumpBlockMap   = "BLOCKMAP"
)

var isLevelLump = map[string]bool{
	lumpThings: true, lumpLines: true, lumpSides: true, lumpVertexes: true, lumpSegments: true,
	lumpSubSectors: true, lumpNodes: true, lumpSectors: true, lumpReject: true, lumpBlockMap: true,
}

var requiredLevelLumps = []string{
	lumpThings, lumpLines, lumpSides, lumpVertexes, lumpSegments, lumpSubSectors, lumpSectors,
}

// DecodeMap reads the archive from r and builds the named level.
func DecodeMap(r io.ReadSeeker, name string) (*Level, error) {
	w, err := Open(r)
	if err != nil {
		return nil, err
	}
	return w.ReadLevel(name)
}

// ReadLevel decodes the named level and resolves its cross references.
// Structural errors abort the load; subsectors spanning several sectors are
// reported on Level.Warnings.
func (w *WAD) ReadLevel(name string) (*Level, error) {
	logger.Info("Reading level", zap.String("level", name))

	lumps, err := w.levelLumps(name)
	if err != nil {
		return nil, err
	}

	level := &Level{Name: normalizeName(name)}
	if level.Vertexes, err = decodeLump(lumps[lumpVertexes], vertexFromBin); err != nil {
		return nil, err
	}
	if level.Sectors, err = decodeLump(lumps[lumpSectors], sectorFromBin); err != nil {
		return nil, err
	}
	for i := range level.Sectors {
		level.Sectors[i].Index = i
	}
	if level.Sides, err = decodeLump(lumps[lumpSides], sideFromBin); err != nil {
		return nil, err
	}
	if level.Lines, err = decodeLump(lumps[lumpLines], lineFromBin); err != nil {
		return nil, err
	}
	if level.Segments, err = decodeLump(lumps[lumpSegments], segmentFromBin); err != nil {
		return nil, err
	}
	if level.SubSectors, err = decodeLump(lumps[lumpSubSectors], subSectorFromBin); err != nil {
		return nil, err
	}
	for i := range level.SubSectors {
		level.SubSectors[i].Index = i
	}
	if level.Things, err = decodeLump(lumps[lumpThings], thingFromBin); err != nil {
		return nil, err
	}
	if nodes, ok := lumps[lumpNodes]; ok {
		if level.Nodes, err = decodeLump(nodes, nodeFromBin); err != nil {
			return nil, err
		}
	}

	if err := level.setReferences(); err != nil {
		return nil, errors.Wrapf(err, "level %v", level.Name)
	}

	logger.Info("Read level",
		zap.String("level", level.Name),
		zap.Int("vertexes", len(level.Vertexes)),
		zap.Int("sectors", len(level.Sectors)),
		zap.Int("sides", len(level.Sides)),
		zap.Int("lines", len(level.Lines)),
		zap.Int("segments", len(level.Segments)),
		zap.Int("subsectors", len(level.SubSectors)),
		zap.Int("nodes", len(level.Nodes)),
		zap.Int("things", len(level.Things)),
		zap.Int("warnings", len(level.Warnings)))
	return level, nil
}

// levelLumps collects the lumps following the level label. Within the block a
// later lump of the same name wins.
func (w *WAD) levelLumps(name string) (map[string]*Lump, error) {
	label, ok := w.LumpNum(name)
	if !ok {
		return nil, errors.Wrapf(ErrLumpNotFound, "level %v", normalizeName(name))
	}
	lumps := map[string]*Lump{}
	for i := label + 1; i < len(w.lumps) && i <= label+maxLevelLumps; i++ {
		lump := &w.lumps[i]
		if !isLevelLump[lump.Name] {
			break
		}
		lumps[lump.Name] = lump
	}
	for _, req := range requiredLevelLumps {
		if _, ok := lumps[req]; !ok {
			return nil, errors.Wrapf(ErrLumpNotFound, "level %v: %v", normalizeName(name), req)
		}
	}
	return lumps, nil
}

// setReferences resolves numeric references into pointers, in dependency
// order, checking every index against its target.
func (l *Level) setReferences() error {
	logger.Debug("Setting references ...")

	// Sides
	for i := range l.Sides {
		s := &l.Sides[i] // Point to element
		if !inRange(s.SectorNum, len(l.Sectors)) {
			return danglingRef(lumpSides, i, "sector", s.SectorNum)
		}
		s.Sector = &l.Sectors[s.SectorNum]
	}

	// Lines - dependent on Sides
	for i := range l.Lines {
		li := &l.Lines[i] // Point to element
		if !inRange(li.V1Num, len(l.Vertexes)) {
			return danglingRef(lumpLines, i, "v1", li.V1Num)
		}
		if !inRange(li.V2Num, len(l.Vertexes)) {
			return danglingRef(lumpLines, i, "v2", li.V2Num)
		}
		li.V1 = l.Vertexes[li.V1Num]
		li.V2 = l.Vertexes[li.V2Num]

		if li.SideRNum < 0 {
			return errors.Wrapf(ErrMissingFrontSide, "%v[%d]", lumpLines, i)
		}
		if li.SideRNum >= len(l.Sides) {
			return danglingRef(lumpLines, i, "side0", li.SideRNum)
		}
		li.SideR = &l.Sides[li.SideRNum]
		li.FrontSector = li.SideR.Sector

		if li.SideLNum >= 0 { // -1 means no Side
			if li.SideLNum >= len(l.Sides) {
				return danglingRef(lumpLines, i, "side1", li.SideLNum)
			}
			li.SideL = &l.Sides[li.SideLNum]
			li.BackSector = li.SideL.Sector
		}
	}

	// Segments - dependent on Lines
	for i := range l.Segments {
		s := &l.Segments[i] // Point to element
		if !inRange(s.V1Num, len(l.Vertexes)) {
			return danglingRef(lumpSegments, i, "v1", s.V1Num)
		}
		if !inRange(s.V2Num, len(l.Vertexes)) {
			return danglingRef(lumpSegments, i, "v2", s.V2Num)
		}
		if !inRange(s.LineNum, len(l.Lines)) {
			return danglingRef(lumpSegments, i, "linedef", s.LineNum)
		}
		s.V1 = l.Vertexes[s.V1Num]
		s.V2 = l.Vertexes[s.V2Num]
		s.Line = &l.Lines[s.LineNum]
		if s.IsSideL {
			if s.Line.SideL == nil {
				return danglingRef(lumpSegments, i, "side", s.Line.SideLNum)
			}
			s.Side = s.Line.SideL
			s.BackSector = s.Line.FrontSector
		} else {
			s.Side = s.Line.SideR
			s.BackSector = s.Line.BackSector
		}
		s.FrontSector = s.Side.Sector
	}

	// SubSectors - dependent on Segments
	for i := range l.SubSectors {
		s := &l.SubSectors[i] // Point to element
		first, count := s.FirstSegment, s.NumSegments
		if count < 0 {
			return danglingRef(lumpSubSectors, i, "segment_count", count)
		}
		if first < 0 || first+count > len(l.Segments) {
			return danglingRef(lumpSubSectors, i, "first_segment", first)
		}
		s.Segments = l.Segments[first : first+count : first+count]
		if count == 0 {
			// Empty subsectors have no sector and pass through
			continue
		}
		s.Sector = s.Segments[0].FrontSector
		l.checkSubSector(s)
	}

	// Nodes - dependent on SubSectors
	for i := range l.Nodes {
		n := &l.Nodes[i] // Point to element
		child, err := l.bspChild(i, "right", n.ChildNumR)
		if err != nil {
			return err
		}
		n.ChildR = child
		if child, err = l.bspChild(i, "left", n.ChildNumL); err != nil {
			return err
		}
		n.ChildL = child
	}
	switch {
	case len(l.Nodes) > 0:
		l.RootNode = &l.Nodes[len(l.Nodes)-1]
	case len(l.SubSectors) == 1:
		// Single subsector maps have no nodes
		l.RootNode = &l.SubSectors[0]
	}

	return nil
}

// checkSubSector verifies that every segment of s faces the same sector.
func (l *Level) checkSubSector(s *SubSector) {
	for j := range s.Segments {
		if got := s.Segments[j].FrontSector; got != s.Sector {
			warning := &SectorWarning{
				SubSector: s.Index,
				Segment:   s.FirstSegment + j,
				Expected:  s.Sector.Index,
				Got:       got.Index,
			}
			logger.Warn("Subsector spans several sectors", zap.Error(warning))
			l.Warnings = append(l.Warnings, warning)
		}
	}
}

func (l *Level) bspChild(node int, field string, num int) (BSPMember, error) {
	if num&subSectorBit != 0 {
		ss := num &^ subSectorBit
		if ss >= len(l.SubSectors) {
			return nil, danglingRef(lumpNodes, node, field, ss)
		}
		return &l.SubSectors[ss], nil
	}
	if num >= len(l.Nodes) {
		return nil, danglingRef(lumpNodes, node, field, num)
	}
	return &l.Nodes[num], nil
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
