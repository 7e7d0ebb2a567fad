// Package mesh turns a decoded wad.Level into renderer-agnostic geometry:
// vertical wall quads, one floor outline per subsector and the player spawn
// point, all in render space.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	wad "github.com/stuarthighley/wadmesh"
)

// Scale is the number of map units per render-space unit.
const Scale = 64

// WallQuad names the four corners of one wall face in Geometry.WallVertices,
// wound bottom-left, top-left, top-right, bottom-right.
type WallQuad struct {
	A, B, C, D uint32
	Line       int // Index of the source line
}

// FloorPolygon is the floor outline of one subsector. Indices is the run
// FloorVertices[Offset : Offset+len(Indices)].
type FloorPolygon struct {
	SubSector int
	Sector    int // -1 for an empty subsector
	Offset    int
	Indices   []uint32
}

// Geometry holds the wall and floor meshes of a level. Vertices are owned by
// Geometry and never shared between quads.
type Geometry struct {
	Walls         []WallQuad
	WallVertices  []mgl32.Vec3
	Floors        []FloorPolygon
	FloorVertices []mgl32.Vec3
}

// ToRender maps a map-space point at the given height to render space. Map y
// becomes negated render z and height becomes render y.
func ToRender(x, y, height int) mgl32.Vec3 {
	return mgl32.Vec3{float32(x) / Scale, float32(height) / Scale, -float32(y) / Scale}
}

// Synthesize builds the wall and floor meshes of l. It expects a level
// returned by wad.ReadLevel and only fails on unresolved references.
func Synthesize(l *wad.Level) (*Geometry, error) {
	g := &Geometry{}
	for i := range l.Lines {
		if err := g.addLineWalls(i, &l.Lines[i]); err != nil {
			return nil, err
		}
	}
	for i := range l.SubSectors {
		if err := g.addFloor(&l.SubSectors[i]); err != nil {
			return nil, err
		}
	}
	logger.Debug("Synthesized geometry",
		zap.String("level", l.Name),
		zap.Int("walls", len(g.Walls)),
		zap.Int("wallVertices", len(g.WallVertices)),
		zap.Int("floors", len(g.Floors)),
		zap.Int("floorVertices", len(g.FloorVertices)))
	return g, nil
}

// addLineWalls emits the walls of one line. A one-sided line gets a single
// floor to ceiling quad. A two-sided line gets a quad across each height
// step between its sectors, and none if the sectors line up.
func (g *Geometry) addLineWalls(index int, li *wad.Line) error {
	if li.SideR == nil || li.SideR.Sector == nil {
		return errors.Wrapf(wad.ErrDanglingReference, "line %d has no front sector", index)
	}
	front := li.SideR.Sector
	if li.SideL == nil {
		g.addWall(index, li.V1, li.V2, front.FloorHeight, front.CeilingHeight)
		return nil
	}
	if li.SideL.Sector == nil {
		return errors.Wrapf(wad.ErrDanglingReference, "line %d has no back sector", index)
	}
	back := li.SideL.Sector

	// Both step directions produce the same quad.
	if front.FloorHeight < back.FloorHeight {
		g.addWall(index, li.V1, li.V2, front.FloorHeight, back.FloorHeight)
	} else if front.FloorHeight > back.FloorHeight {
		g.addWall(index, li.V1, li.V2, back.FloorHeight, front.FloorHeight)
	}
	if front.CeilingHeight != back.CeilingHeight {
		g.addWall(index, li.V1, li.V2,
			min(front.CeilingHeight, back.CeilingHeight), max(front.CeilingHeight, back.CeilingHeight))
	}
	return nil
}

func (g *Geometry) addWall(line int, v1, v2 wad.Vertex, bottom, top int) {
	base := uint32(len(g.WallVertices))
	g.WallVertices = append(g.WallVertices,
		ToRender(v1.X, v1.Y, bottom),
		ToRender(v1.X, v1.Y, top),
		ToRender(v2.X, v2.Y, top),
		ToRender(v2.X, v2.Y, bottom),
	)
	g.Walls = append(g.Walls, WallQuad{A: base, B: base + 1, C: base + 2, D: base + 3, Line: line})
}

// addFloor emits the outline of one subsector at its floor height. Segments
// on the back side of their line are reversed so the outline keeps one
// winding. An empty subsector gets an empty polygon with Sector -1.
func (g *Geometry) addFloor(s *wad.SubSector) error {
	if len(s.Segments) == 0 {
		g.Floors = append(g.Floors, FloorPolygon{SubSector: s.Index, Sector: -1, Offset: len(g.FloorVertices)})
		return nil
	}
	if s.Sector == nil {
		return errors.Wrapf(wad.ErrDanglingReference, "subsector %d has no sector", s.Index)
	}
	height := s.Sector.FloorHeight
	poly := FloorPolygon{
		SubSector: s.Index,
		Sector:    s.Sector.Index,
		Offset:    len(g.FloorVertices),
		Indices:   make([]uint32, 0, 2*len(s.Segments)),
	}
	for _, seg := range s.Segments {
		first, second := seg.V1, seg.V2
		if seg.IsSideL {
			first, second = second, first
		}
		for _, v := range [2]wad.Vertex{first, second} {
			poly.Indices = append(poly.Indices, uint32(len(g.FloorVertices)))
			g.FloorVertices = append(g.FloorVertices, ToRender(v.X, v.Y, height))
		}
	}
	g.Floors = append(g.Floors, poly)
	return nil
}

// WallIndices expands every quad into two triangles, (A,B,C) and (A,C,D).
func (g *Geometry) WallIndices() []uint32 {
	indices := make([]uint32, 0, 6*len(g.Walls))
	for _, q := range g.Walls {
		indices = append(indices, q.A, q.B, q.C, q.A, q.C, q.D)
	}
	return indices
}

// FloorIndices concatenates the index runs of all floor polygons in
// subsector order.
func (g *Geometry) FloorIndices() []uint32 {
	indices := make([]uint32, 0, len(g.FloorVertices))
	for _, p := range g.Floors {
		indices = append(indices, p.Indices...)
	}
	return indices
}
