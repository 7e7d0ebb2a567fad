package wad

type binLine struct {
	V1, V2    int16
	Flags     int16
	Special   int16
	SectorTag int16
	SideR     int16 // Front side, always present
	SideL     int16 // Back side, -1 if one-sided
}

// Line is a LINEDEF: a wall boundary between two vertexes with a front
// side and, for two-sided lines, a back side.
type Line struct {
	V1Num        int
	V2Num        int
	Flags        LineFlags
	Special      int
	SectorTagNum int
	SideRNum     int
	SideLNum     int // Negative if one-sided

	// References
	V1, V2                  Vertex
	SideR, SideL            *Side   // SideL is nil if one-sided
	FrontSector, BackSector *Sector // Sectors of SideR and SideL
}

// TwoSided reports whether the line has a back side. This is decided by the
// side reference, not by the two-sided flag, which some maps set wrongly.
func (l *Line) TwoSided() bool {
	return l.SideL != nil
}

// LineFlags holds the LINEDEF flag bits.
type LineFlags uint16

const (
	LineBlocking      LineFlags = 1 << iota // Blocks players and monsters
	LineBlockMonsters                       // Blocks monsters only
	LineTwoSided                            // Back side present
	LineUpperUnpegged                       // Upper texture anchored to ceiling
	LineLowerUnpegged                       // Lower texture anchored to floor
	LineSecret                              // Drawn as one-sided on the automap
	LineBlockSound                          // Stops sound propagation
	LineNeverMap                            // Never drawn on the automap
	LineAlwaysMap                           // Always drawn on the automap
)

// Has reports whether all bits of f are set.
func (lf LineFlags) Has(f LineFlags) bool {
	return lf&f == f
}
