package mesh

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// WriteOBJ writes g as a Wavefront OBJ document with the groups "walls" and
// "floors". Walls are quad faces. Floors are the raw subsector outlines,
// written as closed polylines since they are not tessellated.
func WriteOBJ(w io.Writer, g *Geometry) error {
	bw := bufio.NewWriter(w)

	writeVertices := func(vs []mgl32.Vec3) {
		for _, v := range vs {
			fmt.Fprintf(bw, "v %g %g %g\n", v.X(), v.Y(), v.Z())
		}
	}

	// OBJ indices are 1-based and global across groups
	fmt.Fprintln(bw, "g walls")
	writeVertices(g.WallVertices)
	for _, q := range g.Walls {
		fmt.Fprintf(bw, "f %d %d %d %d\n", q.A+1, q.B+1, q.C+1, q.D+1)
	}

	fmt.Fprintln(bw, "g floors")
	writeVertices(g.FloorVertices)
	base := uint32(len(g.WallVertices)) + 1
	for _, p := range g.Floors {
		if len(p.Indices) < 2 {
			continue
		}
		fmt.Fprint(bw, "l")
		for _, i := range p.Indices {
			fmt.Fprintf(bw, " %d", base+i)
		}
		fmt.Fprintf(bw, " %d\n", base+p.Indices[0])
	}

	return bw.Flush()
}
