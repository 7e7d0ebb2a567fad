package wad

import (
	"fmt"
	"io"
)

// PrintTree writes the BSP tree below root to w, one member per line,
// indenting each level by three spaces.
func PrintTree(w io.Writer, root BSPMember) error {
	var printRecursive func(BSPMember, string) error
	printRecursive = func(member BSPMember, prefix string) error {
		switch v := member.(type) {
		case *SubSector:
			if v.Sector == nil {
				_, err := fmt.Fprintf(w, "%s- subsector %d: empty\n", prefix, v.Index)
				return err
			}
			_, err := fmt.Fprintf(w, "%s- subsector %d: sector %d, %d segments\n",
				prefix, v.Index, v.Sector.Index, len(v.Segments))
			return err
		case *Node:
			if _, err := fmt.Fprintf(w, "%s- node (%d,%d) d(%d,%d)\n", prefix, v.X, v.Y, v.DX, v.DY); err != nil {
				return err
			}
			if err := printRecursive(v.ChildR, prefix+"   "); err != nil {
				return err
			}
			return printRecursive(v.ChildL, prefix+"   ")
		}
		_, err := fmt.Fprintln(w, prefix+"- null")
		return err
	}

	return printRecursive(root, "")
}
