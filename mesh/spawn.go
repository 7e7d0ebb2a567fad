package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	wad "github.com/stuarthighley/wadmesh"
)

// Spawn is a player start in render space.
type Spawn struct {
	Position mgl32.Vec3 // On the ground plane, y = 0
	Facing   mgl32.Vec3 // Unit vector in the xz plane
	Thing    int        // Index of the source thing
}

// PlayerStart finds the first player 1 start of l. It returns false if the
// level has none; callers then supply their own spawn point.
func PlayerStart(l *wad.Level) (Spawn, bool) {
	for i, t := range l.Things {
		if t.Type != wad.PlayerOneStart {
			continue
		}
		sin, cos := math32.Sincos(float32(t.Angle))
		return Spawn{
			Position: ToRender(t.X, t.Y, 0),
			Facing:   mgl32.Vec3{cos, 0, -sin},
			Thing:    i,
		}, true
	}
	logger.Debug("No player start")
	return Spawn{}, false
}

// LocatePlayerStart returns the render-space position of the player 1 start.
func LocatePlayerStart(l *wad.Level) (mgl32.Vec3, bool) {
	s, ok := PlayerStart(l)
	return s.Position, ok
}
