package physics

import (
	"github.com/solarlune/resolv"

	"mygame/football/internal/model"
)

// overlap reports whether two circles whose radii sum to reach touch: the
// centre of one lies inside their Minkowski sum around the other.
func overlap(a, b model.Vec, reach float64) bool {
	return resolv.NewCircle(a.X, a.Y, reach).PointInside(b.R())
}

// pushOut returns the unit normal from a to b and the depth by which b must
// move along it to clear reach. ok is false when they do not overlap.
func pushOut(a, b model.Vec, reach float64, fallback model.Vec) (n model.Vec, depth float64, ok bool) {
	if !overlap(a, b, reach) {
		return model.Vec{}, 0, false
	}
	off := b.Sub(a)
	d := off.Len()
	if d == 0 {
		return fallback, reach, true
	}
	return off.Norm(), reach - d, true
}
