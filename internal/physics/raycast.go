package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// RayHit describes the closest intersection of a ray with the floor plane.
type RayHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// RayToFloor casts a ray against the z=0 floor plane. The direction does not
// need to be normalized; Distance is reported in units of its length. A ray
// parallel to the plane, pointing away from it, or hitting beyond maxDistance
// reports no hit.
func RayToFloor(origin, direction mgl64.Vec3, maxDistance float64) (RayHit, bool) {
	if direction[2] == 0 {
		return RayHit{}, false
	}
	t := -origin[2] / direction[2]
	if t < 0 || t > maxDistance {
		return RayHit{}, false
	}
	point := origin.Add(direction.Mul(t))
	point[2] = 0
	return RayHit{Point: point, Normal: mgl64.Vec3{0, 0, 1}, Distance: t}, true
}
