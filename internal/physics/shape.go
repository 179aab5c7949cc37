package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is a convex collision primitive expressed in body-local space.
type Shape interface {
	// Inertia returns the diagonal inertia tensor for the given mass, about
	// the shape's own center.
	Inertia(mass float64) mgl64.Mat3

	// Volume is used to distribute a compound body's mass across shapes.
	Volume() float64

	// contactPoints returns local-space candidate points tested against the
	// floor plane during contact resolution. Spheres are handled
	// analytically and return only their center.
	contactPoints() []mgl64.Vec3
}

// Box is an axis-aligned box described by half extents.
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b Box) Inertia(mass float64) mgl64.Mat3 {
	x, y, z := b.HalfExtents[0]*2, b.HalfExtents[1]*2, b.HalfExtents[2]*2
	return diag(
		mass/12*(y*y+z*z),
		mass/12*(x*x+z*z),
		mass/12*(x*x+y*y),
	)
}

func (b Box) Volume() float64 {
	return 8 * b.HalfExtents[0] * b.HalfExtents[1] * b.HalfExtents[2]
}

func (b Box) contactPoints() []mgl64.Vec3 {
	h := b.HalfExtents
	pts := make([]mgl64.Vec3, 0, 8)
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				pts = append(pts, mgl64.Vec3{sx * h[0], sy * h[1], sz * h[2]})
			}
		}
	}
	return pts
}

// Sphere is a ball of the given radius.
type Sphere struct {
	Radius float64
}

func (s Sphere) Inertia(mass float64) mgl64.Mat3 {
	i := 2.0 / 5.0 * mass * s.Radius * s.Radius
	return diag(i, i, i)
}

func (s Sphere) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
}

func (s Sphere) contactPoints() []mgl64.Vec3 {
	return []mgl64.Vec3{{0, 0, 0}}
}

// Cylinder has its axis along local Z.
type Cylinder struct {
	Radius float64
	Height float64
}

func (c Cylinder) Inertia(mass float64) mgl64.Mat3 {
	r2 := c.Radius * c.Radius
	h2 := c.Height * c.Height
	side := mass * (3*r2 + h2) / 12
	return diag(side, side, mass*r2/2)
}

func (c Cylinder) Volume() float64 {
	return math.Pi * c.Radius * c.Radius * c.Height
}

func (c Cylinder) contactPoints() []mgl64.Vec3 {
	// Eight rim points per cap. Coarse, but the props resting on a flat
	// floor never need finer resolution.
	pts := make([]mgl64.Vec3, 0, 16)
	dirs := [][2]float64{
		{1, 0}, {0.7071, 0.7071}, {0, 1}, {-0.7071, 0.7071},
		{-1, 0}, {-0.7071, -0.7071}, {0, -1}, {0.7071, -0.7071},
	}
	for _, d := range dirs {
		for _, sz := range []float64{-1, 1} {
			pts = append(pts, mgl64.Vec3{d[0] * c.Radius, d[1] * c.Radius, sz * c.Height / 2})
		}
	}
	return pts
}

// Plane is the zero-mass infinite floor at z=0 with normal +Z. It only ever
// belongs to the static floor body.
type Plane struct{}

func (Plane) Inertia(float64) mgl64.Mat3 { return mgl64.Mat3{} }
func (Plane) Volume() float64            { return 0 }
func (Plane) contactPoints() []mgl64.Vec3 {
	return nil
}

// ShapeOffset positions a shape within a compound body.
type ShapeOffset struct {
	Shape       Shape
	Offset      mgl64.Vec3
	Orientation mgl64.Quat
}

func diag(x, y, z float64) mgl64.Mat3 {
	return mgl64.Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}
