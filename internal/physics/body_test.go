package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestApplyImpulseChangesVelocity(t *testing.T) {
	b := NewBody(2, mgl64.Vec3{}, nil)
	b.AddShape(Sphere{Radius: 0.5}, mgl64.Vec3{}, mgl64.QuatIdent())

	b.ApplyImpulse(mgl64.Vec3{4, 0, 0}, b.Position)
	if b.Velocity != (mgl64.Vec3{2, 0, 0}) {
		t.Fatalf("expected velocity (2,0,0), got=%v", b.Velocity)
	}
	if b.AngularVelocity != (mgl64.Vec3{}) {
		t.Fatalf("expected no spin from a centered impulse, got=%v", b.AngularVelocity)
	}
}

func TestOffCenterImpulseSpinsBody(t *testing.T) {
	b := NewBody(2, mgl64.Vec3{}, nil)
	b.AddShape(Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, mgl64.Vec3{}, mgl64.QuatIdent())

	b.ApplyImpulse(mgl64.Vec3{0, 0, 3}, mgl64.Vec3{0, 0.5, 0})
	if b.AngularVelocity[0] <= 0 {
		t.Fatalf("expected roll about +x from lifting the +y side, got=%v", b.AngularVelocity)
	}
	if b.Velocity[2] != 1.5 {
		t.Fatalf("expected linear velocity 1.5 up, got=%v", b.Velocity)
	}
}

func TestForceIntegratesOverStep(t *testing.T) {
	b := NewBody(2, mgl64.Vec3{}, nil)
	b.AddShape(Sphere{Radius: 0.5}, mgl64.Vec3{}, mgl64.QuatIdent())

	b.ApplyForce(mgl64.Vec3{12, 0, 0}, b.Position)
	b.integrate(1.0/60.0, mgl64.Vec3{})

	want := 12.0 / 2.0 / 60.0
	if math.Abs(b.Velocity[0]-want) > 1e-12 {
		t.Fatalf("expected velocity %f, got=%f", want, b.Velocity[0])
	}
	// Accumulators are consumed by the step.
	b.integrate(1.0/60.0, mgl64.Vec3{})
	if math.Abs(b.Velocity[0]-want) > 1e-12 {
		t.Fatalf("expected force cleared after integration, vel=%f", b.Velocity[0])
	}
}

func TestStaticBodyIgnoresForces(t *testing.T) {
	b := NewBody(0, mgl64.Vec3{1, 1, 0}, nil)
	b.AddShape(Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, mgl64.Vec3{}, mgl64.QuatIdent())

	b.ApplyForce(mgl64.Vec3{0, 0, 100}, b.Position)
	b.ApplyImpulse(mgl64.Vec3{0, 0, 100}, b.Position)
	b.integrate(1.0/60.0, mgl64.Vec3{0, 0, -9.81})

	if b.Position != (mgl64.Vec3{1, 1, 0}) || b.Velocity != (mgl64.Vec3{}) {
		t.Fatalf("expected static body unmoved, pos=%v vel=%v", b.Position, b.Velocity)
	}
	if !b.Static() {
		t.Fatalf("expected zero-mass body to report static")
	}
}

func TestPointToWorldFollowsOrientation(t *testing.T) {
	b := NewBody(1, mgl64.Vec3{10, 0, 0}, nil)
	b.Orientation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})

	// Local +X turns into world +Y under a 90 degree yaw.
	p := b.PointToWorld(mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{10, 1, 0}
	if p.Sub(want).Len() > 1e-12 {
		t.Fatalf("expected %v, got=%v", want, p)
	}

	v := b.VectorToWorld(mgl64.Vec3{1, 0, 0})
	if v.Sub(mgl64.Vec3{0, 1, 0}).Len() > 1e-12 {
		t.Fatalf("expected rotated direction (0,1,0), got=%v", v)
	}
}

func TestPointVelocityIncludesSpin(t *testing.T) {
	b := NewBody(1, mgl64.Vec3{}, nil)
	b.AddShape(Sphere{Radius: 1}, mgl64.Vec3{}, mgl64.QuatIdent())
	b.Velocity = mgl64.Vec3{1, 0, 0}
	b.AngularVelocity = mgl64.Vec3{0, 0, 2}

	// A point on +Y under +Z spin moves in -X at omega*r.
	v := b.PointVelocity(mgl64.Vec3{0, 1, 0})
	want := mgl64.Vec3{-1, 0, 0}
	if v.Sub(want).Len() > 1e-12 {
		t.Fatalf("expected %v, got=%v", want, v)
	}
}

func TestCompoundInertiaUsesParallelAxis(t *testing.T) {
	centered := NewBody(8, mgl64.Vec3{}, nil)
	centered.AddShape(Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, mgl64.Vec3{}, mgl64.QuatIdent())

	offset := NewBody(8, mgl64.Vec3{}, nil)
	offset.AddShape(Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, mgl64.Vec3{2, 0, 0}, mgl64.QuatIdent())

	// The offset copy is harder to spin about z, so its inverse inertia
	// entry is smaller.
	if offset.invInertiaLocal[8] >= centered.invInertiaLocal[8] {
		t.Fatalf("expected offset shape to raise inertia, centered=%f offset=%f",
			centered.invInertiaLocal[8], offset.invInertiaLocal[8])
	}
	// Offset along x leaves the x axis untouched.
	if math.Abs(offset.invInertiaLocal[0]-centered.invInertiaLocal[0]) > 1e-12 {
		t.Fatalf("expected x inertia unchanged, centered=%f offset=%f",
			centered.invInertiaLocal[0], offset.invInertiaLocal[0])
	}
}

func TestLocalImpulseMatchesWorldImpulse(t *testing.T) {
	a := NewBody(2, mgl64.Vec3{5, 0, 0}, nil)
	a.AddShape(Box{HalfExtents: mgl64.Vec3{1, 0.5, 0.25}}, mgl64.Vec3{}, mgl64.QuatIdent())
	a.Orientation = mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1})

	b := NewBody(2, mgl64.Vec3{5, 0, 0}, nil)
	b.AddShape(Box{HalfExtents: mgl64.Vec3{1, 0.5, 0.25}}, mgl64.Vec3{}, mgl64.QuatIdent())
	b.Orientation = a.Orientation

	local := mgl64.Vec3{0, 0, 3}
	point := mgl64.Vec3{0, 0.5, 0}
	a.ApplyLocalImpulse(local, point)
	b.ApplyImpulse(b.Orientation.Rotate(local), b.PointToWorld(point))

	if a.Velocity.Sub(b.Velocity).Len() > 1e-12 {
		t.Fatalf("expected identical velocity, a=%v b=%v", a.Velocity, b.Velocity)
	}
	if a.AngularVelocity.Sub(b.AngularVelocity).Len() > 1e-12 {
		t.Fatalf("expected identical spin, a=%v b=%v", a.AngularVelocity, b.AngularVelocity)
	}
}
