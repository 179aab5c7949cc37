package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRayToFloorStraightDown(t *testing.T) {
	hit, ok := RayToFloor(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, -1}, 10)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if hit.Distance != 3 {
		t.Fatalf("expected distance 3, got=%f", hit.Distance)
	}
	if hit.Point != (mgl64.Vec3{1, 2, 0}) {
		t.Fatalf("expected hit at (1,2,0), got=%v", hit.Point)
	}
	if hit.Normal != (mgl64.Vec3{0, 0, 1}) {
		t.Fatalf("expected up normal, got=%v", hit.Normal)
	}
}

func TestRayToFloorSlanted(t *testing.T) {
	dir := mgl64.Vec3{1, 0, -1}.Normalize()
	hit, ok := RayToFloor(mgl64.Vec3{0, 0, 2}, dir, 10)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.Distance-2*math.Sqrt2) > 1e-12 {
		t.Fatalf("expected distance 2*sqrt2, got=%f", hit.Distance)
	}
	if hit.Point[2] != 0 {
		t.Fatalf("expected hit on the plane, z=%f", hit.Point[2])
	}
	if math.Abs(hit.Point[0]-2) > 1e-12 {
		t.Fatalf("expected hit at x=2, got=%f", hit.Point[0])
	}
}

func TestRayToFloorMisses(t *testing.T) {
	// Too short.
	if _, ok := RayToFloor(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1}, 2); ok {
		t.Fatalf("expected miss beyond max distance")
	}
	// Pointing away.
	if _, ok := RayToFloor(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 1}, 100); ok {
		t.Fatalf("expected miss when pointing up")
	}
	// Parallel to the plane.
	if _, ok := RayToFloor(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{1, 0, 0}, 100); ok {
		t.Fatalf("expected miss when parallel")
	}
}

func TestRayToFloorAtMaxDistance(t *testing.T) {
	if _, ok := RayToFloor(mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 0, -1}, 2); !ok {
		t.Fatalf("expected a hit exactly at max distance")
	}
}
