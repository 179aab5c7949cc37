package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/kedfre/portfolio-sub000/internal/shared/types"
)

// Snapshot builds a deep copy of the replicated vehicle state for the given
// tick. Safe to hold across steps.
func (c *Controller) Snapshot(tick uint64) types.VehicleState {
	state := types.VehicleState{
		Tick:         tick,
		Position:     toVec3(c.chassis.Position),
		Orientation:  toQuat(c.chassis.Orientation),
		Steering:     c.steering,
		Speed:        c.speed,
		Accelerating: c.accelTier,
		Angle:        c.angle,
		Wheels:       make([]types.WheelState, 0, len(c.vehicle.Wheels)),
	}
	for _, w := range c.vehicle.Wheels {
		state.Wheels = append(state.Wheels, types.WheelState{
			Position:         toVec3(w.WorldPosition),
			Orientation:      toQuat(w.WorldOrientation),
			InContact:        w.InContact,
			SuspensionLength: w.SuspensionLength,
		})
	}
	for _, hit := range c.chassisHits {
		state.Impacts = append(state.Impacts, types.ImpactEvent{
			Position:       toVec3(hit.Point),
			ImpactVelocity: hit.ImpactVelocity,
		})
	}
	return state
}

func toVec3(v mgl64.Vec3) types.Vec3 {
	return types.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func toQuat(q mgl64.Quat) types.Quat {
	return types.Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}
