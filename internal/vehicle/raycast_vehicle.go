package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kedfre/portfolio-sub000/internal/physics"
)

// WheelOptions describes one wheel attached to the chassis. Directions are
// chassis-local.
type WheelOptions struct {
	Connection mgl64.Vec3 // suspension attachment point on the chassis
	Down       mgl64.Vec3 // ray direction, usually -Z
	Axle       mgl64.Vec3 // axle direction, usually +Y

	Radius                 float64
	RestLength             float64
	Stiffness              float64
	DampingCompression     float64
	DampingRelaxation      float64
	MaxForce               float64
	MaxTravel              float64
	RollInfluence          float64
	FrictionSlip           float64
	SlidingRotationalSpeed float64
}

// Wheel is the per-wheel state recomputed every step. Steering, EngineForce
// and Brake persist between setter calls; decay is the controller's job.
type Wheel struct {
	WheelOptions

	Steering    float64
	EngineForce float64
	Brake       float64

	SuspensionLength float64
	SuspensionForce  float64
	InContact        bool
	ContactPoint     mgl64.Vec3
	ContactNormal    mgl64.Vec3

	WorldPosition    mgl64.Vec3
	WorldOrientation mgl64.Quat
	Rotation         float64

	prevLength float64
}

// RaycastVehicle binds one chassis body to its suspended wheels. Each step
// it casts one ray per wheel down to the floor, turns compression into a
// spring-damper force on the chassis, applies tire friction at the contact
// point and refreshes the wheel transforms for visual sync.
type RaycastVehicle struct {
	Chassis *physics.Body
	Wheels  []*Wheel
}

// NewRaycastVehicle wraps an existing chassis body.
func NewRaycastVehicle(chassis *physics.Body) *RaycastVehicle {
	return &RaycastVehicle{Chassis: chassis}
}

// AddWheel appends a wheel and returns its index. Index order is the order
// of addition; the vehicle itself is order-agnostic.
func (v *RaycastVehicle) AddWheel(opts WheelOptions) int {
	if opts.Down.Len() == 0 {
		opts.Down = mgl64.Vec3{0, 0, -1}
	}
	if opts.Axle.Len() == 0 {
		opts.Axle = mgl64.Vec3{0, 1, 0}
	}
	opts.Down = opts.Down.Normalize()
	opts.Axle = opts.Axle.Normalize()

	w := &Wheel{
		WheelOptions:     opts,
		SuspensionLength: opts.RestLength,
		prevLength:       opts.RestLength,
		WorldOrientation: mgl64.QuatIdent(),
	}
	v.Wheels = append(v.Wheels, w)
	return len(v.Wheels) - 1
}

// SetSteeringValue sets a wheel's steering angle in radians. The angle is
// not clamped here; any finite value yields a finite transform. Unknown
// indices are ignored.
func (v *RaycastVehicle) SetSteeringValue(angle float64, wheel int) {
	if wheel < 0 || wheel >= len(v.Wheels) {
		return
	}
	v.Wheels[wheel].Steering = angle
}

// ApplyEngineForce sets the engine force on a wheel; it persists until the
// next call. Unknown indices are ignored.
func (v *RaycastVehicle) ApplyEngineForce(force float64, wheel int) {
	if wheel < 0 || wheel >= len(v.Wheels) {
		return
	}
	v.Wheels[wheel].EngineForce = force
}

// SetBrake sets the brake force on a wheel. Unknown indices are ignored.
func (v *RaycastVehicle) SetBrake(force float64, wheel int) {
	if wheel < 0 || wheel >= len(v.Wheels) {
		return
	}
	if force < 0 {
		force = 0
	}
	v.Wheels[wheel].Brake = force
}

// Update runs one suspension/friction pass. It is invoked from the world's
// pre-step hook so the forces land in the same step's integration.
func (v *RaycastVehicle) Update(dt float64) {
	if dt <= 0 {
		return
	}
	for _, w := range v.Wheels {
		v.updateWheel(w, dt)
	}
}

func (v *RaycastVehicle) updateWheel(w *Wheel, dt float64) {
	chassis := v.Chassis
	origin := chassis.PointToWorld(w.Connection)
	down := chassis.VectorToWorld(w.Down)
	maxLen := w.RestLength + w.MaxTravel

	hit, ok := physics.RayToFloor(origin, down, maxLen)
	if !ok {
		// No ground within range: the wheel droops to full travel and
		// contributes nothing this step.
		w.InContact = false
		w.SuspensionForce = 0
		w.SuspensionLength = maxLen
		w.prevLength = maxLen
		if w.EngineForce != 0 {
			w.Rotation += w.SlidingRotationalSpeed * dt
		}
		v.placeWheel(w)
		return
	}

	length := hit.Distance
	if length < 0 {
		length = 0
	}
	compressionVel := (length - w.prevLength) / dt
	damping := w.DampingRelaxation
	if compressionVel < 0 {
		damping = w.DampingCompression
	}
	force := w.Stiffness*(w.RestLength-length) - damping*compressionVel
	if force < 0 {
		force = 0
	}
	if force > w.MaxForce {
		force = w.MaxForce
	}

	w.InContact = true
	w.SuspensionLength = length
	w.prevLength = length
	w.SuspensionForce = force
	w.ContactPoint = hit.Point
	w.ContactNormal = hit.Normal

	chassis.ApplyForce(hit.Normal.Mul(force), hit.Point)
	v.applyTireFriction(w, dt)

	v.placeWheel(w)
}

// applyTireFriction applies the longitudinal engine/brake force and a
// lateral grip impulse at the contact point, both bounded by
// frictionSlip * suspension load.
func (v *RaycastVehicle) applyTireFriction(w *Wheel, dt float64) {
	chassis := v.Chassis
	n := w.ContactNormal
	maxFriction := w.FrictionSlip * w.SuspensionForce
	if maxFriction <= 0 {
		return
	}

	steer := mgl64.QuatRotate(w.Steering, mgl64.Vec3{0, 0, 1})
	forward := chassis.VectorToWorld(steer.Rotate(mgl64.Vec3{1, 0, 0}))
	forward = projectOnPlane(forward, n)
	axle := chassis.VectorToWorld(steer.Rotate(w.Axle))
	axle = projectOnPlane(axle, n)
	if forward.Len() < 1e-9 || axle.Len() < 1e-9 {
		return
	}
	forward = forward.Normalize()
	axle = axle.Normalize()

	contactVel := chassis.PointVelocity(w.ContactPoint)
	vLong := contactVel.Dot(forward)
	vLat := contactVel.Dot(axle)
	massShare := chassis.Mass / float64(len(v.Wheels))

	// Lateral grip: cancel sideways slip, Coulomb-limited. The application
	// point's vertical lever arm is scaled by rollInfluence so grip does
	// not flip the chassis on hard turns.
	latImpulse := clampAbs(-vLat*massShare, maxFriction*dt)
	chassis.ApplyImpulse(axle.Mul(latImpulse), v.rollAdjustedPoint(w))

	// Longitudinal: engine drive, slip-limited.
	drive := clampAbs(w.EngineForce, maxFriction)
	if drive != 0 {
		chassis.ApplyForce(forward.Mul(drive), w.ContactPoint)
	}

	// Brake opposes rolling velocity and never reverses it within a step.
	if w.Brake > 0 && vLong != 0 {
		stop := math.Abs(vLong) * massShare
		brakeImpulse := math.Min(w.Brake*dt, stop)
		brakeImpulse = math.Min(brakeImpulse, maxFriction*dt)
		chassis.ApplyImpulse(forward.Mul(-sign(vLong)*brakeImpulse), w.ContactPoint)
	}

	w.Rotation += vLong / w.Radius * dt
}

// rollAdjustedPoint shrinks the chassis-up component of the contact lever
// arm by rollInfluence before the lateral impulse is applied.
func (v *RaycastVehicle) rollAdjustedPoint(w *Wheel) mgl64.Vec3 {
	chassis := v.Chassis
	rel := w.ContactPoint.Sub(chassis.Position)
	up := chassis.VectorToWorld(mgl64.Vec3{0, 0, 1})
	vertical := rel.Dot(up)
	rel = rel.Sub(up.Mul(vertical * (1 - w.RollInfluence)))
	return chassis.Position.Add(rel)
}

// placeWheel composes the chassis transform with the wheel's suspension
// offset, steering yaw and rolling angle for the visual proxy.
func (v *RaycastVehicle) placeWheel(w *Wheel) {
	local := w.Connection.Add(w.Down.Mul(w.SuspensionLength))
	w.WorldPosition = v.Chassis.PointToWorld(local)
	steer := mgl64.QuatRotate(w.Steering, mgl64.Vec3{0, 0, 1})
	roll := mgl64.QuatRotate(w.Rotation, w.Axle)
	w.WorldOrientation = v.Chassis.Orientation.Mul(steer).Mul(roll)
}

func projectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

func clampAbs(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
