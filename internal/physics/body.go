package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// bodyState is the last finite state a body held, restored when a step
// produces non-finite values.
type bodyState struct {
	position        mgl64.Vec3
	orientation     mgl64.Quat
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3
}

// Body is a rigid body in the simulation. Mass 0 marks a static body that
// never moves under force application and is exempt from sleep transitions.
type Body struct {
	ID int

	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3

	Mass     float64
	Material *Material
	Shapes   []ShapeOffset

	AllowSleep      bool
	SleepSpeedLimit float64
	SleepTimeLimit  float64

	invMass         float64
	invInertiaLocal mgl64.Mat3
	force           mgl64.Vec3
	torque          mgl64.Vec3
	sleeping        bool
	sleepTimer      float64
	lastValid       bodyState
}

// NewBody creates a body at the given position. Mass 0 creates a static body.
func NewBody(mass float64, position mgl64.Vec3, material *Material) *Body {
	b := &Body{
		Position:        position,
		Orientation:     mgl64.QuatIdent(),
		Mass:            mass,
		Material:        material,
		AllowSleep:      true,
		SleepSpeedLimit: 0.1,
		SleepTimeLimit:  1.0,
	}
	if mass > 0 {
		b.invMass = 1 / mass
	}
	b.captureValid()
	return b
}

// AddShape appends a shape at the given local offset and recomputes the
// body's inertia tensor.
func (b *Body) AddShape(s Shape, offset mgl64.Vec3, orientation mgl64.Quat) {
	b.Shapes = append(b.Shapes, ShapeOffset{Shape: s, Offset: offset, Orientation: orientation})
	b.updateInertia()
}

// updateInertia rebuilds the local inverse inertia from the shape set,
// distributing mass by shape volume and applying the parallel-axis offset
// on the diagonal.
func (b *Body) updateInertia() {
	if b.invMass == 0 || len(b.Shapes) == 0 {
		b.invInertiaLocal = mgl64.Mat3{}
		return
	}
	total := 0.0
	for _, so := range b.Shapes {
		total += so.Shape.Volume()
	}
	inertia := mgl64.Mat3{}
	for _, so := range b.Shapes {
		m := b.Mass
		if total > 0 {
			m = b.Mass * so.Shape.Volume() / total
		}
		i := so.Shape.Inertia(m)
		d := so.Offset
		d2 := mgl64.Vec3{d[1]*d[1] + d[2]*d[2], d[0]*d[0] + d[2]*d[2], d[0]*d[0] + d[1]*d[1]}
		inertia[0] += i[0] + m*d2[0]
		inertia[4] += i[4] + m*d2[1]
		inertia[8] += i[8] + m*d2[2]
	}
	b.invInertiaLocal = diag(safeInv(inertia[0]), safeInv(inertia[4]), safeInv(inertia[8]))
}

func safeInv(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return 1 / v
}

// Static reports whether the body is kinematically fixed.
func (b *Body) Static() bool { return b.invMass == 0 }

// Sleeping reports whether the body is currently excluded from integration.
func (b *Body) Sleeping() bool { return b.sleeping }

// Wake clears the sleep state and timer.
func (b *Body) Wake() {
	b.sleeping = false
	b.sleepTimer = 0
}

// sleep zeroes motion and marks the body as sleeping.
func (b *Body) sleep() {
	b.sleeping = true
	b.sleepTimer = 0
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

// updateSleep advances the sleep timer; static bodies never transition.
func (b *Body) updateSleep(dt float64) {
	if b.Static() || !b.AllowSleep || b.sleeping {
		return
	}
	speed := b.Velocity.Len() + b.AngularVelocity.Len()
	if speed < b.SleepSpeedLimit {
		b.sleepTimer += dt
		if b.sleepTimer >= b.SleepTimeLimit {
			b.sleep()
		}
	} else {
		b.sleepTimer = 0
	}
}

// ApplyForce accumulates a world-space force acting at a world point.
func (b *Body) ApplyForce(force, worldPoint mgl64.Vec3) {
	if b.Static() {
		return
	}
	b.force = b.force.Add(force)
	r := worldPoint.Sub(b.Position)
	b.torque = b.torque.Add(r.Cross(force))
}

// ApplyImpulse changes velocity immediately. The point is world-space; an
// impulse strong enough to matter wakes a sleeping body.
func (b *Body) ApplyImpulse(impulse, worldPoint mgl64.Vec3) {
	if b.Static() {
		return
	}
	if b.sleeping && impulse.Len()*b.invMass > b.SleepSpeedLimit {
		b.Wake()
	}
	if b.sleeping {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Mul(b.invMass))
	r := worldPoint.Sub(b.Position)
	b.AngularVelocity = b.AngularVelocity.Add(b.invInertiaWorld().Mul3x1(r.Cross(impulse)))
}

// ApplyLocalImpulse applies an impulse given in chassis-local direction at a
// local point.
func (b *Body) ApplyLocalImpulse(localImpulse, localPoint mgl64.Vec3) {
	b.ApplyImpulse(b.Orientation.Rotate(localImpulse), b.PointToWorld(localPoint))
}

// PointToWorld transforms a body-local point to world space.
func (b *Body) PointToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return b.Position.Add(b.Orientation.Rotate(local))
}

// VectorToWorld rotates a body-local direction to world space.
func (b *Body) VectorToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return b.Orientation.Rotate(local)
}

// PointVelocity returns the velocity of a world-space point on the body.
func (b *Body) PointVelocity(worldPoint mgl64.Vec3) mgl64.Vec3 {
	r := worldPoint.Sub(b.Position)
	return b.Velocity.Add(b.AngularVelocity.Cross(r))
}

func (b *Body) invInertiaWorld() mgl64.Mat3 {
	if b.Static() {
		return mgl64.Mat3{}
	}
	r := b.Orientation.Mat4().Mat3()
	return r.Mul3(b.invInertiaLocal).Mul3(r.Transpose())
}

// integrate performs one semi-implicit Euler step: forces to velocity, then
// velocity to position and orientation.
func (b *Body) integrate(dt float64, gravity mgl64.Vec3) {
	if b.Static() || b.sleeping {
		return
	}

	b.Velocity = b.Velocity.Add(gravity.Mul(dt)).Add(b.force.Mul(b.invMass * dt))
	b.AngularVelocity = b.AngularVelocity.Add(b.invInertiaWorld().Mul3x1(b.torque).Mul(dt))

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	omega := mgl64.Quat{W: 0, V: b.AngularVelocity}
	dq := omega.Mul(b.Orientation)
	b.Orientation = mgl64.Quat{
		W: b.Orientation.W + 0.5*dt*dq.W,
		V: b.Orientation.V.Add(dq.V.Mul(0.5 * dt)),
	}.Normalize()

	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

// finite reports whether the body's state is free of NaN/Inf components.
func (b *Body) finite() bool {
	for _, v := range []mgl64.Vec3{b.Position, b.Velocity, b.AngularVelocity} {
		for i := 0; i < 3; i++ {
			if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
				return false
			}
		}
	}
	q := b.Orientation
	for _, c := range []float64{q.W, q.V[0], q.V[1], q.V[2]} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (b *Body) captureValid() {
	b.lastValid = bodyState{
		position:        b.Position,
		orientation:     b.Orientation,
		velocity:        b.Velocity,
		angularVelocity: b.AngularVelocity,
	}
}

// restoreValid rewinds to the last finite state with motion zeroed, so a
// degenerate contact cannot propagate into the next step.
func (b *Body) restoreValid() {
	b.Position = b.lastValid.position
	b.Orientation = b.lastValid.orientation
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}
