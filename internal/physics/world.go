package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kedfre/portfolio-sub000/internal/shared/logger"
)

// CollisionEvent is recorded during contact resolution and drained once per
// step by interested owners (impact sounds, chassis hit reactions).
type CollisionEvent struct {
	BodyA          *Body
	BodyB          *Body
	Point          mgl64.Vec3
	ImpactVelocity float64
}

// StepHook runs inside Step with the step's dt.
type StepHook func(dt float64)

// Options configures a World.
type Options struct {
	Gravity   mgl64.Vec3
	Materials *Registry
	Log       *logger.Logger

	// ImpactEventThreshold is the minimum normal impact speed that records
	// a CollisionEvent.
	ImpactEventThreshold float64
}

// DefaultOptions returns the world configuration used by the portfolio
// scene: Z-up gravity and the floor/dummy/wheel material registry.
func DefaultOptions() Options {
	return Options{
		Gravity:              mgl64.Vec3{0, 0, -9.81},
		Materials:            DefaultRegistry(),
		Log:                  logger.New("physics"),
		ImpactEventThreshold: 0.25,
	}
}

// World owns gravity, the body set, floor contact resolution and the fixed
// step loop. All mutation happens synchronously inside Step.
type World struct {
	Gravity   mgl64.Vec3
	materials *Registry
	log       *logger.Logger

	bodies []*Body
	floor  *Body
	nextID int

	time            float64
	events          []CollisionEvent
	preStep         []hookEntry
	postStep        []hookEntry
	nextHook        int
	impactThreshold float64
	numericFaults   int
}

// hookEntry keeps hooks in registration order so stepping stays
// deterministic.
type hookEntry struct {
	id int
	fn StepHook
}

// NewWorld creates a world containing only the static floor plane at z=0.
func NewWorld(opts Options) *World {
	if opts.Materials == nil {
		opts.Materials = DefaultRegistry()
	}
	if opts.Log == nil {
		opts.Log = logger.New("physics")
	}
	if opts.ImpactEventThreshold <= 0 {
		opts.ImpactEventThreshold = 0.25
	}
	w := &World{
		Gravity:         opts.Gravity,
		materials:       opts.Materials,
		log:             opts.Log,
		impactThreshold: opts.ImpactEventThreshold,
	}

	floor := NewBody(0, mgl64.Vec3{}, opts.Materials.Material("floor"))
	floor.Shapes = append(floor.Shapes, ShapeOffset{Shape: Plane{}, Orientation: mgl64.QuatIdent()})
	w.AddBody(floor)
	w.floor = floor
	return w
}

// Materials returns the world's material registry.
func (w *World) Materials() *Registry { return w.materials }

// Floor returns the static floor body.
func (w *World) Floor() *Body { return w.floor }

// Time returns accumulated simulation time in seconds.
func (w *World) Time() float64 { return w.time }

// NumericFaults returns how many times a body was reset after producing
// non-finite state.
func (w *World) NumericFaults() int { return w.numericFaults }

// AddBody inserts a body and assigns its ID.
func (w *World) AddBody(b *Body) {
	w.nextID++
	b.ID = w.nextID
	w.bodies = append(w.bodies, b)
}

// RemoveBody removes a body; removing an unknown body is a no-op.
func (w *World) RemoveBody(b *Body) {
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

// BodyCount returns the number of bodies, including the floor.
func (w *World) BodyCount() int { return len(w.bodies) }

// OnPreStep registers a hook invoked before integration each step. The
// returned function unregisters it.
func (w *World) OnPreStep(h StepHook) func() {
	w.nextHook++
	id := w.nextHook
	w.preStep = append(w.preStep, hookEntry{id: id, fn: h})
	return func() { w.preStep = removeHook(w.preStep, id) }
}

// OnPostStep registers a hook invoked after contact resolution each step.
// The returned function unregisters it.
func (w *World) OnPostStep(h StepHook) func() {
	w.nextHook++
	id := w.nextHook
	w.postStep = append(w.postStep, hookEntry{id: id, fn: h})
	return func() { w.postStep = removeHook(w.postStep, id) }
}

func removeHook(hooks []hookEntry, id int) []hookEntry {
	for i, h := range hooks {
		if h.id == id {
			return append(hooks[:i], hooks[i+1:]...)
		}
	}
	return hooks
}

// Events returns the collision events recorded by the most recent step.
// The slice is valid until the next Step call.
func (w *World) Events() []CollisionEvent { return w.events }

// Step advances the simulation by dt seconds. Stepping with dt <= 0 is a
// no-op. Non-finite body state produced by degenerate contacts is reset to the
// body's last valid state, counted and logged, never propagated.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.events = w.events[:0]

	for _, h := range w.preStep {
		h.fn(dt)
	}

	for _, b := range w.bodies {
		b.integrate(dt, w.Gravity)
	}

	w.resolveFloorContacts(dt)
	w.resolvePairContacts()

	for _, b := range w.bodies {
		if !b.finite() {
			b.restoreValid()
			w.numericFaults++
			w.log.Printf("non-finite state on body %d, rewound to last valid", b.ID)
			continue
		}
		b.captureValid()
		b.updateSleep(dt)
	}

	w.time += dt

	for _, h := range w.postStep {
		h.fn(dt)
	}
}

// resolveFloorContacts pushes penetrating bodies out of the z=0 plane and
// applies restitution and friction impulses per the material pair rules.
func (w *World) resolveFloorContacts(dt float64) {
	normal := mgl64.Vec3{0, 0, 1}
	for _, b := range w.bodies {
		if b.Static() || b.sleeping {
			continue
		}
		rule := w.materials.Rule(b.Material, w.floor.Material)

		deepest := 0.0
		recorded := false
		for _, so := range b.Shapes {
			for _, p := range contactCandidates(b, so) {
				depth := -p[2]
				if depth <= 0 {
					continue
				}
				if depth > deepest {
					deepest = depth
				}

				v := b.PointVelocity(p)
				vn := v.Dot(normal)
				if vn < 0 {
					j := w.contactImpulse(b, p, normal, vn, rule.Restitution)
					b.ApplyImpulse(normal.Mul(j), p)
					w.applyContactFriction(b, p, normal, rule.Friction*j)

					if !recorded && -vn >= w.impactThreshold {
						w.events = append(w.events, CollisionEvent{
							BodyA: b, BodyB: w.floor, Point: p, ImpactVelocity: -vn,
						})
						recorded = true
					}
				}
			}
		}
		if deepest > 0 {
			b.Position[2] += deepest
		}
	}
}

// contactCandidates returns the world-space points of a shape that may be
// below the floor. Spheres contribute their analytic lowest point.
func contactCandidates(b *Body, so ShapeOffset) []mgl64.Vec3 {
	if sp, ok := so.Shape.(Sphere); ok {
		center := b.PointToWorld(so.Offset)
		return []mgl64.Vec3{center.Sub(mgl64.Vec3{0, 0, sp.Radius})}
	}
	local := so.Shape.contactPoints()
	out := make([]mgl64.Vec3, 0, len(local))
	for _, lp := range local {
		p := so.Offset.Add(so.Orientation.Rotate(lp))
		out = append(out, b.PointToWorld(p))
	}
	return out
}

// contactImpulse computes the normal impulse magnitude for a point contact
// against the static floor.
func (w *World) contactImpulse(b *Body, point, normal mgl64.Vec3, vn, restitution float64) float64 {
	r := point.Sub(b.Position)
	rn := r.Cross(normal)
	angular := b.invInertiaWorld().Mul3x1(rn).Cross(r).Dot(normal)
	denom := b.invMass + angular
	if denom <= 0 {
		return 0
	}
	return -(1 + restitution) * vn / denom
}

// applyContactFriction cancels tangential point velocity up to the Coulomb
// limit friction * normalImpulse.
func (w *World) applyContactFriction(b *Body, point, normal mgl64.Vec3, maxImpulse float64) {
	if maxImpulse <= 0 {
		return
	}
	v := b.PointVelocity(point)
	tangent := v.Sub(normal.Mul(v.Dot(normal)))
	speed := tangent.Len()
	if speed < 1e-9 {
		return
	}
	dir := tangent.Mul(1 / speed)
	needed := speed / b.invMass
	j := math.Min(needed, maxImpulse)
	b.ApplyImpulse(dir.Mul(-j), point)
}

// resolvePairContacts handles dynamic/dynamic overlap with a bounding-sphere
// approximation, enough for loose props nudged by the vehicle chassis.
func (w *World) resolvePairContacts() {
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		if a.Static() {
			continue
		}
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if b.Static() {
				continue
			}
			w.resolveSpherePair(a, b)
		}
	}
}

func boundingRadius(b *Body) float64 {
	r := 0.0
	for _, so := range b.Shapes {
		var sr float64
		switch s := so.Shape.(type) {
		case Sphere:
			sr = s.Radius
		case Box:
			sr = s.HalfExtents.Len()
		case Cylinder:
			sr = math.Hypot(s.Radius, s.Height/2)
		default:
			continue
		}
		if d := so.Offset.Len() + sr; d > r {
			r = d
		}
	}
	return r
}

func (w *World) resolveSpherePair(a, b *Body) {
	ra, rb := boundingRadius(a), boundingRadius(b)
	if ra == 0 || rb == 0 {
		return
	}
	delta := b.Position.Sub(a.Position)
	dist := delta.Len()
	minDist := ra + rb
	if dist <= 0 || dist >= minDist {
		return
	}
	n := delta.Mul(1 / dist)

	rel := b.Velocity.Dot(n) - a.Velocity.Dot(n)
	if rel >= 0 {
		return
	}
	rule := w.materials.Rule(a.Material, b.Material)
	invSum := a.invMass + b.invMass
	if invSum <= 0 {
		return
	}
	j := -(1 + rule.Restitution) * rel / invSum

	aWasSleeping := a.sleeping
	bWasSleeping := b.sleeping
	if aWasSleeping {
		a.Wake()
	}
	if bWasSleeping {
		b.Wake()
	}
	a.Velocity = a.Velocity.Sub(n.Mul(j * a.invMass))
	b.Velocity = b.Velocity.Add(n.Mul(j * b.invMass))

	overlap := minDist - dist
	a.Position = a.Position.Sub(n.Mul(overlap * a.invMass / invSum))
	b.Position = b.Position.Add(n.Mul(overlap * b.invMass / invSum))

	if -rel >= w.impactThreshold {
		mid := a.Position.Add(n.Mul(ra))
		w.events = append(w.events, CollisionEvent{BodyA: a, BodyB: b, Point: mid, ImpactVelocity: -rel})
	}
}
