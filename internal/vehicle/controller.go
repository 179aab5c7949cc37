package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kedfre/portfolio-sub000/internal/physics"
	"github.com/kedfre/portfolio-sub000/internal/shared/logger"
)

// Actions is the per-tick snapshot of discrete control inputs.
type Actions struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
	Brake bool
	Boost bool
}

// Joystick is the optional analog steering input: a world-frame heading the
// player is pointing toward.
type Joystick struct {
	Active bool
	Angle  float64
}

// forwardDeadzone is the forward-speed magnitude under which the drive
// direction stays "forward", avoiding steering-direction flicker at rest.
const forwardDeadzone = 0.05

// Controller owns one vehicle: the chassis body, the raycast suspension,
// the tuning options and the per-tick control law that turns action flags
// into steering, engine force and brake commands. It also maintains derived
// kinematics and the rollover watchdog.
type Controller struct {
	world *physics.World
	log   *logger.Logger
	opts  Options

	vehicle *RaycastVehicle
	chassis *physics.Body
	front   []int
	rear    []int

	steering     float64
	accelerating float64
	accelTier    float64
	speed        float64
	forwardSpeed float64
	goingForward bool
	angle        float64

	lastPosition mgl64.Vec3
	watchdog     *uprightWatchdog
	chassisHits  []physics.CollisionEvent

	unsubPre  func()
	unsubPost func()
	destroyed bool
}

// NewController validates the options, builds the chassis and wheels in the
// world and hooks the vehicle into the step loop.
func NewController(world *physics.World, opts Options, log *logger.Logger) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New("vehicle")
	}
	c := &Controller{
		world:        world,
		log:          log,
		opts:         opts,
		goingForward: true,
		watchdog:     newUprightWatchdog(opts),
	}
	c.spawn()
	return c, nil
}

// Options returns the live tuning struct. Controls* and Upright* fields
// take effect on the next tick; dimensional fields are baked into shapes
// and only apply after Reset.
func (c *Controller) Options() *Options { return &c.opts }

// Vehicle exposes the raycast suspension layer.
func (c *Controller) Vehicle() *RaycastVehicle { return c.vehicle }

// Chassis exposes the chassis body for visual sync.
func (c *Controller) Chassis() *physics.Body { return c.chassis }

// Steering returns the current steering angle in radians.
func (c *Controller) Steering() float64 { return c.steering }

// Speed returns the chassis displacement magnitude per second, measured
// once per physics post-step.
func (c *Controller) Speed() float64 { return c.speed }

// ForwardSpeed returns the signed speed along the chassis forward axis.
func (c *Controller) ForwardSpeed() float64 { return c.forwardSpeed }

// GoingForward reports the current drive direction.
func (c *Controller) GoingForward() bool { return c.goingForward }

// Angle returns the heading in radians, atan2 of the world forward vector.
func (c *Controller) Angle() float64 { return c.angle }

// AccelerationTier reports the engine intensity consumed by audio:
// 0 idle, 0.5 driving, 1 boosting.
func (c *Controller) AccelerationTier() float64 { return c.accelTier }

// UprightState names the rollover watchdog state, for diagnostics.
func (c *Controller) UprightState() string { return c.watchdog.state.String() }

// ChassisHits returns the chassis collision events recorded by the most
// recent step. Valid until the next step.
func (c *Controller) ChassisHits() []physics.CollisionEvent { return c.chassisHits }

// spawn creates the chassis body and wheels at the configured spawn pose
// and registers the step hooks.
func (c *Controller) spawn() {
	o := c.opts
	chassis := physics.NewBody(o.ChassisMass, o.SpawnPosition, c.world.Materials().Material("dummy"))
	chassis.AllowSleep = false
	chassis.AddShape(physics.Box{
		HalfExtents: mgl64.Vec3{o.ChassisLength / 2, o.ChassisWidth / 2, o.ChassisHeight / 2},
	}, o.ChassisOffset, mgl64.QuatIdent())
	c.world.AddBody(chassis)

	v := NewRaycastVehicle(chassis)
	c.front = c.front[:0]
	c.rear = c.rear[:0]
	for _, placement := range o.Layout() {
		idx := v.AddWheel(WheelOptions{
			Connection:             placement.Connection,
			Down:                   mgl64.Vec3{0, 0, -1},
			Axle:                   mgl64.Vec3{0, 1, 0},
			Radius:                 o.WheelRadius,
			RestLength:             o.SuspensionRestLength,
			Stiffness:              o.SuspensionStiffness,
			DampingCompression:     o.SuspensionDampingCompress,
			DampingRelaxation:      o.SuspensionDampingRelaxation,
			MaxForce:               o.SuspensionMaxForce,
			MaxTravel:              o.SuspensionMaxTravel,
			RollInfluence:          o.RollInfluence,
			FrictionSlip:           o.FrictionSlip,
			SlidingRotationalSpeed: o.SlidingRotationalSpeed,
		})
		if placement.Role == RoleFront {
			c.front = append(c.front, idx)
		} else {
			c.rear = append(c.rear, idx)
		}
	}

	c.chassis = chassis
	c.vehicle = v
	c.lastPosition = chassis.Position
	c.steering = 0
	c.accelerating = 0
	c.accelTier = 0
	c.speed = 0
	c.forwardSpeed = 0
	c.goingForward = true
	c.watchdog.reset()

	c.unsubPre = c.world.OnPreStep(v.Update)
	c.unsubPost = c.world.OnPostStep(c.postStep)
	c.destroyed = false
}

// Destroy synchronously removes the vehicle's body from the world,
// unhooks it from the step loop and invalidates any pending rollover
// timers. Safe to call more than once.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.unsubPre()
	c.unsubPost()
	c.world.RemoveBody(c.chassis)
	c.watchdog.reset()
	c.destroyed = true
}

// Reset destroys and recreates the whole vehicle at the spawn pose with
// zero velocity, then wakes it. This is the one supported recovery from an
// unrecoverable physical state. Immediately repeated calls are safe.
func (c *Controller) Reset() {
	c.Destroy()
	c.spawn()
	c.chassis.Wake()
	c.log.Printf("vehicle reset to spawn %v", c.opts.SpawnPosition)
}

// Tick runs the control law for one frame. All setter effects land before
// the world step that follows.
func (c *Controller) Tick(in Actions, joy Joystick, dt float64) {
	if c.destroyed || dt <= 0 {
		return
	}
	c.tickSteering(in, joy, dt)
	c.tickAcceleration(in)
	c.tickBrake(in)
	c.tickIdleDrag(in, dt)
}

func (c *Controller) tickSteering(in Actions, joy Joystick, dt float64) {
	o := &c.opts
	switch {
	case joy.Active:
		target := wrapAngle(joy.Angle - c.angle)
		if !c.goingForward {
			target = -target
		}
		c.steering = target

	case in.Left && !in.Right:
		c.steering += o.SteeringSpeed * dt

	case in.Right && !in.Left:
		c.steering -= o.SteeringSpeed * dt

	default:
		// Decay toward center without overshooting.
		decay := o.SteeringSpeed * dt
		if math.Abs(c.steering) <= decay {
			c.steering = 0
		} else {
			c.steering -= sign(c.steering) * decay
		}
	}
	c.steering = clampAbs(c.steering, o.SteeringMax)

	for _, i := range c.front {
		c.vehicle.SetSteeringValue(c.steering, i)
	}
	if o.QuadSteering {
		for _, i := range c.rear {
			c.vehicle.SetSteeringValue(c.steering, i)
		}
	}
}

func (c *Controller) tickAcceleration(in Actions) {
	o := &c.opts
	maxSpeed := o.AccelMaxSpeed
	force := o.AccelForce
	if in.Boost {
		maxSpeed = o.AccelMaxSpeedBoost
		force = o.AccelForceBoost
	}

	engine := 0.0
	c.accelTier = 0
	switch {
	case in.Up && !in.Down:
		// Push only while the tier's top speed is not exceeded in the
		// forward direction.
		if c.speed < maxSpeed || !c.goingForward {
			engine = force
		}
		c.accelTier = 0.5
	case in.Down && !in.Up:
		if c.speed < maxSpeed || c.goingForward {
			engine = -force
		}
		c.accelTier = 0.5
	}
	if c.accelTier > 0 && in.Boost {
		c.accelTier = 1
	}
	c.accelerating = engine

	driven := c.rear
	if o.QuadAcceleration {
		driven = append(append([]int{}, c.rear...), c.front...)
	}
	perWheel := engine / float64(len(driven))
	for i := range c.vehicle.Wheels {
		c.vehicle.ApplyEngineForce(0, i)
	}
	for _, i := range driven {
		c.vehicle.ApplyEngineForce(perWheel, i)
	}
}

func (c *Controller) tickBrake(in Actions) {
	brake := 0.0
	if in.Brake {
		brake = c.opts.BrakeStrength
	}
	for i := range c.vehicle.Wheels {
		c.vehicle.SetBrake(brake, i)
	}
}

// tickIdleDrag applies rolling resistance directly to the chassis when no
// drive input is held, so the car coasts to a stop without relying on
// contact friction tuning alone.
func (c *Controller) tickIdleDrag(in Actions, dt float64) {
	if in.Up || in.Down {
		return
	}
	factor := c.opts.IdleDragRate * dt
	if factor > 1 {
		factor = 1
	}
	horizontal := mgl64.Vec3{c.chassis.Velocity[0], c.chassis.Velocity[1], 0}
	impulse := horizontal.Mul(-factor * c.chassis.Mass)
	c.chassis.ApplyImpulse(impulse, c.chassis.Position)
}

// postStep recomputes the derived kinematics from the step's displacement
// and advances the rollover watchdog. Runs inside the world's post-step
// hook, after contacts, before the caller regains control.
func (c *Controller) postStep(dt float64) {
	delta := c.chassis.Position.Sub(c.lastPosition)
	c.lastPosition = c.chassis.Position
	c.speed = delta.Len() / dt

	forward := c.chassis.VectorToWorld(mgl64.Vec3{1, 0, 0})
	c.angle = math.Atan2(forward[1], forward[0])
	c.forwardSpeed = forward.Dot(delta) / dt
	if math.Abs(c.forwardSpeed) > forwardDeadzone {
		c.goingForward = c.forwardSpeed > 0
	} else if c.speed < forwardDeadzone {
		c.goingForward = true
	}

	c.watchdog.threshold = c.opts.UprightThreshold
	c.watchdog.graceDelay = c.opts.UprightGraceDelay
	c.watchdog.cooldown = c.opts.UprightCooldown
	c.watchdog.impulse = c.opts.UprightImpulse
	c.watchdog.observe(c.world.Time(), c.chassis)

	c.chassisHits = c.chassisHits[:0]
	for _, ev := range c.world.Events() {
		if ev.BodyA == c.chassis || ev.BodyB == c.chassis {
			c.chassisHits = append(c.chassisHits, ev)
		}
	}
}

// wrapAngle maps any angle into (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
