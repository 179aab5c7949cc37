package vehicle

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// WheelRole tags a wheel's axle for the control law.
type WheelRole int

const (
	RoleFront WheelRole = iota
	RoleRear
)

// WheelPlacement is one entry of a vehicle's wheel layout: the chassis-local
// suspension connection point plus the axle role.
type WheelPlacement struct {
	Role       WheelRole
	Connection mgl64.Vec3
}

// Options is the flat tuning surface of one vehicle. Chassis and wheel
// geometry fields are baked into collision shapes at construction time and
// require a Reset to change; Controls* and Upright* fields are read every
// tick and may be mutated live.
type Options struct {
	// Chassis, construction-time.
	ChassisLength float64    `toml:"chassis_length"`
	ChassisWidth  float64    `toml:"chassis_width"`
	ChassisHeight float64    `toml:"chassis_height"`
	ChassisMass   float64    `toml:"chassis_mass"`
	ChassisOffset mgl64.Vec3 `toml:"-"`
	SpawnPosition mgl64.Vec3 `toml:"-"`

	// Wheel geometry and suspension, construction-time.
	WheelFrontOffset      float64 `toml:"wheel_front_offset"`
	WheelRearOffset       float64 `toml:"wheel_rear_offset"`
	WheelTrackHalfWidth   float64 `toml:"wheel_track_half_width"`
	WheelConnectionHeight float64 `toml:"wheel_connection_height"`
	WheelRadius           float64 `toml:"wheel_radius"`

	SuspensionRestLength        float64 `toml:"suspension_rest_length"`
	SuspensionStiffness         float64 `toml:"suspension_stiffness"`
	SuspensionDampingCompress   float64 `toml:"suspension_damping_compress"`
	SuspensionDampingRelaxation float64 `toml:"suspension_damping_relaxation"`
	SuspensionMaxForce          float64 `toml:"suspension_max_force"`
	SuspensionMaxTravel         float64 `toml:"suspension_max_travel"`

	RollInfluence          float64 `toml:"roll_influence"`
	FrictionSlip           float64 `toml:"friction_slip"`
	SlidingRotationalSpeed float64 `toml:"sliding_rotational_speed"`

	// Control law, live-tunable.
	SteeringSpeed float64 `toml:"steering_speed"`
	SteeringMax   float64 `toml:"steering_max"`
	QuadSteering  bool    `toml:"quad_steering"`

	AccelMaxSpeed      float64 `toml:"accel_max_speed"`
	AccelMaxSpeedBoost float64 `toml:"accel_max_speed_boost"`
	AccelForce         float64 `toml:"accel_force"`
	AccelForceBoost    float64 `toml:"accel_force_boost"`
	QuadAcceleration   bool    `toml:"quad_acceleration"`

	BrakeStrength float64 `toml:"brake_strength"`
	IdleDragRate  float64 `toml:"idle_drag_rate"`

	// Rollover watchdog, live-tunable. The threshold and delays are
	// hand-tuned defaults, not invariants.
	UprightThreshold  float64 `toml:"upright_threshold"`
	UprightGraceDelay float64 `toml:"upright_grace_delay"`
	UprightCooldown   float64 `toml:"upright_cooldown"`
	UprightImpulse    float64 `toml:"upright_impulse"`
}

// DefaultOptions is the tuning of the stock coupe.
func DefaultOptions() Options {
	return Options{
		ChassisLength: 2.02,
		ChassisWidth:  1.12,
		ChassisHeight: 0.62,
		ChassisMass:   24,
		ChassisOffset: mgl64.Vec3{0, 0, 0.14},
		SpawnPosition: mgl64.Vec3{0, 0, 1.2},

		WheelFrontOffset:      0.76,
		WheelRearOffset:       -0.76,
		WheelTrackHalfWidth:   0.58,
		WheelConnectionHeight: -0.12,
		WheelRadius:           0.30,

		SuspensionRestLength:        0.35,
		SuspensionStiffness:         5200,
		SuspensionDampingCompress:   400,
		SuspensionDampingRelaxation: 480,
		SuspensionMaxForce:          10000,
		SuspensionMaxTravel:         0.35,

		RollInfluence:          0.01,
		FrictionSlip:           5,
		SlidingRotationalSpeed: -30,

		SteeringSpeed: 2.4,
		SteeringMax:   0.55,
		QuadSteering:  false,

		AccelMaxSpeed:      11,
		AccelMaxSpeedBoost: 17,
		AccelForce:         260,
		AccelForceBoost:    420,
		QuadAcceleration:   false,

		BrakeStrength: 140,
		IdleDragRate:  0.9,

		UprightThreshold:  0.5,
		UprightGraceDelay: 1.0,
		UprightCooldown:   1.0,
		UprightImpulse:    150,
	}
}

// TruckOptions is the quad-steer, quad-drive variant: heavier, slower to
// turn, all four wheels powered and steered.
func TruckOptions() Options {
	o := DefaultOptions()
	o.ChassisLength = 2.6
	o.ChassisWidth = 1.3
	o.ChassisHeight = 0.8
	o.ChassisMass = 36
	o.WheelFrontOffset = 0.98
	o.WheelRearOffset = -0.98
	o.WheelTrackHalfWidth = 0.68
	o.WheelRadius = 0.36
	o.SuspensionStiffness = 7800
	o.SuspensionDampingCompress = 620
	o.SuspensionDampingRelaxation = 720
	o.SteeringMax = 0.42
	o.AccelForce = 360
	o.AccelForceBoost = 560
	o.QuadSteering = true
	o.QuadAcceleration = true
	return o
}

// Validate rejects authoring mistakes: construction-time dimensions must be
// positive, suspension constants non-negative. A failed validation comes
// back as a construction error, never a silent clamp.
func (o Options) Validate() error {
	positive := map[string]float64{
		"chassis_length":         o.ChassisLength,
		"chassis_width":          o.ChassisWidth,
		"chassis_height":         o.ChassisHeight,
		"chassis_mass":           o.ChassisMass,
		"wheel_radius":           o.WheelRadius,
		"wheel_track_half_width": o.WheelTrackHalfWidth,
		"suspension_rest_length": o.SuspensionRestLength,
		"suspension_stiffness":   o.SuspensionStiffness,
		"suspension_max_travel":  o.SuspensionMaxTravel,
		"suspension_max_force":   o.SuspensionMaxForce,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("vehicle option %s must be positive, got %f", name, v)
		}
	}
	nonNegative := map[string]float64{
		"suspension_damping_compress":   o.SuspensionDampingCompress,
		"suspension_damping_relaxation": o.SuspensionDampingRelaxation,
		"friction_slip":                 o.FrictionSlip,
		"steering_max":                  o.SteeringMax,
		"brake_strength":                o.BrakeStrength,
		"idle_drag_rate":                o.IdleDragRate,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("vehicle option %s must not be negative, got %f", name, v)
		}
	}
	if o.WheelFrontOffset <= o.WheelRearOffset {
		return fmt.Errorf("wheel_front_offset (%f) must be ahead of wheel_rear_offset (%f)", o.WheelFrontOffset, o.WheelRearOffset)
	}
	return nil
}

// Layout returns the four-wheel layout in index order front-left,
// front-right, rear-left, rear-right.
func (o Options) Layout() []WheelPlacement {
	h := o.WheelConnectionHeight
	return []WheelPlacement{
		{Role: RoleFront, Connection: mgl64.Vec3{o.WheelFrontOffset, o.WheelTrackHalfWidth, h}},
		{Role: RoleFront, Connection: mgl64.Vec3{o.WheelFrontOffset, -o.WheelTrackHalfWidth, h}},
		{Role: RoleRear, Connection: mgl64.Vec3{o.WheelRearOffset, o.WheelTrackHalfWidth, h}},
		{Role: RoleRear, Connection: mgl64.Vec3{o.WheelRearOffset, -o.WheelTrackHalfWidth, h}},
	}
}
