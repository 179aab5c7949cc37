package types

// Vec3 is a JSON-friendly position or direction in world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quat is a JSON-friendly orientation quaternion.
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// ControlInput is the per-tick snapshot of client control state.
type ControlInput struct {
	Sequence uint64 `json:"sequence"`
	ClientMS int64  `json:"client_ms"`

	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Brake bool `json:"brake"`
	Boost bool `json:"boost"`

	JoystickActive bool    `json:"joystick_active"`
	JoystickAngle  float64 `json:"joystick_angle"`
}

// WheelState replicates one wheel's visual transform.
type WheelState struct {
	Position         Vec3    `json:"position"`
	Orientation      Quat    `json:"orientation"`
	InContact        bool    `json:"in_contact"`
	SuspensionLength float64 `json:"suspension_length"`
}

// ImpactEvent carries a collision worth a sound cue.
type ImpactEvent struct {
	Position       Vec3    `json:"position"`
	ImpactVelocity float64 `json:"impact_velocity"`
}

// VehicleState is the replicated snapshot consumed by the rendering and
// audio layers.
type VehicleState struct {
	Tick         uint64        `json:"tick"`
	Position     Vec3          `json:"position"`
	Orientation  Quat          `json:"orientation"`
	Steering     float64       `json:"steering"`
	Speed        float64       `json:"speed"`
	Accelerating float64       `json:"accelerating"` // 0 | 0.5 | 1
	Angle        float64       `json:"angle"`
	Wheels       []WheelState  `json:"wheels"`
	Impacts      []ImpactEvent `json:"impacts,omitempty"`
}

// ClientEnvelope is sent from client to server.
type ClientEnvelope struct {
	Type  string        `json:"type"` // input|reset|ping
	Input *ControlInput `json:"input,omitempty"`
}

// ServerEnvelope is sent from server to client.
type ServerEnvelope struct {
	Type     string        `json:"type"` // welcome|state|pong|error
	Tick     uint64        `json:"tick,omitempty"`
	State    *VehicleState `json:"state,omitempty"`
	ServerMS int64         `json:"server_ms,omitempty"`
	Message  string        `json:"message,omitempty"`
}
