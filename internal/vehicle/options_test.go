package vehicle

import "testing"

func TestBuiltinOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
	if err := TruckOptions().Validate(); err != nil {
		t.Fatalf("truck options invalid: %v", err)
	}
}

func TestValidateRejectsBadTuning(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero mass", func(o *Options) { o.ChassisMass = 0 }},
		{"negative radius", func(o *Options) { o.WheelRadius = -0.3 }},
		{"zero stiffness", func(o *Options) { o.SuspensionStiffness = 0 }},
		{"negative friction", func(o *Options) { o.FrictionSlip = -1 }},
		{"negative brake", func(o *Options) { o.BrakeStrength = -10 }},
		{"front behind rear", func(o *Options) { o.WheelFrontOffset, o.WheelRearOffset = -0.76, 0.76 }},
	}
	for _, c := range cases {
		o := DefaultOptions()
		c.mutate(&o)
		if err := o.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", c.name)
		}
	}
}

func TestLayoutOrdersWheels(t *testing.T) {
	o := DefaultOptions()
	layout := o.Layout()
	if len(layout) != 4 {
		t.Fatalf("expected 4 wheels, got=%d", len(layout))
	}

	// Front-left, front-right, rear-left, rear-right.
	wantRoles := []WheelRole{RoleFront, RoleFront, RoleRear, RoleRear}
	for i, p := range layout {
		if p.Role != wantRoles[i] {
			t.Fatalf("wheel %d role=%v want=%v", i, p.Role, wantRoles[i])
		}
		if p.Connection[2] != o.WheelConnectionHeight {
			t.Fatalf("wheel %d connection height=%f", i, p.Connection[2])
		}
	}
	if layout[0].Connection[0] <= 0 || layout[2].Connection[0] >= 0 {
		t.Fatalf("expected front wheels ahead of rear, got x=%f and x=%f",
			layout[0].Connection[0], layout[2].Connection[0])
	}
	if layout[0].Connection[1] <= 0 || layout[1].Connection[1] >= 0 {
		t.Fatalf("expected left then right, got y=%f and y=%f",
			layout[0].Connection[1], layout[1].Connection[1])
	}
}
