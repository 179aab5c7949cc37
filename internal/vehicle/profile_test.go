package vehicle

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestProfileForVariants(t *testing.T) {
	def, err := ProfileFor("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	coupe, err := ProfileFor("coupe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def != coupe || def != DefaultOptions() {
		t.Fatalf("expected empty variant to match the coupe defaults")
	}

	truck, err := ProfileFor("truck")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !truck.QuadSteering || !truck.QuadAcceleration {
		t.Fatalf("expected the truck to steer and drive all wheels")
	}

	if _, err := ProfileFor("hovercraft"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestLoadProfileOverridesBase(t *testing.T) {
	path := writeProfile(t, "steering_max = 0.3\naccel_force = 300.0\nquad_steering = true\n")

	opts, err := LoadProfile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.SteeringMax != 0.3 || opts.AccelForce != 300 || !opts.QuadSteering {
		t.Fatalf("expected overrides applied, got max=%f force=%f quad=%v",
			opts.SteeringMax, opts.AccelForce, opts.QuadSteering)
	}
	// Untouched keys keep their base values.
	base := DefaultOptions()
	if opts.SuspensionStiffness != base.SuspensionStiffness || opts.ChassisMass != base.ChassisMass {
		t.Fatalf("expected base values preserved, got stiffness=%f mass=%f",
			opts.SuspensionStiffness, opts.ChassisMass)
	}
}

func TestLoadProfileRejectsUnknownKeys(t *testing.T) {
	path := writeProfile(t, "turbo_mode = true\n")
	if _, err := LoadProfile(path, DefaultOptions()); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadProfileRejectsInvalidTuning(t *testing.T) {
	path := writeProfile(t, "wheel_radius = -0.5\n")
	if _, err := LoadProfile(path, DefaultOptions()); err == nil {
		t.Fatalf("expected validation error for negative radius")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "absent.toml"), DefaultOptions()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
