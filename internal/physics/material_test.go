package physics

import "testing"

func TestMaterialCreatedOnFirstUse(t *testing.T) {
	r := NewRegistry(ContactRule{Friction: 0.4, Restitution: 0.1})

	a := r.Material("concrete")
	b := r.Material("concrete")
	if a != b {
		t.Fatalf("expected the same material instance for the same name")
	}
	if a.Name != "concrete" {
		t.Fatalf("expected material name preserved, got=%q", a.Name)
	}
}

func TestRuleLookupIsSymmetric(t *testing.T) {
	r := NewRegistry(ContactRule{})
	floor := r.Material("floor")
	wheel := r.Material("wheel")
	r.AddRule(floor, wheel, ContactRule{Friction: 0.3})

	if got := r.Rule(floor, wheel).Friction; got != 0.3 {
		t.Fatalf("expected friction 0.3, got=%f", got)
	}
	if got := r.Rule(wheel, floor).Friction; got != 0.3 {
		t.Fatalf("expected symmetric lookup, got=%f", got)
	}
}

func TestUnknownPairFallsBack(t *testing.T) {
	fallback := ContactRule{Friction: 0.42, Restitution: 0.2}
	r := NewRegistry(fallback)
	a := r.Material("ice")
	b := r.Material("rubber")

	if got := r.Rule(a, b); got != fallback {
		t.Fatalf("expected fallback rule %+v, got=%+v", fallback, got)
	}
	if got := r.Rule(nil, a); got != fallback {
		t.Fatalf("expected fallback for nil material, got=%+v", got)
	}
}

func TestDefaultRegistryPairs(t *testing.T) {
	r := DefaultRegistry()
	floor := r.Material("floor")
	dummy := r.Material("dummy")
	wheel := r.Material("wheel")

	if got := r.Rule(floor, dummy); got.Friction != 0.05 || got.Restitution != 0.3 {
		t.Fatalf("unexpected floor/dummy rule %+v", got)
	}
	if got := r.Rule(dummy, dummy); got.Friction != 0.5 || got.Restitution != 0.3 {
		t.Fatalf("unexpected dummy/dummy rule %+v", got)
	}
	if got := r.Rule(floor, wheel); got.Friction != 0.3 || got.Restitution != 0 {
		t.Fatalf("unexpected floor/wheel rule %+v", got)
	}
}
