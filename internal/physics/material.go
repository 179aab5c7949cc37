package physics

// Material identifies a named surface whose contact behavior is looked up
// pairwise in the Registry.
type Material struct {
	Name string
}

// ContactRule holds the resolved surface properties for one material pair.
type ContactRule struct {
	Friction         float64
	Restitution      float64
	ContactStiffness float64
}

type pairKey struct {
	a, b string
}

func keyFor(a, b *Material) pairKey {
	an, bn := a.Name, b.Name
	if an > bn {
		an, bn = bn, an
	}
	return pairKey{a: an, b: bn}
}

// Registry stores named materials and symmetric pairwise contact rules.
// Rules are registered once at startup and read-only during simulation.
type Registry struct {
	materials map[string]*Material
	rules     map[pairKey]ContactRule
	fallback  ContactRule
}

// NewRegistry creates a registry whose undefined pairs resolve to the given
// fallback rule.
func NewRegistry(fallback ContactRule) *Registry {
	return &Registry{
		materials: make(map[string]*Material),
		rules:     make(map[pairKey]ContactRule),
		fallback:  fallback,
	}
}

// Material returns the named material, creating it on first use.
func (r *Registry) Material(name string) *Material {
	if m, ok := r.materials[name]; ok {
		return m
	}
	m := &Material{Name: name}
	r.materials[name] = m
	return m
}

// AddRule registers the contact rule for an unordered material pair,
// replacing any previous rule for that pair.
func (r *Registry) AddRule(a, b *Material, rule ContactRule) {
	r.rules[keyFor(a, b)] = rule
}

// Rule resolves the contact rule for two materials. Either material may be
// nil; unknown pairs fall back to the registry default.
func (r *Registry) Rule(a, b *Material) ContactRule {
	if a == nil || b == nil {
		return r.fallback
	}
	if rule, ok := r.rules[keyFor(a, b)]; ok {
		return rule
	}
	return r.fallback
}

// DefaultRegistry builds the registry used by the portfolio world: floor,
// dummy (props) and wheel materials with the three touchable pairs.
func DefaultRegistry() *Registry {
	r := NewRegistry(ContactRule{Friction: 0, Restitution: 0.3, ContactStiffness: 1e6})
	floor := r.Material("floor")
	dummy := r.Material("dummy")
	wheel := r.Material("wheel")

	r.AddRule(floor, dummy, ContactRule{Friction: 0.05, Restitution: 0.3, ContactStiffness: 1e6})
	r.AddRule(dummy, dummy, ContactRule{Friction: 0.5, Restitution: 0.3, ContactStiffness: 1e6})
	r.AddRule(floor, wheel, ContactRule{Friction: 0.3, Restitution: 0, ContactStiffness: 1e6})
	return r
}
