package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/kedfre/portfolio-sub000/internal/physics"
)

// watchState is the rollover watchdog's position in its episode:
// watching -> pending -> turning -> watching. Pending may fall back to
// watching if uprightness returns before the grace deadline.
type watchState int

const (
	stateWatching watchState = iota
	statePending
	stateTurning
)

func (s watchState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateTurning:
		return "turning"
	default:
		return "watching"
	}
}

// uprightWatchdog detects a tipped-over chassis and self-rights it after a
// grace period. Its timers are deadlines against the simulation clock, so
// they are cancelled by simply never observing past them; destroying the
// vehicle stops observation and nothing can fire afterwards.
type uprightWatchdog struct {
	threshold  float64
	graceDelay float64
	cooldown   float64
	impulse    float64

	state          watchState
	deadline       float64
	impulsesFired  int
	lastUprightDot float64
}

func newUprightWatchdog(opts Options) *uprightWatchdog {
	return &uprightWatchdog{
		threshold:  opts.UprightThreshold,
		graceDelay: opts.UprightGraceDelay,
		cooldown:   opts.UprightCooldown,
		impulse:    opts.UprightImpulse,
	}
}

// observe advances the state machine at the given simulation time. It is
// called once per physics post-step with the chassis to self-right.
func (wd *uprightWatchdog) observe(now float64, chassis *physics.Body) {
	up := chassis.VectorToWorld(mgl64.Vec3{0, 0, 1})
	dot := up.Dot(mgl64.Vec3{0, 0, 1})
	wd.lastUprightDot = dot

	switch wd.state {
	case stateWatching:
		if dot < wd.threshold {
			wd.state = statePending
			wd.deadline = now + wd.graceDelay
		}

	case statePending:
		if dot >= wd.threshold {
			// Upright again before the grace timer fired: cancel.
			wd.state = stateWatching
			return
		}
		if now >= wd.deadline {
			wd.fire(chassis)
			wd.state = stateTurning
			wd.deadline = now + wd.cooldown
		}

	case stateTurning:
		if now >= wd.deadline {
			wd.state = stateWatching
		}
	}
}

// fire applies the self-righting impulse: upward, offset off-center along
// the chassis side axis so the body rotates instead of just lifting.
func (wd *uprightWatchdog) fire(chassis *physics.Body) {
	chassis.Wake()
	offset := chassis.VectorToWorld(mgl64.Vec3{0, 0.5, 0})
	point := chassis.Position.Add(offset)
	chassis.ApplyImpulse(mgl64.Vec3{0, 0, wd.impulse}, point)
	wd.impulsesFired++
}

// reset returns the watchdog to watching with no pending deadline.
func (wd *uprightWatchdog) reset() {
	wd.state = stateWatching
	wd.deadline = 0
}
