package animation

import (
	"github.com/matt-g-everett/ledtime/timing"
)

// AnimationClock binds an animation's clock to a target property. It is
// the clock's timing.Driver: every tick it writes the animation's current
// value through its storage, and it lets go of the property when the clock
// stops.
type AnimationClock struct {
	anim     *Animation
	target   Target
	property string
	table    *StorageTable

	storage *Storage
	value   Value
	err     error
}

// NewAnimationClock binds anim to target's property through table. The
// storage is attached on the first tick that applies a value.
func NewAnimationClock(anim *Animation, target Target, property string, table *StorageTable) *AnimationClock {
	return &AnimationClock{anim: anim, target: target, property: property, table: table}
}

// Animation returns the bound animation.
func (ac *AnimationClock) Animation() *Animation { return ac.anim }

// Target returns the animated object.
func (ac *AnimationClock) Target() Target { return ac.target }

// Property returns the animated property.
func (ac *AnimationClock) Property() string { return ac.property }

// Storage returns the current storage, nil while detached.
func (ac *AnimationClock) Storage() *Storage { return ac.storage }

// Value returns the last value written.
func (ac *AnimationClock) Value() Value { return ac.value }

// Err returns the last error from the target, if any.
func (ac *AnimationClock) Err() error { return ac.err }

// Attach takes hold of the property if the clock does not already.
func (ac *AnimationClock) Attach() error {
	if ac.storage != nil && ac.storage.Attached() {
		return nil
	}
	s, err := ac.table.Attach(ac.target, ac.property)
	if err != nil {
		ac.err = err
		return err
	}
	ac.storage = s
	return nil
}

// Ticked implements timing.Driver.
func (ac *AnimationClock) Ticked(c *timing.Clock) {
	// Waiting for a begin time.
	if c.CurrentTime() < 0 {
		return
	}
	if err := ac.Attach(); err != nil {
		log.WithError(err).WithField("property", ac.property).Warn("cannot animate property")
		return
	}
	base := ac.storage.Base()
	ac.value = ac.anim.GetCurrentValue(base, base, c)
	if err := ac.storage.Write(ac.value); err != nil {
		ac.err = err
		log.WithError(err).WithField("property", ac.property).Warn("write failed")
	}
}

// Released implements timing.Driver. The property goes back to its base
// value.
func (ac *AnimationClock) Released(*timing.Clock) {
	if ac.storage == nil {
		return
	}
	if err := ac.storage.Detach(); err != nil {
		ac.err = err
		log.WithError(err).WithField("property", ac.property).Warn("restore failed")
	}
	ac.storage = nil
}
