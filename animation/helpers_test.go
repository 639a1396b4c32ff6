package animation

import (
	"math"
	"testing"

	"github.com/matt-g-everett/ledtime/timing"
)

func seconds(s float64) timing.TimeSpan { return timing.FromSeconds(s) }

const delta = 1e-6

func approx(a, b float64) bool { return math.Abs(a-b) < delta }

// fakeTarget is a property bag.
type fakeTarget struct {
	props map[string]Value
	subs  map[string]*fakeTarget
	sets  int
}

func newFakeTarget(props map[string]Value) *fakeTarget {
	return &fakeTarget{props: props, subs: map[string]*fakeTarget{}}
}

func (f *fakeTarget) GetValue(property string) (Value, error) {
	v, ok := f.props[property]
	if !ok {
		return Value{}, ErrUnknownProperty
	}
	return v, nil
}

func (f *fakeTarget) SetValue(property string, v Value) error {
	if _, ok := f.props[property]; !ok {
		return ErrUnknownProperty
	}
	f.props[property] = v
	f.sets++
	return nil
}

func (f *fakeTarget) SubTarget(property string) (Target, error) {
	sub, ok := f.subs[property]
	if !ok {
		return nil, ErrUnknownProperty
	}
	return sub, nil
}

func (f *fakeTarget) double(property string) float64 { return f.props[property].Double() }

// clockAt begins n on a tree of its own and ticks it to at.
func clockAt(t *testing.T, n timing.Node, at timing.TimeSpan) *timing.Clock {
	t.Helper()
	tree := timing.NewTree()
	id, err := tree.Realize(n)
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	tree.Begin(id)
	tree.TickRoot(id, 0)
	tree.TickRoot(id, at)
	return tree.Clock(id)
}
