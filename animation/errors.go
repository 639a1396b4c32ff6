package animation

import "github.com/pkg/errors"

// Sentinel errors.
var (
	ErrKindMismatch        = errors.New("value kind does not match the animation")
	ErrInvalidKeySpline    = errors.New("key spline control points must lie in [0, 1]")
	ErrInvalidKeyTime      = errors.New("invalid key time")
	ErrUnknownEasing       = errors.New("unknown easing function")
	ErrUnknownTarget       = errors.New("target name not found")
	ErrUnknownProperty     = errors.New("unknown property")
	ErrNoTarget            = errors.New("animation has no target")
	ErrInvalidPropertyPath = errors.New("invalid property path")
	ErrNoStoryboard        = errors.New("no storyboard to begin")
)
