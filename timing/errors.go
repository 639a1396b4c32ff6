package timing

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors.
var (
	ErrInvalidSpeedRatio = errors.New("speed ratio must be positive")
	ErrNegativeDuration  = errors.New("duration must not be negative")
	ErrInvalidRepeat     = errors.New("repeat behavior must not be negative")
	ErrNotStarted        = errors.New("clock has not begun")
	ErrNotAttached       = errors.New("clock is not attached to that parent")
	ErrAlreadyAttached   = errors.New("clock already has a parent")
	ErrUnknownClock      = errors.New("unknown clock")
	ErrNotGroup          = errors.New("clock is not a group")
	ErrManagerShutdown   = errors.New("time manager is shut down")
)

// ConfigError reports a timeline that failed validation.
type ConfigError struct {
	// Op is the operation that rejected the timeline (e.g. "timing.Realize").
	Op string
	// Timeline is the name of the offending timeline, if it has one.
	Timeline string
	// Field is the property that failed validation.
	Field string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Timeline != "" {
		return fmt.Sprintf("%s: timeline %q: %s: %v", e.Op, e.Timeline, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
