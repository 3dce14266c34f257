package core

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Policy decides what happens when a generation invariant does not hold
type Policy int32

const (
	// Lenient clamps or zeroes the offending value and carries on
	Lenient Policy = iota
	// Strict aborts with a descriptive error
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

var (
	// ErrInvariant is wrapped by every InvariantError
	ErrInvariant = errors.New("invariant violation")
	// ErrTimelineOverrun is returned when a timestamp is past the end of the track
	ErrTimelineOverrun = errors.New("timestamp outside boundary")
	// ErrEmptySpline is returned when resolving a spline without points
	ErrEmptySpline = errors.New("incorrect spline data")
	// ErrNegativeTimestamp is returned for spline points with a negative duration
	ErrNegativeTimestamp = errors.New("invalid spline timestamp")
	// ErrNoFace is returned when a mapped direction does not lie on any cube face
	ErrNoFace = errors.New("direction not mappable to any side")
	// ErrBadTrack is returned when the track table is malformed
	ErrBadTrack = errors.New("malformed track data")
)

var currentPolicy atomic.Int32

// SetPolicy selects the process-wide invariant policy
func SetPolicy(p Policy) {
	currentPolicy.Store(int32(p))
}

// CurrentPolicy returns the process-wide invariant policy
func CurrentPolicy() Policy {
	return Policy(currentPolicy.Load())
}

// InvariantError describes a violated invariant
type InvariantError struct {
	Op     string
	Detail string
	Err    error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvariant
}

// Is lets errors.Is match ErrInvariant for errors carrying a more specific sentinel
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// Violation builds an InvariantError wrapping sentinel (or ErrInvariant when nil)
func Violation(sentinel error, op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...), Err: sentinel}
}

// Check reports whether ok holds. A failed check panics under Strict and
// returns false under Lenient so the caller can fall back to its degraded result.
func Check(ok bool, op, format string, args ...any) bool {
	return CheckFor(nil, ok, op, format, args...)
}

// CheckFor is Check with the violation wrapping a specific sentinel
func CheckFor(sentinel error, ok bool, op, format string, args ...any) bool {
	if ok {
		return true
	}
	if CurrentPolicy() == Strict {
		panic(Violation(sentinel, op, format, args...))
	}
	return false
}

// Fail reports a violation through an error return. Under Strict it returns the
// violation; under Lenient it returns nil and the caller answers its degraded result.
func Fail(sentinel error, op, format string, args ...any) error {
	if CurrentPolicy() == Strict {
		return Violation(sentinel, op, format, args...)
	}
	return nil
}
