// Package speech adapts speech-to-text and text-to-speech engines for the
// live conversation. Engines sit behind ports so the adapters can run
// against the browser bridge in production and against fakes in tests.
package speech

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules on real time.
var SystemClock Clock = systemClock{}
