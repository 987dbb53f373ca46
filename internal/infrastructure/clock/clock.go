// Package clock provides the wall-clock implementation of port.Clock.
package clock

import (
	"time"

	"github.com/weftwork/weft/internal/application/port"
)

type systemClock struct{}

// System returns a Clock backed by the runtime timers.
func System() port.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) port.Timer {
	return time.AfterFunc(d, fn)
}
