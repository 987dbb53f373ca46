// Package port declares the small interfaces the application layer needs
// from infrastructure.
package port

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop prevents the callback from firing. Reports whether it was
	// stopped before firing.
	Stop() bool
}

// Clock abstracts wall time and timer scheduling so that debounce and
// undo-expiry behavior can be driven by virtual time in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}
