package schedule

import "time"

const neverFire = 24 * time.Hour

// stoppedTimer returns a stopped *time.Timer created with time.AfterFunc.
// The callback does not run until the timer is re-armed with Reset.
func stoppedTimer(f func()) *time.Timer {
	t := time.AfterFunc(neverFire, f)
	t.Stop()

	return t
}
