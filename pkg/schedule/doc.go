// Package schedule provides per-function invocation schedulers that
// collapse bursts of calls into at most one invocation per policy window.
//
// Two policies are available:
//
//   - Debounce: invoke only after calls stop arriving for a wait period,
//     optionally bounded by a maximum total suppression time.
//   - Throttle: invoke at most once per rolling wait-length window.
//
// Both support leading-edge and trailing-edge invocation, synchronous
// Flush, and idempotent Cancel. Each scheduler owns its state exclusively
// and serializes all operations with an internal mutex, so calls are
// processed strictly in arrival order and at most one invocation is in
// flight at a time.
//
// The wrapped function runs while the scheduler lock is held and must not
// call back into the same scheduler instance.
package schedule
