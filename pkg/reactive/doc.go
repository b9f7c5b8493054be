// Package reactive implements the state and effect primitives the hook
// collection builds on: signals (reactive value containers), memos (lazy
// cached computations), effects (side effects that re-run when their
// dependencies change), and scopes (ownership trees that guarantee
// teardown runs exactly once when a consuming context ends).
//
// Reading a signal or memo inside a tracked context (an effect body or a
// memo computation) automatically subscribes the current listener, so
// dependencies never need to be declared by hand.
package reactive
