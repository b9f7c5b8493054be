// Package hooks provides composable building blocks for server-driven
// UI state: debounced and throttled callbacks, toggles and counters,
// timers, persisted values, HTTP resources and client event bindings.
//
// Hooks follow one lifecycle rule: everything a hook allocates (timers,
// subscriptions, watchers, in-flight fetches) is released when the
// scope that was current at call time is disposed. Hooks called outside
// any scope still work but must be torn down by hand.
package hooks
