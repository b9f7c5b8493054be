// Package state provides shared reactive state with explicit lifecycle.
//
// Three sharing levels are available:
//
//   - Registry: a process-wide, key-addressed registry of signals with
//     Create/Get/Set/Reset/Destroy lifecycle operations.
//   - Global: one signal shared by every consumer in the process.
//   - Scoped: a definition resolved per consumer store, so independent
//     sessions each get their own lazily created signal.
package state
