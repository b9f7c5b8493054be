// Package storage provides pluggable persistence backends for hook state.
//
// A Store holds opaque byte payloads addressed by string keys, with
// optional expiry. Backends exist for process memory, Redis, SQL
// databases and S3. The Notifier wrapper adds in-process change
// notification on top of any Store, which is what keeps UseStorage
// signals in sync across consumers of the same store.
package storage
