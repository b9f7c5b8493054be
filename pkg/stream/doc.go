// Package stream carries client events into the process and commands
// back out.
//
// A Source[T] is an in-process broker: publishers push typed events,
// subscribers receive them on the publishing goroutine. The Gateway
// accepts websocket connections from browser clients, decodes their
// JSON event frames (mouse moves, resizes, visibility changes,
// clipboard updates) into the matching sources, and forwards outbound
// commands such as clipboard writes. Hooks like UseMouse and
// UseClipboard sit on top of these sources.
package stream
