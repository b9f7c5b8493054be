package hooks

import (
	"github.com/gouse-dev/gouse/pkg/reactive"
	"github.com/gouse-dev/gouse/pkg/stream"
)

// UseEventStream subscribes fn to src for the life of the current
// scope. Without a scope the returned cancel is the only way to
// unsubscribe.
func UseEventStream[T any](src stream.Stream[T], fn func(T)) (cancel func()) {
	cancel = src.Subscribe(fn)
	if s := reactive.CurrentScope(); s != nil {
		s.OnCleanup(cancel)
	}
	return cancel
}

// UseMouse returns a signal following the client pointer position.
func UseMouse(src stream.Stream[stream.MouseEvent]) *reactive.Signal[stream.MouseEvent] {
	sig := reactive.NewSignal(stream.MouseEvent{})
	UseEventStream(src, sig.Set)
	return sig
}

// UseWindowSize returns a signal following the client viewport size.
func UseWindowSize(src stream.Stream[stream.ResizeEvent]) *reactive.Signal[stream.ResizeEvent] {
	sig := reactive.NewSignal(stream.ResizeEvent{})
	UseEventStream(src, sig.Set)
	return sig
}

// UseVisibility returns a signal reporting whether the page is
// visible. Starts true; browsers only report transitions.
func UseVisibility(src stream.Stream[stream.VisibilityEvent]) *reactive.Signal[bool] {
	sig := reactive.NewSignal(true)
	UseEventStream(src, func(ev stream.VisibilityEvent) {
		sig.Set(ev.Visible)
	})
	return sig
}

// Clipboard mirrors the client clipboard: Text follows what the client
// reports copied, Copy pushes text out to the client.
type Clipboard struct {
	Text *reactive.Signal[string]

	write func(string)
}

// UseClipboard binds clipboard state. events is the inbound stream
// (g.Clipboard on a Gateway), write the outbound command
// (g.WriteClipboard).
func UseClipboard(events stream.Stream[stream.ClipboardEvent], write func(string)) *Clipboard {
	c := &Clipboard{
		Text:  reactive.NewSignal(""),
		write: write,
	}
	UseEventStream(events, func(ev stream.ClipboardEvent) {
		c.Text.Set(ev.Text)
	})
	return c
}

// Copy forwards text to the client transport and mirrors it locally.
func (c *Clipboard) Copy(text string) {
	if c.write != nil {
		c.write(text)
	}
	c.Text.Set(text)
}
