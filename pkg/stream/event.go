package stream

import "encoding/json"

// Client frame types, matching the browser runtime's JSON protocol.
const (
	FrameMouseMove  = "mousemove"
	FrameResize     = "resize"
	FrameVisibility = "visibility"
	FrameClipboard  = "clipboard"
	FramePing       = "ping"
)

// Outbound command types.
const (
	CommandClipboardWrite = "clipboard-write"
	CommandPong           = "pong"
)

// frame is the envelope for both directions: a type tag plus a
// type-specific payload.
type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MouseEvent reports a pointer position in viewport coordinates.
type MouseEvent struct {
	X       int `json:"x"`
	Y       int `json:"y"`
	Buttons int `json:"buttons,omitempty"`
}

// ResizeEvent reports the viewport size in CSS pixels.
type ResizeEvent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// VisibilityEvent reports whether the page is visible.
type VisibilityEvent struct {
	Visible bool `json:"visible"`
}

// ClipboardEvent reports text the client copied or read.
type ClipboardEvent struct {
	Text string `json:"text"`
}

// ClipboardWrite asks the client to place text on its clipboard.
type ClipboardWrite struct {
	Text string `json:"text"`
}

func encodeFrame(typ string, data any) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(frame{Type: typ, Data: raw})
}
