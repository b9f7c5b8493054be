package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gouse-dev/gouse/pkg/reactive"
	"github.com/gouse-dev/gouse/pkg/stream"
)

func TestUseEventStream(t *testing.T) {
	src := stream.NewSource[int]()

	var got []int
	cancel := UseEventStream[int](src, func(v int) { got = append(got, v) })

	src.Publish(1)
	src.Publish(2)
	cancel()
	src.Publish(3)

	assert.Equal(t, []int{1, 2}, got)
}

func TestUseEventStreamUnsubscribedOnDispose(t *testing.T) {
	scope := newHookScope(t)
	src := stream.NewSource[int]()

	fired := 0
	reactive.WithScope(scope, func() {
		UseEventStream[int](src, func(int) { fired++ })
	})

	src.Publish(1)
	scope.Dispose()
	src.Publish(2)

	assert.Equal(t, 1, fired)
}

func TestUseMouse(t *testing.T) {
	src := stream.NewSource[stream.MouseEvent]()

	pos := UseMouse(src)
	assert.Equal(t, stream.MouseEvent{}, pos.Get())

	src.Publish(stream.MouseEvent{X: 10, Y: 20})
	assert.Equal(t, stream.MouseEvent{X: 10, Y: 20}, pos.Get())
}

func TestUseWindowSize(t *testing.T) {
	src := stream.NewSource[stream.ResizeEvent]()

	size := UseWindowSize(src)
	src.Publish(stream.ResizeEvent{Width: 1024, Height: 768})
	assert.Equal(t, stream.ResizeEvent{Width: 1024, Height: 768}, size.Get())
}

func TestUseVisibility(t *testing.T) {
	src := stream.NewSource[stream.VisibilityEvent]()

	vis := UseVisibility(src)
	assert.True(t, vis.Get(), "visibility should start true")

	src.Publish(stream.VisibilityEvent{Visible: false})
	assert.False(t, vis.Get())
}

func TestUseClipboard(t *testing.T) {
	src := stream.NewSource[stream.ClipboardEvent]()

	var written []string
	cb := UseClipboard(src, func(text string) { written = append(written, text) })

	// Inbound: client reports a copy.
	src.Publish(stream.ClipboardEvent{Text: "from-client"})
	assert.Equal(t, "from-client", cb.Text.Get())

	// Outbound: server-side copy is forwarded and mirrored.
	cb.Copy("from-server")
	assert.Equal(t, []string{"from-server"}, written)
	assert.Equal(t, "from-server", cb.Text.Get())
}

func TestUseClipboardNilWriter(t *testing.T) {
	src := stream.NewSource[stream.ClipboardEvent]()

	cb := UseClipboard(src, nil)
	cb.Copy("text")
	assert.Equal(t, "text", cb.Text.Get())
}

func TestUseMouseReactsInEffect(t *testing.T) {
	scope := newHookScope(t)
	src := stream.NewSource[stream.MouseEvent]()

	var seen []int
	reactive.WithScope(scope, func() {
		pos := UseMouse(src)
		reactive.NewEffect(func() reactive.Cleanup {
			seen = append(seen, pos.Get().X)
			return nil
		})
	})

	src.Publish(stream.MouseEvent{X: 5})
	src.Publish(stream.MouseEvent{X: 9})

	assert.Equal(t, []int{0, 5, 9}, seen)
}
