package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultReadLimit    = 32 * 1024
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 10 * time.Second
	sendBufferSize      = 64
)

// Gateway bridges websocket clients and the typed event sources.
// One Gateway serves many connections; all of them feed the same
// sources, and outbound commands are broadcast to every connection.
type Gateway struct {
	Mouse      *Source[MouseEvent]
	Resize     *Source[ResizeEvent]
	Visibility *Source[VisibilityEvent]
	Clipboard  *Source[ClipboardEvent]

	upgrader     websocket.Upgrader
	logger       *slog.Logger
	tracer       trace.Tracer
	readLimit    int64
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu     sync.Mutex
	conns  map[*gatewayConn]struct{}
	closed bool
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithTracing enables an OpenTelemetry span around each dispatched
// event, using the named tracer from the global provider.
func WithTracing(tracerName string) GatewayOption {
	return func(g *Gateway) {
		g.tracer = otel.Tracer(tracerName)
	}
}

// WithCheckOrigin sets the websocket origin check.
func WithCheckOrigin(fn func(*http.Request) bool) GatewayOption {
	return func(g *Gateway) {
		g.upgrader.CheckOrigin = fn
	}
}

// WithReadLimit caps the size of inbound frames in bytes.
// Default: 32 KiB.
func WithReadLimit(n int64) GatewayOption {
	return func(g *Gateway) {
		g.readLimit = n
	}
}

// WithReadTimeout sets the per-message read deadline.
// Default: 60 seconds.
func WithReadTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.readTimeout = d
	}
}

// NewGateway creates a Gateway with fresh event sources.
func NewGateway(opts ...GatewayOption) *Gateway {
	g := &Gateway{
		Mouse:        NewSource[MouseEvent](),
		Resize:       NewSource[ResizeEvent](),
		Visibility:   NewSource[VisibilityEvent](),
		Clipboard:    NewSource[ClipboardEvent](),
		logger:       slog.Default(),
		readLimit:    defaultReadLimit,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		conns:        make(map[*gatewayConn]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type gatewayConn struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *gatewayConn) close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// ServeHTTP upgrades the request and pumps events until the client
// disconnects or the gateway closes.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	conn := &gatewayConn{
		ws:   ws,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		conn.close()
		return
	}
	g.conns[conn] = struct{}{}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.conns, conn)
		g.mu.Unlock()
		conn.close()
	}()

	go g.writeLoop(conn)
	g.readLoop(r, conn)
}

func (g *Gateway) readLoop(r *http.Request, conn *gatewayConn) {
	conn.ws.SetReadLimit(g.readLimit)

	for {
		conn.ws.SetReadDeadline(time.Now().Add(g.readTimeout))

		_, msg, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				g.logger.Error("read error", "error", err)
			}
			return
		}

		g.dispatch(r, conn, msg)
	}
}

func (g *Gateway) writeLoop(conn *gatewayConn) {
	for {
		select {
		case msg := <-conn.send:
			conn.ws.SetWriteDeadline(time.Now().Add(g.writeTimeout))
			if err := conn.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				g.logger.Error("write error", "error", err)
				conn.close()
				return
			}
		case <-conn.done:
			return
		}
	}
}

// dispatch decodes one client frame and publishes it to the matching
// source.
func (g *Gateway) dispatch(r *http.Request, conn *gatewayConn, msg []byte) {
	var f frame
	if err := json.Unmarshal(msg, &f); err != nil {
		g.logger.Error("frame decode error", "error", err)
		return
	}

	var span trace.Span
	if g.tracer != nil {
		_, span = g.tracer.Start(
			r.Context(),
			"gouse.event."+f.Type,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("gouse.event_type", f.Type),
				attribute.Int("gouse.payload_bytes", len(f.Data)),
				attribute.String("gouse.remote_addr", r.RemoteAddr),
			),
		)
		defer span.End()
	}

	err := g.publish(conn, f)
	if err != nil {
		g.logger.Error("event decode error", "type", f.Type, "error", err)
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
}

func (g *Gateway) publish(conn *gatewayConn, f frame) error {
	switch f.Type {
	case FrameMouseMove:
		var ev MouseEvent
		if err := json.Unmarshal(f.Data, &ev); err != nil {
			return err
		}
		g.Mouse.Publish(ev)

	case FrameResize:
		var ev ResizeEvent
		if err := json.Unmarshal(f.Data, &ev); err != nil {
			return err
		}
		g.Resize.Publish(ev)

	case FrameVisibility:
		var ev VisibilityEvent
		if err := json.Unmarshal(f.Data, &ev); err != nil {
			return err
		}
		g.Visibility.Publish(ev)

	case FrameClipboard:
		var ev ClipboardEvent
		if err := json.Unmarshal(f.Data, &ev); err != nil {
			return err
		}
		g.Clipboard.Publish(ev)

	case FramePing:
		g.sendTo(conn, mustEncode(CommandPong, nil))

	default:
		g.logger.Warn("unknown frame type", "type", f.Type)
	}
	return nil
}

// WriteClipboard asks every connected client to place text on its
// clipboard.
func (g *Gateway) WriteClipboard(text string) {
	g.broadcast(mustEncode(CommandClipboardWrite, ClipboardWrite{Text: text}))
}

func (g *Gateway) broadcast(msg []byte) {
	g.mu.Lock()
	conns := make([]*gatewayConn, 0, len(g.conns))
	for c := range g.conns {
		conns = append(conns, c)
	}
	g.mu.Unlock()

	for _, c := range conns {
		g.sendTo(c, msg)
	}
}

// sendTo drops the message if the connection's buffer is full; a slow
// client must not stall the event path.
func (g *Gateway) sendTo(conn *gatewayConn, msg []byte) {
	select {
	case conn.send <- msg:
	case <-conn.done:
	default:
		g.logger.Warn("send buffer full, dropping message")
	}
}

// ConnCount reports the number of live connections.
func (g *Gateway) ConnCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.conns)
}

// Close disconnects all clients and closes the event sources.
func (g *Gateway) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	conns := make([]*gatewayConn, 0, len(g.conns))
	for c := range g.conns {
		conns = append(conns, c)
	}
	g.conns = nil
	g.mu.Unlock()

	for _, c := range conns {
		c.close()
	}

	g.Mouse.Close()
	g.Resize.Close()
	g.Visibility.Close()
	g.Clipboard.Close()
	return nil
}

func mustEncode(typ string, data any) []byte {
	b, err := encodeFrame(typ, data)
	if err != nil {
		// Command payloads are plain structs; this cannot fail.
		panic(err)
	}
	return b
}
