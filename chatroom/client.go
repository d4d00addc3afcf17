package chatroom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/vovakirdan/chatview-go/chatroom/internal"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const disconnectGrace = time.Second

// Client is an owned connection to the chat server. Create it with NewClient,
// start it with Connect and release it with Close.
type Client struct {
	cfg        Config
	id         string
	logger     Logger
	codec      internal.Codec
	conn       *internal.Conn
	writeCh    chan []byte
	dispatcher Dispatcher

	mu     sync.Mutex
	state  ConnectionState
	cancel context.CancelFunc
	done   chan struct{}
	// maxPayload is the server's frame limit from the handshake; 0 means none.
	maxPayload int64
}

// NewClient constructs a client with provided config.
// Use DefaultConfig() as a starting point and modify as needed.
// Set a timeout to 0 to disable it.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		id:      uuid.NewString(),
		logger:  noopLogger{},
		writeCh: make(chan []byte, 16),
	}
}

// ID identifies this client instance in logs.
func (c *Client) ID() string { return c.id }

// SetLogger overrides logger (optional).
func (c *Client) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// On registers fn for the named inbound event. Handlers run on the read
// goroutine; the returned func removes the handler.
func (c *Client) On(event string, fn func(json.RawMessage)) func() {
	return c.dispatcher.On(event, fn)
}

// OnError registers callback for errors.
func (c *Client) OnError(fn func(error)) { c.dispatcher.SetOnError(fn) }

// OnStateChanged registers callback for connection state transitions.
func (c *Client) OnStateChanged(fn func(StateEvent)) { c.dispatcher.SetOnState(fn) }

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the read loop has exited. It is nil before Connect.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Connect dials the server, runs the protocol handshake and starts internal loops.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return WrapError(ErrorInvalidConfig, "invalid config", err)
	}
	codec, err := internal.NewCodec(c.cfg.Protocol)
	if err != nil {
		return WrapError(ErrorInvalidConfig, "invalid protocol", err)
	}
	dialURL, err := codec.DialURL(c.cfg.URL, c.cfg.Path)
	if err != nil {
		return WrapError(ErrorInvalidConfig, "invalid URL", err)
	}

	c.mu.Lock()
	switch c.state {
	case StateConnecting, StateConnected:
		c.mu.Unlock()
		return NewError(ErrorAlreadyConnected, "already connected")
	case StateClosed:
		c.mu.Unlock()
		return NewError(ErrorClosed, "client closed")
	}
	prev := c.state
	c.state = StateConnecting
	c.mu.Unlock()
	c.dispatcher.fireState(StateEvent{OldState: prev, NewState: StateConnecting})

	dialCtx := ctx
	if c.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
		defer cancel()
	}

	c.logger.Debug("dialing", map[string]any{"client": c.id, "url": dialURL, "protocol": codec.Name()})
	ws, _, err := websocket.Dial(dialCtx, dialURL, nil)
	if err != nil {
		return c.fail(WrapError(ErrorConnection, "dial failed", err))
	}
	if c.cfg.ReadLimit > 0 {
		ws.SetReadLimit(c.cfg.ReadLimit)
	}

	conn := internal.NewConn(ws, c.cfg.ReadTimeout, c.cfg.WriteTimeout)
	session, err := codec.Handshake(dialCtx, conn)
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "handshake error")
		code := ErrorHandshake
		switch {
		case errors.Is(err, internal.ErrConnectRefused):
			code = ErrorConnectRefused
		case errors.Is(err, context.DeadlineExceeded):
			code = ErrorTimeout
		}
		return c.fail(WrapError(code, "handshake failed", err))
	}
	if c.cfg.ReadTimeout == 0 && session.PingInterval > 0 {
		conn.SetReadTimeout(session.PingInterval + session.PingTimeout)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	if c.state != StateConnecting {
		// Closed while handshaking.
		c.mu.Unlock()
		cancel()
		_ = conn.Close(websocket.StatusNormalClosure, "client close")
		return NewError(ErrorClosed, "client closed")
	}
	// Frames queued for a previous connection are stale.
	for len(c.writeCh) > 0 {
		<-c.writeCh
	}
	c.codec = codec
	c.conn = conn
	c.cancel = cancel
	c.done = done
	c.maxPayload = session.MaxPayload
	c.state = StateConnected
	c.mu.Unlock()
	c.dispatcher.fireState(StateEvent{OldState: StateConnecting, NewState: StateConnected})

	c.logger.Info("connected", map[string]any{
		"client":       c.id,
		"session":      session.ID,
		"read_timeout": conn.ReadTimeout().String(),
		"max_payload":  session.MaxPayload,
	})

	go c.readLoop(runCtx, done, conn, codec)
	go c.writeLoop(runCtx, conn)
	return nil
}

// Emit enqueues a named outbound event. It blocks only while the write queue
// is full, honoring ctx. Frames larger than the server's announced limit are
// rejected, since the server would drop the connection on them.
func (c *Client) Emit(ctx context.Context, event string, payload any) error {
	c.mu.Lock()
	connected := c.state == StateConnected
	codec, limit := c.codec, c.maxPayload
	c.mu.Unlock()
	if !connected {
		return NewError(ErrorNotConnected, "not connected")
	}

	frame, err := codec.EncodeEvent(event, payload)
	if err != nil {
		return WrapError(ErrorSerialization, "failed to marshal "+event, err)
	}
	if limit > 0 && int64(len(frame)) > limit {
		return NewError(ErrorSerialization,
			fmt.Sprintf("%s frame of %d bytes exceeds server limit of %d", event, len(frame), limit))
	}

	select {
	case c.writeCh <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts down client and closes WebSocket. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	prev := c.state
	if prev == StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosed
	conn, codec, cancel := c.conn, c.codec, c.cancel
	c.mu.Unlock()
	c.dispatcher.fireState(StateEvent{OldState: prev, NewState: StateClosed})

	if cancel != nil {
		defer cancel()
	}
	if conn == nil || prev != StateConnected {
		return nil
	}
	if bye := codec.Disconnect(); bye != nil {
		ctx, stop := context.WithTimeout(context.Background(), disconnectGrace)
		_ = conn.Write(ctx, bye)
		stop()
	}
	c.logger.Debug("closing", map[string]any{"client": c.id})
	return conn.Close(websocket.StatusNormalClosure, "client close")
}

func (c *Client) fail(err *Error) error {
	c.mu.Lock()
	prev := c.state
	if prev == StateConnecting {
		c.state = StateError
	}
	c.mu.Unlock()
	if prev == StateConnecting {
		c.dispatcher.fireState(StateEvent{OldState: prev, NewState: StateError, Error: err})
	}
	c.logger.Warn("connect failed", map[string]any{"client": c.id, "error": err.Error()})
	return err
}

// lost records that the server side went away. A nil cause means a clean
// disconnect.
func (c *Client) lost(cause error) {
	c.mu.Lock()
	prev := c.state
	if prev != StateConnected {
		c.mu.Unlock()
		return
	}
	next := StateDisconnected
	if cause != nil {
		next = StateError
	}
	c.state = next
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.dispatcher.fireState(StateEvent{OldState: prev, NewState: next, Error: cause})
}

func (c *Client) readLoop(ctx context.Context, done chan struct{}, conn *internal.Conn, codec internal.Codec) {
	defer close(done)
	for {
		frame, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if isExpectedDisconnect(err) {
				c.logger.Info("server closed connection", map[string]any{"client": c.id})
				c.lost(nil)
				return
			}
			code := ErrorDisconnected
			if errors.Is(err, context.DeadlineExceeded) {
				code = ErrorTimeout
			}
			werr := WrapError(code, "read failed", err)
			c.dispatcher.fireError(werr)
			c.logger.Warn("read loop exit", map[string]any{"client": c.id, "error": err.Error()})
			c.lost(werr)
			return
		}

		pkt, err := codec.Decode(frame)
		if err != nil {
			c.dispatcher.fireError(WrapError(ErrorProtocol, "undecodable frame", err))
			continue
		}
		switch pkt.Kind {
		case internal.PacketEvent:
			c.dispatcher.Dispatch(pkt.Event, pkt.Data)
		case internal.PacketPing:
			if pong := codec.Pong(); pong != nil {
				if err := conn.Write(ctx, pong); err != nil {
					c.logger.Warn("pong failed", map[string]any{"client": c.id, "error": err.Error()})
				}
			}
		case internal.PacketError:
			c.dispatcher.fireError(NewError(ErrorProtocol, pkt.Reason))
		case internal.PacketDisconnect:
			c.logger.Info("server disconnected", map[string]any{"client": c.id, "reason": pkt.Reason})
			c.lost(nil)
			_ = conn.Close(websocket.StatusNormalClosure, pkt.Reason)
			return
		}
	}
}

func (c *Client) writeLoop(ctx context.Context, conn *internal.Conn) {
	for {
		select {
		case frame := <-c.writeCh:
			if err := conn.Write(ctx, frame); err != nil {
				if ctx.Err() != nil {
					return
				}
				werr := WrapError(ErrorDisconnected, "write failed", err)
				c.dispatcher.fireError(werr)
				c.logger.Warn("write loop exit", map[string]any{"client": c.id, "error": err.Error()})
				c.lost(werr)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func isExpectedDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}
