package internal

import (
	"context"
	"errors"
	"time"

	"github.com/coder/websocket"
)

// ErrBinaryFrame is returned when the peer sends a binary websocket frame.
var ErrBinaryFrame = errors.New("binary frames are not supported")

// Conn wraps websocket.Conn with timeouts.
type Conn struct {
	ws           *websocket.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewConn(ws *websocket.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{ws: ws, readTimeout: readTimeout, writeTimeout: writeTimeout}
}

// SetReadTimeout replaces the per-read deadline. It must be called before the
// read loop starts.
func (c *Conn) SetReadTimeout(d time.Duration) {
	c.readTimeout = d
}

// ReadTimeout reports the per-read deadline, zero when disabled.
func (c *Conn) ReadTimeout() time.Duration {
	return c.readTimeout
}

// Read returns the next text frame.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	if c.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.readTimeout)
		defer cancel()
	}
	typ, data, err := c.ws.Read(ctx)
	if err != nil {
		return nil, err
	}
	if typ != websocket.MessageText {
		return nil, ErrBinaryFrame
	}
	return data, nil
}

// Write sends data as a single text frame.
func (c *Conn) Write(ctx context.Context, data []byte) error {
	if c.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.writeTimeout)
		defer cancel()
	}
	return c.ws.Write(ctx, websocket.MessageText, data)
}

func (c *Conn) Close(code websocket.StatusCode, reason string) error {
	return c.ws.Close(code, reason)
}
