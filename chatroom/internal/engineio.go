package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Engine.IO v4 packet types.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
	eioNoop    = '6'
)

// Socket.IO v5 packet types, carried inside an Engine.IO message.
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioAck          = '3'
	sioConnectError = '4'
	sioBinaryEvent  = '5'
	sioBinaryAck    = '6'
)

var (
	ErrConnectRefused    = errors.New("namespace connect refused")
	ErrUnexpectedPacket  = errors.New("unexpected packet")
	ErrBinaryUnsupported = errors.New("binary packets are not supported")
)

// Open is the Engine.IO handshake payload.
type Open struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int64    `json:"pingInterval"`
	PingTimeout  int64    `json:"pingTimeout"`
	MaxPayload   int64    `json:"maxPayload"`
}

// DecodeOpen parses an Engine.IO open packet ("0{...}").
func DecodeOpen(packet []byte) (Open, error) {
	var open Open
	if len(packet) == 0 || packet[0] != eioOpen {
		return open, fmt.Errorf("%w: expected open, got %q", ErrUnexpectedPacket, truncate(packet))
	}
	if err := json.Unmarshal(packet[1:], &open); err != nil {
		return open, fmt.Errorf("decode open packet: %w", err)
	}
	return open, nil
}

// EngineIO speaks Socket.IO over the Engine.IO websocket transport, default
// namespace only.
type EngineIO struct{}

func (EngineIO) Name() string { return ProtocolSocketIO }

func (EngineIO) DialURL(base, path string) (string, error) {
	u, err := websocketURL(base)
	if err != nil {
		return "", err
	}
	if u.Path != "" && u.Path != "/" {
		return "", fmt.Errorf("namespace %q is not supported", u.Path)
	}
	if path == "" {
		path = "/socket.io/"
	}
	u.Path = path
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (e EngineIO) Handshake(ctx context.Context, c *Conn) (Session, error) {
	frame, err := c.Read(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("read open packet: %w", err)
	}
	open, err := DecodeOpen(frame)
	if err != nil {
		return Session{}, err
	}
	if err := c.Write(ctx, []byte{eioMessage, sioConnect}); err != nil {
		return Session{}, fmt.Errorf("write connect packet: %w", err)
	}

	for {
		frame, err := c.Read(ctx)
		if err != nil {
			return Session{}, fmt.Errorf("read connect ack: %w", err)
		}
		switch {
		case bytes.Equal(frame, []byte{eioPing}):
			if err := c.Write(ctx, e.Pong()); err != nil {
				return Session{}, fmt.Errorf("write pong: %w", err)
			}
		case bytes.HasPrefix(frame, []byte{eioMessage, sioConnect}):
			var ack struct {
				SID string `json:"sid"`
			}
			if body := frame[2:]; len(body) > 0 {
				if err := json.Unmarshal(body, &ack); err != nil {
					return Session{}, fmt.Errorf("decode connect ack: %w", err)
				}
			}
			return Session{
				ID:           ack.SID,
				PingInterval: time.Duration(open.PingInterval) * time.Millisecond,
				PingTimeout:  time.Duration(open.PingTimeout) * time.Millisecond,
				MaxPayload:   open.MaxPayload,
			}, nil
		case bytes.HasPrefix(frame, []byte{eioMessage, sioConnectError}):
			return Session{}, fmt.Errorf("%w: %s", ErrConnectRefused, connectErrorMessage(frame[2:]))
		default:
			return Session{}, fmt.Errorf("%w during handshake: %q", ErrUnexpectedPacket, truncate(frame))
		}
	}
}

func (EngineIO) Decode(frame []byte) (Packet, error) {
	if len(frame) == 0 {
		return Packet{}, fmt.Errorf("%w: empty frame", ErrUnexpectedPacket)
	}
	switch frame[0] {
	case eioPing:
		return Packet{Kind: PacketPing}, nil
	case eioPong, eioNoop, eioOpen:
		return Packet{Kind: PacketNoop}, nil
	case eioClose:
		return Packet{Kind: PacketDisconnect, Reason: "transport close"}, nil
	case eioMessage:
		return decodeSocketPacket(frame[1:])
	default:
		return Packet{}, fmt.Errorf("%w: engine type %q", ErrUnexpectedPacket, frame[0])
	}
}

func decodeSocketPacket(b []byte) (Packet, error) {
	if len(b) == 0 {
		return Packet{}, fmt.Errorf("%w: empty socket packet", ErrUnexpectedPacket)
	}
	kind, rest := b[0], b[1:]
	switch kind {
	case sioConnect, sioAck:
		return Packet{Kind: PacketNoop}, nil
	case sioDisconnect:
		return Packet{Kind: PacketDisconnect, Reason: "namespace disconnect"}, nil
	case sioConnectError:
		return Packet{Kind: PacketError, Reason: connectErrorMessage(rest)}, nil
	case sioBinaryEvent, sioBinaryAck:
		return Packet{}, ErrBinaryUnsupported
	case sioEvent:
	default:
		return Packet{}, fmt.Errorf("%w: socket type %q", ErrUnexpectedPacket, kind)
	}

	// Optional "/nsp," prefix and ack id before the JSON array.
	if len(rest) > 0 && rest[0] == '/' {
		i := bytes.IndexByte(rest, ',')
		if i < 0 {
			return Packet{}, fmt.Errorf("%w: unterminated namespace", ErrUnexpectedPacket)
		}
		rest = rest[i+1:]
	}
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	rest = rest[i:]

	var args []json.RawMessage
	if err := json.Unmarshal(rest, &args); err != nil {
		return Packet{}, fmt.Errorf("decode event arguments: %w", err)
	}
	if len(args) == 0 {
		return Packet{}, fmt.Errorf("%w: event without name", ErrUnexpectedPacket)
	}
	var name string
	if err := json.Unmarshal(args[0], &name); err != nil {
		return Packet{}, fmt.Errorf("decode event name: %w", err)
	}
	data := json.RawMessage("null")
	if len(args) > 1 {
		data = args[1]
	}
	return Packet{Kind: PacketEvent, Event: name, Data: data}, nil
}

func (EngineIO) EncodeEvent(event string, payload any) ([]byte, error) {
	args, err := json.Marshal([]any{event, payload})
	if err != nil {
		return nil, err
	}
	return append([]byte{eioMessage, sioEvent}, args...), nil
}

func (EngineIO) Pong() []byte { return []byte{eioPong} }

func (EngineIO) Disconnect() []byte { return []byte{eioMessage, sioDisconnect} }

func connectErrorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}

func truncate(b []byte) string {
	const limit = 64
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
