package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

const (
	ProtocolSocketIO = "socketio"
	ProtocolJSON     = "json"
)

// PacketKind classifies a decoded frame.
type PacketKind int

const (
	PacketNoop PacketKind = iota
	PacketEvent
	PacketPing
	PacketDisconnect
	PacketError
)

// Packet is a decoded inbound frame.
type Packet struct {
	Kind   PacketKind
	Event  string
	Data   json.RawMessage
	Reason string
}

// Session holds what the handshake negotiated. Zero values mean the codec has
// no heartbeat.
type Session struct {
	ID           string
	PingInterval time.Duration
	PingTimeout  time.Duration
	MaxPayload   int64
}

// Codec frames named events on top of websocket text frames.
type Codec interface {
	Name() string
	DialURL(base, path string) (string, error)
	Handshake(ctx context.Context, c *Conn) (Session, error)
	Decode(frame []byte) (Packet, error)
	EncodeEvent(event string, payload any) ([]byte, error)
	// Pong answers a PacketPing; nil when the codec has no heartbeat.
	Pong() []byte
	// Disconnect is sent before closing; nil when the codec has none.
	Disconnect() []byte
}

// NewCodec returns the codec registered under protocol.
func NewCodec(protocol string) (Codec, error) {
	switch protocol {
	case ProtocolSocketIO, "":
		return EngineIO{}, nil
	case ProtocolJSON:
		return Envelope{}, nil
	default:
		return nil, fmt.Errorf("unknown protocol %q", protocol)
	}
}

// websocketURL parses raw and maps http(s) schemes to ws(s).
func websocketURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %q", raw)
	}
	return u, nil
}
