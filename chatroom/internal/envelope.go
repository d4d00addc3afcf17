package internal

import (
	"context"
	"encoding/json"
	"fmt"
)

// envelope is one JSON object per frame: {"event": name, "data": payload}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Envelope is a plain JSON framing for relays that do not speak Socket.IO.
type Envelope struct{}

func (Envelope) Name() string { return ProtocolJSON }

// DialURL keeps the URL path as given; path is only used when the URL has none.
func (Envelope) DialURL(base, path string) (string, error) {
	u, err := websocketURL(base)
	if err != nil {
		return "", err
	}
	if (u.Path == "" || u.Path == "/") && path != "" {
		u.Path = path
	}
	return u.String(), nil
}

func (Envelope) Handshake(context.Context, *Conn) (Session, error) {
	return Session{}, nil
}

func (Envelope) Decode(frame []byte) (Packet, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Packet{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Event == "" {
		return Packet{}, fmt.Errorf("%w: envelope without event", ErrUnexpectedPacket)
	}
	data := env.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return Packet{Kind: PacketEvent, Event: env.Event, Data: data}, nil
}

func (Envelope) EncodeEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: event, Data: data})
}

func (Envelope) Pong() []byte { return nil }

func (Envelope) Disconnect() []byte { return nil }
