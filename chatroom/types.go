package chatroom

import (
	"encoding/json"

	"github.com/vovakirdan/chatview-go/chatroom/internal"
)

const (
	// ProtocolSocketIO speaks Socket.IO v5 over the Engine.IO v4 websocket transport.
	ProtocolSocketIO = internal.ProtocolSocketIO
	// ProtocolJSON frames each event as {"event": name, "data": payload}.
	ProtocolJSON = internal.ProtocolJSON
)

// Message is a single chat line as carried on the channel.
type Message struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// UnmarshalData decodes RawMessage into target.
func UnmarshalData(data json.RawMessage, v any) error {
	return json.Unmarshal(data, v)
}
