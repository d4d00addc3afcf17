package probe

import "time"

// OpenPacket is the Engine.IO session the server offers on handshake.
type OpenPacket struct {
	SID          string
	Upgrades     []string
	PingInterval int64 // milliseconds
	PingTimeout  int64 // milliseconds
	MaxPayload   int64 // bytes
}

// Heartbeat is how long the server tolerates silence before dropping a client.
func (p OpenPacket) Heartbeat() time.Duration {
	return time.Duration(p.PingInterval+p.PingTimeout) * time.Millisecond
}

// SupportsWebSocket reports whether the polling session may upgrade to websocket.
func (p OpenPacket) SupportsWebSocket() bool {
	for _, u := range p.Upgrades {
		if u == "websocket" {
			return true
		}
	}
	return false
}

// Result is what Handshake measured.
type Result struct {
	Open    OpenPacket
	Latency time.Duration
}

// ErrorResponse is the error body Engine.IO servers answer with.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
