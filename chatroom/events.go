package chatroom

import (
	"context"
	"encoding/json"
)

// Named events exchanged with the chat server.
const (
	EventChatHistory    = "chat history"
	EventReceiveMessage = "receive message"
	EventSendMessage    = "send message"
)

// OnChatHistory registers fn for full history snapshots. The returned func
// removes the subscription.
func (c *Client) OnChatHistory(fn func([]Message)) func() {
	return c.On(EventChatHistory, func(raw json.RawMessage) {
		var msgs []Message
		if err := UnmarshalData(raw, &msgs); err != nil {
			c.dispatcher.fireError(WrapError(ErrorSerialization, "failed to unmarshal chat history", err))
			return
		}
		fn(msgs)
	})
}

// OnReceiveMessage registers fn for single live messages.
func (c *Client) OnReceiveMessage(fn func(Message)) func() {
	return c.On(EventReceiveMessage, func(raw json.RawMessage) {
		var msg Message
		if err := UnmarshalData(raw, &msg); err != nil {
			c.dispatcher.fireError(WrapError(ErrorSerialization, "failed to unmarshal received message", err))
			return
		}
		fn(msg)
	})
}

// SendMessage emits msg as a "send message" event.
func (c *Client) SendMessage(ctx context.Context, msg Message) error {
	return c.Emit(ctx, EventSendMessage, msg)
}
