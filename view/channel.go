//go:generate go run go.uber.org/mock/mockgen -source=channel.go -destination=mocks/mock_channel.go -package=mocks

package view

import (
	"context"

	"github.com/vovakirdan/chatview-go/chatroom"
)

// Channel is the slice of the real-time connection the chat view needs.
// *chatroom.Client satisfies it.
type Channel interface {
	OnChatHistory(fn func([]chatroom.Message)) func()
	OnReceiveMessage(fn func(chatroom.Message)) func()
	SendMessage(ctx context.Context, msg chatroom.Message) error
}
