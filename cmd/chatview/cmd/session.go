package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vovakirdan/chatview-go/chatroom"
	"github.com/vovakirdan/chatview-go/view"
)

// session is the live connection a command drives a view with.
type session interface {
	view.Channel
	Done() <-chan struct{}
}

// dial creates the chat client and wires its logging. Callers register view
// handlers before calling Connect so the history sent on connect is not lost.
func dial(s Settings, logger *slog.Logger) *chatroom.Client {
	client := chatroom.NewClient(s.ClientConfig())
	client.SetLogger(chatroom.NewSlogLogger(logger))
	client.OnError(func(err error) {
		logger.Warn("chat client error", "error", err, "code", chatroom.CodeOf(err).String())
	})
	client.OnStateChanged(func(ev chatroom.StateEvent) {
		logger.Debug("connection state changed", "from", ev.OldState.String(), "to", ev.NewState.String())
	})
	return client
}

// connect opens the connection, classifying configuration failures and
// naming the server when it cannot be reached.
func connect(ctx context.Context, client *chatroom.Client, url string) error {
	err := client.Connect(ctx)
	switch {
	case err == nil:
		return nil
	case chatroom.CodeOf(err) == chatroom.ErrorInvalidConfig:
		return &configError{err}
	case chatroom.IsConnectionError(err):
		return fmt.Errorf("cannot reach %s (free hosts may need a minute to wake up, try \"chatview probe\"): %w", url, err)
	default:
		return err
	}
}
