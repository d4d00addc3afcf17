package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chatview-go/chatroom"
	"github.com/vovakirdan/chatview-go/view"
)

func newPlainChat(s *fakeSession) (*view.Chat, *eventLoop) {
	loop := newEventLoop()
	chat := view.New(s,
		view.WithDispatcher(loop.Dispatch),
		view.WithClock(func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local) }),
		view.WithTimeFormatter(func(t time.Time) string { return t.Format("15:04:05") }),
	)
	chat.Mount()
	return chat, loop
}

func TestPlainChat_JoinSendAndList(t *testing.T) {
	s := newFakeSession(chatroom.Message{User: "bob", Text: "welcome", Time: "11:59:00"})
	chat, loop := newPlainChat(s)
	defer loop.stop()

	in := strings.NewReader("\nalice\nhello\n   \n/users\n/quit\nnever sent\n")
	var out bytes.Buffer
	require.NoError(t, plainChat(context.Background(), s, chat, loop, in, &out, ""))

	got := color.ClearCode(out.String())
	assert.Contains(t, got, "Joined as alice.")
	assert.Contains(t, got, "[11:59:00] bob: welcome")
	assert.Contains(t, got, "[12:00:00] alice: hello")
	assert.Contains(t, got, "users (2): bob, alice (you)")
	assert.Contains(t, got, "Bye!")

	require.Len(t, s.sent, 1, "blank lines and commands are not sent")
	assert.Equal(t, chatroom.Message{User: "alice", Text: "hello", Time: "12:00:00"}, s.sent[0])
}

func TestPlainChat_UsernameFromSettings(t *testing.T) {
	s := newFakeSession()
	chat, loop := newPlainChat(s)
	defer loop.stop()

	var out bytes.Buffer
	require.NoError(t, plainChat(context.Background(), s, chat, loop, strings.NewReader(""), &out, "carol"))
	assert.True(t, chat.Joined())
	assert.Contains(t, out.String(), "Joined as carol.")
	assert.Contains(t, out.String(), "Input closed.")
}

func TestPlainChat_SendErrorIsReported(t *testing.T) {
	s := newFakeSession()
	s.sendErr = chatroom.NewError(chatroom.ErrorNotConnected, "client is not connected")
	chat, loop := newPlainChat(s)
	defer loop.stop()

	var out bytes.Buffer
	require.NoError(t, plainChat(context.Background(), s, chat, loop, strings.NewReader("hi\n"), &out, "dave"))
	assert.Contains(t, out.String(), "error: send message:")
	assert.Equal(t, "hi", chat.Draft())
}

func TestPlainChat_ConnectionLost(t *testing.T) {
	s := newFakeSession()
	close(s.done)
	chat, loop := newPlainChat(s)
	defer loop.stop()

	r, w := io.Pipe()
	defer w.Close()
	err := plainChat(context.Background(), s, chat, loop, r, io.Discard, "erin")
	assert.ErrorIs(t, err, errConnectionLost)
}
