package cmd

import (
	"context"

	"github.com/vovakirdan/chatview-go/chatroom"
)

// fakeSession delivers a fixed history on subscription and echoes sends back
// as received messages, like the chat server does.
type fakeSession struct {
	history []chatroom.Message
	silent  bool
	sendErr error
	sent    []chatroom.Message
	receive func(chatroom.Message)
	done    chan struct{}
}

func newFakeSession(history ...chatroom.Message) *fakeSession {
	return &fakeSession{history: history, done: make(chan struct{})}
}

func (f *fakeSession) OnChatHistory(fn func([]chatroom.Message)) func() {
	if !f.silent {
		fn(f.history)
	}
	return func() {}
}

func (f *fakeSession) OnReceiveMessage(fn func(chatroom.Message)) func() {
	f.receive = fn
	return func() {}
}

func (f *fakeSession) SendMessage(_ context.Context, msg chatroom.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	if f.receive != nil {
		f.receive(msg)
	}
	return nil
}

func (f *fakeSession) Done() <-chan struct{} { return f.done }
