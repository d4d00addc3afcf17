// Package view holds the chat view: a username, a draft, the message list and
// the joined flag, kept in sync with a real-time Channel.
//
// A Chat is not safe for concurrent use. It is meant to live on one event loop:
// inbound channel callbacks are handed to the Dispatcher, which must run them
// on that loop.
package view

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/chatview-go/chatroom"
)

// Dispatcher runs fn on the goroutine that owns the Chat.
type Dispatcher func(fn func())

// Option configures a Chat.
type Option func(*Chat)

// WithClock overrides the time source used to stamp outgoing messages.
func WithClock(now func() time.Time) Option {
	return func(c *Chat) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTimeFormatter overrides how outgoing timestamps are rendered.
func WithTimeFormatter(f TimeFormatter) Option {
	return func(c *Chat) {
		if f != nil {
			c.format = f
		}
	}
}

// WithDispatcher routes inbound channel callbacks through d. Without it they
// mutate the Chat directly on the channel's goroutine.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Chat) {
		if d != nil {
			c.dispatch = d
		}
	}
}

// WithLogger sets the logger for send failures.
func WithLogger(l chatroom.Logger) Option {
	return func(c *Chat) {
		if l != nil {
			c.logger = l
		}
	}
}

type observer struct {
	id uint64
	fn func(Change)
}

// Chat is the join/chat view. Joined goes from false to true once and never back.
type Chat struct {
	ch       Channel
	now      func() time.Time
	format   TimeFormatter
	dispatch Dispatcher
	logger   chatroom.Logger

	state     State
	observers []observer
	nextID    uint64
	release   func()
}

// New returns a Chat bound to ch. Call Mount to start receiving events.
func New(ch Channel, opts ...Option) *Chat {
	c := &Chat{
		ch:       ch,
		now:      time.Now,
		format:   LocaleTimeFormatter(TagFromEnv()),
		dispatch: func(fn func()) { fn() },
		logger:   chatroom.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount subscribes to "chat history" and "receive message". It subscribes at
// most once until released, whatever the join state: history is usually sent
// as soon as the connection opens. The returned func drops both subscriptions
// and is safe to call more than once.
func (c *Chat) Mount() (release func()) {
	if c.release != nil {
		return c.release
	}
	offHistory := c.ch.OnChatHistory(func(msgs []chatroom.Message) {
		c.dispatch(func() { c.ReplaceHistory(msgs) })
	})
	offReceive := c.ch.OnReceiveMessage(func(msg chatroom.Message) {
		c.dispatch(func() { c.AppendMessage(msg) })
	})

	var once sync.Once
	c.release = func() {
		once.Do(func() {
			offHistory()
			offReceive()
			c.release = nil
		})
	}
	return c.release
}

// SetUsername updates the username field. It is only checked at Join.
func (c *Chat) SetUsername(v string) { c.state.Username = v }

// Username returns the current username field.
func (c *Chat) Username() string { return c.state.Username }

// Join switches to the joined state when the username is non-empty and
// reports whether the view is joined. An empty username is ignored silently.
func (c *Chat) Join() bool {
	if c.state.Username != "" {
		c.state.Joined = true
	}
	return c.state.Joined
}

// Joined reports whether Join has succeeded.
func (c *Chat) Joined() bool { return c.state.Joined }

// SetDraft updates the compose field.
func (c *Chat) SetDraft(v string) { c.state.Draft = v }

// Draft returns the compose field.
func (c *Chat) Draft() string { return c.state.Draft }

// Send emits the draft as a "send message" event and clears it. A blank draft
// sends nothing and is left as is. The message is not added locally; it shows
// up when the server echoes it back. On error the draft is kept.
func (c *Chat) Send(ctx context.Context) error {
	if strings.TrimSpace(c.state.Draft) == "" {
		return nil
	}
	msg := chatroom.Message{
		User: c.state.Username,
		Text: c.state.Draft,
		Time: c.format(c.now()),
	}
	if err := c.ch.SendMessage(ctx, msg); err != nil {
		c.logger.Warn("send message failed", map[string]any{"user": msg.User, "error": err.Error()})
		return fmt.Errorf("send message: %w", err)
	}
	c.state.Draft = ""
	return nil
}

// ReplaceHistory swaps the whole message list for msgs.
func (c *Chat) ReplaceHistory(msgs []chatroom.Message) {
	c.state.Messages = append([]chatroom.Message(nil), msgs...)
	c.notify(HistoryReplaced)
}

// AppendMessage adds msg at the end of the list.
func (c *Chat) AppendMessage(msg chatroom.Message) {
	c.state.Messages = append(c.state.Messages, msg)
	c.notify(MessageAppended)
}

// Messages iterates the message list in display order without copying it.
func (c *Chat) Messages() iter.Seq2[int, chatroom.Message] {
	return func(yield func(int, chatroom.Message) bool) {
		for i, m := range c.state.Messages {
			if !yield(i, m) {
				return
			}
		}
	}
}

// Len returns the number of messages.
func (c *Chat) Len() int { return len(c.state.Messages) }

// Users returns the distinct senders, recomputed on every call.
func (c *Chat) Users() []string { return c.state.Users() }

// IsOwn reports whether msg carries the current username.
func (c *Chat) IsOwn(msg chatroom.Message) bool { return c.state.IsOwn(msg) }

// Snapshot returns a copy of the state that later mutations do not affect.
func (c *Chat) Snapshot() State { return c.state.clone() }

// OnChange registers fn to run after every message-list mutation, on the
// Chat's loop. Interactive views use it to scroll to the latest message.
func (c *Chat) OnChange(fn func(Change)) (off func()) {
	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range c.observers {
			if o.id == id {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Chat) notify(kind ChangeKind) {
	if len(c.observers) == 0 {
		return
	}
	ch := Change{Kind: kind, State: c.Snapshot()}
	for _, o := range append([]observer(nil), c.observers...) {
		o.fn(ch)
	}
}
