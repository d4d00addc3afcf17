package view_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vovakirdan/chatview-go/chatroom"
	"github.com/vovakirdan/chatview-go/view"
	"github.com/vovakirdan/chatview-go/view/mocks"
)

var fixedNow = time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)

// subscriptions captures the handlers a Chat registers on the mock channel.
type subscriptions struct {
	history     func([]chatroom.Message)
	receive     func(chatroom.Message)
	historyOff  int
	receiveOff  int
	historySubs int
	receiveSubs int
}

func expectMount(ch *mocks.MockChannel, subs *subscriptions) {
	ch.EXPECT().OnChatHistory(gomock.Any()).DoAndReturn(func(fn func([]chatroom.Message)) func() {
		subs.history = fn
		subs.historySubs++
		return func() { subs.historyOff++ }
	}).AnyTimes()
	ch.EXPECT().OnReceiveMessage(gomock.Any()).DoAndReturn(func(fn func(chatroom.Message)) func() {
		subs.receive = fn
		subs.receiveSubs++
		return func() { subs.receiveOff++ }
	}).AnyTimes()
}

func newChat(t *testing.T, opts ...view.Option) (*view.Chat, *mocks.MockChannel, *subscriptions) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ch := mocks.NewMockChannel(ctrl)
	subs := &subscriptions{}
	expectMount(ch, subs)
	opts = append([]view.Option{
		view.WithClock(func() time.Time { return fixedNow }),
		view.WithTimeFormatter(func(t time.Time) string { return t.Format("15:04:05") }),
	}, opts...)
	return view.New(ch, opts...), ch, subs
}

func TestJoin_RequiresUsername(t *testing.T) {
	c, _, _ := newChat(t)

	assert.False(t, c.Join())
	assert.False(t, c.Joined())

	c.SetUsername("alice")
	assert.True(t, c.Join())

	// Irreversible: clearing the field does not leave the room.
	c.SetUsername("")
	assert.True(t, c.Join())
	assert.True(t, c.Joined())
}

func TestMount_SubscribesOnceAndReleases(t *testing.T) {
	c, _, subs := newChat(t)

	release := c.Mount()
	again := c.Mount()
	require.NotNil(t, subs.history)
	require.NotNil(t, subs.receive)
	assert.Equal(t, 1, subs.historySubs)
	assert.Equal(t, 1, subs.receiveSubs)

	release()
	again()
	assert.Equal(t, 1, subs.historyOff)
	assert.Equal(t, 1, subs.receiveOff)

	// Mounting after release subscribes afresh.
	c.Mount()()
	assert.Equal(t, 2, subs.historySubs)
	assert.Equal(t, 2, subs.historyOff)
}

func TestChatHistory_ReplacesEverything(t *testing.T) {
	c, _, subs := newChat(t)
	defer c.Mount()()

	subs.receive(chatroom.Message{User: "zed", Text: "stale"})
	history := []chatroom.Message{
		{User: "bob", Text: "one", Time: "10:00:00"},
		{User: "carol", Text: "two", Time: "10:00:01"},
	}
	subs.history(history)

	assert.Equal(t, history, c.Snapshot().Messages)

	// The view keeps its own copy of the snapshot.
	history[0].Text = "mutated"
	assert.Equal(t, "one", c.Snapshot().Messages[0].Text)

	subs.history(nil)
	assert.Equal(t, 0, c.Len())
}

func TestReceiveMessage_AppendsInOrder(t *testing.T) {
	c, _, subs := newChat(t)
	defer c.Mount()()

	subs.history([]chatroom.Message{{User: "bob", Text: "one"}})
	before := c.Snapshot().Messages

	subs.receive(chatroom.Message{User: "carol", Text: "two"})
	subs.receive(chatroom.Message{User: "bob", Text: "three"})

	got := c.Snapshot().Messages
	require.Len(t, got, 3)
	assert.Equal(t, before[0], got[0])
	assert.Equal(t, "two", got[1].Text)
	assert.Equal(t, "three", got[2].Text)

	var texts []string
	for i, m := range c.Messages() {
		assert.Equal(t, got[i], m)
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"one", "two", "three"}, texts)
}

func TestMessages_StopsEarly(t *testing.T) {
	c, _, _ := newChat(t)
	c.ReplaceHistory([]chatroom.Message{{Text: "a"}, {Text: "b"}, {Text: "c"}})

	var seen []string
	for _, m := range c.Messages() {
		seen = append(seen, m.Text)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestSend_EmitsOnceAndClearsDraft(t *testing.T) {
	c, ch, _ := newChat(t)
	c.SetUsername("alice")
	c.Join()

	ch.EXPECT().SendMessage(gomock.Any(), chatroom.Message{
		User: "alice",
		Text: "hello",
		Time: "14:05:09",
	}).Return(nil).Times(1)

	c.SetDraft("hello")
	require.NoError(t, c.Send(context.Background()))
	assert.Equal(t, "", c.Draft())

	// No local echo: the list only grows when the server sends it back.
	assert.Equal(t, 0, c.Len())
}

func TestSend_KeepsRawText(t *testing.T) {
	c, ch, _ := newChat(t)
	c.SetUsername("alice")

	ch.EXPECT().SendMessage(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m chatroom.Message) error {
		assert.Equal(t, "  padded  ", m.Text)
		return nil
	})

	c.SetDraft("  padded  ")
	require.NoError(t, c.Send(context.Background()))
}

func TestSend_BlankDraftIsIgnored(t *testing.T) {
	for _, draft := range []string{"", " ", "\t\n  "} {
		c, _, _ := newChat(t)
		c.SetUsername("alice")
		c.SetDraft(draft)

		// The mock fails the test on any SendMessage call.
		require.NoError(t, c.Send(context.Background()))
		assert.Equal(t, draft, c.Draft())
	}
}

func TestSend_ErrorKeepsDraft(t *testing.T) {
	c, ch, _ := newChat(t)
	c.SetUsername("alice")
	boom := chatroom.NewError(chatroom.ErrorNotConnected, "not connected")
	ch.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(boom)

	c.SetDraft("hello")
	err := c.Send(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, "hello", c.Draft())
}

func TestUsers_DistinctInFirstAppearanceOrder(t *testing.T) {
	c, _, _ := newChat(t)
	assert.Empty(t, c.Users())

	c.ReplaceHistory([]chatroom.Message{
		{User: "bob"}, {User: "alice"}, {User: "bob"}, {User: "Alice"}, {User: "carol"}, {User: "alice"},
	})
	assert.Equal(t, []string{"bob", "alice", "Alice", "carol"}, c.Users())

	c.AppendMessage(chatroom.Message{User: "dave"})
	users := c.Users()
	assert.Equal(t, "dave", users[len(users)-1])
	assert.Len(t, slices.Compact(slices.Sorted(slices.Values(users))), len(users))
}

func TestIsOwn_ExactMatch(t *testing.T) {
	c, _, _ := newChat(t)
	c.SetUsername("alice")

	assert.True(t, c.IsOwn(chatroom.Message{User: "alice"}))
	assert.False(t, c.IsOwn(chatroom.Message{User: "Alice"}))
	assert.False(t, c.IsOwn(chatroom.Message{User: "alice "}))
	assert.False(t, c.IsOwn(chatroom.Message{User: "bob"}))
}

func TestOnChange_FiresAfterEveryMutation(t *testing.T) {
	c, _, subs := newChat(t)
	defer c.Mount()()

	var kinds []view.ChangeKind
	var lens []int
	off := c.OnChange(func(ch view.Change) {
		kinds = append(kinds, ch.Kind)
		lens = append(lens, len(ch.State.Messages))
	})

	subs.history([]chatroom.Message{{Text: "a"}, {Text: "b"}})
	subs.receive(chatroom.Message{Text: "c"})
	c.SetDraft("typing does not notify")
	off()
	subs.receive(chatroom.Message{Text: "d"})

	assert.Equal(t, []view.ChangeKind{view.HistoryReplaced, view.MessageAppended}, kinds)
	assert.Equal(t, []int{2, 3}, lens)
}

func TestDispatcher_DefersInboundMutations(t *testing.T) {
	var queue []func()
	c, _, subs := newChat(t, view.WithDispatcher(func(fn func()) { queue = append(queue, fn) }))
	defer c.Mount()()

	subs.history([]chatroom.Message{{Text: "a"}})
	subs.receive(chatroom.Message{Text: "b"})
	assert.Equal(t, 0, c.Len(), "nothing changes until the loop runs the queued work")

	for _, fn := range queue {
		fn()
	}
	assert.Equal(t, 2, c.Len())
}

func TestSnapshot_IsDetached(t *testing.T) {
	c, _, _ := newChat(t)
	c.ReplaceHistory([]chatroom.Message{{Text: "a"}})
	snap := c.Snapshot()
	c.AppendMessage(chatroom.Message{Text: "b"})
	assert.Len(t, snap.Messages, 1)
}
