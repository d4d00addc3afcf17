package view

import (
	"slices"

	"github.com/samber/lo"

	"github.com/vovakirdan/chatview-go/chatroom"
)

// State is everything the chat view shows.
type State struct {
	Username string
	Draft    string
	Messages []chatroom.Message
	Joined   bool
}

// IsOwn reports whether msg was sent under the current username. The match is
// exact and purely cosmetic; nothing verifies the sender.
func (s State) IsOwn(msg chatroom.Message) bool {
	return msg.User == s.Username
}

// Users returns the distinct senders in order of first appearance.
func (s State) Users() []string {
	return lo.Uniq(lo.Map(s.Messages, func(m chatroom.Message, _ int) string {
		return m.User
	}))
}

func (s State) clone() State {
	s.Messages = slices.Clone(s.Messages)
	return s
}

// ChangeKind tells observers how the message list changed.
type ChangeKind int

const (
	// HistoryReplaced means the whole list was swapped for a server snapshot.
	HistoryReplaced ChangeKind = iota
	// MessageAppended means exactly one message was added at the end.
	MessageAppended
)

func (k ChangeKind) String() string {
	switch k {
	case HistoryReplaced:
		return "history_replaced"
	case MessageAppended:
		return "message_appended"
	default:
		return "unknown"
	}
}

// Change is passed to OnChange observers after every message-list mutation.
type Change struct {
	Kind  ChangeKind
	State State
}
