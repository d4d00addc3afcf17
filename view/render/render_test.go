package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chatview-go/chatroom"
	"github.com/vovakirdan/chatview-go/view"
)

func joinedState() view.State {
	return view.State{
		Username: "alice",
		Joined:   true,
		Messages: []chatroom.Message{
			{User: "bob", Text: "hi <there>", Time: "10:00:00"},
			{User: "alice", Text: "hello", Time: "10:00:01"},
			{User: "bob", Text: "bye", Time: "10:00:02"},
		},
	}
}

func renderHTML(t *testing.T, state view.State) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, HTML(state).Render(&buf))
	return buf.String()
}

func TestHTML_JoinForm(t *testing.T) {
	out := renderHTML(t, view.State{Username: "al"})
	assert.Contains(t, out, `name="username"`)
	assert.Contains(t, out, `value="al"`)
	assert.NotContains(t, out, "hx-")
	assert.NotContains(t, out, "chat-messages")
}

func TestHTML_ChatScreen(t *testing.T) {
	out := renderHTML(t, joinedState())

	assert.Contains(t, out, `<li class="own user">alice</li>`)
	assert.Contains(t, out, `<li class="user">bob</li>`)
	assert.Equal(t, 1, strings.Count(out, ">bob</li>"), "users are listed once")

	assert.Equal(t, 2, strings.Count(out, `class="message other"`))
	assert.Equal(t, 1, strings.Count(out, `class="message own"`))
	assert.Contains(t, out, "hi &lt;there&gt;")

	// Display order follows insertion order.
	first := strings.Index(out, "hi &lt;there&gt;")
	second := strings.Index(out, ">hello<")
	third := strings.Index(out, ">bye<")
	assert.True(t, first < second && second < third)

	// A snapshot: no scripting and nothing wired to append sent messages.
	assert.NotContains(t, out, "hx-")
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, `<form class="compose">`)
}

func TestPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page("Chat", joinedState()).Render(&buf))
	assert.True(t, strings.HasPrefix(strings.ToLower(buf.String()), "<!doctype html>"))
	assert.Contains(t, buf.String(), "<title>Chat</title>")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, joinedState())
	out := buf.String()

	assert.Contains(t, out, "TIME")
	assert.Contains(t, out, "alice (you)")
	assert.NotContains(t, out, "bob (you)")
	assert.Contains(t, out, "hi <there>")
	assert.Equal(t, 4, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestLine(t *testing.T) {
	msg := chatroom.Message{User: "bob", Text: "hi", Time: "1:00:00 PM"}
	assert.Equal(t, "[1:00:00 PM] bob: hi", color.ClearCode(Line(msg, false)))
	assert.Equal(t, "[1:00:00 PM] bob: hi", color.ClearCode(Line(msg, true)))
}

func TestUsers(t *testing.T) {
	out := color.ClearCode(Users([]string{"bob", "alice"}, "alice"))
	assert.Equal(t, "users (2): bob, alice (you)", out)
}
