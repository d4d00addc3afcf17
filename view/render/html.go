// Package render turns a chat view State into static output: an HTML page, a
// terminal table or colored lines.
package render

import (
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"

	"github.com/vovakirdan/chatview-go/chatroom"
	"github.com/vovakirdan/chatview-go/view"
)

// Page wraps HTML in a complete document.
func Page(title string, state view.State) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.TitleEl(g.Text(title)),
			),
			h.Body(HTML(state)),
		),
	)
}

// HTML renders the join form until the view is joined, then the chat screen.
// The output is a static snapshot: the forms show the field values but post
// nowhere.
func HTML(state view.State) g.Node {
	if !state.Joined {
		return joinForm(state.Username)
	}
	return h.Div(
		h.Class("chat"),
		usersSidebar(state),
		h.Main(
			h.Class("chat-main"),
			messageList(state),
			composeForm(state.Draft),
		),
	)
}

func joinForm(username string) g.Node {
	return h.Form(
		h.Class("join"),
		h.H1(g.Text("Join chat")),
		h.Input(
			h.Type("text"),
			h.Name("username"),
			h.Placeholder("Username"),
			h.Value(username),
			h.Required(),
		),
		h.Button(h.Type("submit"), g.Text("Join")),
	)
}

func usersSidebar(state view.State) g.Node {
	return h.Aside(
		h.Class("users"),
		h.H2(g.Text("Users")),
		h.Ul(
			g.Map(state.Users(), func(user string) g.Node {
				return h.Li(
					c.Classes{"user": true, "own": user == state.Username},
					g.Text(user),
				)
			}),
		),
	)
}

func messageList(state view.State) g.Node {
	return h.Div(
		h.ID("chat-messages"),
		h.Class("messages"),
		g.Map(state.Messages, func(m chatroom.Message) g.Node {
			return message(m, state.IsOwn(m))
		}),
	)
}

func message(m chatroom.Message, own bool) g.Node {
	return h.Div(
		c.Classes{"message": true, "own": own, "other": !own},
		h.Span(h.Class("user"), g.Text(m.User)),
		h.Span(h.Class("time"), g.Text(m.Time)),
		h.P(h.Class("text"), g.Text(m.Text)),
	)
}

func composeForm(draft string) g.Node {
	return h.Form(
		h.Class("compose"),
		h.Input(
			h.Type("text"),
			h.Name("text"),
			h.Placeholder("Type a message"),
			h.Value(draft),
		),
		h.Button(h.Type("submit"), g.Text("Send")),
	)
}
