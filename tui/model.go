// Package tui is the interactive terminal chat view.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chatview-go/view"
)

// applyMsg carries work queued by the view dispatcher onto the UI loop.
type applyMsg struct{ fn func() }

// Dispatcher turns inbound view callbacks into tea messages, so every Chat
// mutation runs inside Update. Pass it (*tea.Program).Send.
func Dispatcher(send func(tea.Msg)) view.Dispatcher {
	return func(fn func()) { send(applyMsg{fn: fn}) }
}

// Model has two screens: the join form until the chat is joined, then the
// message list with a users sidebar and a compose line.
type Model struct {
	ctx  context.Context
	chat *view.Chat

	username textinput.Model
	compose  textinput.Model
	viewport viewport.Model

	width  int
	height int
	err    error
	off    func()
}

// New builds the model for chat. ctx bounds message sends.
func New(ctx context.Context, chat *view.Chat) *Model {
	username := textinput.New()
	username.Placeholder = "Username"
	username.SetValue(chat.Username())
	username.Focus()

	compose := textinput.New()
	compose.Placeholder = "Type a message"
	compose.Prompt = "> "

	// Letters belong to the compose line; only paging keys scroll.
	vp := viewport.New(60, 10)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}

	m := &Model{
		ctx:      ctx,
		chat:     chat,
		username: username,
		compose:  compose,
		viewport: vp,
	}
	m.off = chat.OnChange(func(view.Change) { m.refresh() })
	if chat.Joined() {
		m.enterChat()
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case applyMsg:
		msg.fn()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.off()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.chat.Joined() {
				m.send()
			} else {
				m.join()
			}
			return m, nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.chat.Joined() {
		m.compose, cmd = m.compose.Update(msg)
		m.chat.SetDraft(m.compose.Value())
		cmds = append(cmds, cmd)
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.username, cmd = m.username.Update(msg)
		m.chat.SetUsername(m.username.Value())
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) join() {
	m.chat.SetUsername(m.username.Value())
	if m.chat.Join() {
		m.enterChat()
	}
}

func (m *Model) enterChat() {
	m.username.Blur()
	m.compose.Focus()
	m.refresh()
}

func (m *Model) send() {
	m.chat.SetDraft(m.compose.Value())
	if err := m.chat.Send(m.ctx); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.compose.SetValue(m.chat.Draft())
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	// Borders take two cells each way; compose and status lines below.
	m.viewport.Width = max(width-sidebarWidth-4, 10)
	m.viewport.Height = max(height-5, 3)
	m.compose.Width = max(width-4, 10)
	m.refresh()
}

// refresh re-renders the message list and scrolls to the latest message.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessages() string {
	var b strings.Builder
	for i, msg := range m.chat.Messages() {
		if i > 0 {
			b.WriteByte('\n')
		}
		user := otherUserStyle
		if m.chat.IsOwn(msg) {
			user = ownUserStyle
		}
		fmt.Fprintf(&b, "%s %s: %s", timeStyle.Render(msg.Time), user.Render(msg.User), msg.Text)
	}
	return lipgloss.NewStyle().Width(m.viewport.Width).Render(b.String())
}

func (m *Model) renderUsers() string {
	lines := []string{titleStyle.Render("Users")}
	for _, u := range m.chat.Users() {
		if u == m.chat.Username() {
			lines = append(lines, ownUserStyle.Render(u+" (you)"))
			continue
		}
		lines = append(lines, u)
	}
	return sidebarStyle.
		Width(sidebarWidth).
		Height(m.viewport.Height).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) View() string {
	if !m.chat.Joined() {
		hint := hintStyle.Render("enter to join, esc to quit")
		if m.err != nil {
			hint = errorStyle.Render(m.err.Error())
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Join chat"),
			m.username.View(),
			hint,
		)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		messagesStyle.Render(m.viewport.View()),
		m.renderUsers(),
	)
	status := hintStyle.Render(fmt.Sprintf("signed in as %s, %d messages", m.chat.Username(), m.chat.Len()))
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.compose.View(), status)
}
