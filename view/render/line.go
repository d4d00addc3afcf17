package render

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/samber/lo"

	"github.com/vovakirdan/chatview-go/chatroom"
)

var (
	ownStyle   = color.New(color.FgGreen, color.OpBold)
	otherStyle = color.New(color.FgCyan)
	timeStyle  = color.New(color.FgGray)
)

// Line formats one message as "[time] user: text". Own messages get a
// different color for the user name.
func Line(msg chatroom.Message, own bool) string {
	user := lo.Ternary(own, ownStyle, otherStyle).Render(msg.User)
	return fmt.Sprintf("%s %s: %s", timeStyle.Render("["+msg.Time+"]"), user, msg.Text)
}

// Users formats the users list, the current user marked "(you)".
func Users(users []string, username string) string {
	names := lo.Map(users, func(u string, _ int) string {
		if u == username {
			return ownStyle.Render(u + " (you)")
		}
		return u
	})
	return fmt.Sprintf("users (%d): %s", len(users), strings.Join(names, ", "))
}
