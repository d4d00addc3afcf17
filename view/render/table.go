package render

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vovakirdan/chatview-go/view"
)

// Table writes the message list as a borderless table. Rows sent under the
// current username are marked "(you)".
func Table(w io.Writer, state view.State) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", "User", "Text"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, m := range state.Messages {
		user := m.User
		if state.IsOwn(m) {
			user += " (you)"
		}
		table.Append([]string{m.Time, user, m.Text})
	}
	table.Render()
}
