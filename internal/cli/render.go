package cli

import (
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/swf"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var tableHeaderBlue = tablewriter.Colors{tablewriter.FgHiBlueColor}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetColumnSeparator("|")
	table.SetHeaderLine(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	if !color.NoColor {
		colors := make([]tablewriter.Colors, len(header))
		for i := range colors {
			colors[i] = tableHeaderBlue
		}
		table.SetHeaderColor(colors...)
	}
	table.AppendBulk(rows)
	table.Render()
}

// renderFields prints label/value pairs, skipping empty values.
func renderFields(w io.Writer, fields [][2]string) {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetColumnSeparator(":")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		table.Append([]string{f[0], f[1]})
	}
	table.Render()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func taskListName(tl *swf.TaskList) string {
	if tl == nil {
		return ""
	}
	return aws.StringValue(tl.Name)
}
