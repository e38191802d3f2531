// Package reporting renders resolved test lists and command results as tables.
package reporting

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

// WriteEntriesTable prints the matched test list
func WriteEntriesTable(w io.Writer, entries []types.TestEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Matched Tests (%d)", len(entries)))
	t.AppendHeader(table.Row{"#", "Test", "Iterations", "Fields"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Test", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Iterations", Align: text.AlignRight},
		{Name: "Fields", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	total := 0
	for i, e := range entries {
		total += e.Iterations
		t.AppendRow(table.Row{i + 1, e.Name, e.Iterations, formatFields(e)})
	}
	t.AppendFooter(table.Row{"", "Total", total, ""})
	t.Render()
}

// WriteResultsTable prints one row per command result followed by the run summary
func WriteResultsTable(w io.Writer, title string, results []*types.CommandResult) {
	summary := Summarize(results)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s (%s)", title, formatDuration(summary.Duration)))
	t.AppendHeader(table.Row{"Name", "Duration", "Exit Code", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Name", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Exit Code", Align: text.AlignRight},
	})

	for _, r := range results {
		if r == nil {
			continue
		}
		t.AppendRow(table.Row{
			r.Invocation.Label(),
			formatDuration(r.Duration),
			r.ExitCode,
			getStatusString(r.Status),
		})
	}

	t.AppendFooter(table.Row{"Total", formatDuration(summary.Duration), "", summary.String()})
	t.Render()
}

// getStatusString returns a marked string representing the command status
func getStatusString(status types.CommandStatus) string {
	switch status {
	case types.CommandStatusSuccess:
		return "✓ pass"
	case types.CommandStatusTimeout:
		return "⏱ timeout"
	case types.CommandStatusSignaled:
		return "- signaled"
	default:
		return "✗ fail"
	}
}

// formatFields renders the pass-through fields of an entry in key order
func formatFields(e types.TestEntry) string {
	keys := slices.Sorted(maps.Keys(e.Fields))

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, e.Field(k)))
	}
	return strings.Join(parts, " ")
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
