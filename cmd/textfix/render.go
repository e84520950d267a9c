package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/textfix/pkg/reconcile"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable draws rows under headers. A non-nil footer is drawn below the rows.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment, footer ...string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, columns))
	for _, row := range rows {
		tw.AppendRow(toRow(row, columns))
	}
	if len(footer) > 0 {
		tw.AppendFooter(toRow(footer, columns))
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			AlignFooter:      align,
			WidthMax:         80,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func toRow(cells []string, columns int) table.Row {
	r := make(table.Row, columns)
	for i := range columns {
		if i < len(cells) {
			r[i] = cells[i]
		} else {
			r[i] = ""
		}
	}
	return r
}

func statsRow(name string, s reconcile.Stats, state string) []string {
	return []string{
		name,
		strconv.Itoa(s.Scanned),
		strconv.Itoa(s.ChangedRecords),
		strconv.Itoa(s.FieldChanges),
		strconv.Itoa(s.Applied),
		strconv.Itoa(s.Failed),
		state,
	}
}

// printReport writes a human readable report: totals per target, samples, then failures.
func printReport(w io.Writer, r *reconcile.Report) {
	fmt.Fprintf(w, "run %s: %s in %s\n", r.RunID, r.Summary(), r.Duration().Round(time.Millisecond))

	rows := make([][]string, 0, len(r.Targets))
	for _, t := range r.Targets {
		state := "partial"
		if t.Completed {
			state = "done"
		}
		if t.ResumedFrom != "" {
			state += " (resumed after " + t.ResumedFrom + ")"
		}
		rows = append(rows, statsRow(t.Target, t.Stats, state))
	}
	right := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}
	fmt.Fprintln(w, renderTable(
		[]string{"Target", "Scanned", "Changed", "Fields", "Applied", "Failed", "State"},
		rows, right,
		statsRow("Total", r.Total, string(r.State))...,
	))

	if len(r.Samples) > 0 {
		fmt.Fprintln(w, "\nsamples:")
		for _, s := range r.Samples {
			fmt.Fprintf(w, "- %s %s %s: %s -> %s\n", s.Target, s.RecordID, s.Field, s.Before, s.After)
		}
	}

	if len(r.TargetErrors) > 0 || len(r.Errors) > 0 {
		fmt.Fprintln(w, "\nerrors:")
		for _, e := range r.TargetErrors {
			fmt.Fprintf(w, "- %s: %v\n", e.Target, e.Err)
		}
		for _, e := range r.Errors {
			fmt.Fprintf(w, "- %s %s: %v\n", e.Target, e.RecordID, e.Err)
		}
	}

	if r.Mode == reconcile.ModeDryRun && r.Total.ChangedRecords > 0 {
		fmt.Fprintln(w, "\ndry run: nothing was written, rerun with --apply to write corrections")
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
