package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/iwvelando/finance-dashboard/pkg/format"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// PrettyFormat writes human-readable rather than machine-readable tables.
func PrettyFormat(w io.Writer, tables ...Table) error {
	heading := color.New(color.FgCyan, color.Bold)
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := heading.Fprintf(w, "--- %s ---\n", t.Title); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.SetBorder(false)
		table.SetAutoFormatHeaders(false)
		table.SetHeader(append([]string{""}, t.Columns...))
		alignment := make([]int, len(t.Columns)+1)
		alignment[0] = tablewriter.ALIGN_LEFT
		for c := 1; c < len(alignment); c++ {
			alignment[c] = tablewriter.ALIGN_RIGHT
		}
		table.SetColumnAlignment(alignment)

		for _, row := range t.Rows {
			cells := make([]string, 0, len(t.Columns)+1)
			colors := make([]tablewriter.Colors, 0, len(t.Columns)+1)
			cells = append(cells, row.Label)
			if row.Total {
				colors = append(colors, tablewriter.Colors{tablewriter.Bold})
			} else {
				colors = append(colors, tablewriter.Colors{})
			}
			for c := range t.Columns {
				cells = append(cells, row.Cell(c))
				switch {
				case c < len(row.Values) && row.Values[c] < 0:
					colors = append(colors, tablewriter.Colors{tablewriter.FgRedColor})
				case row.Total:
					colors = append(colors, tablewriter.Colors{tablewriter.Bold})
				default:
					colors = append(colors, tablewriter.Colors{})
				}
			}
			if color.NoColor {
				table.Append(cells)
			} else {
				table.Rich(cells, colors)
			}
		}
		table.Render()
	}
	return nil
}

// PrettyKPIs writes headline figures, highlighting alerts in red.
func PrettyKPIs(w io.Writer, title string, kpis []KPI) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if _, err := fmt.Fprintf(w, "--- %s ---\n", cyan(title)); err != nil {
		return err
	}
	width := 0
	for _, k := range kpis {
		if len(k.Label) > width {
			width = len(k.Label)
		}
	}
	for _, k := range kpis {
		value := green(k.Value)
		if k.Alert {
			value = red(k.Value)
		}
		if _, err := fmt.Fprintf(w, "  %s%*s  %s\n", bold(k.Label+":"), width-len(k.Label), "", value); err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat writes one table in comma-separated value format. The first
// column holds row labels and values are plain two-decimal numbers.
func CsvFormat(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append([]string{t.Title}, t.Columns...)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range t.Rows {
		record := make([]string, 0, len(t.Columns)+1)
		record = append(record, row.Label)
		for c := range t.Columns {
			v := 0.0
			if c < len(row.Values) {
				v = row.Values[c]
			}
			record = append(record, format.Plain(v))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", row.Label, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// YAMLFormat writes the tables as a YAML document.
func YAMLFormat(w io.Writer, tables ...Table) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(tables); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return encoder.Close()
}
