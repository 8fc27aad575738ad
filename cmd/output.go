// File: cmd/output.go
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/browser/cdp"
	"github.com/xkilldash9x/uidriver/internal/scenario"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	formatTable = "table"
	formatJSON  = "json"

	maxCell = 40
)

func outputFormat(cmd *cobra.Command) (string, error) {
	f, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	switch f {
	case formatTable, formatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table or json)", f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows with columns padded by display width, so CJK labels and
// emoji line up.
func table(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	cells := append([][]string{header}, rows...)
	for _, row := range cells {
		for i, c := range row {
			c = runewidth.Truncate(c, maxCell, "...")
			row[i] = c
			if n := runewidth.StringWidth(c); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for _, row := range cells {
		var b strings.Builder
		for i, c := range row {
			if i == len(row)-1 {
				b.WriteString(c)
				break
			}
			b.WriteString(runewidth.FillRight(c, widths[i]))
			b.WriteString("  ")
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}

func printElements(w io.Writer, format string, els []uitree.Element) error {
	recs := make([]schemas.ElementRecord, 0, len(els))
	for _, el := range els {
		recs = append(recs, cdp.Record(el))
	}
	if format == formatJSON {
		return writeJSON(w, recs)
	}

	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		rows = append(rows, []string{
			strconv.Itoa(i),
			r.Kind,
			r.Identifier,
			r.Text,
			strconv.FormatBool(r.Visible),
			fmt.Sprintf("%.0f,%.0f %.0fx%.0f", r.X, r.Y, r.Width, r.Height),
		})
	}
	return table(w, []string{"INDEX", "KIND", "ID", "TEXT", "VISIBLE", "BOUNDS"}, rows)
}

// printResult reports a boolean outcome. A false outcome is returned as
// errConditionNotMet so the process exits non-zero.
func printResult(cmd *cobra.Command, format, op, target string, ok bool) error {
	if format == formatJSON {
		if err := writeJSON(cmd.OutOrStdout(), map[string]any{"op": op, "target": target, "ok": ok}); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %t\n", op, target, ok); err != nil {
			return err
		}
	}
	if !ok {
		return fmt.Errorf("%s %s: %w", op, target, errConditionNotMet)
	}
	return nil
}

func printReport(w io.Writer, format string, r *scenario.Report) error {
	if format == formatJSON {
		return writeJSON(w, r)
	}
	rows := make([][]string, 0, len(r.Steps))
	for _, st := range r.Steps {
		status := "ok"
		switch {
		case !st.OK && st.Optional:
			status = "skipped"
		case !st.OK:
			status = "FAILED"
		}
		rows = append(rows, []string{strconv.Itoa(st.Index), st.Name, status, st.Duration.String(), st.Error})
	}
	if err := table(w, []string{"STEP", "NAME", "STATUS", "DURATION", "ERROR"}, rows); err != nil {
		return err
	}
	verdict := "PASSED"
	if !r.Passed {
		verdict = "FAILED"
	}
	_, err := fmt.Fprintf(w, "\n%s %s (run %s)\n", r.Scenario, verdict, r.RunID)
	return err
}
