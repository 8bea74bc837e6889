package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vidsweep/internal/remediate"
	"vidsweep/internal/scan"
	"vidsweep/internal/settings"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const labelWidth = 22

type statusKind int

const (
	statusOK statusKind = iota
	statusError
)

var titleCaser = cases.Title(language.Und)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// isTerminal reports whether writer is an interactive terminal. Tables and
// colour are only used there; pipes get stable line-oriented output.
func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(s, color string, enabled bool) string {
	if !enabled || color == "" {
		return s
	}
	return color + s + ansiReset
}

func renderStatusLine(label string, kind statusKind, message string, color bool) string {
	tag, ansi := "[OK]", ansiGreen
	if kind == statusError {
		tag, ansi = "[ERROR]", ansiRed
	}
	if message != "" {
		tag += " " + message
	}
	return colorize(fmt.Sprintf("  %-*s %s", labelWidth, label+":", tag), ansi, color)
}

// labelFor turns a snake_case key into a title-cased label.
func labelFor(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

func summaryLine(scanned, broken int) string {
	return fmt.Sprintf("Total videos: %d; 404 errors found: %d", scanned, broken)
}

func outcomeLine(o remediate.Outcome) string {
	return fmt.Sprintf("%d | %s | Actions: %s", o.AttachmentID, o.URL, strings.Join(o.Actions, ", "))
}

func writeOutcomes(out io.Writer, outcomes []remediate.Outcome, errs []string, tty bool) {
	if len(outcomes) > 0 {
		if tty {
			rows := make([][]string, 0, len(outcomes))
			for _, o := range outcomes {
				parent := "-"
				if o.ParentID != nil {
					parent = strconv.FormatInt(*o.ParentID, 10)
				}
				rows = append(rows, []string{
					strconv.FormatInt(o.AttachmentID, 10),
					o.URL,
					parent,
					strings.Join(o.Actions, ", "),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "URL", "Parent", "Actions"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
			))
		} else {
			for _, o := range outcomes {
				fmt.Fprintln(out, outcomeLine(o))
			}
		}
	}
	for _, msg := range errs {
		fmt.Fprintln(out, colorize("error: "+msg, ansiRed, tty))
	}
}

func writeReport(out io.Writer, report scan.Report, tty bool) {
	color := ansiGreen
	if report.BrokenCount > 0 {
		color = ansiYellow
	}
	fmt.Fprintln(out, colorize(summaryLine(report.TotalScanned, report.BrokenCount), color, tty))
	if !report.Timestamp.IsZero() {
		fmt.Fprintf(out, "Run %s at %s (%s)\n", report.RunID, report.Timestamp.Local().Format(time.DateTime), report.Duration.Round(time.Millisecond))
	}
	if report.Skipped > 0 {
		fmt.Fprintf(out, "Already in trash, not checked: %d\n", report.Skipped)
	}
	writeOutcomes(out, report.Outcomes, report.Errors, tty)
}

func writeBatch(out io.Writer, result scan.BatchResult, tty bool) {
	fmt.Fprintf(out, "Batch %d (size %d): processed %d, broken %d\n", result.Index, result.Size, result.Processed, len(result.Broken))
	writeOutcomes(out, result.Broken, result.Errors, tty)
	if result.Last() {
		fmt.Fprintln(out, "No further batches")
	}
}

func writeSettings(out io.Writer, s settings.ScanSettings) {
	codes := make([]string, 0, len(s.BrokenStatusCodes))
	for _, code := range s.BrokenStatusCodes {
		codes = append(codes, strconv.Itoa(code))
	}
	lines := []struct {
		key   string
		value string
	}{
		{"batch_size", strconv.Itoa(s.BatchSize)},
		{"http_timeout", fmt.Sprintf("%ds", s.HTTPTimeoutSeconds)},
		{"error_codes", strings.Join(codes, ", ")},
		{"auto_scan_enabled", yesNo(s.AutoScanEnabled)},
		{"scan_frequency", string(s.Frequency)},
		{"log_enabled", yesNo(s.LoggingEnabled)},
	}
	for _, line := range lines {
		fmt.Fprintf(out, "%-*s %s\n", labelWidth, labelFor(line.key)+":", line.value)
	}
}
