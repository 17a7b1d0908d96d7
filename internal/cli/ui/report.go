// Package ui formats diagnostics and results for terminal output.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/schemaforge/schemaforge/internal/diag"
)

// FormatEvent renders a single diagnostic event for the terminal.
//
// Example output:
//
//	⚠ SF101: schema id collision: "admin.User" renamed to "User_schemaDup1" (already claimed by "app.User")
func FormatEvent(event diag.Event, noColor bool) string {
	var lineColor *color.Color
	var symbol string

	switch event.Severity {
	case diag.Error:
		lineColor = color.New(color.FgRed, color.Bold)
		symbol = "✖"
	case diag.Warn:
		lineColor = color.New(color.FgYellow)
		symbol = "⚠"
	default:
		lineColor = color.New(color.FgCyan)
		symbol = "ℹ"
	}

	if noColor {
		lineColor.DisableColor()
	}

	return lineColor.Sprintf("%s %s: %s", symbol, event.Code, event.Message)
}

// FormatEvents renders a batch of events, one per line, in emission order.
func FormatEvents(events []diag.Event, noColor bool) string {
	if len(events) == 0 {
		return ""
	}

	var b strings.Builder
	for _, event := range events {
		b.WriteString(FormatEvent(event, noColor))
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary returns a one-line tally of the batch, e.g. "1 error, 2 warnings".
func Summary(events []diag.Event) string {
	var errors, warnings, infos int
	for _, event := range events {
		switch event.Severity {
		case diag.Error:
			errors++
		case diag.Warn:
			warnings++
		default:
			infos++
		}
	}

	if errors+warnings+infos == 0 {
		return "no diagnostics"
	}

	parts := make([]string, 0, 3)
	if errors > 0 {
		parts = append(parts, pluralize(errors, "error"))
	}
	if warnings > 0 {
		parts = append(parts, pluralize(warnings, "warning"))
	}
	if infos > 0 {
		parts = append(parts, pluralize(infos, "notice"))
	}
	return strings.Join(parts, ", ")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Success formats a success line with a green check mark.
func Success(format string, args ...any) string {
	return color.New(color.FgGreen, color.Bold).Sprintf("✓ "+format, args...)
}
