package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schemaforge/schemaforge/internal/diag"
)

func TestFormatEvent(t *testing.T) {
	event := diag.NewEvent(diag.CodeSchemaIDCollision, diag.Warn, "schema id collision")

	out := FormatEvent(event, true)
	assert.Contains(t, out, "SF101")
	assert.Contains(t, out, "schema id collision")
	assert.True(t, strings.HasPrefix(out, "⚠"))
}

func TestFormatEvent_Severities(t *testing.T) {
	info := FormatEvent(diag.NewEvent(diag.CodeSchemaVirtualized, diag.Info, "virtualized"), true)
	assert.True(t, strings.HasPrefix(info, "ℹ"))

	err := FormatEvent(diag.NewEvent(diag.CodeDepthExceeded, diag.Error, "boom"), true)
	assert.True(t, strings.HasPrefix(err, "✖"))
}

func TestFormatEvents(t *testing.T) {
	events := []diag.Event{
		diag.NewEvent(diag.CodeSchemaIDCollision, diag.Warn, "first"),
		diag.NewEvent(diag.CodeEnumTruncated, diag.Info, "second"),
	}

	out := FormatEvents(events, true)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[1], "second")

	assert.Empty(t, FormatEvents(nil, true))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "no diagnostics", Summary(nil))

	events := []diag.Event{
		diag.NewEvent(diag.CodeDepthExceeded, diag.Warn, ""),
		diag.NewEvent(diag.CodeSchemaIDCollision, diag.Warn, ""),
		diag.NewEvent(diag.CodeEnumTruncated, diag.Info, ""),
	}
	assert.Equal(t, "2 warnings, 1 notice", Summary(events))

	assert.Equal(t, "1 error", Summary([]diag.Event{
		diag.NewEvent(diag.CodeDepthExceeded, diag.Error, ""),
	}))

	assert.Equal(t, "3 notices", Summary([]diag.Event{
		diag.NewEvent(diag.CodeEnumTruncated, diag.Info, ""),
		diag.NewEvent(diag.CodeSchemaVirtualized, diag.Info, ""),
		diag.NewEvent(diag.CodeSchemaVirtualized, diag.Info, ""),
	}))
}
