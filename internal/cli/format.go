package cli

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/ryanuber/columnize"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

// table renders rows of cells as aligned columns under header.
func table(header []string, rows [][]string) string {
	return columns(append([][]string{header}, rows...))
}

// columns renders rows of cells as aligned columns.
func columns(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(sanitizeCells(row), "|"))
	}
	return columnize.SimpleFormat(lines)
}

// sanitizeCells keeps the column separator out of cell values.
func sanitizeCells(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.ReplaceAll(cell, "|", "/")
	}
	return out
}

func statusString(s models.AppStatus) string {
	switch {
	case s == models.AppStatusRunning:
		return color.GreenString("%s", s.String())
	case s.IsTransitioning():
		return color.YellowString("%s", s.String())
	case s == models.AppStatusStopped:
		return color.RedString("%s", s.String())
	default:
		return s.String()
	}
}

func deploymentStatusString(s models.DeploymentStatus) string {
	switch {
	case s == models.DeploymentStatusSuccess:
		return color.GreenString("%s", string(s))
	case s.IsFailure():
		return color.RedString("%s", string(s))
	default:
		return color.YellowString("%s", string(s))
	}
}

func levelString(l models.LogLevel) string {
	label := strings.ToUpper(string(l))
	switch l {
	case models.LogLevelError:
		return color.RedString("%s", label)
	case models.LogLevelWarn:
		return color.YellowString("%s", label)
	default:
		return color.BlueString("%s", label)
	}
}

func relative(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return humanize.Time(t)
}

func relativePtr(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return relative(*t)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
