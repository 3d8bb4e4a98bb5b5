// Package console renders diagnostics and status messages for humans.
// Styling is applied only when stdout is a terminal; piped output stays
// plain so diagnostics remain grep-able.
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/shepmaster/my-error/pkg/diag"
)

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	filePathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555")).
			Underline(true)
)

// forceColors lets tests exercise the styled path without a TTY.
var forceColors bool

func isTTY() bool {
	if forceColors {
		return true
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func applyStyle(style lipgloss.Style, text string) string {
	if !isTTY() {
		return text
	}
	return style.Render(text)
}

// ToRelativePath converts an absolute path to one relative to the working
// directory when that makes it shorter to read.
func ToRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// FormatDiagnostic renders one diagnostic in compiler style:
//
//	file:line:col: error: message
//
// followed by the offending source line and a caret when the document
// contents are available.
func FormatDiagnostic(d diag.Diagnostic, source []byte) string {
	var out strings.Builder

	if !d.Pos.IsZero() {
		loc := d.Pos.File
		if d.Pos.Line > 0 {
			loc = fmt.Sprintf("%s:%d", loc, d.Pos.Line)
			if d.Pos.Column > 0 {
				loc = fmt.Sprintf("%s:%d", loc, d.Pos.Column)
			}
		}
		out.WriteString(applyStyle(filePathStyle, ToRelativePath(loc)))
		out.WriteString(": ")
	}

	switch d.Severity {
	case diag.SeverityWarning:
		out.WriteString(applyStyle(warningStyle, "warning"))
	default:
		out.WriteString(applyStyle(errorStyle, "error"))
	}
	out.WriteString(": ")
	out.WriteString(d.Message)
	out.WriteString("\n")

	if ctx := renderContext(d, source); ctx != "" {
		out.WriteString(ctx)
	}

	return out.String()
}

// FormatList renders every diagnostic in the list, one after another.
func FormatList(list diag.List, source []byte) string {
	var out strings.Builder
	for _, d := range list {
		out.WriteString(FormatDiagnostic(d, source))
	}
	return out.String()
}

// renderContext shows the source line the diagnostic points at with a caret
// under the offending column. Returns "" when the position falls outside
// the document.
func renderContext(d diag.Diagnostic, source []byte) string {
	if len(source) == 0 || d.Pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(string(source), "\n")
	if d.Pos.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[d.Pos.Line-1], "\r")

	var out strings.Builder
	lineNumStr := fmt.Sprintf("%d", d.Pos.Line)
	out.WriteString(applyStyle(lineNumberStyle, lineNumStr))
	out.WriteString(" | ")

	col := d.Pos.Column
	if col > 0 && col <= len(line) {
		before := line[:col-1]
		at := string(line[col-1])
		after := ""
		if col < len(line) {
			after = line[col:]
		}
		out.WriteString(applyStyle(contextLineStyle, before))
		out.WriteString(applyStyle(highlightStyle, at))
		out.WriteString(applyStyle(contextLineStyle, after))
	} else {
		out.WriteString(applyStyle(contextLineStyle, line))
	}
	out.WriteString("\n")

	if col > 0 {
		padding := strings.Repeat(" ", len(lineNumStr)+3+col-1)
		out.WriteString(padding)
		out.WriteString(applyStyle(errorStyle, "^"))
		out.WriteString("\n")
	}

	return out.String()
}

// FormatSuccessMessage formats a success message with styling.
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatErrorMessage formats an error message.
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}
