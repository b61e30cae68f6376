package console

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/github/topodsl/pkg/logger"
)

var consoleLog = logger.New("console")

var (
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF6B6B"})
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#AA6600", Dark: "#FFCC66"})
	infoStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#66B2FF"})
	filePathStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	lineNumStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})
	contextStyle   = lipgloss.NewStyle()
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF6B6B"})
)

// isTTY reports whether stdout is attached to a terminal.
func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// FormatError renders a CompilerError with a compiler-like, line-and-caret
// display: "path:line:col: type: message" followed by source context.
func FormatError(err CompilerError) string {
	consoleLog.Printf("formatting error: type=%s file=%s line=%d", err.Type, err.Position.File, err.Position.Line)
	var output strings.Builder

	var typeStyle lipgloss.Style
	var prefix string
	switch err.Type {
	case "warning":
		typeStyle = warningStyle
		prefix = "warning"
	case "info":
		typeStyle = infoStyle
		prefix = "info"
	default:
		typeStyle = errorStyle
		prefix = "error"
	}

	if err.Position.File != "" {
		relativePath := ToRelativePath(err.Position.File)
		location := fmt.Sprintf("%s:%d:%d:", relativePath, err.Position.Line, err.Position.Column)
		output.WriteString(applyStyle(filePathStyle, location))
		output.WriteString(" ")
	}

	output.WriteString(applyStyle(typeStyle, prefix+":"))
	output.WriteString(" ")
	output.WriteString(err.Message)
	output.WriteString("\n")

	if len(err.Context) > 0 && err.Position.Line > 0 {
		output.WriteString(renderContext(err))
	}

	return output.String()
}

// renderContext renders source lines around the error with line numbers and
// a caret under the offending token.
func renderContext(err CompilerError) string {
	var output strings.Builder

	maxLineNum := err.Position.Line + len(err.Context)/2
	lineNumWidth := len(fmt.Sprintf("%d", maxLineNum))

	for i, line := range err.Context {
		lineNum := err.Position.Line - len(err.Context)/2 + i
		if lineNum < 1 {
			continue
		}

		lineNumStr := fmt.Sprintf("%*d", lineNumWidth, lineNum)
		output.WriteString(applyStyle(lineNumStyle, lineNumStr))
		output.WriteString(" | ")

		if lineNum == err.Position.Line {
			if err.Position.Column > 0 && err.Position.Column <= len(line) {
				before := line[:err.Position.Column-1]
				wordEnd := findWordEnd(line, err.Position.Column-1)
				highlighted := line[err.Position.Column-1 : wordEnd]
				after := ""
				if wordEnd < len(line) {
					after = line[wordEnd:]
				}
				output.WriteString(applyStyle(contextStyle, before))
				output.WriteString(applyStyle(highlightStyle, highlighted))
				output.WriteString(applyStyle(contextStyle, after))
			} else {
				output.WriteString(applyStyle(highlightStyle, line))
			}
		} else {
			output.WriteString(applyStyle(contextStyle, line))
		}
		output.WriteString("\n")

		if lineNum == err.Position.Line && err.Position.Column > 0 && err.Position.Column <= len(line) {
			wordEnd := findWordEnd(line, err.Position.Column-1)
			wordLength := wordEnd - (err.Position.Column - 1)
			padding := strings.Repeat(" ", lineNumWidth+3+err.Position.Column-1)
			pointer := applyStyle(errorStyle, strings.Repeat("^", wordLength))
			output.WriteString(padding)
			output.WriteString(pointer)
			output.WriteString("\n")
		}
	}

	return output.String()
}

// FormatInfoMessage formats an informational message for diagnostic output.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "i ") + message
}

// FormatWarningMessage formats a warning message for diagnostic output.
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "! ") + message
}
