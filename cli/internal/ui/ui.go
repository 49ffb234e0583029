// Package ui provides styled terminal output for the CLI.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Colors
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	InfoColor      = lipgloss.Color("#00D9FF")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	highlight = color.New(color.FgCyan, color.Bold)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Println(SuccessStyle.Render("✓ " + message))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Println(WarningStyle.Render("⚠ " + message))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Println(InfoStyle.Render("ℹ " + message))
}

// Highlight renders s emphasized for inline use in plain output.
func Highlight(s string) string {
	return highlight.Sprint(s)
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

// Confirm asks the user a yes/no question, defaulting to no.
func Confirm(prompt string) bool {
	result, _ := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(prompt)
	return result
}
