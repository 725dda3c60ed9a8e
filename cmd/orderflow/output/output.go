// Package output prints labelled status lines for the batch runner.
package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Success reports a completed step.
func Success(format string, args ...any) {
	fmt.Println(okStyle.Render("  ok"), fmt.Sprintf(format, args...))
}

// Warning reports a step that completed with caveats.
func Warning(format string, args ...any) {
	fmt.Println(warnStyle.Render("warn"), fmt.Sprintf(format, args...))
}

// Error reports a failed step on stderr.
func Error(format string, args ...any) {
	fmt.Fprintln(os.Stderr, failStyle.Render("fail"), fmt.Sprintf(format, args...))
}

// Info reports progress.
func Info(format string, args ...any) {
	fmt.Println(infoStyle.Render("info"), fmt.Sprintf(format, args...))
}

// Muted reports detail the reader can skim past.
func Muted(format string, args ...any) {
	fmt.Println(dimStyle.Render("   - " + fmt.Sprintf(format, args...)))
}
