// Package output provides structured console output for apicommit.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	debugStyle = lipgloss.NewStyle().Faint(true)
)

// Splog provides structured logging and output
type Splog struct {
	writer  io.Writer
	verbose bool
	color   bool
}

// NewSplog creates a new splog instance writing to stdout, with color
// enabled when stdout is a terminal
func NewSplog() *Splog {
	return &Splog{
		writer: os.Stdout,
		color:  isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// NewSplogWriter creates a splog instance writing to w without color
func NewSplogWriter(w io.Writer) *Splog {
	return &Splog{writer: w}
}

// SetVerbose enables debug output
func (s *Splog) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	s.styled(warnStyle, "⚠️  "+format, args...)
}

// Debug writes a debug message, shown only in verbose mode
func (s *Splog) Debug(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	s.styled(debugStyle, format, args...)
}

// Newline writes a newline
func (s *Splog) Newline() {
	fmt.Fprintln(s.writer)
}

func (s *Splog) styled(style lipgloss.Style, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if s.color {
		msg = style.Render(msg)
	}
	fmt.Fprintln(s.writer, msg)
}
