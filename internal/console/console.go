// Package console prints the run's status lines with a severity level.
package console

import (
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/lipgloss"
)

// Level is the severity of a status line.
type Level int

const (
	LevelInfo Level = iota
	LevelOK
	LevelWarn
	LevelError
)

// Logger writes status lines to an output, styling each line by level.
type Logger struct {
	out    *log.Logger
	quiet  bool
	color  bool
	styles map[Level]lipgloss.Style
}

// Options controls how a Logger renders.
type Options struct {
	NoColor bool // plain text regardless of the terminal
	Quiet   bool // drop OK and Info lines
}

// New creates a Logger writing to w. Colors follow the capabilities of w,
// so a file or buffer receives plain text.
func New(w io.Writer, opts Options) *Logger {
	r := lipgloss.NewRenderer(w)
	return &Logger{
		out:   log.New(w, "", 0),
		quiet: opts.Quiet,
		color: !opts.NoColor,
		styles: map[Level]lipgloss.Style{
			LevelInfo:  r.NewStyle(),
			LevelOK:    r.NewStyle().Foreground(lipgloss.Color("10")),
			LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("11")),
			LevelError: r.NewStyle().Foreground(lipgloss.Color("9")),
		},
	}
}

// Discard returns a Logger that prints nothing.
func Discard() *Logger {
	return New(io.Discard, Options{NoColor: true})
}

func (l *Logger) print(level Level, format string, args ...interface{}) {
	if l.quiet && (level == LevelOK || level == LevelInfo) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.color {
		msg = l.styles[level].Render(msg)
	}
	l.out.Println(msg)
}

// Info prints an unstyled status line.
func (l *Logger) Info(format string, args ...interface{}) { l.print(LevelInfo, format, args...) }

// OK prints a success line.
func (l *Logger) OK(format string, args ...interface{}) { l.print(LevelOK, format, args...) }

// Warn prints a warning line.
func (l *Logger) Warn(format string, args ...interface{}) { l.print(LevelWarn, format, args...) }

// Error prints an error line. Quiet mode never drops errors.
func (l *Logger) Error(format string, args ...interface{}) { l.print(LevelError, format, args...) }
