// Package clifmt formats human-facing command output: light ANSI styling and
// a two-column table sized to the terminal.
package clifmt

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiRed    = "\x1b[31m"
)

var colorEnabled = detectColor()

func detectColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func stylize(code, s string) string {
	if !colorEnabled || s == "" {
		return s
	}
	return code + s + ansiReset
}

func Headerf(format string, args ...any) string {
	return stylize(ansiBold, fmt.Sprintf(format, args...))
}

func Success(s string) string { return stylize(ansiGreen, s) }

func Warn(s string) string { return stylize(ansiYellow, s) }

func Fail(s string) string { return stylize(ansiRed, s) }

func Key(s string) string { return stylize(ansiCyan, s) }

func Dim(s string) string { return stylize(ansiDim, s) }
