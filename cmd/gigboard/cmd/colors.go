package cmd

import (
	"os"
	"sync"
)

// ANSI color codes
const (
	reset = "\033[0m"
	gray  = "\033[90m"
	cyan  = "\033[36m"
	red   = "\033[31m"
	green = "\033[32m"
)

var (
	colorOnce    sync.Once
	colorEnabled bool
)

// supportsColor reports whether stdout is a terminal that accepts ANSI
// codes. NO_COLOR (https://no-color.org/) and TERM=dumb turn colors off.
func supportsColor() bool {
	colorOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
			return
		}
		fi, err := os.Stdout.Stat()
		colorEnabled = err == nil && fi.Mode()&os.ModeCharDevice != 0
	})
	return colorEnabled
}

func paint(color, text string) string {
	if !supportsColor() {
		return text
	}
	return color + text + reset
}

// Info is gray text for secondary output.
func Info(text string) string { return paint(gray, text) }

// Warning is red text for destructive or failed operations.
func Warning(text string) string { return paint(red, text) }

// Success is green text.
func Success(text string) string { return paint(green, text) }

// Highlight is cyan text for names: tables, slugs, users.
func Highlight(text string) string { return paint(cyan, text) }
