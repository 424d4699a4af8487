// Package telnet serves the game over a plain line-oriented TCP console.
package telnet

import "regexp"

// ANSI SGR sequences used by the console.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Cyan   = "\033[36m"
	Yellow = "\033[33m"
)

var sgr = regexp.MustCompile("\033\\[[0-9;]*m")

// Colorize wraps text in style and a trailing Reset. Empty text is
// returned unchanged.
func Colorize(style, text string) string {
	if text == "" {
		return ""
	}
	return style + text + Reset
}

// StripANSI removes SGR sequences from s.
func StripANSI(s string) string {
	return sgr.ReplaceAllString(s, "")
}
