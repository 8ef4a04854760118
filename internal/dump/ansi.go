package dump

import "regexp"

// ansiEscape matches ANSI CSI sequences: ESC '[' params letter.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// StripANSI removes terminal color and control sequences from text.
// Android top emits these even when stdout is not a terminal.
func StripANSI(text string) string {
	return ansiEscape.ReplaceAllString(text, "")
}
