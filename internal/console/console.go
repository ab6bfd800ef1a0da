// Package console provides colored terminal output for slurmexec.
package console

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// DebugMode controls whether PrintDebug output is visible.
var DebugMode = false

// prefix is the standard tag for all log lines.
const prefix = "[slurmexec]"

var (
	red     = color.New(color.FgRed).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	gray    = color.New(color.FgWhite).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

// StyleError formats critical failure messages (Red).
func StyleError(msg string) string { return red(msg) }

// StyleSuccess formats success messages (Green).
func StyleSuccess(msg string) string { return green(msg) }

// StyleWarning formats non-critical warnings (Yellow).
func StyleWarning(msg string) string { return yellow(msg) }

// StyleInfo formats status labels or properties (Magenta).
func StyleInfo(msg string) string { return magenta(msg) }

// StylePath formats file paths (Cyan).
func StylePath(path string) string { return cyan(path) }

// StyleCommand formats shell commands or flags (Gray).
func StyleCommand(cmd string) string { return gray(cmd) }

// StyleTitle formats section titles (Bold Cyan).
func StyleTitle(title string) string { return bold(cyan(title)) }

// StyleNumber formats counts, sizes, or IDs (Magenta).
func StyleNumber(num interface{}) string {
	return magenta(fmt.Sprintf("%v", num))
}

// PrintMessage prints a standard info line.
func PrintMessage(format string, a ...interface{}) {
	fmt.Printf("%s %s\n", prefix, fmt.Sprintf(format, a...))
}

// PrintWarning prints a yellow warning line to stderr.
func PrintWarning(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s[%s] %s\n", prefix, yellow("WARN"), fmt.Sprintf(format, a...))
}

// PrintError prints a red error line to stderr.
func PrintError(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s[%s] %s\n", prefix, red("ERROR"), fmt.Sprintf(format, a...))
}

// PrintDebug prints a gray debug line when DebugMode is on.
func PrintDebug(format string, a ...interface{}) {
	if DebugMode {
		fmt.Printf("%s[%s] %s\n", prefix, gray("DEBUG"), fmt.Sprintf(format, a...))
	}
}
