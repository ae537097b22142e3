package cmd

import "github.com/fatih/color"

// Terminal styling for one-shot commands. fatih/color drops the escapes
// when stdout is not a terminal or NO_COLOR is set.
var (
	heading  = color.New(color.Bold, color.FgCyan)
	faint    = color.New(color.Faint)
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	warnText = color.New(color.FgYellow)
)
