package runner

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// console prints wrapper status lines to stderr so they never mix with
// ffuf's stdout.
type console struct {
	quiet  bool
	status *color.Color
}

func newConsole(quiet, noColor bool) *console {
	if noColor || !term.IsTerminal(int(os.Stderr.Fd())) {
		color.NoColor = true
	}
	return &console{
		quiet:  quiet,
		status: color.New(color.FgGreen),
	}
}

func (c *console) Statusf(format string, a ...any) {
	if c.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", c.status.Sprint("[+]"), fmt.Sprintf(format, a...))
}
