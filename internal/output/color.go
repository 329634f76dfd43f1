package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type palette struct {
	ok   *color.Color
	fail *color.Color
	warn *color.Color
	skip *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		ok:   mk(color.FgGreen),
		fail: mk(color.FgRed),
		warn: mk(color.FgYellow),
		skip: mk(color.Faint, color.FgBlue),
	}
}

// ColorEnabled resolves a --color mode ("auto", "always", "never") for w. Auto enables
// colors only when w is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isTTYWriter(w)
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
