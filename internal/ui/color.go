package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// SetColorForcing overrides fatih/color's terminal detection.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		color.NoColor = true
	case force:
		color.NoColor = false
	}
}

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Success.Sprint(current.SymOK+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Error.Sprint(current.SymFail+" "+msg))
}

// Hint prints a muted follow-up line under a failure.
func Hint(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Muted.Sprint("Hint: "+msg))
}
