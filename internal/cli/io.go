package cli

import (
	"fmt"
	"io"
)

// IO is the output of one command: stdout for results, stderr for errors
// and warnings.
//
// A warning marks a partial failure, such as a module that could not load
// while the rest of the page still works. Warnings are printed before the
// first line of output and again from [IO.Finish], so they survive both
// `| head` and `| tail`, and they turn the exit code to 1.
type IO struct {
	out    io.Writer
	errOut io.Writer

	warnings []string
	flushed  bool
}

// NewIO returns an IO writing to out and errOut.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records a partial failure and what the user can do about it.
func (o *IO) Warn(issue string, action string) {
	o.warnings = append(o.warnings, issue+": "+action)
}

// Println writes a line to stdout.
func (o *IO) Println(a ...any) {
	o.leadingWarnings()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	o.leadingWarnings()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes a line to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Out returns the stdout writer for renderers that write directly.
func (o *IO) Out() io.Writer {
	return o.out
}

// Finish repeats the warnings at the end of output and returns the exit
// code: 1 when anything was warned about, 0 otherwise.
func (o *IO) Finish() int {
	o.leadingWarnings()
	o.printWarnings()

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) leadingWarnings() {
	if o.flushed || len(o.warnings) == 0 {
		return
	}

	o.flushed = true
	o.printWarnings()
}

func (o *IO) printWarnings() {
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}
}
