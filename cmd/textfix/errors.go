package main

import (
	"errors"
	"fmt"
)

var (
	errReportHasErrors = errors.New("run finished with errors")
	errNoInput         = errors.New("no text given: pass arguments or pipe lines on stdin")
	errUnknownBackend  = errors.New("unknown backend")
)

func errInvalidLogFormat(f string) error {
	return fmt.Errorf("invalid log format %q: must be text or json", f)
}
