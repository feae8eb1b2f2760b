package consolidator

import (
	"errors"
	"fmt"
)

// ErrInputDir is returned when the statements directory cannot be listed.
var ErrInputDir = errors.New("input directory not readable")

// DocumentError is a failure that stopped one document from being
// extracted. Op names the step that failed: open, read or parse.
type DocumentError struct {
	File string
	Op   string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.File, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }
