package rule

import (
	"fmt"

	"github.com/juju/errors"
)

const (
	// ErrRuleSizeMismatch reports a table whose length is not states^((2h+1)^2).
	ErrRuleSizeMismatch = errors.ConstError("rule size mismatch")
	// ErrRuleTooLarge reports a (horizon, states) pair whose table would not fit in memory.
	ErrRuleTooLarge = errors.ConstError("rule table too large")
	// ErrInvalidParams reports an out of range horizon or state count.
	ErrInvalidParams = errors.ConstError("invalid rule parameters")
)

// SizeMismatchError carries the lengths involved in a size check failure.
type SizeMismatchError struct {
	Got, Want int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("rule size mismatch: table has %d entries, want %d", e.Got, e.Want)
}

// Is makes errors.Is(err, ErrRuleSizeMismatch) hold.
func (e *SizeMismatchError) Is(target error) bool { return target == ErrRuleSizeMismatch }

// FileError wraps an I/O failure on a rule file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("rule file %q: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// FormatError reports rule data that cannot be interpreted as a table.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return "malformed rule data: " + e.Msg + ": " + e.Err.Error()
	}
	return "malformed rule data: " + e.Msg
}

func (e *FormatError) Unwrap() error { return e.Err }
