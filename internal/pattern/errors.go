package pattern

import "fmt"

// FileError wraps an I/O failure on a pattern file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("pattern file %q: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// FormatError reports a pattern line that cannot be parsed.
type FormatError struct {
	Line int
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	s := fmt.Sprintf("malformed pattern at line %d: %s", e.Line, e.Msg)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *FormatError) Unwrap() error { return e.Err }
