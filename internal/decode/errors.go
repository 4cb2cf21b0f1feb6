package decode

import (
	"errors"
	"fmt"
)

// DecodeError reports a malformed tree document.
type DecodeError struct {
	Path    string // dotted location in the document, e.g. "tree.apply.args[1]"
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode: " + e.Message
	}
	return fmt.Sprintf("decode: %s: %s", e.Path, e.Message)
}

// IsDecodeError returns true if err is a *DecodeError.
// Uses errors.As to handle wrapped errors.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func errorf(path, format string, args ...any) error {
	return &DecodeError{Path: path, Message: fmt.Sprintf(format, args...)}
}
