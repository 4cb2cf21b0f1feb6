package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/lamir/internal/decode"
)

// LoadError is a tree document that could not be loaded.
type LoadError struct {
	Code    string // error code (E002, E005, etc.)
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDocument reads a tree document (.yaml, .yml, .json or .cue).
func LoadDocument(path string) (*decode.Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("file not found: %s", path)}
	}
	doc, err := decode.LoadFile(path)
	if err == nil {
		return doc, nil
	}
	var de *decode.DecodeError
	if errors.As(err, &de) {
		return nil, &LoadError{Code: ErrCodeDecode, Path: path, Message: err.Error()}
	}
	return nil, &LoadError{Code: ErrCodeGeneric, Path: path, Message: err.Error()}
}

// failLoad reports a LoadDocument error.
func failLoad(f *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return f.Fail(ExitCommandError, le.Code, le.Message, nil)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
