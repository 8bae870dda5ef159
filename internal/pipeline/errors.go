package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure by the stage contract it violated.
type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalidArgument
	KindNetwork
	KindNotDownloadable
	KindExtensionMismatch
	KindWrite
	KindParse
	KindSheetNotFound
	KindEmptyTable
	KindSerialization
	KindContainerCreate
	KindUpload
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNetwork:
		return "network"
	case KindNotDownloadable:
		return "not_downloadable"
	case KindExtensionMismatch:
		return "extension_mismatch"
	case KindWrite:
		return "write"
	case KindParse:
		return "parse"
	case KindSheetNotFound:
		return "sheet_not_found"
	case KindEmptyTable:
		return "empty_table"
	case KindSerialization:
		return "serialization"
	case KindContainerCreate:
		return "container_create"
	case KindUpload:
		return "upload"
	default:
		return "unexpected"
	}
}

// Error is a stage failure. The pipeline driver stops forward progress on the
// first one; nothing downstream runs.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure kind from err, or KindUnexpected when err was
// not produced by a pipeline stage.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnexpected
}
