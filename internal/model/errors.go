package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies rotation failures. The orchestrator uses the kind to
// decide whether to continue with the next entry or abort the run.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMalformedPath
	KindMetadataUnavailable
	KindPattern
	KindMissingExtension
	KindUnknownExtension
	KindDeletion
	KindCopy
	KindRecreate
	KindConfig
	KindSource
)

var kindNames = map[ErrorKind]string{
	KindUnknown:             "unknown",
	KindMalformedPath:       "malformed_path",
	KindMetadataUnavailable: "metadata_unavailable",
	KindPattern:             "pattern",
	KindMissingExtension:    "missing_extension",
	KindUnknownExtension:    "unknown_extension",
	KindDeletion:            "deletion",
	KindCopy:                "copy",
	KindRecreate:            "recreate",
	KindConfig:              "config",
	KindSource:              "source",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Fatal reports whether an error of this kind must stop the run.
// Only unreadable metadata for a single entry is recoverable.
func (k ErrorKind) Fatal() bool {
	return k != KindMetadataUnavailable
}

// Error is a rotation failure tied to the path that caused it.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

// NewError builds an *Error. err may be nil.
func NewError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind from err, or KindUnknown if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsFatal reports whether err should abort the run. Errors that are not
// *Error values are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Fatal()
	}
	return true
}
