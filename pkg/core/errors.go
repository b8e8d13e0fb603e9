package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnknownField      = errors.New("unknown field")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// UnknownFieldError is returned when a record is built with a field it does not declare.
type UnknownFieldError struct {
	Record string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown field %q", e.Record, e.Field)
}

func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// MalformedPayloadError reports a payload section that is missing or has the wrong shape.
// Path is the dotted location inside the payload (e.g. "train.items.0.items").
type MalformedPayloadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	msg := fmt.Sprintf("malformed payload at %q: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned when no format adapter is registered for an extension.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported format for %s: missing file extension", e.Path)
	}
	return fmt.Sprintf("unsupported format %q for %s", e.Ext, e.Path)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

func malformed(path, reason string) error {
	return &MalformedPayloadError{Path: path, Reason: reason}
}
