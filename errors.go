// Package fatsynth projects an arbitrary hierarchical backing object store as
// a byte-exact FAT32 block device, synthesized lazily on demand. The core
// address-translation and directory-projection logic lives in the fat32
// subpackage; this package holds the error type shared across the module.
package fatsynth

import (
	"fmt"
	"syscall"
)

// DriverError is a wrapper around a system errno code with a customizable
// error message. Steady-state read/write failures of a fat32.Volume and host
// I/O failures in backing/osfs are reported through this type so callers can
// inspect ErrnoCode without string matching. Volume parameter validation in
// fat32.NewParameters returns a go-multierror aggregate instead.
type DriverError struct {
	ErrnoCode syscall.Errno
	message   string
}

// Error implements the error interface.
func (e *DriverError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.ErrnoCode.Error()
}

// Unwrap lets callers use errors.Is(err, syscall.ENOSPC) and friends.
func (e *DriverError) Unwrap() error {
	return e.ErrnoCode
}

// NewDriverError creates a DriverError with a default message derived from
// the errno code.
func NewDriverError(errnoCode syscall.Errno) *DriverError {
	return &DriverError{ErrnoCode: errnoCode, message: errnoCode.Error()}
}

// NewDriverErrorWithMessage creates a DriverError from a system error code
// with a custom message.
func NewDriverErrorWithMessage(errnoCode syscall.Errno, message string) *DriverError {
	return &DriverError{
		ErrnoCode: errnoCode,
		message:   fmt.Sprintf("%s: %s", errnoCode.Error(), message),
	}
}
