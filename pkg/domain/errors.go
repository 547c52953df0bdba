package domain

import "errors"

// ErrorKind is the closed set of failure kinds reported by the core.
//
// ErrorKind implements error so that core operations can return it directly.
// The zero value, Success, is never returned as an error: a successful
// operation returns nil.
type ErrorKind int

const (
	// Success is the non-error sentinel.
	Success ErrorKind = iota
	// MalformedConfig means a configuration sub-tree or required value is missing or unparseable.
	MalformedConfig
	// InvalidHandle means an operation was attempted on a resource that is not open.
	InvalidHandle
	// ConnectionFailed means a transport could not reach its peer.
	ConnectionFailed
	// IOFailure means a read or write on an open transport failed.
	IOFailure
	// ChecksumMismatch means a record failed its integrity check.
	ChecksumMismatch
	// InvalidValue means a value could not be interpreted or is out of its domain.
	InvalidValue
)

var kindNames = [...]string{
	Success:          "success",
	MalformedConfig:  "malformed config",
	InvalidHandle:    "invalid handle",
	ConnectionFailed: "connection failed",
	IOFailure:        "io failure",
	ChecksumMismatch: "checksum mismatch",
	InvalidValue:     "invalid value",
}

// String returns the fixed lower-case description of the kind.
func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown error"
	}
	return kindNames[k]
}

// Error implements the error interface.
func (k ErrorKind) Error() string {
	return k.String()
}

// OK reports whether k is the Success sentinel.
func (k ErrorKind) OK() bool {
	return k == Success
}

// Kinds returns every kind in declaration order.
func Kinds() []ErrorKind {
	return []ErrorKind{Success, MalformedConfig, InvalidHandle, ConnectionFailed, IOFailure, ChecksumMismatch, InvalidValue}
}

// KindOf maps an error returned by a core operation back to its kind.
// A nil error is Success. Errors that do not carry a kind (e.g. raw
// errors from a third-party transport) are reported as IOFailure.
func KindOf(err error) ErrorKind {
	if err == nil {
		return Success
	}
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return IOFailure
}

// Err converts a kind into the error a core operation returns: nil for
// Success, the kind itself otherwise.
func Err(k ErrorKind) error {
	if k == Success {
		return nil
	}
	return k
}
