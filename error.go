// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package teleport

import (
	"errors"
	"fmt"
)

// Code classifies a bridge error so callers can pick the right recovery
// action. Remote failures keep enough context to tell a failed transfer
// apart from a failed burn or a failed dispatch.
type Code int32

const (
	CodeOther Code = iota
	CodeInsufficientBalance
	CodeInsufficientAllowance
	CodeUnauthorized
	CodeAddressMismatch
	CodeAlreadyProcessed
	CodeRemoteUnavailable
	CodeRemoteRejected
)

func (c Code) String() string {
	switch c {
	case CodeInsufficientBalance:
		return "insufficient balance"
	case CodeInsufficientAllowance:
		return "insufficient allowance"
	case CodeUnauthorized:
		return "unauthorized"
	case CodeAddressMismatch:
		return "address mismatch"
	case CodeAlreadyProcessed:
		return "already processed"
	case CodeRemoteUnavailable:
		return "remote unavailable"
	case CodeRemoteRejected:
		return "remote rejected"
	default:
		return "other"
	}
}

// Error is a typed bridge error.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf builds an *Error with a formatted message.
func Errorf(code Code, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the Code from err, or CodeOther for untyped errors.
func CodeOf(err error) Code {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return CodeOther
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var te *Error
	return errors.As(err, &te) && te.Code == code
}
