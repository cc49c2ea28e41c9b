package mcp342x

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks failures reported by the I2C bus. The underlying bus
	// error stays in the chain.
	ErrTransport = errors.New("mcp342x: bus transaction failed")
	// ErrConversionTimeout is returned when a one-shot conversion never reports
	// ready within the poll budget.
	ErrConversionTimeout = errors.New("mcp342x: conversion timed out")
	// ErrMalformedRegister is returned when the echoed control byte does not
	// match the configuration that was written.
	ErrMalformedRegister = errors.New("mcp342x: malformed control register")
	ErrBufferTooShort    = errors.New("mcp342x: payload too short")
	ErrSaturated         = errors.New("mcp342x: output code saturated")
	ErrUnknownValue      = errors.New("mcp342x: unknown value")
)

// OutOfRangeError reports an output code sitting on one of the converter rails,
// meaning the input exceeded the range of the selected gain.
type OutOfRangeError struct {
	Code int32
	Min  int32
	Max  int32
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("mcp342x: output code %d exceeds the valid bounds %d < code < %d", e.Code, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrSaturated
}

func transportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
