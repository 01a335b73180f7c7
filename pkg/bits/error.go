// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package bits

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the ways in which decoding or evaluating a transmission
// can fail.  Each kind is itself an error, so that callers can test for a
// particular kind using errors.Is(err, bits.OutOfBits).
type ErrorKind uint8

const (
	// OutOfBits indicates a read beyond the end of the transmission.
	OutOfBits ErrorKind = iota + 1
	// InvalidOpcode indicates an operator packet with an unknown type.
	InvalidOpcode
	// FramingMismatch indicates the children of a length-framed operator did
	// not end exactly at the declared length.
	FramingMismatch
	// LiteralOverflow indicates a literal wider than 64 bits.
	LiteralOverflow
	// ArityError indicates an operator with an unsuitable number of children
	// for its operation.
	ArityError
	// DepthExceeded indicates operators nested more deeply than permitted.
	DepthExceeded
	// PacketLimitExceeded indicates more packets than permitted.
	PacketLimitExceeded
	// ArithmeticOverflow indicates a sum or product which does not fit in 64
	// bits.
	ArithmeticOverflow
	// TrailingData indicates non-zero bits following the outermost packet.
	TrailingData
)

var errorKindNames = []string{
	"unknown error",
	"out of bits",
	"invalid opcode",
	"framing mismatch",
	"literal overflow",
	"arity error",
	"depth exceeded",
	"packet limit exceeded",
	"arithmetic overflow",
	"trailing data",
}

// Error implements the error interface.
func (p ErrorKind) Error() string {
	if int(p) < len(errorKindNames) {
		return errorKindNames[p]
	}
	//
	return fmt.Sprintf("error kind %d", uint8(p))
}

// Name returns a short identifier for this kind, suitable for use as a metric
// label or in machine-readable output.
func (p ErrorKind) Name() string {
	switch p {
	case OutOfBits:
		return "out_of_bits"
	case InvalidOpcode:
		return "invalid_opcode"
	case FramingMismatch:
		return "framing_mismatch"
	case LiteralOverflow:
		return "literal_overflow"
	case ArityError:
		return "arity"
	case DepthExceeded:
		return "depth_exceeded"
	case PacketLimitExceeded:
		return "packet_limit_exceeded"
	case ArithmeticOverflow:
		return "arithmetic_overflow"
	case TrailingData:
		return "trailing_data"
	}
	//
	return "unknown"
}

// Error is a structured error which retains the kind of failure, the bit
// offset of the packet (or field) at which it arose, and the expected versus
// actual quantities involved (e.g. bits requested vs bits remaining).
type Error struct {
	kind     ErrorKind
	offset   uint
	expected uint64
	actual   uint64
	msg      string
}

// NewError constructs a new error of the given kind.
func NewError(kind ErrorKind, offset uint, expected uint64, actual uint64, msg string) *Error {
	return &Error{kind, offset, expected, actual, msg}
}

// Kind returns the classification of this error.
func (p *Error) Kind() ErrorKind {
	return p.kind
}

// Offset returns the bit offset at which this error was reported.
func (p *Error) Offset() uint {
	return p.offset
}

// ByteOffset returns the byte containing the bit at which this error was
// reported.
func (p *Error) ByteOffset() uint {
	return p.offset / 8
}

// Expected returns the expected quantity (meaning depends on the kind).
func (p *Error) Expected() uint64 {
	return p.expected
}

// Actual returns the actual quantity (meaning depends on the kind).
func (p *Error) Actual() uint64 {
	return p.actual
}

// Message returns the message to be reported.
func (p *Error) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *Error) Error() string {
	return fmt.Sprintf("bit %d (byte %d): %s: %s (expected %d, actual %d)", p.offset, p.ByteOffset(), p.kind,
		p.msg, p.expected, p.actual)
}

// Unwrap exposes the kind of this error, such that errors.Is can be used to
// classify it.
func (p *Error) Unwrap() error {
	return p.kind
}

// KindOf extracts the kind of a given error, or returns false if it did not
// arise from decoding or evaluation.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	//
	if errors.As(err, &e) {
		return e.kind, true
	}
	//
	return 0, false
}
