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
	"fmt"
	"slices"
	"strconv"

	"github.com/consensys/go-bits/pkg/sexp"
)

// MaxVersion is the largest version a packet can carry (3 bits).
const MaxVersion = 7

// Packet represents a decoded packet, which is either a *Literal or an
// *Operator.  Packets are immutable once constructed, and a tree of packets is
// acyclic.
type Packet interface {
	// Version returns the 3-bit version tag of this packet.
	Version() uint8
	// Offset returns the bit offset of this packet's header within the
	// transmission it was decoded from.  Packets constructed directly, rather
	// than decoded, have offset 0.
	Offset() uint
	// Lisp converts this packet into an S-Expression.
	Lisp() sexp.SExp
	// String returns the S-Expression of this packet on a single line.
	String() string
}

// ===================================================================
// Literal
// ===================================================================

// Literal is a leaf packet holding a single unsigned value.
type Literal struct {
	version uint8
	offset  uint
	value   uint64
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Packet = (*Literal)(nil)

// NewLiteral constructs a literal packet with a given version and value.
func NewLiteral(version uint8, value uint64) *Literal {
	checkVersion(version)
	//
	return &Literal{version, 0, value}
}

// Version implementation for Packet interface.
func (p *Literal) Version() uint8 { return p.version }

// Offset implementation for Packet interface.
func (p *Literal) Offset() uint { return p.offset }

// Value returns the value of this literal.
func (p *Literal) Value() uint64 { return p.value }

// Lisp implementation for Packet interface.
func (p *Literal) Lisp() sexp.SExp {
	return sexp.NewSymbol(strconv.FormatUint(p.value, 10))
}

func (p *Literal) String() string {
	return p.Lisp().String()
}

// ===================================================================
// Operator
// ===================================================================

// Operator is an internal packet applying an operation to an ordered sequence
// of child packets.
type Operator struct {
	version  uint8
	opcode   OpCode
	offset   uint
	children []Packet
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Packet = (*Operator)(nil)

// NewOperator constructs an operator packet over the given children, which are
// retained in the order given.  No arity checking is performed here, since
// that is a property of evaluation rather than construction.
func NewOperator(version uint8, opcode OpCode, children ...Packet) *Operator {
	checkVersion(version)
	//
	if _, ok := OpCodeOf(uint64(opcode)); !ok {
		panic(fmt.Sprintf("invalid operator code %d", opcode))
	}
	//
	return &Operator{version, opcode, 0, slices.Clone(children)}
}

// Version implementation for Packet interface.
func (p *Operator) Version() uint8 { return p.version }

// Offset implementation for Packet interface.
func (p *Operator) Offset() uint { return p.offset }

// OpCode returns the operation applied by this operator.
func (p *Operator) OpCode() OpCode { return p.opcode }

// Arity returns the number of children of this operator.
func (p *Operator) Arity() uint { return uint(len(p.children)) }

// Child returns the ith child of this operator.
func (p *Operator) Child(i uint) Packet { return p.children[i] }

// Children returns a copy of the children of this operator.
func (p *Operator) Children() []Packet {
	return slices.Clone(p.children)
}

// Lisp implementation for Packet interface.
func (p *Operator) Lisp() sexp.SExp {
	var elements = make([]sexp.SExp, len(p.children)+1)
	//
	elements[0] = sexp.NewSymbol(p.opcode.Symbol())
	//
	for i, child := range p.children {
		elements[i+1] = child.Lisp()
	}
	//
	return sexp.NewList(elements)
}

func (p *Operator) String() string {
	return p.Lisp().String()
}

func checkVersion(version uint8) {
	if version > MaxVersion {
		panic(fmt.Sprintf("invalid packet version %d", version))
	}
}
