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

import "fmt"

// LiteralTypeID is the type identifier reserved for literal packets.  It is
// never a valid operator code.
const LiteralTypeID = 4

// OpCode identifies the operation applied by an operator packet to its
// children.  The numeric value of each code matches its 3-bit type identifier
// on the wire.
type OpCode uint8

const (
	// Sum adds all children together.
	Sum OpCode = 0
	// Product multiplies all children together.
	Product OpCode = 1
	// Minimum selects the smallest child.
	Minimum OpCode = 2
	// Maximum selects the largest child.
	Maximum OpCode = 3
	// GreaterThan is 1 if its first child exceeds its second, otherwise 0.
	GreaterThan OpCode = 5
	// LessThan is 1 if its first child is below its second, otherwise 0.
	LessThan OpCode = 6
	// EqualTo is 1 if both its children are equal, otherwise 0.
	EqualTo OpCode = 7
)

// OpCodes lists every valid operator code in type identifier order.
var OpCodes = []OpCode{Sum, Product, Minimum, Maximum, GreaterThan, LessThan, EqualTo}

// OpCodeOf maps a 3-bit type identifier to its operator code.  This fails for
// the literal type identifier and for anything which does not fit in 3 bits.
func OpCodeOf(typeID uint64) (OpCode, bool) {
	switch typeID {
	case 0, 1, 2, 3, 5, 6, 7:
		return OpCode(typeID), true
	default:
		return 0, false
	}
}

// IsComparison checks whether this is one of the binary comparison operators.
func (p OpCode) IsComparison() bool {
	return p == GreaterThan || p == LessThan || p == EqualTo
}

// Symbol returns the symbol used for this operator when a packet is printed as
// an S-expression.
func (p OpCode) Symbol() string {
	switch p {
	case Sum:
		return "+"
	case Product:
		return "*"
	case Minimum:
		return "min"
	case Maximum:
		return "max"
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case EqualTo:
		return "=="
	}
	//
	return fmt.Sprintf("op%d", uint8(p))
}

func (p OpCode) String() string {
	switch p {
	case Sum:
		return "sum"
	case Product:
		return "product"
	case Minimum:
		return "minimum"
	case Maximum:
		return "maximum"
	case GreaterThan:
		return "greater-than"
	case LessThan:
		return "less-than"
	case EqualTo:
		return "equal-to"
	}
	//
	return fmt.Sprintf("opcode(%d)", uint8(p))
}
