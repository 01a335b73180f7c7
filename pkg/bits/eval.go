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
	"math/bits"
	"slices"
)

// VersionSum returns the sum of the versions of every packet in a given tree.
func VersionSum(packet Packet) uint64 {
	switch p := packet.(type) {
	case *Literal:
		return uint64(p.version)
	case *Operator:
		var sum = uint64(p.version)
		//
		for _, child := range p.children {
			sum += VersionSum(child)
		}
		//
		return sum
	}
	//
	panic(fmt.Sprintf("unknown packet %T", packet))
}

// Evaluate computes the value of a given packet tree by treating it as an
// arithmetic expression.  Every child of an operator is evaluated (in order)
// before the operator itself is applied.  This fails if an operator has an
// unsuitable number of children, or if a sum or product does not fit in 64
// bits.
func Evaluate(packet Packet) (uint64, error) {
	switch p := packet.(type) {
	case *Literal:
		return p.value, nil
	case *Operator:
		if err := checkArity(p); err != nil {
			return 0, err
		}
		//
		values := make([]uint64, len(p.children))
		//
		for i, child := range p.children {
			v, err := Evaluate(child)
			if err != nil {
				return 0, err
			}
			//
			values[i] = v
		}
		//
		return apply(p, values)
	}
	//
	panic(fmt.Sprintf("unknown packet %T", packet))
}

// Check an operator has a suitable number of children for its operation.
// Comparisons are strictly binary, whilst all other operations require at
// least one child.
func checkArity(p *Operator) error {
	var n = uint64(len(p.children))
	//
	if p.opcode.IsComparison() && n != 2 {
		msg := fmt.Sprintf("%s operator requires exactly 2 children", p.opcode)
		return NewError(ArityError, p.offset, 2, n, msg)
	} else if n == 0 {
		msg := fmt.Sprintf("%s operator requires at least 1 child", p.opcode)
		return NewError(ArityError, p.offset, 1, n, msg)
	}
	//
	return nil
}

func apply(p *Operator, values []uint64) (uint64, error) {
	switch p.opcode {
	case Sum:
		return sum(p, values)
	case Product:
		return product(p, values)
	case Minimum:
		return slices.Min(values), nil
	case Maximum:
		return slices.Max(values), nil
	case GreaterThan:
		return boolean(values[0] > values[1]), nil
	case LessThan:
		return boolean(values[0] < values[1]), nil
	case EqualTo:
		return boolean(values[0] == values[1]), nil
	}
	// Cannot arise for operators constructed via NewOperator or the decoder.
	return 0, NewError(InvalidOpcode, p.offset, 0, uint64(p.opcode), "unknown operator")
}

func sum(p *Operator, values []uint64) (uint64, error) {
	var total uint64
	//
	for _, v := range values {
		var carry uint64
		//
		if total, carry = bits.Add64(total, v, 0); carry != 0 {
			return 0, NewError(ArithmeticOverflow, p.offset, 64, 65, "sum exceeds 64 bits")
		}
	}
	//
	return total, nil
}

func product(p *Operator, values []uint64) (uint64, error) {
	var total uint64 = 1
	// A zero operand makes the product zero, regardless of whether the
	// remaining operands would overflow.
	for _, v := range values {
		if v == 0 {
			return 0, nil
		}
	}
	//
	for _, v := range values {
		var hi uint64
		//
		if hi, total = bits.Mul64(total, v); hi != 0 {
			return 0, NewError(ArithmeticOverflow, p.offset, 64, uint64(128-bits.LeadingZeros64(hi)),
				"product exceeds 64 bits")
		}
	}
	//
	return total, nil
}

func boolean(b bool) uint64 {
	if b {
		return 1
	}
	//
	return 0
}
