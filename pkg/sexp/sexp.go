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
package sexp

import "strings"

// SExp is an S-Expression is either a List of zero or more S-Expressions, or
// a Symbol.
type SExp interface {
	// AsList checks whether this S-Expression is a list and, if so, returns
	// it.  Otherwise, it returns nil.
	AsList() *List
	// AsSymbol checks whether this S-Expression is a symbol and, if so,
	// returns it.  Otherwise, it returns nil.
	AsSymbol() *Symbol
	// String generates a single-line string representation.
	String() string
}

// Format generates a multi-line representation of a given S-Expression, where
// any list nested beneath the head of an enclosing list starts on its own line
// and is indented by one more unit than its parent.  Lists containing only
// symbols are kept on a single line.
func Format(sexp SExp, indent string) string {
	var builder strings.Builder
	//
	format(&builder, sexp, indent, 0)
	//
	return builder.String()
}

func format(builder *strings.Builder, sexp SExp, indent string, depth int) {
	var list = sexp.AsList()
	//
	if list == nil || list.isFlat() {
		builder.WriteString(sexp.String())
		return
	}
	//
	builder.WriteString("(")
	//
	for i, e := range list.Elements {
		if i == 0 {
			format(builder, e, indent, depth+1)
			continue
		}
		//
		builder.WriteString("\n")
		builder.WriteString(strings.Repeat(indent, depth+1))
		format(builder, e, indent, depth+1)
	}
	//
	builder.WriteString(")")
}

// ===================================================================
// List
// ===================================================================

// List represents a list of zero or more S-Expressions.
type List struct {
	Elements []SExp
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ SExp = (*List)(nil)

// NewList creates a new list from a given array of S-Expressions.
func NewList(elements []SExp) *List {
	return &List{elements}
}

// AsList returns the given list.
func (l *List) AsList() *List { return l }

// AsSymbol returns nil for a list.
func (l *List) AsSymbol() *Symbol { return nil }

// Len gets the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get the ith element of this list
func (l *List) Get(i int) SExp { return l.Elements[i] }

// Append a new element onto this list.
func (l *List) Append(element SExp) {
	l.Elements = append(l.Elements, element)
}

func (l *List) String() string {
	var s = "("

	for i := 0; i < len(l.Elements); i++ {
		if i != 0 {
			s += " "
		}

		s += l.Elements[i].String()
	}

	s += ")"

	return s
}

// MatchSymbols matches a list which starts with at least n symbols, of which the
// first m match the given strings.
func (l *List) MatchSymbols(n int, symbols ...string) bool {
	if len(l.Elements) < n || len(symbols) > n {
		return false
	}

	for i := 0; i < len(symbols); i++ {
		if ith := l.Elements[i].AsSymbol(); ith == nil || ith.Value != symbols[i] {
			return false
		}
	}

	return true
}

func (l *List) isFlat() bool {
	for _, e := range l.Elements {
		if e.AsList() != nil {
			return false
		}
	}
	//
	return true
}

// ===================================================================
// Symbol
// ===================================================================

// Symbol represents a terminating symbol.
type Symbol struct {
	Value string
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ SExp = (*Symbol)(nil)

// NewSymbol creates a new symbol from a given string.
func NewSymbol(value string) *Symbol {
	return &Symbol{value}
}

// AsList returns nil for a symbol.
func (s *Symbol) AsList() *List { return nil }

// AsSymbol returns the given symbol
func (s *Symbol) AsSymbol() *Symbol { return s }

func (s *Symbol) String() string { return s.Value }
