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
package termio

import (
	"fmt"
	"strings"
)

// Colour identifies one of the eight standard terminal colours.
type Colour uint

const (
	// Black represents black
	Black Colour = iota
	// Red represents red
	Red
	// Green represents green
	Green
	// Yellow represents yellow
	Yellow
	// Blue represents blue
	Blue
	// Magenta represents magenta
	Magenta
	// Cyan represents cyan
	Cyan
	// White represents white
	White
)

// Reset is the escape which clears all formatting.
const Reset = "\033[0m"

// Style represents an ANSI escape used for formatting text in a terminal.  The
// empty style applies no formatting at all.
type Style struct {
	codes []uint
}

// NewStyle constructs an empty style.
func NewStyle() Style {
	return Style{nil}
}

// Bold returns this style with bold text.
func (p Style) Bold() Style {
	return p.with(1)
}

// Underline returns this style with underlined text.
func (p Style) Underline() Style {
	return p.with(4)
}

// Fg returns this style with a given foreground colour.
func (p Style) Fg(col Colour) Style {
	return p.with(30 + uint(col))
}

// Bg returns this style with a given background colour.
func (p Style) Bg(col Colour) Style {
	return p.with(40 + uint(col))
}

// Escape constructs the escape sequence for this style.
func (p Style) Escape() string {
	if len(p.codes) == 0 {
		return ""
	}
	//
	var builder strings.Builder
	//
	builder.WriteString("\033[")
	//
	for i, code := range p.codes {
		if i != 0 {
			builder.WriteString(";")
		}
		//
		builder.WriteString(fmt.Sprintf("%d", code))
	}
	//
	builder.WriteString("m")
	//
	return builder.String()
}

// Apply formats some text with this style, resetting the terminal afterwards.
func (p Style) Apply(text string) string {
	if len(p.codes) == 0 {
		return text
	}
	//
	return p.Escape() + text + Reset
}

func (p Style) with(code uint) Style {
	// Derived styles never share backing storage
	codes := make([]uint, len(p.codes), len(p.codes)+1)
	copy(codes, p.codes)
	//
	return Style{append(codes, code)}
}
