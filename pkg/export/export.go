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
package export

import (
	"fmt"
	"strings"

	"github.com/consensys/go-bits/pkg/bits"
	"github.com/consensys/go-bits/pkg/sexp"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a representation in which a decoded packet tree can be
// written out.  None of these are BITS encodings; they describe a tree for
// inspection by people or other tools.
type Format uint8

const (
	// SExp writes a packet tree as an S-expression.
	SExp Format = iota
	// YAML writes a packet tree as a YAML document.
	YAML
	// CBOR writes a packet tree as (binary) CBOR.
	CBOR
	// CBORDiagnostic writes a packet tree in CBOR diagnostic notation.
	CBORDiagnostic
)

var formatNames = []string{"sexp", "yaml", "cbor", "cbor-diag"}

// Formats lists the names of all supported formats.
func Formats() []string {
	return formatNames
}

// ParseFormat parses a format from its name.
func ParseFormat(name string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(n, name) {
			return Format(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown format %q (expected one of %s)", name, strings.Join(formatNames, ", "))
}

func (p Format) String() string {
	if int(p) < len(formatNames) {
		return formatNames[p]
	}
	//
	return fmt.Sprintf("format(%d)", uint8(p))
}

// IsBinary checks whether this format produces non-textual output.
func (p Format) IsBinary() bool {
	return p == CBOR
}

// Node describes a single packet, along with its children.
type Node struct {
	// Version of this packet.
	Version uint8 `cbor:"1,keyasint" yaml:"version"`
	// Offset is the bit offset of this packet's header.
	Offset uint `cbor:"2,keyasint" yaml:"offset"`
	// Type is either "literal" or the name of an operation.
	Type string `cbor:"3,keyasint" yaml:"type"`
	// Value of a literal packet.
	Value *uint64 `cbor:"4,keyasint,omitempty" yaml:"value,omitempty"`
	// Children of an operator packet.
	Children []Node `cbor:"5,keyasint,omitempty" yaml:"children,omitempty"`
}

// NodeOf constructs a description of a given packet tree.
func NodeOf(packet bits.Packet) Node {
	var node = Node{Version: packet.Version(), Offset: packet.Offset()}
	//
	switch p := packet.(type) {
	case *bits.Literal:
		value := p.Value()
		node.Type = "literal"
		node.Value = &value
	case *bits.Operator:
		node.Type = p.OpCode().String()
		node.Children = make([]Node, p.Arity())
		//
		for i := uint(0); i < p.Arity(); i++ {
			node.Children[i] = NodeOf(p.Child(i))
		}
	}
	//
	return node
}

// encMode is the CBOR encoder configured with Core Deterministic Encoding, such
// that the same tree always produces identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	//
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic("export: CBOR encoder initialization failed: " + err.Error())
	}
}

// Marshal writes a packet tree in the given format.  When pretty is set,
// textual formats are spread over multiple indented lines where this is
// supported.
func Marshal(packet bits.Packet, format Format, pretty bool) ([]byte, error) {
	switch format {
	case SExp:
		if pretty {
			return []byte(sexp.Format(packet.Lisp(), "  ")), nil
		}
		//
		return []byte(packet.String()), nil
	case YAML:
		return yaml.Marshal(NodeOf(packet))
	case CBOR:
		return encMode.Marshal(NodeOf(packet))
	case CBORDiagnostic:
		data, err := encMode.Marshal(NodeOf(packet))
		if err != nil {
			return nil, err
		}
		//
		text, err := cbor.Diagnose(data)
		//
		return []byte(text), err
	}
	//
	return nil, fmt.Errorf("unsupported format %s", format)
}
