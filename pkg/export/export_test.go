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
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/consensys/go-bits/pkg/bits"
	"github.com/consensys/go-bits/pkg/transmission"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

func Test_ParseFormat_00(t *testing.T) {
	for i, name := range Formats() {
		if format, err := ParseFormat(name); err != nil || format != Format(i) || format.String() != name {
			t.Errorf("ParseFormat(%s) = %s, %v", name, format, err)
		}
	}
	//
	if format, err := ParseFormat("YAML"); err != nil || format != YAML {
		t.Errorf("expected case-insensitive match")
	}
	//
	if _, err := ParseFormat("json"); err == nil {
		t.Errorf("expected unknown format error")
	}
}

func Test_NodeOf_00(t *testing.T) {
	node := NodeOf(decode(t, "38006F45291200"))
	//
	if node.Type != "less-than" || node.Version != 1 || node.Value != nil || len(node.Children) != 2 {
		t.Fatalf("unexpected node %+v", node)
	}
	//
	checkLiteralNode(t, node.Children[0], 6, 22, 10)
	checkLiteralNode(t, node.Children[1], 2, 33, 20)
}

func Test_Marshal_SExp_00(t *testing.T) {
	checkMarshal(t, "9C0141080250320F1802104A08", SExp, false, "(== (+ 1 3) (* 2 2))")
}

func Test_Marshal_SExp_01(t *testing.T) {
	checkMarshal(t, "9C0141080250320F1802104A08", SExp, true, "(==\n  (+ 1 3)\n  (* 2 2))")
}

func Test_Marshal_YAML_00(t *testing.T) {
	var node Node
	//
	packet := decode(t, "EE00D40C823060")
	data, err := Marshal(packet, YAML, false)
	//
	if err != nil {
		t.Fatal(err)
	} else if !strings.Contains(string(data), "type: maximum") {
		t.Fatalf("unexpected yaml:\n%s", data)
	} else if err := yaml.Unmarshal(data, &node); err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(node, NodeOf(packet)) {
		t.Fatalf("yaml does not describe packet:\n%s", data)
	}
}

func Test_Marshal_CBOR_00(t *testing.T) {
	packet := decode(t, "9C0141080250320F1802104A08")
	data, err := Marshal(packet, CBOR, false)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	node, err := unmarshalCBOR(data)
	//
	if err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(node, NodeOf(packet)) {
		t.Fatalf("cbor does not describe packet")
	}
	// Encoding is deterministic
	if again, _ := Marshal(packet, CBOR, false); !bytes.Equal(data, again) {
		t.Fatalf("cbor encoding not deterministic")
	}
}

func Test_Marshal_CBORDiagnostic_00(t *testing.T) {
	data, err := Marshal(decode(t, "38006F45291200"), CBORDiagnostic, false)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	for _, fragment := range []string{`3: "less-than"`, `4: 10`, `4: 20`} {
		if !strings.Contains(string(data), fragment) {
			t.Errorf("expected %q in %s", fragment, data)
		}
	}
}

func Test_Marshal_Unknown(t *testing.T) {
	if _, err := Marshal(decode(t, "D2FE28"), Format(99), false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func decode(t *testing.T, hex string) bits.Packet {
	t.Helper()
	//
	tx, err := transmission.ParseHex(hex)
	if err != nil {
		t.Fatal(err)
	}
	//
	packet, err := bits.Decode(tx.Cursor())
	if err != nil {
		t.Fatal(err)
	}
	//
	return packet
}

func checkLiteralNode(t *testing.T, node Node, version uint8, offset uint, value uint64) {
	t.Helper()
	//
	if node.Type != "literal" || node.Version != version || node.Offset != offset || node.Value == nil ||
		*node.Value != value || node.Children != nil {
		t.Errorf("unexpected literal node %+v", node)
	}
}

func checkMarshal(t *testing.T, hex string, format Format, pretty bool, expected string) {
	t.Helper()
	//
	data, err := Marshal(decode(t, hex), format, pretty)
	//
	if err != nil {
		t.Fatal(err)
	} else if string(data) != expected {
		t.Fatalf("expected %q, got %q", expected, data)
	}
}

// Read back a tree description written in the CBOR format.
func unmarshalCBOR(data []byte) (Node, error) {
	var node Node
	//
	err := cbor.Unmarshal(data, &node)
	//
	return node, err
}
