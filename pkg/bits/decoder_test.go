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
	"math"
	"reflect"
	"strings"
	"testing"
)

// Fixtures used across several tests.
var fixtures = []string{
	"D2FE28",
	"38006F45291200",
	"EE00D40C823060",
	"8A004A801A8002F478",
	"620080001611562C8802118E34",
	"C0015000016115A2E0802F182340",
	"A0016C880162017C3686B18A3D4780",
	"C200B40A82",
	"04005AC33890",
	"880086C3E88112",
	"CE00C43D881120",
	"D8005AC2A8F0",
	"F600BC2D8F",
	"9C005AC2F8F0",
	"9C0141080250320F1802104A08",
}

// ===================================================================
// Literals
// ===================================================================

func Test_Decode_Literal_00(t *testing.T) {
	cursor := cursorOfHex(t, "D2FE28")
	packet, err := Decode(cursor)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	checkPacket(t, packet, literal(6, 2021))
	// Padding is left for the caller
	if cursor.Position() != 21 || cursor.Remaining() != 3 {
		t.Fatalf("expected position 21, got %d", cursor.Position())
	}
}

func Test_Decode_Literal_01(t *testing.T) {
	// Groups only, without header.  Most significant nibble comes first.
	cursor := cursorOfBits(t, "10111 11110 00101")
	packet, err := decodeLiteral(cursor, 6, 0)
	//
	if err != nil {
		t.Fatal(err)
	} else if packet.Value() != 2021 {
		t.Fatalf("expected 2021, got %d", packet.Value())
	}
}

func Test_Decode_Literal_02(t *testing.T) {
	checkDecodeBits(t, "000 100 00000", literal(0, 0))
}

func Test_Decode_Literal_03(t *testing.T) {
	checkDecodeBits(t, "111 100 01111", literal(7, 15))
}

func Test_Decode_Literal_04(t *testing.T) {
	// Exactly 64 bits of value
	digits := "000 100" + strings.Repeat(" 11111", 15) + " 01111"
	checkDecodeBits(t, digits, literal(0, math.MaxUint64))
}

func Test_Decode_Literal_05(t *testing.T) {
	// Leading zero groups do not change the value
	checkDecodeBits(t, "010 100 10000 10000 00111", literal(2, 7))
}

func Test_Decode_LiteralOverflow_00(t *testing.T) {
	digits := "000 100" + strings.Repeat(" 11111", 16) + " 00000"
	_, err := Decode(cursorOfBits(t, digits))
	e := checkErrorKind(t, err, LiteralOverflow)
	//
	if e.Offset() != 0 || e.Expected() != 64 {
		t.Fatalf("unexpected error details: %v", e)
	}
}

func Test_Decode_LiteralOverflow_01(t *testing.T) {
	// Overflow is reported even when all nibbles are zero
	digits := "000 100" + strings.Repeat(" 10000", 16) + " 00001"
	_, err := Decode(cursorOfBits(t, digits))
	checkErrorKind(t, err, LiteralOverflow)
}

// ===================================================================
// Operators
// ===================================================================

func Test_Decode_Operator_00(t *testing.T) {
	// Framed by bit length
	checkDecodeHex(t, "38006F45291200", operator(1, LessThan, literal(6, 10), literal(2, 20)))
}

func Test_Decode_Operator_01(t *testing.T) {
	// Framed by packet count
	checkDecodeHex(t, "EE00D40C823060", operator(7, Maximum, literal(2, 1), literal(4, 2), literal(1, 3)))
}

func Test_Decode_Operator_02(t *testing.T) {
	// Length-framed operator ends exactly at its declared length
	cursor := cursorOfHex(t, "38006F45291200")
	//
	if _, err := Decode(cursor); err != nil {
		t.Fatal(err)
	} else if cursor.Position() != 7+15+27 {
		t.Fatalf("expected position 49, got %d", cursor.Position())
	}
}

func Test_Decode_Operator_03(t *testing.T) {
	// Nested operators
	checkDecodeHex(t, "8A004A801A8002F478", operator(4, Minimum, operator(1, Minimum, operator(5, Minimum,
		literal(6, 15)))))
}

func Test_Decode_Operator_04(t *testing.T) {
	// Sum with zero bit length
	checkDecodeBits(t, "000 000 0 000000000000000", operator(0, Sum))
}

func Test_Decode_Operator_05(t *testing.T) {
	// Product with zero packet count
	checkDecodeBits(t, "001 001 1 00000000000", operator(1, Product))
}

func Test_Decode_Operator_06(t *testing.T) {
	// Count-framed inside length-framed
	digits := "011 101 0 000000000111110" + // (> ...) 62 bits
		" 100 111 1 00000000010" + // (== ...) 2 packets
		" 000 100 00011 000 100 00011" + // 3 3
		" 000 000 0 000000000000000" // (+)
	checkDecodeBits(t, digits, operator(3, GreaterThan, operator(4, EqualTo, literal(0, 3), literal(0, 3)),
		operator(0, Sum)))
}

func Test_Decode_Offsets_00(t *testing.T) {
	packet := decodeHex(t, "38006F45291200").(*Operator)
	//
	if packet.Offset() != 0 || packet.Child(0).Offset() != 22 || packet.Child(1).Offset() != 33 {
		t.Fatalf("unexpected offsets %d, %d, %d", packet.Offset(), packet.Child(0).Offset(), packet.Child(1).Offset())
	}
}

// ===================================================================
// Malformed input
// ===================================================================

func Test_Decode_OutOfBits_00(t *testing.T) {
	_, err := Decode(cursorOfBits(t, ""))
	e := checkErrorKind(t, err, OutOfBits)
	//
	if e.Offset() != 0 || e.Expected() != 3 || e.Actual() != 0 {
		t.Fatalf("unexpected error details: %v", e)
	}
}

func Test_Decode_OutOfBits_01(t *testing.T) {
	// Literal missing its final group
	_, err := Decode(cursorOfBits(t, "110 100 10111 11110 0010"))
	e := checkErrorKind(t, err, OutOfBits)
	//
	if e.Offset() != 16 || e.Expected() != 5 || e.Actual() != 4 {
		t.Fatalf("unexpected error details: %v", e)
	}
}

func Test_Decode_OutOfBits_02(t *testing.T) {
	// Declared length extends beyond end
	_, err := Decode(cursorOfBits(t, "000 000 0 000000000100000 000 100 00001"))
	checkErrorKind(t, err, OutOfBits)
}

func Test_Decode_OutOfBits_03(t *testing.T) {
	// Truncating any fixture below the bits it uses must fail.
	for _, hex := range fixtures {
		cursor := cursorOfHex(t, hex)
		//
		if _, err := Decode(cursor); err != nil {
			t.Fatalf("decoding %s: %v", hex, err)
		}
		// Number of hex digits actually used
		used := (cursor.Position() + 3) / 4
		truncated := hex[:used-1]
		//
		if _, err := Decode(cursorOfHex(t, truncated)); err == nil {
			t.Fatalf("decoding %s: expected error", truncated)
		} else {
			checkErrorKind(t, err, OutOfBits)
		}
	}
}

func Test_Decode_FramingMismatch_00(t *testing.T) {
	// Declared length 5 bits, but child literal is 11 bits
	_, err := Decode(cursorOfBits(t, "000 000 0 000000000000101 000 100 00001"))
	e := checkErrorKind(t, err, FramingMismatch)
	//
	if e.Offset() != 0 || e.Expected() != 27 || e.Actual() != 33 {
		t.Fatalf("unexpected error details: %v", e)
	}
}

func Test_Decode_FramingMismatch_01(t *testing.T) {
	// Nested overrun detected for inner operator
	digits := "000 000 1 00000000001" + // (+ ...) 1 packet
		" 000 001 0 000000000000100" + // (* ...) 4 bits
		" 000 100 00001 000000"
	_, err := Decode(cursorOfBits(t, digits))
	e := checkErrorKind(t, err, FramingMismatch)
	//
	if e.Offset() != 18 {
		t.Fatalf("expected error at bit 18, got %d", e.Offset())
	}
}

func Test_Decode_InvalidOpcode_00(t *testing.T) {
	_, err := decodeOperatorHeader(cursorOfBits(t, "1 00000000001"), 0, LiteralTypeID, 12)
	e := checkErrorKind(t, err, InvalidOpcode)
	//
	if e.Offset() != 12 || e.Actual() != LiteralTypeID {
		t.Fatalf("unexpected error details: %v", e)
	}
}

func Test_Decode_InvalidOpcode_01(t *testing.T) {
	_, err := decodeOperatorHeader(cursorOfBits(t, "1 00000000001"), 0, 8, 0)
	checkErrorKind(t, err, InvalidOpcode)
}

// ===================================================================
// Limits
// ===================================================================

func Test_Decode_Depth_00(t *testing.T) {
	checkDecodeDepth(t, 4, 4, true)
}

func Test_Decode_Depth_01(t *testing.T) {
	checkDecodeDepth(t, 5, 4, false)
}

func Test_Decode_Depth_02(t *testing.T) {
	checkDecodeDepth(t, 1, 1, true)
}

func Test_Decode_Depth_03(t *testing.T) {
	// Far deeper than would be comfortable for a recursive decoder.
	checkDecodeDepth(t, 20000, 20000, true)
}

func Test_Decode_Depth_04(t *testing.T) {
	// Childless operators do not open a frame
	decoder := NewDecoder().WithLimits(Limits{MaxDepth: 1, MaxPackets: 10})
	//
	packet, err := decoder.Decode(cursorOfBits(t, "000 000 1 00000000001 000 000 1 00000000000"))
	if err != nil {
		t.Fatal(err)
	}
	//
	checkPacket(t, packet, operator(0, Sum, operator(0, Sum)))
}

func Test_Decode_PacketLimit_00(t *testing.T) {
	decoder := NewDecoder().WithLimits(Limits{MaxDepth: 10, MaxPackets: 4})
	//
	if _, err := decoder.Decode(cursorOfHex(t, "EE00D40C823060")); err != nil {
		t.Fatal(err)
	}
}

func Test_Decode_PacketLimit_01(t *testing.T) {
	decoder := NewDecoder().WithLimits(Limits{MaxDepth: 10, MaxPackets: 3})
	//
	_, err := decoder.Decode(cursorOfHex(t, "EE00D40C823060"))
	e := checkErrorKind(t, err, PacketLimitExceeded)
	//
	if e.Expected() != 3 || e.Actual() != 4 {
		t.Fatalf("unexpected error details: %v", e)
	}
}

func Test_Decode_Limits_Panic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for zero limits")
		}
	}()
	//
	NewDecoder().WithLimits(Limits{})
}

// ===================================================================
// Transmissions
// ===================================================================

func Test_DecodeTransmission_00(t *testing.T) {
	decoder := NewDecoder().WithStrict(true)
	//
	for _, hex := range fixtures {
		if _, err := decoder.DecodeTransmission(cursorOfHex(t, hex)); err != nil {
			t.Fatalf("decoding %s: %v", hex, err)
		}
	}
}

func Test_DecodeTransmission_01(t *testing.T) {
	_, err := NewDecoder().WithStrict(true).DecodeTransmission(cursorOfHex(t, "D2FE29"))
	e := checkErrorKind(t, err, TrailingData)
	//
	if e.Offset() != 21 || e.Actual() != 1 {
		t.Fatalf("unexpected error details: %v", e)
	}
}

func Test_DecodeTransmission_02(t *testing.T) {
	packet, err := NewDecoder().DecodeTransmission(cursorOfHex(t, "D2FE29FFFF"))
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	checkPacket(t, packet, literal(6, 2021))
}

func Test_DecodeTransmission_03(t *testing.T) {
	// Non-zero bit far beyond the packet
	_, err := NewDecoder().WithStrict(true).DecodeTransmission(cursorOfHex(t, "D2FE28"+strings.Repeat("0", 20)+"1"))
	checkErrorKind(t, err, TrailingData)
}

// ===================================================================
// Test Helpers
// ===================================================================

func literal(version uint8, value uint64) *Literal {
	return NewLiteral(version, value)
}

func operator(version uint8, opcode OpCode, children ...Packet) *Operator {
	return NewOperator(version, opcode, children...)
}

func checkDecodeHex(t *testing.T, hex string, expected Packet) {
	t.Helper()
	checkPacket(t, decodeHex(t, hex), expected)
}

func checkDecodeBits(t *testing.T, digits string, expected Packet) {
	t.Helper()
	//
	cursor := cursorOfBits(t, digits)
	packet, err := Decode(cursor)
	//
	if err != nil {
		t.Fatalf("decoding %s: unexpected error %v", digits, err)
	}
	//
	checkPacket(t, packet, expected)
	//
	if cursor.Remaining() != 0 {
		t.Fatalf("decoding %s: %d bits left unconsumed", digits, cursor.Remaining())
	}
}

// Check two packets are structurally identical, ignoring offsets.
func checkPacket(t *testing.T, actual Packet, expected Packet) {
	t.Helper()
	//
	if !samePacket(actual, expected) {
		t.Fatalf("expected %s, got %s", expected, actual)
	}
}

func samePacket(lhs Packet, rhs Packet) bool {
	switch l := lhs.(type) {
	case *Literal:
		r, ok := rhs.(*Literal)
		return ok && l.version == r.version && l.value == r.value
	case *Operator:
		r, ok := rhs.(*Operator)
		if !ok || l.version != r.version || l.opcode != r.opcode || len(l.children) != len(r.children) {
			return false
		}
		//
		for i := range l.children {
			if !samePacket(l.children[i], r.children[i]) {
				return false
			}
		}
		//
		return true
	}
	//
	return reflect.DeepEqual(lhs, rhs)
}

// Nest n single-child sum operators around a literal, then decode with the
// given depth limit.
func checkDecodeDepth(t *testing.T, n int, maxDepth uint, ok bool) {
	var (
		digits  = strings.Repeat("000 000 1 00000000001 ", n) + "000 100 00001"
		decoder = NewDecoder().WithLimits(Limits{MaxDepth: maxDepth, MaxPackets: 1 << 20})
	)
	//
	packet, err := decoder.Decode(cursorOfBits(t, digits))
	//
	if !ok {
		e := checkErrorKind(t, err, DepthExceeded)
		//
		if e.Offset() != uint(18*(n-1)) {
			t.Fatalf("expected error at bit %d, got %d", 18*(n-1), e.Offset())
		}
		//
		return
	} else if err != nil {
		t.Fatal(err)
	}
	//
	stats := StatsOf(packet)
	//
	if stats.Depth != uint(n+1) || stats.Operators != uint(n) || stats.Literals != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
