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
	"strconv"
	"strings"
	"testing"

	"github.com/consensys/go-bits/pkg/util/collection/bit"
)

// ===================================================================
// Test Helpers
// ===================================================================

// Construct a cursor from a string of binary digits, where spaces are ignored.
func cursorOfBits(t *testing.T, digits string) *bit.Cursor {
	t.Helper()
	//
	digits = strings.ReplaceAll(digits, " ", "")
	bytes := make([]byte, bit.BytesRequiredFor(uint(len(digits))))
	//
	for i, c := range digits {
		switch c {
		case '1':
			bytes[i/8] |= 0x80 >> (i % 8)
		case '0':
		default:
			t.Fatalf("invalid binary digit %q", c)
		}
	}
	//
	return bit.NewBoundedCursor(bytes, uint(len(digits)))
}

// Construct a cursor from a string of hex digits, covering exactly four bits
// per digit.
func cursorOfHex(t *testing.T, hex string) *bit.Cursor {
	t.Helper()
	//
	var digits strings.Builder
	//
	for _, c := range hex {
		nibble, err := strconv.ParseUint(string(c), 16, 4)
		if err != nil {
			t.Fatalf("invalid hex digit %q", c)
		}
		//
		digits.WriteString(fmt.Sprintf("%04b", nibble))
	}
	//
	return cursorOfBits(t, digits.String())
}

func decodeHex(t *testing.T, hex string) Packet {
	t.Helper()
	//
	packet, err := Decode(cursorOfHex(t, hex))
	if err != nil {
		t.Fatalf("decoding %s: unexpected error %v", hex, err)
	}
	//
	return packet
}

func checkErrorKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	//
	var e *Error
	//
	if err == nil {
		t.Fatalf("expected %s, got no error", kind)
	} else if !errors.As(err, &e) || e.Kind() != kind {
		t.Fatalf("expected %s, got %v", kind, err)
	} else if !errors.Is(err, kind) {
		t.Fatalf("expected error to match %s", kind)
	}
	//
	return e
}
