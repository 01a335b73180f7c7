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
package transmission

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/consensys/go-bits/pkg/util/collection/bit"
	"github.com/zeebo/blake3"
)

// Transmission is a complete sequence of bits awaiting decoding.  Since a
// transmission is usually written as hex digits, its length in bits is always
// retained explicitly and need not be a multiple of eight.
type Transmission struct {
	bytes []byte
	nbits uint
}

// New constructs a transmission covering every bit of the given bytes.
func New(bytes []byte) *Transmission {
	return &Transmission{bytes, uint(len(bytes)) * 8}
}

// HexError reports an invalid character in a hex-encoded transmission.
type HexError struct {
	// Index of the offending character (ignoring whitespace).
	Index int
	// Char is the offending character.
	Char rune
}

// Error implements the error interface.
func (p *HexError) Error() string {
	return fmt.Sprintf("invalid hex digit %q at index %d", p.Char, p.Index)
}

// ParseHex parses a transmission written as hex digits (in either case).  Any
// whitespace is ignored, and an odd number of digits is permitted, in which
// case the final byte is only half used.
func ParseHex(text string) (*Transmission, error) {
	var (
		digits = []rune(strings.Map(dropSpace, text))
		bytes  = make([]byte, bit.BytesRequiredFor(uint(len(digits))*4))
	)
	//
	for i, c := range digits {
		nibble, ok := nibbleOf(c)
		if !ok {
			return nil, &HexError{i, c}
		}
		// First digit of each pair is the high nibble
		bytes[i/2] |= nibble << (4 * (1 - i%2))
	}
	//
	return &Transmission{bytes, uint(len(digits)) * 4}, nil
}

// Bytes returns the underlying bytes of this transmission.  When the length is
// not a multiple of eight, the unused bits of the final byte are zero.
func (p *Transmission) Bytes() []byte {
	return p.bytes
}

// Bits returns the number of bits in this transmission.
func (p *Transmission) Bits() uint {
	return p.nbits
}

// Cursor returns a fresh cursor positioned at the start of this transmission.
func (p *Transmission) Cursor() *bit.Cursor {
	return bit.NewBoundedCursor(p.bytes, p.nbits)
}

// Hex returns this transmission written as upper case hex digits.
func (p *Transmission) Hex() string {
	var (
		text    = strings.ToUpper(hex.EncodeToString(p.bytes))
		ndigits = (p.nbits + 3) / 4
	)
	//
	return text[:ndigits]
}

// Fingerprint returns a BLAKE3 hash identifying this transmission.  The length
// in bits is included, so that (for example) "D2FE280" and "D2FE2800" are
// distinct.
func (p *Transmission) Fingerprint() Hash {
	var (
		hash   Hash
		length [8]byte
	)
	//
	hasher, err := blake3.NewKeyed(fingerprintDomainKey[:])
	if err != nil {
		panic("transmission: fingerprint key rejected: " + err.Error())
	}
	//
	binary.BigEndian.PutUint64(length[:], uint64(p.nbits))
	_, _ = hasher.Write(length[:])
	_, _ = hasher.Write(p.bytes)
	//
	copy(hash[:], hasher.Sum(nil))
	//
	return hash
}

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// String returns the hash as lower case hex digits.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Domain separation key for fingerprints, as zero-padded ASCII.
var fingerprintDomainKey = [32]byte{
	'g', 'o', '-', 'b', 'i', 't', 's', '.', 't', 'r', 'a', 'n', 's', 'm', 'i', 's',
	's', 'i', 'o', 'n', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

func nibbleOf(c rune) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0'), true
	case c >= 'a' && c <= 'f':
		return byte(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return byte(c-'A') + 10, true
	}
	//
	return 0, false
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	//
	return r
}
