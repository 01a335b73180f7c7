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
package bit

import "fmt"

// Cursor provides a mechanism for reading bits from a given array of bytes,
// where the most significant bits of each byte are read first.  For example,
// the sequence of bytes [0xd2,0xfe] is viewed as the following bit sequence:
//
// | 0 | 1 | 2 | 3 | 4 | 5 | 6 | 7 || 8 | 9 | A | B | C | D | E | F |
// +===+===+===+===+===+===+===+===++===+===+===+===+===+===+===+===+
// | 1 | 1 | 0 | 1 | 0 | 0 | 1 | 0 || 1 | 1 | 1 | 1 | 1 | 1 | 1 | 0 |
// |           |           |
// |  1 |  1 |  0 |  1 |  0 |  0 |
//
// The above illustrates the outcome from reading 3 bits twice, giving 0b110
// and then 0b100.  A cursor only ever moves forwards.
type Cursor struct {
	bytes []byte
	// Total number of readable bits, which may stop short of the last byte.
	nbits uint
	// Offset of the next bit to be read.
	bitoffset uint
}

// NewCursor constructs a cursor over every bit of the given bytes.
func NewCursor(bytes []byte) *Cursor {
	return &Cursor{bytes, uint(len(bytes)) * 8, 0}
}

// NewBoundedCursor constructs a cursor over the first nbits bits of the given
// bytes.  This allows a sequence whose length is not a multiple of eight (e.g.
// an odd number of hex digits) to be read without any trailing padding.
func NewBoundedCursor(bytes []byte, nbits uint) *Cursor {
	if nbits > uint(len(bytes))*8 {
		panic(fmt.Sprintf("cursor of %d bits exceeds %d bytes", nbits, len(bytes)))
	}
	//
	return &Cursor{bytes, nbits, 0}
}

// Len returns the total number of bits covered by this cursor.
func (p *Cursor) Len() uint {
	return p.nbits
}

// Position returns the offset of the next bit to be read.
func (p *Cursor) Position() uint {
	return p.bitoffset
}

// Remaining returns the remaining number of bits which can be read.
func (p *Cursor) Remaining() uint {
	return p.nbits - p.bitoffset
}

// Read consumes the next n bits (most significant first) and returns them as
// an unsigned integer.  If fewer than n bits remain then an error is returned
// and the cursor is not moved.  Reading more than 64 bits at once is not
// permitted.
func (p *Cursor) Read(n uint) (uint64, error) {
	var value uint64
	//
	if n > 64 {
		panic(fmt.Sprintf("cannot read %d bits at once", n))
	} else if n > p.Remaining() {
		return 0, &OutOfBitsError{p.bitoffset, n, p.Remaining()}
	}
	//
	for n > 0 {
		var (
			// Bits of the current byte not yet consumed
			avail = 8 - (p.bitoffset % 8)
			take  = min(avail, n)
			b     = uint64(p.bytes[p.bitoffset/8])
		)
		// Extract the take bits following the current offset
		chunk := (b >> (avail - take)) & Mask(take)
		value = (value << take) | chunk
		//
		p.bitoffset += take
		n -= take
	}
	//
	return value, nil
}

// OutOfBitsError is returned when a read is attempted which extends beyond the
// end of the bit sequence.
type OutOfBitsError struct {
	// Offset is the bit offset at which the read was attempted.
	Offset uint
	// Requested is the number of bits which were requested.
	Requested uint
	// Remaining is the number of bits which were actually available.
	Remaining uint
}

// Error implements the error interface.
func (p *OutOfBitsError) Error() string {
	return fmt.Sprintf("bit %d: cannot read %d bits (%d remaining)", p.Offset, p.Requested, p.Remaining)
}
