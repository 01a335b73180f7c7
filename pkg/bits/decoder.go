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

	"github.com/consensys/go-bits/pkg/util/collection/bit"
	"github.com/consensys/go-bits/pkg/util/collection/stack"
)

// Widths (in bits) of the fields making up a packet.
const (
	versionWidth     = 3
	typeIDWidth      = 3
	groupWidth       = 5
	lengthTypeWidth  = 1
	bitLengthWidth   = 15
	packetCountWidth = 11
	// Maximum number of literal groups whose value bits fit in a uint64.
	maxLiteralGroups = 64 / 4
)

// Length type identifiers for operator packets.
const (
	lengthTypeBits    = 0
	lengthTypePackets = 1
)

// Limits bounds the work a decoder is prepared to do for a single
// transmission.  Since the wire format imposes no limit on nesting other than
// the size of the transmission, untrusted input should always be decoded with
// limits in place.  Decoding itself never recurses, but walks over a decoded
// tree (VersionSum, Evaluate, StatsOf, printing and export) recurse once per
// level, so MaxDepth also bounds their native stack depth.
type Limits struct {
	// MaxDepth bounds how many operator packets may be nested within one
	// another.
	MaxDepth uint
	// MaxPackets bounds the total number of packets (of any kind) decoded.
	MaxPackets uint
}

// DefaultLimits returns the limits used when none are given explicitly.
func DefaultLimits() Limits {
	return Limits{MaxDepth: 512, MaxPackets: 1 << 20}
}

// Decoder is responsible for decoding a sequence of bits into a tree of
// packets.  A decoder holds no state between calls and can safely be shared
// between goroutines.
type Decoder struct {
	limits Limits
	strict bool
}

// NewDecoder constructs a decoder with the default limits which ignores any
// padding following the outermost packet.
func NewDecoder() *Decoder {
	return &Decoder{DefaultLimits(), false}
}

// WithLimits returns a copy of this decoder using the given limits.
func (d *Decoder) WithLimits(limits Limits) *Decoder {
	if limits.MaxDepth == 0 || limits.MaxPackets == 0 {
		panic("decoder limits must be non-zero")
	}
	//
	return &Decoder{limits, d.strict}
}

// WithStrict returns a copy of this decoder which (when strict) requires all
// bits following the outermost packet of a transmission to be zero.
func (d *Decoder) WithStrict(strict bool) *Decoder {
	return &Decoder{d.limits, strict}
}

// Limits returns the limits enforced by this decoder.
func (d *Decoder) Limits() Limits {
	return d.limits
}

// Decode decodes a single packet (including all of its children) starting at
// the cursor's current position.  Exactly the bits belonging to the packet
// are consumed, leaving the cursor positioned immediately after it.
func Decode(cursor *bit.Cursor) (Packet, error) {
	return NewDecoder().Decode(cursor)
}

// DecodeTransmission decodes the outermost packet of a transmission.  Unlike
// Decode, this also accounts for the padding following that packet which, in
// strict mode, must consist entirely of zero bits.
func (d *Decoder) DecodeTransmission(cursor *bit.Cursor) (Packet, error) {
	packet, err := d.Decode(cursor)
	//
	if err != nil {
		return nil, err
	} else if d.strict {
		if err := checkPadding(cursor); err != nil {
			return nil, err
		}
	}
	//
	return packet, nil
}

// Decode decodes a single packet (including all of its children) starting at
// the cursor's current position.  Rather than recursing for each child, open
// operators are held on an explicit stack of frames, such that the amount of
// nesting is bounded by the decoder's limits rather than the native stack.
func (d *Decoder) Decode(cursor *bit.Cursor) (Packet, error) {
	var (
		frames   = stack.NewBoundedStack[*frame](d.limits.MaxDepth)
		npackets uint
	)
	//
	for {
		var (
			offset = cursor.Position()
			packet Packet
		)
		//
		if npackets++; npackets > d.limits.MaxPackets {
			return nil, NewError(PacketLimitExceeded, offset, uint64(d.limits.MaxPackets), uint64(npackets),
				"too many packets")
		}
		// Read packet header
		version, typeID, err := readHeader(cursor)
		if err != nil {
			return nil, err
		}
		//
		if typeID == LiteralTypeID {
			if packet, err = decodeLiteral(cursor, version, offset); err != nil {
				return nil, err
			}
		} else {
			f, err := decodeOperatorHeader(cursor, version, typeID, offset)
			if err != nil {
				return nil, err
			} else if done, err := f.complete(cursor.Position()); err != nil {
				return nil, err
			} else if done {
				// Operator without children
				packet = f.packet()
			} else if !frames.Push(f) {
				return nil, NewError(DepthExceeded, offset, uint64(d.limits.MaxDepth), uint64(frames.Len()+1),
					"operators nested too deeply")
			} else {
				// Continue with first child
				continue
			}
		}
		// Attach completed packet to its parent, closing off any frames which
		// are thereby completed.
		for {
			if frames.IsEmpty() {
				return packet, nil
			}
			//
			parent := frames.Peek(0)
			parent.children = append(parent.children, packet)
			//
			if done, err := parent.complete(cursor.Position()); err != nil {
				return nil, err
			} else if !done {
				break
			}
			//
			packet = frames.Pop().packet()
		}
	}
}

// frame represents an operator packet whose children are still being decoded.
type frame struct {
	version uint8
	opcode  OpCode
	offset  uint
	// Determines whether children are framed by total length, or by count.
	byLength bool
	// Bit offset at which the last child must end (when framed by length).
	target uint
	// Number of children expected (when framed by count).
	count    uint
	children []Packet
}

// complete determines whether all children of this frame have been decoded,
// given the current cursor position.  Overshooting the declared length is
// reported as an error, rather than silently accepted.
func (p *frame) complete(position uint) (bool, error) {
	if !p.byLength {
		return uint(len(p.children)) == p.count, nil
	} else if position > p.target {
		msg := fmt.Sprintf("children of %s operator overrun declared length", p.opcode)
		return false, NewError(FramingMismatch, p.offset, uint64(p.target), uint64(position), msg)
	}
	//
	return position == p.target, nil
}

func (p *frame) packet() *Operator {
	return &Operator{p.version, p.opcode, p.offset, p.children}
}

func readHeader(cursor *bit.Cursor) (uint8, uint64, error) {
	version, err := read(cursor, versionWidth, "packet version")
	if err != nil {
		return 0, 0, err
	}
	//
	typeID, err := read(cursor, typeIDWidth, "packet type")
	if err != nil {
		return 0, 0, err
	}
	//
	return uint8(version), typeID, nil
}

// Decode the groups of a literal packet, where the first group read provides
// the most significant nibble of the value.
func decodeLiteral(cursor *bit.Cursor, version uint8, offset uint) (*Literal, error) {
	var value uint64
	//
	for ngroups := uint64(1); ; ngroups++ {
		if ngroups > maxLiteralGroups {
			return nil, NewError(LiteralOverflow, offset, 64, ngroups*4, "literal value exceeds 64 bits")
		}
		//
		group, err := read(cursor, groupWidth, "literal group")
		if err != nil {
			return nil, err
		}
		//
		value = (value << 4) | (group & 0xf)
		// Check continuation bit
		if group>>4 == 0 {
			return &Literal{version, offset, value}, nil
		}
	}
}

// Decode the header of an operator packet, producing a frame ready to receive
// its children.
func decodeOperatorHeader(cursor *bit.Cursor, version uint8, typeID uint64, offset uint) (*frame, error) {
	opcode, ok := OpCodeOf(typeID)
	if !ok {
		return nil, NewError(InvalidOpcode, offset, 0, typeID, fmt.Sprintf("type %d is not an operator", typeID))
	}
	//
	lengthType, err := read(cursor, lengthTypeWidth, "length type")
	if err != nil {
		return nil, err
	}
	//
	switch lengthType {
	case lengthTypeBits:
		length, err := read(cursor, bitLengthWidth, "bit length")
		if err != nil {
			return nil, err
		}
		//
		target := cursor.Position() + uint(length)
		//
		return &frame{version: version, opcode: opcode, offset: offset, byLength: true, target: target}, nil
	case lengthTypePackets:
		count, err := read(cursor, packetCountWidth, "packet count")
		if err != nil {
			return nil, err
		}
		//
		return &frame{version: version, opcode: opcode, offset: offset, count: uint(count)}, nil
	}
	// unreachable for a 1-bit field
	panic(fmt.Sprintf("unknown length type %d", lengthType))
}

// Check that any bits remaining in a transmission are all zero.
func checkPadding(cursor *bit.Cursor) error {
	for cursor.Remaining() > 0 {
		var (
			offset = cursor.Position()
			n      = min(cursor.Remaining(), 64)
		)
		//
		bits, err := read(cursor, n, "padding")
		if err != nil {
			return err
		} else if bits != 0 {
			return NewError(TrailingData, offset, 0, bits, "non-zero bits follow outermost packet")
		}
	}
	//
	return nil
}

// Read a field of a given width, converting any failure into an OutOfBits
// error.
func read(cursor *bit.Cursor, n uint, field string) (uint64, error) {
	var oob *bit.OutOfBitsError
	//
	value, err := cursor.Read(n)
	//
	if errors.As(err, &oob) {
		return 0, NewError(OutOfBits, oob.Offset, uint64(oob.Requested), uint64(oob.Remaining),
			fmt.Sprintf("truncated %s", field))
	} else if err != nil {
		return 0, err
	}
	//
	return value, nil
}
