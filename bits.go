/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import "math/big"

// This file holds the binary primitive codecs: VarUInt/VarInt, UInt/Int, and
// the typedesc tag. Each "append" writer has a matching "len" precomputer so
// the encoder can size a container in one bottom-up pass, and a matching
// "read" function the decoder uses to walk an in-memory byte slice.

// uintLen pre-calculates the length, in bytes, of the given uint value.
func uintLen(v uint64) uint64 {
	length := uint64(1)
	v >>= 8
	for v > 0 {
		length++
		v >>= 8
	}
	return length
}

// appendUint appends a fixed-width big-endian uint value to b.
func appendUint(b []byte, v uint64) []byte {
	var buf [8]byte
	i := 7
	buf[i] = byte(v & 0xFF)
	v >>= 8
	for v > 0 {
		i--
		buf[i] = byte(v & 0xFF)
		v >>= 8
	}
	return append(b, buf[i:]...)
}

// readUint reads an n-byte big-endian UInt from b.
func readUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = (v << 8) | uint64(c)
	}
	return v
}

// intLen pre-calculates the length, in bytes, of the given signed int value.
func intLen(n int64) uint64 {
	if n == 0 {
		return 0
	}

	mag := uint64(n)
	if n < 0 {
		mag = uint64(-n)
	}

	length := uintLen(mag)
	hb := mag >> ((length - 1) * 8)
	if hb&0x80 != 0 {
		length++
	}
	return length
}

// appendInt appends a sign-magnitude Int to b. Ion's Int is not two's
// complement: the top octet's high bit is a dedicated sign flag over an
// otherwise unsigned magnitude.
func appendInt(b []byte, n int64) []byte {
	if n == 0 {
		return b
	}

	neg := n < 0
	mag := uint64(n)
	if neg {
		mag = uint64(-n)
	}

	var buf [8]byte
	bits := appendUint(buf[:0], mag)

	if bits[0]&0x80 == 0 {
		if neg {
			bits[0] ^= 0x80
		}
	} else {
		sign := byte(0)
		if neg {
			sign = 0x80
		}
		b = append(b, sign)
	}
	return append(b, bits...)
}

// readInt decodes a sign-magnitude Int from b.
func readInt(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}

	neg := b[0]&0x80 != 0
	mag := uint64(b[0] & 0x7F)
	for _, c := range b[1:] {
		mag = (mag << 8) | uint64(c)
	}

	if neg {
		return -int64(mag)
	}
	return int64(mag)
}

// bigIntLen pre-calculates the length, in bytes, of the given big.Int.
func bigIntLen(v *big.Int) uint64 {
	if v.Sign() == 0 {
		return 0
	}

	bitl := v.BitLen()
	bytel := bitl / 8
	return uint64(bytel) + 1
}

// appendBigInt appends a sign-magnitude arbitrary-precision Int to b.
func appendBigInt(b []byte, v *big.Int) []byte {
	sign := v.Sign()
	if sign == 0 {
		return b
	}

	bits := v.Bytes()
	if bits[0]&0x80 == 0 {
		if sign < 0 {
			bits[0] ^= 0x80
		}
	} else {
		lead := byte(0)
		if sign < 0 {
			lead = 0x80
		}
		b = append(b, lead)
	}
	return append(b, bits...)
}

// readBigInt decodes a sign-magnitude arbitrary-precision Int from b.
func readBigInt(b []byte) *big.Int {
	n := new(big.Int)
	if len(b) == 0 {
		return n
	}

	neg := b[0]&0x80 != 0
	buf := make([]byte, len(b))
	copy(buf, b)
	buf[0] &^= 0x80

	n.SetBytes(buf)
	if neg {
		n.Neg(n)
	}
	return n
}

// varUintLen pre-calculates the length, in bytes, of the given VarUInt value.
func varUintLen(v uint64) uint64 {
	length := uint64(1)
	v >>= 7
	for v > 0 {
		length++
		v >>= 7
	}
	return length
}

// appendVarUint appends v as a VarUInt: seven value bits per byte, high bit
// marks the terminating (last) byte.
func appendVarUint(b []byte, v uint64) []byte {
	var buf [10]byte
	i := 9
	buf[i] = 0x80 | byte(v&0x7F)
	v >>= 7
	for v > 0 {
		i--
		buf[i] = byte(v & 0x7F)
		v >>= 7
	}
	return append(b, buf[i:]...)
}

// readVarUint reads a VarUInt starting at b[0], returning the value and the
// number of bytes consumed, or ok=false if b ends before a terminating byte
// is found.
func readVarUint(b []byte) (v uint64, n int, ok bool) {
	for i, c := range b {
		v = (v << 7) | uint64(c&0x7F)
		if c&0x80 != 0 {
			return v, i + 1, true
		}
	}
	return 0, 0, false
}

// varIntLen pre-calculates the length, in bytes, of the given VarInt value.
func varIntLen(v int64) uint64 {
	mag := uint64(v)
	if v < 0 {
		mag = uint64(-v)
	}

	length := uint64(1)
	mag >>= 6
	for mag > 0 {
		length++
		mag >>= 7
	}
	return length
}

// appendVarInt appends v as a VarInt: like VarUInt, but the first byte's
// second-highest bit carries the sign.
func appendVarInt(b []byte, v int64) []byte {
	var buf [10]byte

	signbit := byte(0)
	mag := uint64(v)
	if v < 0 {
		signbit = 0x40
		mag = uint64(-v)
	}

	next := mag >> 6
	if next == 0 {
		return append(b, 0x80|signbit|byte(mag&0x3F))
	}

	i := 9
	buf[i] = 0x80 | byte(mag&0x7F)
	mag >>= 7
	next = mag >> 6

	for next > 0 {
		i--
		buf[i] = byte(mag & 0x7F)
		mag >>= 7
		next = mag >> 6
	}

	i--
	buf[i] = signbit | byte(mag&0x3F)

	return append(b, buf[i:]...)
}

// readVarInt reads a VarInt starting at b[0]. Per Ion, a zero magnitude with
// the sign bit set ("negative zero") is legal and semantically zero; callers
// that must distinguish it (timestamp offset, decimal coefficient) check
// negZero directly rather than relying on the returned value's sign.
func readVarInt(b []byte) (v int64, n int, negZero bool, ok bool) {
	if len(b) == 0 {
		return 0, 0, false, false
	}

	neg := b[0]&0x40 != 0
	mag := uint64(b[0] & 0x3F)

	if b[0]&0x80 != 0 {
		if mag == 0 && neg {
			return 0, 1, true, true
		}
		if neg {
			return -int64(mag), 1, false, true
		}
		return int64(mag), 1, false, true
	}

	for i, c := range b[1:] {
		mag = (mag << 7) | uint64(c&0x7F)
		if c&0x80 != 0 {
			if mag == 0 && neg {
				return 0, i + 2, true, true
			}
			if neg {
				return -int64(mag), i + 2, false, true
			}
			return int64(mag), i + 2, false, true
		}
	}

	return 0, 0, false, false
}

// readDecimalCoefficient decodes a decimal's coefficient subfield. Unlike a
// plain Int, the coefficient can be "negative zero": a single 0x80 byte,
// magnitude zero with the sign bit set. That form is distinct from an empty
// (positive-zero) coefficient and must round-trip as such, so it is reported
// separately rather than folded into the returned big.Int.
func readDecimalCoefficient(b []byte) (coefficient *big.Int, negZero bool) {
	if len(b) == 0 {
		return new(big.Int), false
	}

	neg := b[0]&0x80 != 0
	buf := make([]byte, len(b))
	copy(buf, b)
	buf[0] &^= 0x80

	n := new(big.Int).SetBytes(buf)
	if n.Sign() == 0 {
		return n, neg
	}
	if neg {
		n.Neg(n)
	}
	return n, false
}

// tagLen pre-calculates the length, in bytes, of a typedesc tag for the
// given payload length (1 byte for inline lengths under 14, plus a VarUInt
// for longer ones).
func tagLen(length uint64) uint64 {
	if length < 0x0E {
		return 1
	}
	return 1 + varUintLen(length)
}

// appendTag appends a (type nibble, length) typedesc tag to b.
func appendTag(b []byte, code byte, length uint64) []byte {
	if length < 0x0E {
		return append(b, code|byte(length))
	}
	b = append(b, code|0x0E)
	return appendVarUint(b, length)
}
