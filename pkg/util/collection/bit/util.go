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

// BytesRequiredFor returns the minimum number of bytes required to hold the
// given bitwidth.  For example, the number of bytes to hold a u16 is 2 bytes,
// whilst the minimum required to hold a u17 is 3 bytes.
func BytesRequiredFor(bitwidth uint) uint {
	var (
		nbytes = bitwidth / 8
	)
	// round up (if necessary)
	if bitwidth%8 != 0 {
		nbytes++
	}
	//
	return nbytes
}

// Mask returns a value whose n least significant bits are set.
func Mask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	//
	return (uint64(1) << n) - 1
}
