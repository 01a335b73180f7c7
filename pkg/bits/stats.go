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

// Stats summarises the shape of a packet tree.
type Stats struct {
	// Packets is the total number of packets in the tree.
	Packets uint `json:"packets" yaml:"packets"`
	// Literals is the number of literal packets.
	Literals uint `json:"literals" yaml:"literals"`
	// Operators is the number of operator packets.
	Operators uint `json:"operators" yaml:"operators"`
	// Depth is the number of levels in the tree, where a lone literal has depth
	// 1.
	Depth uint `json:"depth" yaml:"depth"`
}

// StatsOf computes summary statistics for a given packet tree.
func StatsOf(packet Packet) Stats {
	var stats Stats
	//
	collectStats(packet, 1, &stats)
	//
	return stats
}

func collectStats(packet Packet, depth uint, stats *Stats) {
	stats.Packets++
	stats.Depth = max(stats.Depth, depth)
	//
	if p, ok := packet.(*Operator); ok {
		stats.Operators++
		//
		for _, child := range p.children {
			collectStats(child, depth+1, stats)
		}
	} else {
		stats.Literals++
	}
}
