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
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-bits/pkg/bits"
	"github.com/consensys/go-bits/pkg/transmission"
	"github.com/consensys/go-bits/pkg/util/termio"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] [transmission_file]",
	Short: "Inspect the packet tree of a transmission.",
	Long: `Inspect the packet tree of a transmission, showing the bit offset, version
	and contents of every packet along with summary statistics.  When writing
	to a terminal, the tree is indented by depth.  Otherwise, each packet is
	written on one tab-separated line prefixed with its depth.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		tx := readTransmission(cmd, args)
		packet := decodeTransmission(cfg, tx)
		tty := term.IsTerminal(int(os.Stdout.Fd()))
		indent := tty && !getFlag(cmd, "flat")
		colour := tty && !getFlag(cmd, "no-colour")
		//
		writeTree(os.Stdout, packet, indent, colour)
		writeSummary(os.Stdout, tx, packet)
	},
}

// Styles used when writing a tree in colour.
var (
	literalStyle  = termio.NewStyle().Fg(termio.Green)
	operatorStyle = termio.NewStyle().Bold().Fg(termio.Cyan)
)

// Write out every packet in a tree, one per line, in the order they occur in
// the transmission.
func writeTree(w io.Writer, packet bits.Packet, indent bool, colour bool) {
	writePacket(w, packet, 0, indent, colour)
}

func writePacket(w io.Writer, packet bits.Packet, depth int, indent bool, colour bool) {
	var (
		kind     string
		contents string
		style    = termio.NewStyle()
	)
	//
	switch p := packet.(type) {
	case *bits.Literal:
		kind, contents = "literal", fmt.Sprintf("%d", p.Value())
		style = literalStyle
	case *bits.Operator:
		kind, contents = p.OpCode().String(), fmt.Sprintf("(%d children)", p.Arity())
		style = operatorStyle
	}
	//
	if colour {
		kind = style.Apply(kind)
	}
	//
	if indent {
		fmt.Fprintf(w, "%6d  %sv%d %s %s\n", packet.Offset(), strings.Repeat("  ", depth),
			packet.Version(), kind, contents)
	} else {
		fmt.Fprintf(w, "%d\t%d\tv%d\t%s\t%s\n", depth, packet.Offset(), packet.Version(), kind, contents)
	}
	//
	if p, ok := packet.(*bits.Operator); ok {
		for _, child := range p.Children() {
			writePacket(w, child, depth+1, indent, colour)
		}
	}
}

// Write out summary statistics for a transmission.
func writeSummary(w io.Writer, tx *transmission.Transmission, packet bits.Packet) {
	stats := bits.StatsOf(packet)
	//
	fmt.Fprintf(w, "packets: %d (%d literals, %d operators)\n", stats.Packets, stats.Literals, stats.Operators)
	fmt.Fprintf(w, "depth: %d\n", stats.Depth)
	fmt.Fprintf(w, "version sum: %d\n", bits.VersionSum(packet))
	fmt.Fprintf(w, "bits: %d\n", tx.Bits())
	fmt.Fprintf(w, "fingerprint: %s\n", tx.Fingerprint())
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("flat", false, "never indent the packet tree")
	inspectCmd.Flags().Bool("no-colour", false, "never use colour in the packet tree")
}
