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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-bits/pkg/bits"
	"github.com/consensys/go-bits/pkg/config"
	"github.com/consensys/go-bits/pkg/transmission"
	"github.com/consensys/go-bits/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Number of hex digits shown either side of the location of an error.
const errorContext = 32

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected unsigned flag, or exit if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string flag, or exit if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Load the configuration file (if one was given), apply any overrides given on
// the command line and then set the logging level accordingly.
func loadConfig(cmd *cobra.Command) *config.Config {
	var (
		cfg  = config.Default()
		path = getString(cmd, "config")
		err  error
	)
	//
	if path != "" {
		if cfg, err = config.LoadFile(path); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	// Command-line overrides
	if cmd.Flags().Changed("max-depth") {
		cfg.Limits.MaxDepth = getUint(cmd, "max-depth")
	}
	//
	if cmd.Flags().Changed("max-packets") {
		cfg.Limits.MaxPackets = getUint(cmd, "max-packets")
	}
	//
	if cmd.Flags().Changed("strict") {
		cfg.Strict = getFlag(cmd, "strict")
	}
	//
	if err = cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.SetLevel(cfg.LogLevel())
	//
	if getFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	return cfg
}

// Read the transmission to process, which is either given directly via --hex
// or read from a file (where "-" denotes stdin).
func readTransmission(cmd *cobra.Command, args []string) *transmission.Transmission {
	var (
		tx  *transmission.Transmission
		err error
		hex = getString(cmd, "hex")
	)
	//
	switch {
	case hex != "" && len(args) == 0:
		tx, err = transmission.ParseHex(hex)
	case hex == "" && len(args) == 1:
		tx, err = transmission.Load(args[0])
	default:
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.WithFields(log.Fields{
		"bits":        tx.Bits(),
		"fingerprint": tx.Fingerprint().String(),
	}).Debug("read transmission")
	//
	return tx
}

// Decode the outermost packet of a transmission, or exit with a report of
// where decoding failed.
func decodeTransmission(cfg *config.Config, tx *transmission.Transmission) bits.Packet {
	stats := util.NewPerfStats()
	//
	packet, err := cfg.Decoder().DecodeTransmission(tx.Cursor())
	if err != nil {
		printError(os.Stdout, tx.Hex(), err)
		os.Exit(3)
	}
	//
	counts := bits.StatsOf(packet)
	stats.Log("decoding", log.Fields{"packets": counts.Packets, "depth": counts.Depth})
	//
	return packet
}

// Evaluate a decoded packet, or exit with a report of why evaluation failed.
func evaluate(tx *transmission.Transmission, packet bits.Packet) uint64 {
	stats := util.NewPerfStats()
	//
	value, err := bits.Evaluate(packet)
	if err != nil {
		printError(os.Stdout, tx.Hex(), err)
		os.Exit(3)
	}
	//
	stats.Log("evaluation", log.Fields{"value": value})
	//
	return value
}

// Print an error arising from a transmission.  Where the error identifies a
// bit offset, the enclosing hex digits are printed with the offending digit
// highlighted.
func printError(w io.Writer, hex string, err error) {
	var e *bits.Error
	//
	fmt.Fprintln(w, err)
	//
	if !errors.As(err, &e) {
		return
	}
	//
	line, col := enclosingWindow(hex, int(e.Offset()/4), errorContext)
	// Print window
	fmt.Fprintf(w, "\t%s\n", line)
	// Print highlight
	fmt.Fprintf(w, "\t%s^\n", strings.Repeat(" ", col))
}

// Determine the window of text enclosing a given index, extending at most n
// characters either side.  This returns the window along with the position of
// the index within it.  An index at (or beyond) the end of the text is placed
// immediately after the window.
func enclosingWindow(text string, index int, n int) (string, int) {
	index = min(index, len(text))
	//
	start := max(0, index-n)
	end := min(len(text), index+n+1)
	//
	return text[start:end], index - start
}
