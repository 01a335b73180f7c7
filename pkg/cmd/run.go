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

	"github.com/consensys/go-bits/pkg/bits"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] [transmission_file]",
	Short: "Decode a transmission, then report its version sum and value.",
	Long: `Decode a transmission, then report both the sum of all packet versions
	and the result of evaluating the outermost packet.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		tx := readTransmission(cmd, args)
		packet := decodeTransmission(cfg, tx)
		//
		fmt.Printf("Sum of versions: %d\n", bits.VersionSum(packet))
		fmt.Printf("Evaluated: %d\n", evaluate(tx, packet))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
