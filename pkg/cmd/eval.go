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

	"github.com/spf13/cobra"
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval [flags] [transmission_file]",
	Short: "Evaluate the expression encoded by a transmission.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		tx := readTransmission(cmd, args)
		packet := decodeTransmission(cfg, tx)
		//
		fmt.Println(evaluate(tx, packet))
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
