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
	"os"
	"strings"

	"github.com/consensys/go-bits/pkg/export"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [flags] [transmission_file]",
	Short: "Decode a transmission and write out its packet tree.",
	Long: `Decode a transmission and write out its packet tree in a chosen format.
	Supported formats are: ` + strings.Join(export.Formats(), ", ") + `.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		//
		format, err := export.ParseFormat(getString(cmd, "format"))
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		packet := decodeTransmission(cfg, readTransmission(cmd, args))
		//
		bytes, err := export.Marshal(packet, format, getFlag(cmd, "pretty"))
		if err != nil {
			fmt.Println(err)
			os.Exit(4)
		}
		//
		writeOutput(getString(cmd, "output"), bytes, format.IsBinary())
	},
}

// Write the decoded tree either to a file or to stdout.  Text formats written
// to stdout are terminated with a newline.
func writeOutput(filename string, bytes []byte, binary bool) {
	var err error
	//
	if filename == "" {
		if !binary && (len(bytes) == 0 || bytes[len(bytes)-1] != '\n') {
			bytes = append(bytes, '\n')
		}
		//
		_, err = os.Stdout.Write(bytes)
	} else {
		log.Debugf("writing %d bytes to %s", len(bytes), filename)
		err = os.WriteFile(filename, bytes, 0644)
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringP("format", "f", "sexp", "specify output format.")
	decodeCmd.Flags().StringP("output", "o", "", "specify output file.")
	decodeCmd.Flags().Bool("pretty", false, "use multi-line layout where the format allows.")
}
