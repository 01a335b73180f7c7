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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/consensys/go-bits/pkg/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Run an HTTP service which decodes transmissions.",
	Long: `Run an HTTP service which decodes transmissions.
	Transmissions are POSTed as hex text to /v1/decode.  Metrics are exposed on
	/metrics and liveness on /healthz.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		//
		if cmd.Flags().Changed("addr") {
			cfg.Server.Address = getString(cmd, "addr")
		}
		//
		if cmd.Flags().Changed("cache-entries") {
			cfg.Server.CacheEntries = getUint(cmd, "cache-entries")
		}
		//
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		//
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := server.New(cfg, registry).ListenAndServe(ctx)
		//
		stop()
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(5)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "specify address to listen on.")
	serveCmd.Flags().Uint("cache-entries", 0, "specify number of decode results to cache.")
}
