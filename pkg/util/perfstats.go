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
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats captures the time and memory used by some phase of execution (e.g.
// decoding a transmission).
type PerfStats struct {
	// Time when stats were captured
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
}

// NewPerfStats creates a new snapshot of the current amount of memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats

	startTime := time.Now()

	runtime.ReadMemStats(&m)

	return &PerfStats{startTime, m.TotalAlloc, m.NumGC}
}

// Fields returns the difference between the state now and as it was when the
// PerfStats object was created, as a set of structured log fields.
func (p *PerfStats) Fields() log.Fields {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	return log.Fields{
		"elapsed":  time.Since(p.startTime),
		"alloc_kb": (m.TotalAlloc - p.startMem) / 1024,
		"gcs":      m.NumGC - p.startGc,
	}
}

// Log logs the difference between the state now and as it was when the
// PerfStats object was created, along with any extra fields given.
func (p *PerfStats) Log(phase string, extra log.Fields) {
	log.WithFields(p.Fields()).WithFields(extra).Debugf("%s complete", phase)
}
