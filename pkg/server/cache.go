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
package server

import (
	"sync"

	"github.com/consensys/go-bits/pkg/transmission"
)

// cache retains the results for recently decoded transmissions, keyed by
// fingerprint.  Once full, the oldest entry is evicted first.  A cache with no
// capacity never retains anything.
type cache struct {
	mu       sync.Mutex
	capacity uint
	entries  map[transmission.Hash]Result
	// Insertion order, oldest first
	order []transmission.Hash
}

func newCache(capacity uint) *cache {
	return &cache{capacity: capacity, entries: make(map[transmission.Hash]Result)}
}

func (p *cache) get(key transmission.Hash) (Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	//
	result, ok := p.entries[key]
	//
	return result, ok
}

func (p *cache) put(key transmission.Hash, result Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	//
	if p.capacity == 0 {
		return
	} else if _, ok := p.entries[key]; ok {
		p.entries[key] = result
		return
	}
	//
	for uint(len(p.order)) >= p.capacity {
		delete(p.entries, p.order[0])
		p.order = p.order[1:]
	}
	//
	p.entries[key] = result
	p.order = append(p.order, key)
}

func (p *cache) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	//
	return len(p.entries)
}
