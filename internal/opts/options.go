/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opts

// Allocator selects the SBID token allocation strategy.
type Allocator int

const (
	// RoundRobin hands out tokens sequentially, wrapping around at TokenCount.
	RoundRobin Allocator = iota

	// LinearScan reuses a token once the program-order interval of its
	// previous owner has ended.
	LinearScan
)

var _AllocatorNames = map[string]Allocator{
	"roundrobin": RoundRobin,
	"linearscan": LinearScan,
}

func ParseAllocator(name string) (Allocator, bool) {
	v, ok := _AllocatorNames[name]
	return v, ok
}

func (self Allocator) String() string {
	for k, v := range _AllocatorNames {
		if v == self {
			return k
		}
	}
	return "unknown"
}

type Options struct {
	Generation   int
	MaxRegDist   int
	RegDistLimit int
	TokenCount   int
	TokenAlloc   Allocator
}

// NeedsScoreboard reports whether the target lacks a hardware register
// scoreboard, in which case the lowering must run.
func (self *Options) NeedsScoreboard() bool {
	return self.Generation >= _DefaultGeneration
}

func GetDefaultOptions() Options {
	return Options{
		Generation:   _DefaultGeneration,
		MaxRegDist:   MaxRegDist,
		RegDistLimit: RegDistLimit,
		TokenCount:   TokenCount,
		TokenAlloc:   TokenAlloc,
	}
}
