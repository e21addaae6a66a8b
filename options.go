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

package swsb

import (
	"fmt"

	"github.com/cloudwego/swsb/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithGeneration sets the hardware generation of the target.
//
// Generations before 12 keep track of register dependencies in hardware, and
// Lower does nothing for them.
//
// The default value of this option is "12".
func WithGeneration(gen int) Option {
	if gen <= 0 {
		panic(fmt.Sprintf("swsb: invalid generation: %d", gen))
	} else {
		return func(o *opts.Options) { o.Generation = gen }
	}
}

// WithMaxRegDist sets the largest distance, in in-order instructions, of an
// in-order dependency that gets encoded.
//
// Dependencies further away are assumed to have been completed by the time
// the instruction is issued.
//
// This value can also be configured with the `SWSB_MAX_REGDIST` environment
// variable.
//
// The default value of this option is "10".
func WithMaxRegDist(dist int) Option {
	if dist <= 0 {
		panic(fmt.Sprintf("swsb: invalid maximum RegDist: %d", dist))
	} else {
		return func(o *opts.Options) { o.MaxRegDist = dist }
	}
}

// WithRegDistLimit sets the largest RegDist value the annotation can encode.
// Larger distances are saturated to it.
//
// This value can also be configured with the `SWSB_REGDIST_LIMIT`
// environment variable.
//
// The default value of this option is "7".
func WithRegDistLimit(limit int) Option {
	if limit <= 0 || limit > opts.MaxRegDistLimit {
		panic(fmt.Sprintf("swsb: invalid RegDist limit: %d", limit))
	} else {
		return func(o *opts.Options) { o.RegDistLimit = limit }
	}
}

// WithTokenCount sets the number of hardware SBID tokens, which must be a
// power of two.
//
// This value can also be configured with the `SWSB_TOKEN_COUNT` environment
// variable.
//
// The default value of this option is "16".
func WithTokenCount(n int) Option {
	if !opts.IsValidTokenCount(n) {
		panic(fmt.Sprintf("swsb: invalid token count: %d", n))
	} else {
		return func(o *opts.Options) { o.TokenCount = n }
	}
}

// WithTokenAllocator selects how SBID tokens are assigned, either
// "roundrobin" or "linearscan".
//
// "roundrobin" hands out tokens in program order and wraps around, while
// "linearscan" reuses a token only after the last reference of its previous
// owner, which avoids false waits in programs with many messages.
//
// This value can also be configured with the `SWSB_TOKEN_ALLOC` environment
// variable.
//
// The default value of this option is "roundrobin".
func WithTokenAllocator(name string) Option {
	if v, ok := opts.ParseAllocator(name); !ok {
		panic(fmt.Sprintf("swsb: invalid token allocator: %q", name))
	} else {
		return func(o *opts.Options) { o.TokenAlloc = v }
	}
}
