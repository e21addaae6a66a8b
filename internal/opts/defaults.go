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

import (
	"math"
	"os"
	"strconv"
)

const (
	_DefaultGeneration   = 12 // first generation without a hardware register scoreboard
	_DefaultMaxRegDist   = 10 // in-order dependencies further away than this are not encoded
	_DefaultRegDistLimit = 7  // largest encodable RegDist
	_DefaultTokenCount   = 16 // number of hardware SBID tokens
)

const (
	MaxRegDistLimit = 255 // RegDist is encoded in a byte
	MaxTokenCount   = 256 // SBID is encoded in a byte
)

var (
	MaxRegDist   = parseOrDefault("SWSB_MAX_REGDIST", _DefaultMaxRegDist, 1, math.MaxInt32)
	RegDistLimit = parseOrDefault("SWSB_REGDIST_LIMIT", _DefaultRegDistLimit, 1, MaxRegDistLimit)
	TokenCount   = parseTokenCountOrDefault("SWSB_TOKEN_COUNT", _DefaultTokenCount)
	TokenAlloc   = parseAllocOrDefault("SWSB_TOKEN_ALLOC", RoundRobin)
)

// IsValidTokenCount reports whether n tokens can be encoded, n must be a
// power of two.
func IsValidTokenCount(n int) bool {
	return n > 0 && n <= MaxTokenCount && n&(n-1) == 0
}

func parseOrDefault(key string, def int, min int, max int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 32); err != nil {
		panic("swsb: invalid value for " + key)
	} else if ret := int(val); ret < min {
		panic("swsb: value too small for " + key)
	} else if ret > max {
		panic("swsb: value too large for " + key)
	} else {
		return ret
	}
}

func parseTokenCountOrDefault(key string, def int) int {
	if ret := parseOrDefault(key, def, 1, MaxTokenCount); !IsValidTokenCount(ret) {
		panic("swsb: value is not a power of two for " + key)
	} else {
		return ret
	}
}

func parseAllocOrDefault(key string, def Allocator) Allocator {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, ok := ParseAllocator(env); !ok {
		panic("swsb: invalid value for " + key)
	} else {
		return val
	}
}
