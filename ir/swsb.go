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

package ir

import (
    `fmt`
    `strings`
)

// SBIDMode selects how an instruction synchronizes with the out-of-order
// instruction owning a given SBID token.
type SBIDMode uint8

const (
    SBID_null SBIDMode = 0
    SBID_src  SBIDMode = 1 << 0     // wait until the sources have been read
    SBID_dst  SBIDMode = 1 << 1     // wait until the destination has been written
    SBID_set  SBIDMode = 1 << 2     // allocate the token for this instruction
)

func (self SBIDMode) String() string {
    var buf []string
    if self & SBID_set != 0 { buf = append(buf, "set") }
    if self & SBID_dst != 0 { buf = append(buf, "dst") }
    if self & SBID_src != 0 { buf = append(buf, "src") }
    return strings.Join(buf, "|")
}

// SWSB is the software scoreboard annotation of an instruction.
//
// RegDist makes the instruction wait for the in-order instruction that many
// in-order instructions before it. SBID and Mode make it wait for, or
// allocate, an out-of-order completion token.
type SWSB struct {
    RegDist uint8
    SBID    uint8
    Mode    SBIDMode
}

func (self SWSB) IsZero() bool {
    return self.RegDist == 0 && self.Mode == SBID_null
}

func (self SWSB) String() string {
    var buf []string
    if self.RegDist != 0 {
        buf = append(buf, fmt.Sprintf("@%d", self.RegDist))
    }
    if self.Mode == SBID_set {
        buf = append(buf, fmt.Sprintf("$%d", self.SBID))
    } else if self.Mode != SBID_null {
        buf = append(buf, fmt.Sprintf("$%d.%s", self.SBID, self.Mode))
    }
    return strings.Join(buf, " ")
}
