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

package scoreboard

import (
    `fmt`
    `strings`

    `github.com/cloudwego/swsb/ir`
)

// RegDistMode is the synchronization mode of an in-order dependency. The
// hardware has no control over it, it is only used here to drop redundant
// read dependencies.
type RegDistMode uint8

const (
    RD_null RegDistMode = 0
    RD_src  RegDistMode = 1 << 0
    RD_dst  RegDistMode = 1 << 1
)

func (self RegDistMode) String() string {
    switch self {
        case RD_null          : return "null"
        case RD_src           : return "src"
        case RD_dst           : return "dst"
        case RD_src | RD_dst  : return "src|dst"
        default               : panic(fmt.Sprintf("invalid RegDist mode: %d", uint8(self)))
    }
}

// Dependency is a pending data dependency on a single register location.
//
// The ordered part refers to the in-order instruction at ordered address Jp.
// For a dependency coming from another block, Jp is relative to the control
// flow path taken to reach the current block, rather than the local address
// of the producing instruction.
//
// The unordered part refers to the out-of-order instruction holding token Id.
type Dependency struct {
    Ordered   RegDistMode
    Jp        int
    Unordered ir.SBIDMode
    Id        int
    ExecAll   bool
}

func ordered(mode RegDistMode, jp int, execAll bool) Dependency {
    return Dependency {
        Ordered : mode,
        Jp      : jp,
        ExecAll : execAll,
    }
}

func unordered(mode ir.SBIDMode, id int, execAll bool) Dependency {
    return Dependency {
        Unordered : mode,
        Id        : id,
        ExecAll   : execAll,
    }
}

// IsValid reports whether the dependency carries any information.
func (self Dependency) IsValid() bool {
    return self.Ordered != RD_null || self.Unordered != ir.SBID_null
}

func (self Dependency) String() string {
    var buf []string
    if !self.IsValid() {
        return "none"
    }

    /* in-order part */
    if self.Ordered != RD_null {
        buf = append(buf, fmt.Sprintf("@%d.%s", self.Jp, self.Ordered))
    }

    /* out-of-order part */
    if self.Unordered != ir.SBID_null {
        buf = append(buf, fmt.Sprintf("$%d.%s", self.Id, self.Unordered))
    }

    /* execution mask */
    if self.ExecAll {
        buf = append(buf, "NoMask")
    }
    return strings.Join(buf, " ")
}

// merge combines two dependencies into one which is only satisfied when both
// of them are. Both out-of-order tokens are joined in the equivalence
// relation, since the consumer can only wait on a single token.
func merge(eq *Equivalence, d0 Dependency, d1 Dependency) (dep Dependency) {
    if d0.Ordered != RD_null || d1.Ordered != RD_null {
        dep.Ordered = d0.Ordered | d1.Ordered
        dep.Jp = maxjp(d0, d1)
    }

    /* unify the tokens */
    if d0.Unordered != ir.SBID_null || d1.Unordered != ir.SBID_null {
        i, j := d0.Id, d1.Id
        if d0.Unordered == ir.SBID_null { i = d1.Id }
        if d1.Unordered == ir.SBID_null { j = d0.Id }
        dep.Unordered = d0.Unordered | d1.Unordered
        dep.Id = eq.Link(i, j)
    }

    /* either one may have been executed with NoMask */
    dep.ExecAll = d0.ExecAll || d1.ExecAll
    return
}

func maxjp(d0 Dependency, d1 Dependency) int {
    switch {
        case d0.Ordered == RD_null : return d1.Jp
        case d1.Ordered == RD_null : return d0.Jp
        case d0.Jp > d1.Jp         : return d0.Jp
        default                    : return d1.Jp
    }
}

// shadow overrides d0 with d1, unless d1 carries no information.
func shadow(d0 Dependency, d1 Dependency) Dependency {
    if d1.IsValid() {
        return d1
    } else {
        return d0
    }
}

// transport translates the dependency into the ordered address space of a
// different block, delta being the shift along the CFG edge.
func transport(dep Dependency, delta int) Dependency {
    if dep.Ordered != RD_null {
        dep.Jp += delta
    }
    return dep
}

// forRead drops the synchronization modes that do not apply to an
// instruction reading the location.
func forRead(dep Dependency) Dependency {
    dep.Ordered &= RD_dst
    return dep
}

// forWrite drops the synchronization modes that do not apply to ins writing
// the location. In-order instructions read their sources in order, so only
// an out-of-order writer can overtake a pending in-order read.
func forWrite(ins *ir.Instr, dep Dependency) Dependency {
    if !ins.IsUnordered() {
        dep.Ordered &= RD_dst
    }
    return dep
}
