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

type Opcode uint8

const (
    OP_nop Opcode = iota    // no operation
    OP_mov                  // Src[0] -> Dst
    OP_sel                  // f ? Src[0] : Src[1] -> Dst
    OP_not                  // ~Src[0] -> Dst
    OP_and                  // Src[0] & Src[1] -> Dst
    OP_or                   // Src[0] | Src[1] -> Dst
    OP_xor                  // Src[0] ^ Src[1] -> Dst
    OP_shl                  // Src[0] << Src[1] -> Dst
    OP_shr                  // Src[0] >> Src[1] -> Dst
    OP_add                  // Src[0] + Src[1] -> Dst
    OP_mul                  // Src[0] * Src[1] -> Dst
    OP_mad                  // Src[0] * Src[1] + Src[2] -> Dst
    OP_cmp                  // Src[0] <=> Src[1] -> Dst, f
    OP_math                 // extended math, completes out of order
    OP_send                 // message to a shared function, completes out of order
    OP_if                   // structured control flow
    OP_else
    OP_endif
    OP_while
    OP_break
    OP_cont
    OP_jmpi                 // indirect jump
    OP_halt
    OP_sync                 // synchronization, no effect other than waiting
    OP_do                   // loop header marker, not emitted
    OP_undef                // register undefinition marker, not emitted
    OP_halt_target          // halt target marker, not emitted
    OP_fence                // scheduling fence, not emitted
)

const (
    _OF_unordered = 1 << iota   // completes out of order
    _OF_zero                    // not a hardware instruction, or does not advance the in-order pipeline
    _OF_branch                  // control flow
    _OF_math                    // extended math
    _OF_send                    // message
)

type _OpInfo struct {
    name  string
    flags uint8
}

var _OpTab = [...]_OpInfo {
    OP_nop         : { "nop"         , 0 },
    OP_mov         : { "mov"         , 0 },
    OP_sel         : { "sel"         , 0 },
    OP_not         : { "not"         , 0 },
    OP_and         : { "and"         , 0 },
    OP_or          : { "or"          , 0 },
    OP_xor         : { "xor"         , 0 },
    OP_shl         : { "shl"         , 0 },
    OP_shr         : { "shr"         , 0 },
    OP_add         : { "add"         , 0 },
    OP_mul         : { "mul"         , 0 },
    OP_mad         : { "mad"         , 0 },
    OP_cmp         : { "cmp"         , 0 },
    OP_math        : { "math"        , _OF_unordered | _OF_math },
    OP_send        : { "send"        , _OF_unordered | _OF_send },
    OP_if          : { "if"          , _OF_branch },
    OP_else        : { "else"        , _OF_branch },
    OP_endif       : { "endif"       , _OF_branch },
    OP_while       : { "while"       , _OF_branch },
    OP_break       : { "break"       , _OF_branch },
    OP_cont        : { "cont"        , _OF_branch },
    OP_jmpi        : { "jmpi"        , _OF_branch },
    OP_halt        : { "halt"        , _OF_branch },
    OP_sync        : { "sync"        , _OF_zero },
    OP_do          : { "do"          , _OF_zero },
    OP_undef       : { "undef"       , _OF_zero },
    OP_halt_target : { "halt_target" , _OF_zero },
    OP_fence       : { "fence"       , _OF_zero },
}

func (self Opcode) info() _OpInfo {
    if int(self) < len(_OpTab) {
        return _OpTab[self]
    } else {
        panic(fmt.Sprintf("invalid Opcode: 0x%02x", uint8(self)))
    }
}

func (self Opcode) String() string {
    return self.info().name
}

// IsZeroCost reports whether the opcode never occupies a slot in the in-order pipeline.
func (self Opcode) IsZeroCost() bool {
    return self.info().flags & _OF_zero != 0
}

func (self Opcode) IsBranch() bool {
    return self.info().flags & _OF_branch != 0
}

// Instr is a single instruction after register allocation.
type Instr struct {
    Op        Opcode
    Dst       Reg
    Src       []Reg
    ExecAll   bool      // executes with all channels enabled (NoMask)
    NoDDCheck bool      // destination dependency check disabled by the generator
    NoDDClear bool
    Sched     SWSB
}

func newInstr(op Opcode, dst Reg, src ...Reg) *Instr {
    return &Instr {
        Op  : op,
        Dst : dst,
        Src : src,
    }
}

func (self *Instr) NoMask() *Instr  { self.ExecAll = true; return self }
func (self *Instr) NoDDChk() *Instr { self.NoDDCheck = true; return self }
func (self *Instr) NoDDClr() *Instr { self.NoDDClear = true; return self }

// IsUnordered reports whether the instruction completes out of order
// relative to the in-order pipeline.
func (self *Instr) IsUnordered() bool {
    return self.Op.info().flags & _OF_unordered != 0
}

func (self *Instr) IsMath() bool {
    return self.Op.info().flags & _OF_math != 0
}

func (self *Instr) IsSend() bool {
    return self.Op.info().flags & _OF_send != 0
}

// IsPayload reports whether source i is fetched asynchronously, after the
// instruction has been issued.
func (self *Instr) IsPayload(i int) bool {
    return self.IsSend() && i < len(self.Src) && self.Src[i].Words() != 0
}

func (self *Instr) String() string {
    var buf []string
    var sb strings.Builder

    /* opcode and execution mask */
    sb.WriteString(self.Op.String())
    if self.ExecAll {
        sb.WriteString("(NoMask)")
    }

    /* destination and sources */
    if !self.Dst.IsNull() {
        buf = append(buf, self.Dst.String())
    }
    for _, r := range self.Src {
        buf = append(buf, r.String())
    }

    /* operand list */
    if len(buf) != 0 {
        sb.WriteString(strings.Repeat(" ", maxint(1, 8 - sb.Len())))
        sb.WriteString(strings.Join(buf, ", "))
    }

    /* scheduling annotation */
    if !self.Sched.IsZero() {
        sb.WriteString(" {")
        sb.WriteString(self.Sched.String())
        sb.WriteString("}")
    }
    return sb.String()
}

func maxint(a int, b int) int {
    if a > b {
        return a
    } else {
        return b
    }
}

func NOP() *Instr                     { return newInstr(OP_nop, Null) }
func MOV(dst Reg, src Reg) *Instr     { return newInstr(OP_mov, dst, src) }
func SEL(dst Reg, x Reg, y Reg) *Instr { return newInstr(OP_sel, dst, x, y) }
func NOT(dst Reg, src Reg) *Instr     { return newInstr(OP_not, dst, src) }
func AND(dst Reg, x Reg, y Reg) *Instr { return newInstr(OP_and, dst, x, y) }
func OR(dst Reg, x Reg, y Reg) *Instr  { return newInstr(OP_or, dst, x, y) }
func XOR(dst Reg, x Reg, y Reg) *Instr { return newInstr(OP_xor, dst, x, y) }
func SHL(dst Reg, x Reg, y Reg) *Instr { return newInstr(OP_shl, dst, x, y) }
func SHR(dst Reg, x Reg, y Reg) *Instr { return newInstr(OP_shr, dst, x, y) }
func ADD(dst Reg, x Reg, y Reg) *Instr { return newInstr(OP_add, dst, x, y) }
func MUL(dst Reg, x Reg, y Reg) *Instr { return newInstr(OP_mul, dst, x, y) }
func CMP(dst Reg, x Reg, y Reg) *Instr { return newInstr(OP_cmp, dst, x, y) }

func MAD(dst Reg, x Reg, y Reg, z Reg) *Instr {
    return newInstr(OP_mad, dst, x, y, z)
}

func MATH(dst Reg, src ...Reg) *Instr {
    return newInstr(OP_math, dst, src...)
}

func SEND(dst Reg, payload ...Reg) *Instr {
    return newInstr(OP_send, dst, payload...)
}

func IF() *Instr         { return newInstr(OP_if, Null) }
func ELSE() *Instr       { return newInstr(OP_else, Null) }
func ENDIF() *Instr      { return newInstr(OP_endif, Null) }
func WHILE() *Instr      { return newInstr(OP_while, Null) }
func BREAK() *Instr      { return newInstr(OP_break, Null) }
func CONT() *Instr       { return newInstr(OP_cont, Null) }
func HALT() *Instr       { return newInstr(OP_halt, Null) }
func DO() *Instr         { return newInstr(OP_do, Null) }
func HALT_TARGET() *Instr { return newInstr(OP_halt_target, Null) }
func FENCE() *Instr      { return newInstr(OP_fence, Null) }

func JMPI(src Reg) *Instr {
    return newInstr(OP_jmpi, Null, src)
}

func UNDEF(dst Reg) *Instr {
    return newInstr(OP_undef, dst)
}

// Sync creates a SYNC.NOP instruction, which has no effect other than
// waiting for the dependencies in its annotation.
func Sync() *Instr {
    return newInstr(OP_sync, Null, Imm(0)).NoMask()
}
