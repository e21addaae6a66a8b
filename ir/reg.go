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
)

const (
    RegSize = 32    // bytes per GRF word
    MaxGRF  = 128   // number of general registers
    MaxAcc  = 10    // number of accumulator registers
)

type RegFile uint8

const (
    F_bad  RegFile = iota   // no register
    F_grf                   // general register file
    F_addr                  // address registers a0.x
    F_acc                   // accumulators acc0 ~ acc9
    F_flag                  // flag registers, coherency is kept by the hardware
    F_arf                   // other architecture registers, not tracked
    F_imm                   // immediate values
    F_null                  // null register
)

// Architecture registers in F_arf. Accessing any of them requires the
// generator to set a RegDist of 1 by itself.
const (
    ARF_sp = iota
    ARF_sr0
    ARF_cr0
    ARF_ip
    ARF_tm0
    ARF_dbg0
)

var _ARFNames = [...]string {
    ARF_sp   : "sp",
    ARF_sr0  : "sr0",
    ARF_cr0  : "cr0",
    ARF_ip   : "ip",
    ARF_tm0  : "tm0",
    ARF_dbg0 : "dbg0",
}

// Reg is a region of a register file. Nr selects the register, Off is the
// byte offset from the start of that register, and Size is the number of
// bytes covered by the region.
type Reg struct {
    File RegFile
    Nr   int
    Off  int
    Size int
    Iv   int64
}

var Null = Reg{File: F_null}

func R(nr int) Reg {
    return Reg { File: F_grf, Nr: nr, Size: RegSize }
}

func RW(nr int, words int) Reg {
    return Reg { File: F_grf, Nr: nr, Size: RegSize * words }
}

func Acc(i int) Reg {
    return Reg { File: F_acc, Nr: i, Size: RegSize }
}

func Addr(i int) Reg {
    return Reg { File: F_addr, Off: i * 2, Size: 2 }
}

func Flag(i int) Reg {
    return Reg { File: F_flag, Nr: i, Size: 4 }
}

func Arf(i int) Reg {
    return Reg { File: F_arf, Nr: i, Size: 4 }
}

func Imm(v int64) Reg {
    return Reg { File: F_imm, Iv: v }
}

func (self Reg) IsNull() bool {
    return self.File == F_bad || self.File == F_null
}

// Words returns the number of register words touched by the region.
func (self Reg) Words() int {
    if self.Size <= 0 || self.IsNull() || self.File == F_imm {
        return 0
    } else {
        return (self.Off % RegSize + self.Size + RegSize - 1) / RegSize
    }
}

// Word returns the region shifted by j register words.
func (self Reg) Word(j int) Reg {
    self.Off += j * RegSize
    return self
}

// Index returns the absolute register number of the first word of the region.
func (self Reg) Index() int {
    return self.Nr + self.Off / RegSize
}

func (self Reg) String() string {
    switch self.File {
        case F_bad  : return "<bad>"
        case F_null : return "null"
        case F_imm  : return fmt.Sprintf("$%d", self.Iv)
        case F_grf  : return self.region("r", self.Index())
        case F_acc  : return self.region("acc", self.Index())
        case F_addr : return fmt.Sprintf("a0.%d", self.Off / 2)
        case F_flag : return fmt.Sprintf("f%d", self.Nr)
        case F_arf  : return self.arf()
        default     : panic(fmt.Sprintf("invalid register file: %d", self.File))
    }
}

func (self Reg) arf() string {
    if self.Nr >= 0 && self.Nr < len(_ARFNames) {
        return _ARFNames[self.Nr]
    } else {
        return fmt.Sprintf("arf%d", self.Nr)
    }
}

func (self Reg) region(pfx string, nr int) string {
    if n := self.Words(); n <= 1 {
        return fmt.Sprintf("%s%d", pfx, nr)
    } else {
        return fmt.Sprintf("%s%d:%d", pfx, nr, n)
    }
}
