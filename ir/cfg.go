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

    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
)

type BasicBlock struct {
    Id    int
    Start int           // index of the first instruction in the program
    End   int           // index of the last instruction in the program
    Ins   []*Instr
    Pred  []*BasicBlock
    Succ  []*BasicBlock
}

func (self *BasicBlock) Last() *Instr {
    if n := len(self.Ins); n == 0 {
        return nil
    } else {
        return self.Ins[n - 1]
    }
}

// InsertBefore inserts the instructions in front of the i-th instruction of
// the block. Instruction indices are not updated until CFG.Renumber is called.
func (self *BasicBlock) InsertBefore(i int, ins ...*Instr) {
    if i < 0 || i > len(self.Ins) {
        panic(fmt.Sprintf("bb_%d: insert position %d out of range", self.Id, i))
    }

    /* the block may share its backing array with the caller */
    ret := make([]*Instr, 0, len(self.Ins) + len(ins))
    ret = append(ret, self.Ins[:i]...)
    ret = append(ret, ins...)
    self.Ins = append(ret, self.Ins[i:]...)
}

func (self *BasicBlock) String() string {
    var pred []string
    var succ []string

    /* block header */
    for _, p := range self.Pred { pred = append(pred, fmt.Sprintf("bb_%d", p.Id)) }
    for _, p := range self.Succ { succ = append(succ, fmt.Sprintf("bb_%d", p.Id)) }

    /* instruction listing */
    buf := []string {
        fmt.Sprintf("bb_%d: # pred = {%s}, succ = {%s}", self.Id, strings.Join(pred, ", "), strings.Join(succ, ", ")),
    }
    for i, v := range self.Ins {
        buf = append(buf, fmt.Sprintf("    %4d  %s", self.Start + i, v))
    }
    return strings.Join(buf, "\n")
}

// CFG is a program as a list of basic blocks in program order.
type CFG struct {
    Blocks []*BasicBlock
}

// AddBlock appends a new block to the end of the program.
func (self *CFG) AddBlock(ins ...*Instr) *BasicBlock {
    bb := &BasicBlock {
        Id  : len(self.Blocks),
        Ins : append([]*Instr(nil), ins...),
    }
    self.Blocks = append(self.Blocks, bb)
    self.Renumber()
    return bb
}

// Link adds a control flow edge from one block to another.
func (self *CFG) Link(from *BasicBlock, to *BasicBlock) {
    for _, p := range from.Succ {
        if p == to {
            return
        }
    }
    from.Succ = append(from.Succ, to)
    to.Pred = append(to.Pred, from)
}

// Renumber recalculates block ids and instruction indices. It must be called
// after inserting instructions into any block.
func (self *CFG) Renumber() {
    ip := 0
    for i, bb := range self.Blocks {
        bb.Id = i
        bb.Start = ip
        bb.End = ip + len(bb.Ins) - 1
        ip += len(bb.Ins)
    }
}

func (self *CFG) NumInstr() int {
    n := 0
    for _, bb := range self.Blocks { n += len(bb.Ins) }
    return n
}

// ForEachInstr calls fn on every instruction in program order.
func (self *CFG) ForEachInstr(fn func(bb *BasicBlock, ip int, ins *Instr)) {
    ip := 0
    for _, bb := range self.Blocks {
        for _, v := range bb.Ins {
            fn(bb, ip, v)
            ip++
        }
    }
}

// Graph returns the control flow graph as a directed graph, with each node id
// being the block id. Self loops are omitted.
func (self *CFG) Graph() graph.Directed {
    g := simple.NewDirectedGraph()

    /* add all the blocks */
    for _, bb := range self.Blocks {
        g.AddNode(simple.Node(bb.Id))
    }

    /* add all the edges */
    for _, bb := range self.Blocks {
        for _, p := range bb.Succ {
            if p != bb {
                g.SetEdge(g.NewEdge(simple.Node(bb.Id), simple.Node(p.Id)))
            }
        }
    }
    return g
}

func (self *CFG) String() string {
    buf := make([]string, 0, len(self.Blocks))
    for _, bb := range self.Blocks { buf = append(buf, bb.String()) }
    return strings.Join(buf, "\n")
}
