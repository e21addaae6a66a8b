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
)

// Equivalence is an equivalence relation over the integers [0, n), starting
// as the identity relation. Classes can only ever be joined, never split.
type Equivalence struct {
    is []int
}

func NewEquivalence(n int) *Equivalence {
    is := make([]int, n)
    for i := range is { is[i] = i }
    return &Equivalence { is }
}

// Lookup returns the representative of the class containing i. Elements out
// of range are their own class.
func (self *Equivalence) Lookup(i int) int {
    if i >= 0 && i < len(self.is) && self.is[i] != i {
        return self.Lookup(self.is[i])
    } else {
        return i
    }
}

// Link joins the classes of i and j, and returns the representative of the
// joined class, which is the former representative of i.
func (self *Equivalence) Link(i int, j int) int {
    k := self.Lookup(i)
    self.assign(i, k)
    self.assign(j, k)
    return k
}

// Flatten returns the representative of every element as an array.
func (self *Equivalence) Flatten() []int {
    ids := make([]int, len(self.is))
    for i := range ids { ids[i] = self.Lookup(i) }
    return ids
}

// assign makes the class of from part of the class represented by to,
// flattening the path from it to its old representative along the way.
func (self *Equivalence) assign(from int, to int) {
    if from == to {
        return
    }

    /* sanity check */
    if from < 0 || from >= len(self.is) {
        panic(fmt.Sprintf("swsb: token %d out of range [0, %d)", from, len(self.is)))
    }

    /* re-point the whole path */
    if self.is[from] != from {
        self.assign(self.is[from], to)
    }

    /* update the element itself */
    self.is[from] = to
}
