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
    `sort`

    `github.com/cloudwego/swsb/internal/opts`
)

const (
    _T_none = -1
)

func newTokenTable(n int) []int {
    ids := make([]int, n)
    for i := range ids { ids[i] = _T_none }
    return ids
}

// translate rewrites every dependency list with the token table.
func translate(ids []int, deps0 []DependencyList) []DependencyList {
    deps1 := make([]DependencyList, len(deps0))
    for ip, dl := range deps0 {
        for _, dep := range dl {
            deps1[ip].add(ids, dep)
        }
    }
    return deps1
}

// allocateRoundRobin assigns hardware tokens in the order the out-of-order
// instructions are first seen, wrapping around when all of them are used.
// Reusing a token is safe since the hardware stalls an instruction until the
// token it sets is released, but it may cause false waits.
func allocateRoundRobin(deps0 []DependencyList, ntok int) ([]int, int) {
    next := 0
    ids := newTokenTable(len(deps0))

    /* number the tokens in program order */
    for _, dl := range deps0 {
        for _, dep := range dl {
            if dep.Unordered != 0 && ids[dep.Id] == _T_none {
                ids[dep.Id] = next % ntok
                next++
            }
        }
    }
    return ids, next
}

type _TokenRange struct {
    id    int
    start int
    end   int
}

// tokenRanges returns the program-order interval between the first and last
// reference of every token, sorted by increasing starting point.
func tokenRanges(deps0 []DependencyList) []*_TokenRange {
    refs := make(map[int]*_TokenRange)
    ranges := make([]*_TokenRange, 0, 16)

    /* scan all the references */
    for ip, dl := range deps0 {
        for _, dep := range dl {
            if dep.Unordered == 0 {
                continue
            }

            /* extend the existing range */
            if tr, ok := refs[dep.Id]; ok {
                tr.end = ip
                continue
            }

            /* first reference of this token */
            tr := &_TokenRange { id: dep.Id, start: ip, end: ip }
            refs[dep.Id] = tr
            ranges = append(ranges, tr)
        }
    }
    return ranges
}

// allocateLinearScan assigns hardware tokens with a linear scan over the
// token ranges, so that tokens of overlapping ranges never alias. When more
// ranges are live than there are hardware tokens, the token of the range
// that ends first is shared.
func allocateLinearScan(deps0 []DependencyList, ntok int) ([]int, int) {
    ids := newTokenTable(len(deps0))
    free := make([]int, ntok)
    active := make([]*_TokenRange, 0, ntok)

    /* all tokens are available at the beginning */
    for i := range free {
        free[i] = i
    }

    /* keep the active set sorted by end point */
    addActive := func(tr *_TokenRange) {
        pos := sort.Search(len(active), func(i int) bool { return active[i].end > tr.end })
        active = append(active, nil)
        copy(active[pos + 1:], active[pos:])
        active[pos] = tr
    }

    /* expire the ranges that ended before this one starts */
    expireOldRanges := func(tr *_TokenRange) {
        for len(active) > 0 && active[0].end < tr.start {
            free = insertSortedInts(free, ids[active[0].id])
            active = active[1:]
        }
    }

    /* linear scan allocation */
    ranges := tokenRanges(deps0)
    for _, tr := range ranges {
        if expireOldRanges(tr); len(free) != 0 {
            ids[tr.id], free = free[0], free[1:]
            addActive(tr)
        } else if len(active) != 0 {
            ids[tr.id] = ids[active[0].id]
            active[0] = tr
            sort.SliceStable(active, func(i int, j int) bool { return active[i].end < active[j].end })
        } else {
            panic(fmt.Sprintf("swsb: no hardware token available for $%d", tr.id))
        }
    }
    return ids, len(ranges)
}

func insertSortedInts(v []int, x int) []int {
    pos := sort.SearchInts(v, x)
    v = append(v, 0)
    copy(v[pos + 1:], v[pos:])
    v[pos] = x
    return v
}

// allocateInstDependencies assigns a hardware token to every out-of-order
// dependency, and returns the rewritten dependency lists along with the
// number of distinct tokens before allocation.
func allocateInstDependencies(deps0 []DependencyList, o *opts.Options) ([]DependencyList, int) {
    var n int
    var ids []int

    /* select the allocator */
    switch o.TokenAlloc {
        case opts.RoundRobin : ids, n = allocateRoundRobin(deps0, o.TokenCount)
        case opts.LinearScan : ids, n = allocateLinearScan(deps0, o.TokenCount)
        default              : panic(fmt.Sprintf("swsb: invalid token allocator: %d", o.TokenAlloc))
    }

    /* rewrite all the dependencies */
    return translate(ids, deps0), n
}
