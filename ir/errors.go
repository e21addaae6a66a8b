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

// GraphError occurs when the CFG cannot be lowered, which is a bug of the
// pipeline that produced it.
type GraphError struct {
    Block  int
    Ip     int
    Reason string
}

func (self *GraphError) Error() string {
    if self.Ip < 0 {
        return fmt.Sprintf("GraphError(bb_%d): %s", self.Block, self.Reason)
    } else {
        return fmt.Sprintf("GraphError(bb_%d, ip %d): %s", self.Block, self.Ip, self.Reason)
    }
}

func eblock(bb *BasicBlock, reason string, args ...interface{}) *GraphError {
    return &GraphError {
        Ip     : -1,
        Block  : bb.Id,
        Reason : fmt.Sprintf(reason, args...),
    }
}

func einstr(bb *BasicBlock, ip int, reason string, args ...interface{}) *GraphError {
    return &GraphError {
        Ip     : ip,
        Block  : bb.Id,
        Reason : fmt.Sprintf(reason, args...),
    }
}
