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

// Package swsb lowers register data hazards of a register-allocated shader
// program into software scoreboard annotations, for GPU generations that no
// longer track register dependencies in hardware.
package swsb

import (
	"context"

	"github.com/cloudwego/swsb/internal/opts"
	"github.com/cloudwego/swsb/internal/scoreboard"
	"github.com/cloudwego/swsb/ir"
	"tlog.app/go/errors"
)

// Lower annotates every instruction of cfg with the waits it needs, and
// inserts SYNC instructions for the waits that do not fit in an annotation.
// The CFG is modified in place and returned.
//
// Lower is a no-op for generations that still have a hardware scoreboard.
// The CFG must be valid, see Validate.
func Lower(ctx context.Context, cfg *ir.CFG, options ...Option) *ir.CFG {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	scoreboard.Lower(ctx, cfg, o)
	return cfg
}

// Validate checks whether cfg can be lowered.
func Validate(cfg *ir.CFG) error {
	if err := ir.Validate(cfg); err != nil {
		return errors.Wrap(err, "validate cfg")
	}
	return nil
}
