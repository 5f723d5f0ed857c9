// Copyright 2021 Joseph Cumines
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prune compiles user-supplied expr-lang expressions into a
// planner.BranchFilter, resolving spec.md §9's Open Question that the
// goal-directed frontier heuristics should be parameterisable: "the
// heuristic pruning ... drops branches that could in principle be necessary
// in obscure domains ... implementers may parameterise the prune predicate".
package prune

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/joeycumines/go-blockplan/planner"
)

// Env is the evaluation context a --prune expression sees for each
// candidate branch.
type Env struct {
	Action  string
	Source  string
	Target  string
	RobotAt string
}

// Compile compiles source, a boolean expr-lang expression over Env, into a
// planner.BranchFilter. A branch survives iff the expression evaluates true.
func Compile(source string) (planner.BranchFilter, error) {
	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf(`prune: compiling %q: %w`, source, err)
	}
	return filterFromProgram(program), nil
}

func filterFromProgram(program *vm.Program) planner.BranchFilter {
	return func(b planner.Branch, robotAt string) (bool, error) {
		env := Env{Action: b.Action, Source: b.Source.Name, Target: b.Target.Name, RobotAt: robotAt}
		out, err := expr.Run(program, env)
		if err != nil {
			return false, fmt.Errorf(`prune: evaluating branch %s: %w`, b, err)
		}
		keep, _ := out.(bool)
		return keep, nil
	}
}
