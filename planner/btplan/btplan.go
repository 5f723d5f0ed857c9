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

// Package btplan adapts a retraced planner.PlanStep sequence into an
// executable behavior tree, so a retraced plan can be driven by the same
// bt.Ticker/bt.Manager machinery the domain's source project uses to run
// plans against a live world, rather than by a bespoke interpreter loop.
package btplan

import (
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/joeycumines/go-blockplan/domain"
	"github.com/joeycumines/go-blockplan/planner"
)

// Executor replays a plan one action per tick, re-deriving applicability and
// invariants from domain.Apply/domain.CheckInvariants rather than trusting
// the plan blindly: a plan retraced against a stale registry, or replayed
// against a world that diverged since planning, must fail loudly instead of
// corrupting state.
type Executor struct {
	reg     *domain.Registry
	schemas map[string]*domain.Schema
	state   domain.State
}

// NewExecutor constructs an Executor seeded with init.
func NewExecutor(reg *domain.Registry, schemas map[string]*domain.Schema, init domain.State) *Executor {
	return &Executor{reg: reg, schemas: schemas, state: init}
}

// State returns the state as of the most recently completed tick.
func (e *Executor) State() domain.State { return e.state }

// Node builds a bt.Node that runs plan to completion as a bt.Sequence of
// per-step leaves: each leaf applies one action and advances e.state, only
// succeeding if the result honours every domain invariant.
func (e *Executor) Node(plan []planner.PlanStep) bt.Node {
	children := make([]bt.Node, len(plan))
	for i, step := range plan {
		children[i] = e.leaf(step)
	}
	return bt.New(bt.Sequence, children...)
}

func (e *Executor) leaf(step planner.PlanStep) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		schema, ok := e.schemas[step.Action]
		if !ok {
			return bt.Failure, fmt.Errorf(`btplan: unknown action %q`, step.Action)
		}
		params := make(map[string]string, len(schema.Params))
		for i, name := range schema.Params {
			if i < len(step.Params) {
				params[name] = step.Params[i]
			}
		}
		next, ok := domain.Apply(e.reg, schema, params, e.state)
		if !ok {
			return bt.Failure, fmt.Errorf(`btplan: %s%v not applicable in current state`, step.Action, step.Params)
		}
		if err := domain.CheckInvariants(e.reg, next); err != nil {
			return bt.Failure, err
		}
		e.state = next
		return bt.Success, nil
	})
}
