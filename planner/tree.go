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

// Package planner implements the acyclic depth-first planner, spec.md §4.G:
// a linked search tree built one action at a time over a domain.Registry and
// dtg.Graph, with branch-and-bound pruning and cycle avoidance.
package planner

import (
	"fmt"

	"github.com/joeycumines/go-blockplan/domain"
	"github.com/joeycumines/go-blockplan/dtg"
)

// Type is the state-machine tag of a LinkedState, spec.md §3 "Linked state".
type Type int

const (
	// ALIVE is the state of every LinkedState at creation.
	ALIVE Type = iota
	// DEAD marks a node whose branches were exhausted without reaching the goal.
	DEAD
	// GOAL marks a node whose state satisfies the goal predicate.
	GOAL
)

func (t Type) String() string {
	switch t {
	case ALIVE:
		return `ALIVE`
	case DEAD:
		return `DEAD`
	case GOAL:
		return `GOAL`
	default:
		return fmt.Sprintf(`Type(%d)`, int(t))
	}
}

// Branch is a candidate (source, action, target) triple awaiting expansion,
// spec.md §3 "branches_to_explore".
type Branch struct {
	Source *dtg.Node
	Action string
	Target *dtg.Node
}

func (b Branch) String() string { return fmt.Sprintf(`%s --%s--> %s`, b.Source.Name, b.Action, b.Target.Name) }

// ParentEdge records how a LinkedState was reached from its parent, spec.md
// §3 "parent edge".
type ParentEdge struct {
	Action string
	Params map[string]string
	Node   *LinkedState
}

// ChildEdge records one outgoing transition actually taken from a
// LinkedState, spec.md §3 "edges".
type ChildEdge struct {
	Action string
	Params map[string]string
	Node   *LinkedState
}

// LinkedState is one node of the search tree, spec.md §3 "Linked state".
type LinkedState struct {
	ID                int
	State             domain.State
	Type              Type
	Parent            *ParentEdge
	BranchesToExplore []Branch
	Edges             []ChildEdge
}

func (n *LinkedState) String() string {
	return fmt.Sprintf(`#%d(%s)`, n.ID, n.Type)
}

// hasEdge reports whether n already recorded an outgoing (action, child)
// edge. The planner's duplicate-path cycle filter uses hasEdgeToState, not
// this method.
func (n *LinkedState) hasEdge(action string, child *LinkedState) bool {
	for _, e := range n.Edges {
		if e.Action == action && e.Node == child {
			return true
		}
	}
	return false
}

// hasEdgeToState reports whether n already has an outgoing edge leading to a
// child whose state equals state, regardless of which action produced it:
// re-deriving an already-explored state from n is a duplicate path, spec.md
// §4.G's cycle-avoidance rule.
func (n *LinkedState) hasEdgeToState(state domain.State) bool {
	for _, e := range n.Edges {
		if e.Node.State.Equal(state) {
			return true
		}
	}
	return false
}
