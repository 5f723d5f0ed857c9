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

// Package dtg builds and queries the Domain Transition Graph: a per-state-
// variable graph enumerating the values a variable can take and the actions
// that move between them, spec.md §4.D. It is the planner's lookahead
// oracle, built once from a domain.Registry and never mutated afterwards.
package dtg

import (
	"fmt"
	"sort"

	"github.com/joeycumines/go-blockplan/domain"
)

// Edge is one outgoing transition from a Node: executing Action moves the
// variable from the owning Node's value to Target's.
type Edge struct {
	Action string
	Target *Node
}

// Node represents an assignment of a single state variable, spec.md §3
// "DTG Node".
type Node struct {
	Name   string
	Values []string
	Edges  []Edge
}

func (n *Node) String() string { return fmt.Sprintf(`%s%v`, n.Name, n.Values) }

// Graph is the built, immutable Domain Transition Graph: name -> Node.
type Graph map[string]*Node

// Build constructs the DTG for reg, spec.md §4.D. The domain is assumed
// single-agent (spec.md §1 excludes concurrent agents as a Non-goal); Build
// returns an error if reg does not have exactly one robot.
func Build(reg *domain.Registry) (Graph, error) {
	if len(reg.Robots) != 1 {
		return nil, fmt.Errorf(`dtg: expected exactly one robot, got %d`, len(reg.Robots))
	}
	robot := reg.Robots[0].Name
	g := make(Graph)

	poseNames := entityNames(reg.Poses)
	objectNames := entityNames(reg.Objects)

	// Robot sub-graph: one node per pose, fully connected by reciprocal move edges.
	var robotNodes []*Node
	for _, pose := range poseNames {
		n := &Node{Name: domain.Key(robot, `at`) + `_` + pose, Values: []string{robot, pose}}
		g[n.Name] = n
		robotNodes = append(robotNodes, n)
	}
	for _, a := range robotNodes {
		for _, b := range robotNodes {
			if a == b {
				continue
			}
			a.Edges = append(a.Edges, Edge{Action: `move`, Target: b})
		}
	}

	// Block sub-graph: one node per (object, pose) pair, plus one absent
	// node per object, connected pick/place edges within the same object.
	for _, obj := range objectNames {
		absent := &Node{Name: domain.Key(obj, `at`) + `_` + domain.None, Values: []string{robot, obj, domain.None}}
		g[absent.Name] = absent

		var concrete []*Node
		for _, pose := range poseNames {
			n := &Node{Name: domain.Key(obj, `at`) + `_` + pose, Values: []string{robot, obj, pose}}
			g[n.Name] = n
			concrete = append(concrete, n)
		}
		for _, c := range concrete {
			absent.Edges = append(absent.Edges, Edge{Action: `place`, Target: c})
			c.Edges = append(c.Edges, Edge{Action: `pick`, Target: absent})
		}
	}

	return g, nil
}

func entityNames(entities []domain.Entity) []string {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}
