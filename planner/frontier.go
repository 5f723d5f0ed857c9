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

package planner

import (
	"sort"
	"strings"

	"github.com/joeycumines/go-blockplan/domain"
	"github.com/joeycumines/go-blockplan/dtg"
)

// FrontierFunc computes the ordered branches_to_explore for state, spec.md
// §4.G "Frontier generation". Implementations must be deterministic: equal
// inputs must yield the same ordered output, per spec.md §5.
type FrontierFunc func(reg *domain.Registry, g dtg.Graph, goal domain.State, state domain.State) []Branch

// BranchFilter is an additional, caller-supplied predicate applied after the
// built-in goal-directed heuristics, spec.md §9 ("implementers may
// parameterise the prune predicate"). robotAt is the robot's current pose.
type BranchFilter func(b Branch, robotAt string) (keep bool, err error)

// DefaultFrontier implements spec.md §4.G steps 1-3: query_nodes,
// prune_unrelated_nodes, and unpack_actions_from_nodes.
func DefaultFrontier(reg *domain.Registry, g dtg.Graph, goal domain.State, state domain.State) []Branch {
	robot := reg.Robots[0].Name
	robotAt, _ := state[domain.Key(robot, `at`)].(string)

	goalBlocks, goalPoses := goalIndex(reg, goal)
	occupied := occupiedPoses(reg, state)

	raw := dtg.QueryNodes(g, state)

	pruned := raw[:0:0]
	for _, n := range raw {
		switch len(n.Values) {
		case 2: // robot node: always kept.
			pruned = append(pruned, n)
		case 3: // block node: kept only if colocated with the robot or absent, and mentioned in the goal.
			block, pose := n.Values[1], n.Values[2]
			if (pose == robotAt || pose == domain.None) && goalBlocks[block] {
				pruned = append(pruned, n)
			}
		}
	}

	var out []Branch
	for _, n := range pruned {
		for _, e := range n.Edges {
			switch e.Action {
			case `move`:
				targetPose := e.Target.Values[1]
				if occupied[targetPose] || goalPoses[targetPose] {
					out = append(out, Branch{Source: n, Action: e.Action, Target: e.Target})
				}
			case `pick`:
				sourcePose := n.Values[2]
				if sourcePose == robotAt {
					out = append(out, Branch{Source: n, Action: e.Action, Target: e.Target})
				}
			case `place`:
				targetPose := e.Target.Values[2]
				if goalPoses[targetPose] {
					out = append(out, Branch{Source: n, Action: e.Action, Target: e.Target})
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Source.Name != out[j].Source.Name {
			return out[i].Source.Name < out[j].Source.Name
		}
		if out[i].Action != out[j].Action {
			return out[i].Action < out[j].Action
		}
		return out[i].Target.Name < out[j].Target.Name
	})
	return out
}

// goalIndex extracts, from a goal mapping, the set of object names mentioned
// by an "{object}_at" key and the set of pose names those keys target. The
// robot's own "{robot}_at" key is excluded from blocks: it names the robot,
// never an object, and would otherwise be mistaken for one.
func goalIndex(reg *domain.Registry, goal domain.State) (blocks, poses map[string]bool) {
	blocks = make(map[string]bool)
	poses = make(map[string]bool)
	for key, val := range goal {
		const suffix = `_at`
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		name := strings.TrimSuffix(key, suffix)
		if e, ok := reg.Lookup(name); ok && e.Kind == domain.KindObject {
			blocks[name] = true
		}
		if s, ok := val.(string); ok {
			poses[s] = true
		}
	}
	return blocks, poses
}

func occupiedPoses(reg *domain.Registry, state domain.State) map[string]bool {
	occupied := make(map[string]bool, len(reg.Poses))
	for _, pose := range reg.Poses {
		occ, _ := state[domain.Key(pose.Name, `occupied_by`)].(string)
		if occ != `` && occ != domain.None {
			occupied[pose.Name] = true
		}
	}
	return occupied
}
