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

package dtg

import (
	"fmt"
	"sort"

	"github.com/joeycumines/go-blockplan/domain"
)

// QueryNodes returns every Graph node whose name matches a "{key}_{value}"
// pair present in s, spec.md §4.E (query_nodes). Most state keys (e.g.
// "robot1_gripper_empty") never match any node; only "*_at" variables do.
// The result is sorted by node name for determinism.
func QueryNodes(g Graph, s domain.State) []*Node {
	return matchNodes(g, s)
}

// GoalNodes is QueryNodes applied to a (partial) goal mapping rather than a
// full state, spec.md §4.D: it selects the DTG nodes the planner must drive
// the live state towards.
func GoalNodes(g Graph, goal domain.State) []*Node {
	return matchNodes(g, goal)
}

func matchNodes(g Graph, s domain.State) []*Node {
	var out []*Node
	for key, value := range s {
		name := fmt.Sprintf(`%s_%v`, key, value)
		if n, ok := g[name]; ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ParseActionParams derives the action parameter binding that would be used
// to traverse the edge from source to target via action, spec.md §4.E
// (parse_action_params). It validates every bound entity name against reg,
// returning a *domain.ParameterBindingError for any that is absent (and not
// the None sentinel).
func ParseActionParams(reg *domain.Registry, action string, source, target *Node) (map[string]string, error) {
	var params map[string]string
	switch action {
	case `move`:
		params = map[string]string{
			`robot`:       source.Values[0],
			`start_pose`:  source.Values[1],
			`target_pose`: target.Values[1],
		}
	case `pick`:
		params = map[string]string{
			`robot`:       source.Values[0],
			`object`:      source.Values[1],
			`object_pose`: source.Values[2],
		}
	case `place`:
		params = map[string]string{
			`robot`:       source.Values[0],
			`object`:      source.Values[1],
			`target_pose`: target.Values[len(target.Values)-1],
		}
	default:
		return nil, fmt.Errorf(`dtg: unknown action %q`, action)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entity := params[k]
		if entity == domain.None {
			continue
		}
		if _, ok := reg.Lookup(entity); !ok {
			return nil, &domain.ParameterBindingError{Action: action, Parameter: k, Entity: entity}
		}
	}
	return params, nil
}
