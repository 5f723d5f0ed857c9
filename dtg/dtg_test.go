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
	"testing"

	"github.com/joeycumines/go-blockplan/domain"
)

func newTestRegistry() *domain.Registry {
	reg := domain.NewRegistry()
	reg.Add(domain.Entity{Name: `robot1`, Kind: domain.KindRobot})
	reg.Add(domain.Entity{Name: `p1`, Kind: domain.KindPose})
	reg.Add(domain.Entity{Name: `p2`, Kind: domain.KindPose})
	reg.Add(domain.Entity{Name: `p3`, Kind: domain.KindPose})
	reg.Add(domain.Entity{Name: `block1`, Kind: domain.KindObject})
	return reg
}

func TestBuild_robotSubGraph(t *testing.T) {
	reg := newTestRegistry()
	g, err := Build(reg)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := g[`robot1_at_p1`]
	if !ok {
		t.Fatal(`missing robot1_at_p1`)
	}
	if len(n.Edges) != 2 {
		t.Fatalf(`want 2 move edges from p1 (to p2 and p3), got %d`, len(n.Edges))
	}
	for _, e := range n.Edges {
		if e.Action != `move` {
			t.Fatalf(`want move edge, got %q`, e.Action)
		}
	}
}

func TestBuild_blockSubGraph(t *testing.T) {
	reg := newTestRegistry()
	g, err := Build(reg)
	if err != nil {
		t.Fatal(err)
	}
	absent, ok := g[`block1_at_None`]
	if !ok {
		t.Fatal(`missing block1_at_None`)
	}
	if len(absent.Edges) != 3 {
		t.Fatalf(`want 3 place edges (one per pose), got %d`, len(absent.Edges))
	}
	for _, e := range absent.Edges {
		if e.Action != `place` {
			t.Fatalf(`want place edge, got %q`, e.Action)
		}
	}
	concrete, ok := g[`block1_at_p2`]
	if !ok {
		t.Fatal(`missing block1_at_p2`)
	}
	if len(concrete.Edges) != 1 || concrete.Edges[0].Action != `pick` || concrete.Edges[0].Target != absent {
		t.Fatalf(`want single pick edge back to absent node, got %+v`, concrete.Edges)
	}
}

func TestBuild_rejectsMultiRobot(t *testing.T) {
	reg := newTestRegistry()
	reg.Add(domain.Entity{Name: `robot2`, Kind: domain.KindRobot})
	if _, err := Build(reg); err == nil {
		t.Fatal(`want error for multi-robot registry`)
	}
}

func TestQueryNodes(t *testing.T) {
	reg := newTestRegistry()
	g, err := Build(reg)
	if err != nil {
		t.Fatal(err)
	}
	state := domain.State{
		domain.Key(`robot1`, `at`):            `p1`,
		domain.Key(`block1`, `at`):            `p2`,
		domain.Key(`robot1`, `gripper_empty`): true, // never matches any node
	}
	nodes := QueryNodes(g, state)
	if len(nodes) != 2 {
		t.Fatalf(`want 2 matched nodes, got %d: %v`, len(nodes), nodes)
	}
	if nodes[0].Name != `block1_at_p2` || nodes[1].Name != `robot1_at_p1` {
		t.Fatalf(`unexpected nodes: %v`, nodes)
	}
}

func TestGoalNodes(t *testing.T) {
	reg := newTestRegistry()
	g, err := Build(reg)
	if err != nil {
		t.Fatal(err)
	}
	goal := domain.State{domain.Key(`block1`, `at`): `p3`}
	nodes := GoalNodes(g, goal)
	if len(nodes) != 1 || nodes[0].Name != `block1_at_p3` {
		t.Fatalf(`want [block1_at_p3], got %v`, nodes)
	}
}

func TestParseActionParams_move(t *testing.T) {
	reg := newTestRegistry()
	g, err := Build(reg)
	if err != nil {
		t.Fatal(err)
	}
	source := g[`robot1_at_p1`]
	target := g[`robot1_at_p2`]
	params, err := ParseActionParams(reg, `move`, source, target)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{`robot`: `robot1`, `start_pose`: `p1`, `target_pose`: `p2`}
	for k, v := range want {
		if params[k] != v {
			t.Fatalf(`param %q: want %q got %q`, k, v, params[k])
		}
	}
}

func TestParseActionParams_pickAndPlace(t *testing.T) {
	reg := newTestRegistry()
	g, err := Build(reg)
	if err != nil {
		t.Fatal(err)
	}

	concrete := g[`block1_at_p2`]
	absent := g[`block1_at_None`]

	pickParams, err := ParseActionParams(reg, `pick`, concrete, absent)
	if err != nil {
		t.Fatal(err)
	}
	if pickParams[`object`] != `block1` || pickParams[`object_pose`] != `p2` {
		t.Fatalf(`unexpected pick params: %v`, pickParams)
	}

	placeParams, err := ParseActionParams(reg, `place`, absent, concrete)
	if err != nil {
		t.Fatal(err)
	}
	if placeParams[`object`] != `block1` || placeParams[`target_pose`] != `p2` {
		t.Fatalf(`unexpected place params: %v`, placeParams)
	}
}

func TestParseActionParams_unknownEntity(t *testing.T) {
	reg := newTestRegistry()
	g, err := Build(reg)
	if err != nil {
		t.Fatal(err)
	}
	source := &Node{Name: `ghost_at_p1`, Values: []string{`ghost`, `p1`}}
	target := g[`robot1_at_p2`]
	_, err = ParseActionParams(reg, `move`, source, target)
	if err == nil {
		t.Fatal(`want ParameterBindingError for unknown robot entity`)
	}
	var pbErr *domain.ParameterBindingError
	if !asParameterBindingError(err, &pbErr) {
		t.Fatalf(`want *domain.ParameterBindingError, got %T: %v`, err, err)
	}
}

func asParameterBindingError(err error, target **domain.ParameterBindingError) bool {
	e, ok := err.(*domain.ParameterBindingError)
	if !ok {
		return false
	}
	*target = e
	return true
}
