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

package btplan

import (
	"testing"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/joeycumines/go-blockplan/domain"
	"github.com/joeycumines/go-blockplan/planner"
)

func tickToCompletion(t *testing.T, node bt.Node, maxTicks int) (bt.Status, error) {
	t.Helper()
	var status bt.Status
	var err error
	for i := 0; i < maxTicks; i++ {
		status, err = node.Tick()
		if err != nil || status != bt.Running {
			return status, err
		}
	}
	t.Fatalf(`node did not complete within %d ticks`, maxTicks)
	return status, err
}

func TestExecutor_replaysPlan(t *testing.T) {
	reg := domain.NewRegistry()
	reg.Add(domain.Entity{Name: `robot1`, Kind: domain.KindRobot})
	reg.Add(domain.Entity{Name: `p1`, Kind: domain.KindPose})
	reg.Add(domain.Entity{Name: `p2`, Kind: domain.KindPose})

	init := domain.State{
		domain.Key(`robot1`, `at`):            `p1`,
		domain.Key(`robot1`, `holding`):       domain.None,
		domain.Key(`robot1`, `gripper_empty`): true,
		domain.Key(`p1`, `clear`):             true,
		domain.Key(`p1`, `occupied_by`):       domain.None,
		domain.Key(`p1`, `on`):                domain.Ground,
		domain.Key(`p1`, `below`):             domain.None,
		domain.Key(`p2`, `clear`):             true,
		domain.Key(`p2`, `occupied_by`):       domain.None,
		domain.Key(`p2`, `on`):                domain.Ground,
		domain.Key(`p2`, `below`):             domain.None,
	}
	schemas := domain.Schemas()
	exec := NewExecutor(reg, schemas, init)

	plan := []planner.PlanStep{{Action: `move`, Params: []string{`robot1`, `p1`, `p2`}}}
	status, err := tickToCompletion(t, exec.Node(plan), 4)
	if err != nil {
		t.Fatal(err)
	}
	if status != bt.Success {
		t.Fatalf(`want bt.Success, got %v`, status)
	}
	if got := exec.State()[domain.Key(`robot1`, `at`)]; got != `p2` {
		t.Fatalf(`robot1_at = %v, want p2`, got)
	}
}

func TestExecutor_failsOnInapplicableStep(t *testing.T) {
	reg := domain.NewRegistry()
	reg.Add(domain.Entity{Name: `robot1`, Kind: domain.KindRobot})
	reg.Add(domain.Entity{Name: `p1`, Kind: domain.KindPose})
	reg.Add(domain.Entity{Name: `p2`, Kind: domain.KindPose})

	init := domain.State{domain.Key(`robot1`, `at`): `p2`} // robot is NOT at p1
	exec := NewExecutor(reg, domain.Schemas(), init)

	plan := []planner.PlanStep{{Action: `move`, Params: []string{`robot1`, `p1`, `p2`}}}
	status, err := tickToCompletion(t, exec.Node(plan), 4)
	if err == nil {
		t.Fatal(`want a non-applicable-step error`)
	}
	if status != bt.Failure {
		t.Fatalf(`want bt.Failure, got %v`, status)
	}
}
