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

package domain

import "testing"

// newTestDomain builds a three-pose, one-robot, one-block domain matching
// spec.md §8 scenario S2: robot1 at p1, block1 at p2, p3 free and grounded.
func newTestDomain() (*Registry, State) {
	reg := NewRegistry()
	reg.Add(Entity{Name: `robot1`, Kind: KindRobot})
	reg.Add(Entity{Name: `p1`, Kind: KindPose})
	reg.Add(Entity{Name: `p2`, Kind: KindPose})
	reg.Add(Entity{Name: `p3`, Kind: KindPose})
	reg.Add(Entity{Name: `block1`, Kind: KindObject})

	state := State{
		Key(`robot1`, `at`):            `p1`,
		Key(`robot1`, `holding`):       None,
		Key(`robot1`, `gripper_empty`): true,

		Key(`p1`, `clear`):       true,
		Key(`p1`, `occupied_by`): None,
		Key(`p1`, `on`):          Ground,
		Key(`p1`, `below`):       None,
		Key(`p1`, `supported`):   true,

		Key(`p2`, `clear`):       false,
		Key(`p2`, `occupied_by`): `block1`,
		Key(`p2`, `on`):          Ground,
		Key(`p2`, `below`):       None,
		Key(`p2`, `supported`):   true,

		Key(`p3`, `clear`):       true,
		Key(`p3`, `occupied_by`): None,
		Key(`p3`, `on`):          Ground,
		Key(`p3`, `below`):       None,
		Key(`p3`, `supported`):   true,

		Key(`block1`, `at`):     `p2`,
		Key(`block1`, `at_top`): true,
		Key(`block1`, `on`):     Ground,
		Key(`block1`, `below`):  None,
	}
	return reg, state
}

func TestIsApplicable_move(t *testing.T) {
	_, state := newTestDomain()
	move := MoveSchema()
	params := map[string]string{`robot`: `robot1`, `start_pose`: `p1`, `target_pose`: `p2`}
	if !IsApplicable(move, params, state) {
		t.Fatal(`expected move to be applicable from robot1's current pose`)
	}
	params[`start_pose`] = `p3`
	if IsApplicable(move, params, state) {
		t.Fatal(`expected move to be inapplicable with a mismatched start_pose`)
	}
}

func TestApply_move(t *testing.T) {
	reg, state := newTestDomain()
	move := MoveSchema()
	params := map[string]string{`robot`: `robot1`, `start_pose`: `p1`, `target_pose`: `p3`}
	next, ok := Apply(reg, move, params, state)
	if !ok {
		t.Fatal(`expected move to apply`)
	}
	if next[Key(`robot1`, `at`)] != `p3` {
		t.Fatalf(`expected robot1 at p3, got %v`, next[Key(`robot1`, `at`)])
	}
	if len(next) != len(state) {
		t.Fatalf(`apply must preserve the key set: before=%d after=%d`, len(state), len(next))
	}
	if state[Key(`robot1`, `at`)] != `p1` {
		t.Fatal(`Apply must not mutate its input state`)
	}
}

func TestApply_pickAndPlace(t *testing.T) {
	reg, state := newTestDomain()

	move := MoveSchema()
	s1, ok := Apply(reg, move, map[string]string{`robot`: `robot1`, `start_pose`: `p1`, `target_pose`: `p2`}, state)
	if !ok {
		t.Fatal(`expected move to p2 to apply`)
	}

	pick := PickSchema()
	pickParams := map[string]string{`robot`: `robot1`, `object`: `block1`, `object_pose`: `p2`}
	if !IsApplicable(pick, pickParams, s1) {
		t.Fatal(`expected pick to be applicable once robot1 is at block1's pose`)
	}
	s2, ok := Apply(reg, pick, pickParams, s1)
	if !ok {
		t.Fatal(`expected pick to apply`)
	}
	if s2[Key(`robot1`, `holding`)] != `block1` {
		t.Fatal(`expected robot1 to be holding block1`)
	}
	if s2[Key(`robot1`, `gripper_empty`)] != false {
		t.Fatal(`expected gripper_empty to be false after pick`)
	}
	if s2[Key(`block1`, `at`)] != None {
		t.Fatal(`expected block1.at to be None while held`)
	}
	if s2[Key(`p2`, `clear`)] != true || s2[Key(`p2`, `occupied_by`)] != None {
		t.Fatal(`expected p2 to be cleared after pick`)
	}

	s3, ok := Apply(reg, move, map[string]string{`robot`: `robot1`, `start_pose`: `p2`, `target_pose`: `p3`}, s2)
	if !ok {
		t.Fatal(`expected move to p3 to apply`)
	}

	place := PlaceSchema()
	placeParams := map[string]string{`robot`: `robot1`, `object`: `block1`, `target_pose`: `p3`}
	if !IsApplicable(place, placeParams, s3) {
		t.Fatal(`expected place to be applicable at p3`)
	}
	s4, ok := Apply(reg, place, placeParams, s3)
	if !ok {
		t.Fatal(`expected place to apply`)
	}
	if s4[Key(`block1`, `at`)] != `p3` {
		t.Fatal(`expected block1 to be at p3 after place`)
	}
	if s4[Key(`p3`, `occupied_by`)] != `block1` || s4[Key(`p3`, `clear`)] != false {
		t.Fatal(`expected p3 to be occupied and no longer clear`)
	}
	if s4[Key(`robot1`, `holding`)] != None || s4[Key(`robot1`, `gripper_empty`)] != true {
		t.Fatal(`expected robot1's gripper to be empty after place`)
	}
	if err := CheckInvariants(reg, s4); err != nil {
		t.Fatalf(`expected resulting state to satisfy all invariants, got: %v`, err)
	}
}

func TestApply_conditionFailureReturnsEmptyState(t *testing.T) {
	reg, state := newTestDomain()
	pick := PickSchema()
	// robot1 is at p1, not at p2: pick should fail.
	got, ok := Apply(reg, pick, map[string]string{`robot`: `robot1`, `object`: `block1`, `object_pose`: `p2`}, state)
	if ok {
		t.Fatal(`expected pick to be inapplicable`)
	}
	if !got.Equal(EmptyState) {
		t.Fatalf(`expected EmptyState sentinel, got %v`, got)
	}
}

func TestPick_nestedEffectSkippedAtGround(t *testing.T) {
	// block1 sits directly on the ground (on=GND); the nested effects
	// "object.on.at_top" / "object.on.below" must no-op rather than writing
	// a bogus "GND_at_top" key.
	reg, state := newTestDomain()
	s1, _ := Apply(reg, MoveSchema(), map[string]string{`robot`: `robot1`, `start_pose`: `p1`, `target_pose`: `p2`}, state)
	s2, ok := Apply(reg, PickSchema(), map[string]string{`robot`: `robot1`, `object`: `block1`, `object_pose`: `p2`}, s1)
	if !ok {
		t.Fatal(`expected pick to apply`)
	}
	if _, present := s2[Key(Ground, `at_top`)]; present {
		t.Fatal(`effect chain must not write through the Ground sentinel`)
	}
}

func TestCheckInvariants_detectsViolation(t *testing.T) {
	reg, state := newTestDomain()
	broken := state.Clone()
	broken[Key(`p2`, `clear`)] = true // p2 is occupied_by block1 but now falsely marked clear
	err := CheckInvariants(reg, broken)
	if err == nil {
		t.Fatal(`expected an invariant violation to be reported`)
	}
}
