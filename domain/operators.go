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

import "fmt"

// EmptyState is the sentinel returned by Apply when its conditions do not
// hold. It is non-nil but empty, distinguishable from any real State short
// of a (disallowed) zero-variable domain, per spec.md §4.B.
var EmptyState = State{}

// IsApplicable resolves each of schema's Conditions against params and
// state, returning false on the first mismatch, spec.md §4.E.
func IsApplicable(schema *Schema, params map[string]string, state State) bool {
	for _, cond := range schema.Conditions {
		entity, ok := params[cond.Entity]
		if !ok {
			return false
		}
		current, ok := state[Key(entity, cond.Variable)]
		if !ok {
			return false
		}
		want, ok := cond.Value(params, state)
		if !ok || current != want {
			return false
		}
	}
	return true
}

// Apply returns a fresh state equal to state with each of schema's Effects
// applied in declaration order, or EmptyState and false if schema is not
// applicable in state under params, spec.md §4.B. reg supplies the full
// pose list needed to refresh the derived "supported" variable, which no
// effect ever assigns directly (spec.md §9: its setter is a no-op).
func Apply(reg *Registry, schema *Schema, params map[string]string, state State) (State, bool) {
	if !IsApplicable(schema, params, state) {
		return EmptyState, false
	}
	working := state.Clone()
	for _, eff := range schema.Effects {
		entity, ok := derefChain(params, working, eff.Entity, eff.Deref)
		if !ok {
			// parent resolved to Ground or None: silent no-op, spec.md §9.
			continue
		}
		value, ok := eff.Value(params, working)
		if !ok {
			continue
		}
		working[Key(entity, eff.Variable)] = value
	}
	refreshSupported(reg, working)
	return working, true
}

// RefreshDerived recomputes every derived state variable (currently just
// pose_supported) in place. The Domain Loader calls this once after
// building physical relations; Apply calls it after every action.
func RefreshDerived(reg *Registry, state State) { refreshSupported(reg, state) }

// refreshSupported recomputes the derived pose_supported variable for every
// registered pose: true iff the pose rests directly on the ground, or the
// pose beneath it is occupied.
func refreshSupported(reg *Registry, state State) {
	for _, pose := range reg.Poses {
		state[Key(pose.Name, `supported`)] = isSupported(state, pose.Name)
	}
}

func isSupported(state State, pose string) bool {
	on, ok := state[Key(pose, `on`)]
	if !ok {
		return false
	}
	onName, ok := on.(string)
	if !ok {
		return false
	}
	if onName == Ground {
		return true
	}
	occ, ok := state[Key(onName, `occupied_by`)]
	if !ok {
		return false
	}
	occName, ok := occ.(string)
	return ok && occName != None
}

// CheckInvariants verifies every state invariant from spec.md §3 and
// aggregates all violations found into a single DomainInvariantError, or
// returns nil if state is consistent.
func CheckInvariants(reg *Registry, state State) error {
	var violations []error

	// 1 & 2: each pose has at most one occupant, and occupied_by == None iff clear == true.
	occupants := make(map[string]string)
	for _, pose := range reg.Poses {
		occRaw, ok := state[Key(pose.Name, `occupied_by`)]
		if !ok {
			continue
		}
		occ, _ := occRaw.(string)
		clearRaw, _ := state[Key(pose.Name, `clear`)].(bool)
		if (occ == None || occ == "") != clearRaw {
			violations = append(violations, &InvariantError{
				Invariant: `pose-clear-consistency`,
				Detail:    fmt.Sprintf(`pose %s: occupied_by=%v clear=%v`, pose.Name, occRaw, clearRaw),
			})
		}
		if occ != None && occ != "" {
			if prior, ok := occupants[occ]; ok {
				violations = append(violations, &InvariantError{
					Invariant: `pose-single-occupant`,
					Detail:    fmt.Sprintf(`object %s occupies both %s and %s`, occ, prior, pose.Name),
				})
			}
			occupants[occ] = pose.Name
		}
	}

	// 3: at most one held object per robot, and holding<=>gripper_empty==false<=>object.at==None.
	held := make(map[string]bool)
	for _, robot := range reg.Robots {
		holding, _ := state[Key(robot.Name, `holding`)].(string)
		empty, _ := state[Key(robot.Name, `gripper_empty`)].(bool)
		if (holding != None && holding != "") == empty {
			violations = append(violations, &InvariantError{
				Invariant: `gripper-consistency`,
				Detail:    fmt.Sprintf(`robot %s: holding=%v gripper_empty=%v`, robot.Name, holding, empty),
			})
		}
		if holding != None && holding != "" {
			held[holding] = true
		}
	}
	for _, obj := range reg.Objects {
		at, _ := state[Key(obj.Name, `at`)].(string)
		if (at == None || at == "") != held[obj.Name] {
			violations = append(violations, &InvariantError{
				Invariant: `held-object-consistency`,
				Detail:    fmt.Sprintf(`object %s: at=%v held=%v`, obj.Name, at, held[obj.Name]),
			})
		}
	}

	// 4: pose.on == Ground OR pose.on is a pose whose occupied_by is non-None.
	for _, pose := range reg.Poses {
		on, _ := state[Key(pose.Name, `on`)].(string)
		if on == Ground {
			continue
		}
		if on == "" {
			violations = append(violations, &InvariantError{Invariant: `pose-on-grounded`, Detail: fmt.Sprintf(`pose %s has no on value`, pose.Name)})
			continue
		}
		occ, ok := state[Key(on, `occupied_by`)].(string)
		if !ok || occ == None || occ == "" {
			violations = append(violations, &InvariantError{
				Invariant: `pose-on-grounded`,
				Detail:    fmt.Sprintf(`pose %s rests on unoccupied pose %s`, pose.Name, on),
			})
		}
	}

	// 5: a.on == b <=> b.below == a, and b.at_top == false whenever b.below is set.
	for _, obj := range reg.Objects {
		on, _ := state[Key(obj.Name, `on`)].(string)
		if on == Ground || on == None || on == "" {
			continue
		}
		below, _ := state[Key(on, `below`)].(string)
		if below != obj.Name {
			violations = append(violations, &InvariantError{
				Invariant: `on-below-symmetry`,
				Detail:    fmt.Sprintf(`%s.on=%s but %s.below=%v`, obj.Name, on, on, below),
			})
		}
		atTop, _ := state[Key(on, `at_top`)].(bool)
		if atTop {
			violations = append(violations, &InvariantError{
				Invariant: `at-top-consistency`,
				Detail:    fmt.Sprintf(`%s.below=%s but %s.at_top=true`, on, obj.Name, on),
			})
		}
	}

	// 6: robot.at names a real pose.
	for _, robot := range reg.Robots {
		at, _ := state[Key(robot.Name, `at`)].(string)
		if e, ok := reg.Lookup(at); !ok || e.Kind != KindPose {
			violations = append(violations, &InvariantError{
				Invariant: `robot-at-valid-pose`,
				Detail:    fmt.Sprintf(`robot %s at invalid pose %q`, robot.Name, at),
			})
		}
	}

	return newDomainInvariantError(violations)
}
