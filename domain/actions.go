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

// Value resolves to the value a Condition expects, or a value an Effect
// assigns, given the current parameter binding and the state being read at
// the moment of resolution (spec.md §9, "Nested attribute effects": the
// parent path is "evaluated against the parameter binding plus the current
// entity graph at the moment of apply").
type Value func(params map[string]string, state State) (value any, ok bool)

// Lit returns a Value that always resolves to the given literal.
func Lit(v any) Value {
	return func(map[string]string, State) (any, bool) { return v, true }
}

// Param returns a Value that resolves to the entity bound to the named
// parameter (e.g. "target_pose" -> "p3").
func Param(name string) Value {
	return func(params map[string]string, _ State) (any, bool) {
		v, ok := params[name]
		return v, ok
	}
}

// StateRef returns a Value that reads "{boundEntity}_{variable}" from state,
// where boundEntity is the result of walking deref from the entity bound to
// param. Used for effects like "object.on := target_pose.occupied_by" where
// the assigned value is itself read off another part of the state graph.
func StateRef(param string, deref []string, variable string) Value {
	return func(params map[string]string, state State) (any, bool) {
		entity, ok := derefChain(params, state, param, deref)
		if !ok {
			return nil, false
		}
		v, ok := state[Key(entity, variable)]
		return v, ok
	}
}

// derefChain walks deref starting from the entity bound to param, following
// "{current}_{segment}" state lookups. It stops (ok=false) the moment an
// intermediate value is Ground or None, per spec.md §9 ("guard against
// Ground, and tolerate none by no-op").
func derefChain(params map[string]string, state State, param string, deref []string) (entity string, ok bool) {
	entity, ok = params[param]
	if !ok {
		return ``, false
	}
	for _, segment := range deref {
		if entity == Ground || entity == None {
			return ``, false
		}
		v, present := state[Key(entity, segment)]
		if !present {
			return ``, false
		}
		s, isString := v.(string)
		if !isString {
			return ``, false
		}
		entity = s
	}
	if entity == Ground || entity == None {
		return ``, false
	}
	return entity, true
}

// Condition is a tagged-tuple constraint on a single state variable,
// spec.md §4.B: "(entityParamName, variableName, value-or-paramName)".
type Condition struct {
	Entity   string // parameter name, resolved via the action's param binding
	Variable string
	Value    Value
}

// Effect assigns a value to a (possibly nested) state variable. Deref, when
// non-empty, names the attribute-by-attribute path walked from Entity before
// Variable is written, e.g. Entity:"object", Deref:["on"], Variable:"at_top"
// models the nested effect "object.on.at_top".
type Effect struct {
	Entity   string
	Deref    []string
	Variable string
	Value    Value
}

// Schema is a parameterised action: an ordered parameter list, 1-n
// Conditions that must all hold for the action to be applicable, and 1-n
// Effects applied in declaration order.
type Schema struct {
	Name       string
	Params     []string
	Conditions []Condition
	Effects    []Effect
}

// MoveSchema is move(robot, start_pose, target_pose), spec.md §4.B.
func MoveSchema() *Schema {
	return &Schema{
		Name:   `move`,
		Params: []string{`robot`, `start_pose`, `target_pose`},
		Conditions: []Condition{
			{Entity: `robot`, Variable: `at`, Value: Param(`start_pose`)},
		},
		Effects: []Effect{
			{Entity: `robot`, Variable: `at`, Value: Param(`target_pose`)},
		},
	}
}

// PickSchema is pick(robot, object, object_pose), spec.md §4.B.
func PickSchema() *Schema {
	return &Schema{
		Name:   `pick`,
		Params: []string{`robot`, `object`, `object_pose`},
		Conditions: []Condition{
			{Entity: `robot`, Variable: `at`, Value: Param(`object_pose`)},
			{Entity: `robot`, Variable: `gripper_empty`, Value: Lit(true)},
			{Entity: `object`, Variable: `at`, Value: Param(`object_pose`)},
			{Entity: `object`, Variable: `at_top`, Value: Lit(true)},
		},
		Effects: []Effect{
			{Entity: `robot`, Variable: `holding`, Value: Param(`object`)},
			{Entity: `robot`, Variable: `gripper_empty`, Value: Lit(false)},
			{Entity: `object`, Variable: `at`, Value: Lit(None)},
			{Entity: `object_pose`, Variable: `occupied_by`, Value: Lit(None)},
			{Entity: `object_pose`, Variable: `clear`, Value: Lit(true)},
			{Entity: `object`, Deref: []string{`on`}, Variable: `at_top`, Value: Lit(true)},
			{Entity: `object`, Deref: []string{`on`}, Variable: `below`, Value: Lit(None)},
			{Entity: `object`, Variable: `on`, Value: Lit(None)},
		},
	}
}

// PlaceSchema is place(robot, object, target_pose), spec.md §4.B.
func PlaceSchema() *Schema {
	return &Schema{
		Name:   `place`,
		Params: []string{`robot`, `object`, `target_pose`},
		Conditions: []Condition{
			{Entity: `robot`, Variable: `at`, Value: Param(`target_pose`)},
			{Entity: `robot`, Variable: `holding`, Value: Param(`object`)},
			{Entity: `target_pose`, Variable: `clear`, Value: Lit(true)},
			{Entity: `target_pose`, Variable: `supported`, Value: Lit(true)},
		},
		Effects: []Effect{
			{Entity: `robot`, Variable: `holding`, Value: Lit(None)},
			{Entity: `robot`, Variable: `gripper_empty`, Value: Lit(true)},
			{Entity: `object`, Variable: `at`, Value: Param(`target_pose`)},
			{Entity: `object`, Variable: `on`, Value: StateRef(`target_pose`, nil, `occupied_by`)},
			{Entity: `target_pose`, Variable: `occupied_by`, Value: Param(`object`)},
			{Entity: `target_pose`, Variable: `clear`, Value: Lit(false)},
			{Entity: `target_pose`, Deref: []string{`on`, `occupied_by`}, Variable: `at_top`, Value: Lit(false)},
			{Entity: `target_pose`, Deref: []string{`on`, `occupied_by`}, Variable: `below`, Value: Param(`object`)},
		},
	}
}

// Schemas returns the three hard-coded action schemas keyed by name.
func Schemas() map[string]*Schema {
	return map[string]*Schema{
		`move`:  MoveSchema(),
		`pick`:  PickSchema(),
		`place`: PlaceSchema(),
	}
}
