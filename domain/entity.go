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

// Package domain models the factored world state of the block-manipulation
// planning domain: typed entities (robots, blocks, poses, ground), the flat
// symbolic state they project, and the move/pick/place action schemas that
// transform one state into another.
package domain

import "fmt"

// Kind distinguishes the four entity categories that participate in the
// symbolic state.
type Kind int

const (
	// KindRobot identifies the single mobile agent.
	KindRobot Kind = iota
	// KindPose identifies a spatial location an object or the robot may occupy.
	KindPose
	// KindObject identifies a movable block.
	KindObject
	// KindGround identifies the GND sentinel, the base of every pose stack.
	KindGround
)

func (k Kind) String() string {
	switch k {
	case KindRobot:
		return `robot`
	case KindPose:
		return `pose`
	case KindObject:
		return `object`
	case KindGround:
		return `ground`
	default:
		return fmt.Sprintf(`Kind(%d)`, int(k))
	}
}

const (
	// None is the sentinel value standing in for "no entity" (e.g. an empty
	// gripper, a pose with nothing on it, the topmost block in a stack).
	None = `None`
	// Ground is the unique name of the KindGround sentinel entity, used as
	// the base pose.on value for the bottom of every stack.
	Ground = `GND`
)

// Entity is a uniquely-named participant in the symbolic state. Entities are
// immutable descriptors: they carry no mutable attributes of their own, the
// live values they participate in (spec.md Data Model) always live in a
// State map, never on the Entity itself, see Registry.InitialState.
type Entity struct {
	Name string
	Kind Kind
}

// Equal compares entities by name, per spec.md §4.A ("Equality of entities
// is by name").
func (e Entity) Equal(other Entity) bool { return e.Name == other.Name }

func (e Entity) String() string { return e.Name }

// GroundEntity is the singleton Ground sentinel.
var GroundEntity = Entity{Name: Ground, Kind: KindGround}

// Registry is the name -> Entity lookup table a Domain Loader populates
// once, and the DTG Builder and planner consult thereafter. It is built
// once and never mutated after loader.BuildDomain returns.
type Registry struct {
	Robots  []Entity
	Poses   []Entity
	Objects []Entity

	byName map[string]Entity
}

// NewRegistry constructs an empty Registry with the Ground sentinel
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Entity)}
	r.byName[Ground] = GroundEntity
	return r
}

// Add registers e under its name. Adding an entity whose name is already
// registered panics: the loader is the only caller, and a name collision
// there is a configuration bug, not a runtime condition to recover from.
func (r *Registry) Add(e Entity) {
	if _, ok := r.byName[e.Name]; ok {
		panic(fmt.Errorf(`domain: duplicate entity name %q`, e.Name))
	}
	r.byName[e.Name] = e
	switch e.Kind {
	case KindRobot:
		r.Robots = append(r.Robots, e)
	case KindPose:
		r.Poses = append(r.Poses, e)
	case KindObject:
		r.Objects = append(r.Objects, e)
	}
}

// Lookup resolves a name to its Entity. The Ground sentinel resolves to
// GroundEntity; None resolves to the zero Entity with ok == false, since
// "None" does not name a real participant.
func (r *Registry) Lookup(name string) (Entity, bool) {
	if name == None {
		return Entity{}, false
	}
	e, ok := r.byName[name]
	return e, ok
}

// MustLookup is Lookup but panics on a missing name; used internally once a
// Registry is known-complete (post-load).
func (r *Registry) MustLookup(name string) Entity {
	e, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Errorf(`domain: unknown entity %q`, name))
	}
	return e
}
