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

import (
	"fmt"
	"sort"
	"strings"
)

// State is a flat mapping from "{entityName}_{variable}" keys to values.
// Values are always a bool or a string (an entity name, None, or Ground),
// per the canonicalisation rule in spec.md §9 ("Representation of state
// values"). States are immutable values: every mutator in this package
// returns a new State rather than editing one in place.
type State map[string]any

// Key builds the "{entityName}_{variable}" state key used throughout this
// package and by the DTG.
func Key(entity, variable string) string { return entity + `_` + variable }

// Clone returns a shallow copy, safe to mutate independently of the
// receiver since all values are immutable primitives.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether two states have the same key set and values, per
// spec.md §3 ("States are compared by value equality").
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Satisfies reports whether s satisfies the partial goal mapping: every key
// present in goal must have an equal value in s. Keys absent from goal are
// unconstrained, per spec.md §3 ("Goal").
func (s State) Satisfies(goal State) bool {
	for k, v := range goal {
		if sv, ok := s[k]; !ok || sv != v {
			return false
		}
	}
	return true
}

// String renders the state deterministically (sorted keys), used by logging
// and tests.
func (s State) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(`, `)
		}
		fmt.Fprintf(&b, `%s: %v`, k, s[k])
	}
	b.WriteByte('}')
	return b.String()
}
