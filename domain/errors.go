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

	"github.com/hashicorp/go-multierror"
)

// InvariantError reports one violated state invariant, spec.md §3.
type InvariantError struct {
	Invariant string // short name, e.g. "pose-single-occupant"
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf(`domain: invariant %s violated: %s`, e.Invariant, e.Detail)
}

// DomainInvariantError wraps 1-n InvariantError values discovered by a
// single CheckInvariants call, spec.md §7. It is fatal: it indicates a
// buggy action schema, not a condition the planner should try to route
// around.
type DomainInvariantError struct {
	Violations *multierror.Error
}

func (e *DomainInvariantError) Error() string { return e.Violations.Error() }

func newDomainInvariantError(violations []error) error {
	if len(violations) == 0 {
		return nil
	}
	return &DomainInvariantError{Violations: &multierror.Error{Errors: violations}}
}

// ParameterBindingError reports that a grounded action parameterisation
// (spec.md §4.E, parse_action_params) referenced an entity absent from the
// current Registry. Fatal, per spec.md §7.
type ParameterBindingError struct {
	Action    string
	Parameter string
	Entity    string
}

func (e *ParameterBindingError) Error() string {
	return fmt.Sprintf(`domain: action %q parameter %q references unknown entity %q`, e.Action, e.Parameter, e.Entity)
}
