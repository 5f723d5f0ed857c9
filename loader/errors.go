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

// Package loader builds a domain.Registry plus initial/goal domain.State
// values from an already-parsed problem configuration, spec.md §4.C. YAML
// parsing itself lives at the CLI boundary (internal/config), per spec.md
// §1's "YAML-like problem loading" Non-goal.
package loader

import "fmt"

// ConfigurationError reports a malformed problem configuration, spec.md §7.
// BuildDomain returns it for an empty entity name or an init entity using
// the reserved Ground name; internal/config returns it for a problem
// document that cannot be read, cannot be parsed, or is empty.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return fmt.Sprintf(`loader: %s`, e.Reason) }
