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

// Command blockplan is the CLI wrapper around the planning engine, spec.md
// §6 "Exit codes (when wrapped as a CLI)".
package main

import (
	"errors"
	"os"
)

const (
	exitOK          = 0
	exitNoPlan      = 1
	exitConfigError = 2
)

var errNoPlan = errors.New(`blockplan: no plan found`)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return exitOK
}

// exitCodeFor maps a run error to an exit code, spec.md §6: 0 is handled by
// the caller on a nil error, 1 is SearchExhausted, everything else (including
// loader.ConfigurationError, domain.ParameterBindingError and
// domain.DomainInvariantError) is bucketed into 2.
func exitCodeFor(err error) int {
	if errors.Is(err, errNoPlan) {
		return exitNoPlan
	}
	return exitConfigError
}
