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

// Package config is the CLI's YAML parsing boundary, spec.md §6 "Problem
// configuration (input)": it turns "{configRoot}/{name}/init.yaml" and
// "goal.yaml" into loader.Config values, the one concern spec.md §1
// explicitly excludes from the loader package itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joeycumines/go-blockplan/loader"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Problem bundles the init/goal pair for one named problem directory.
type Problem struct {
	Init loader.Config
	Goal loader.Config
}

// Load reads and validates "{configRoot}/{name}/init.yaml" and
// "goal.yaml", returning a *loader.ConfigurationError wrapped in the
// returned error for any malformed document.
func Load(configRoot, name string) (*Problem, error) {
	dir := filepath.Join(configRoot, name)
	init, err := loadDocument(filepath.Join(dir, `init.yaml`))
	if err != nil {
		return nil, fmt.Errorf(`config: loading init document: %w`, err)
	}
	goal, err := loadDocument(filepath.Join(dir, `goal.yaml`))
	if err != nil {
		return nil, fmt.Errorf(`config: loading goal document: %w`, err)
	}
	return &Problem{Init: init, Goal: goal}, nil
}

func loadDocument(path string) (loader.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &loader.ConfigurationError{Reason: fmt.Sprintf(`reading %s: %s`, path, err)}
	}
	var cfg loader.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &loader.ConfigurationError{Reason: fmt.Sprintf(`parsing %s: %s`, path, err)}
	}
	if err := validate.Var(cfg, `required,min=1`); err != nil {
		return nil, &loader.ConfigurationError{Reason: fmt.Sprintf(`%s is empty or malformed: %s`, path, err)}
	}
	return cfg, nil
}
