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

// Package store records the outcome of each planning run (inputs, plan,
// search statistics) as one JSON document per run, under a directory the
// caller controls. It deliberately does not reach for a database driver: a
// plan run is a small, append-only, single-writer artefact, the kind of
// thing a flat file serves as well as a table ever would, see DESIGN.md.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joeycumines/go-blockplan/planner"
)

// Run is the persisted record of one planning invocation.
type Run struct {
	ID         string            `json:"id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	ConfigRoot string            `json:"config_root"`
	Problem    string            `json:"problem"`
	NodesBuilt int                `json:"nodes_built"`
	GoalsFound int                `json:"goals_found"`
	Plan       []planner.PlanStep `json:"plan,omitempty"`
	Err        string             `json:"error,omitempty"`
}

// NewRun stamps a fresh Run with a random correlation ID, spec.md §10
// ambient logging: every run is traceable end to end via this ID.
func NewRun(configRoot, problem string) *Run {
	return &Run{
		ID:         uuid.New().String(),
		StartedAt:  time.Now(),
		ConfigRoot: configRoot,
		Problem:    problem,
	}
}

// Store writes Run documents as "{dir}/{run.ID}.json".
type Store struct {
	dir string
}

// Open ensures dir exists and returns a Store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf(`store: creating %s: %w`, dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save writes run as pretty-printed JSON, overwriting any prior document
// with the same ID.
func (s *Store) Save(run *Run) error {
	path := filepath.Join(s.dir, run.ID+`.json`)
	data, err := json.MarshalIndent(run, ``, `  `)
	if err != nil {
		return fmt.Errorf(`store: marshalling run %s: %w`, run.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf(`store: writing %s: %w`, path, err)
	}
	return nil
}

// Load reads back a previously saved run by ID.
func (s *Store) Load(id string) (*Run, error) {
	path := filepath.Join(s.dir, id+`.json`)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(`store: reading %s: %w`, path, err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf(`store: unmarshalling %s: %w`, path, err)
	}
	return &run, nil
}
