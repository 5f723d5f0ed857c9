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

package store

import (
	"testing"

	"github.com/joeycumines/go-blockplan/planner"
	"github.com/stretchr/testify/require"
)

func TestStore_saveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	run := NewRun(`/configs`, `pick-and-place`)
	run.NodesBuilt = 12
	run.GoalsFound = 1
	run.Plan = []planner.PlanStep{{Action: `move`, Params: []string{`robot1`, `p1`, `p2`}}}

	require.NoError(t, s.Save(run))

	loaded, err := s.Load(run.ID)
	require.NoError(t, err)
	require.Equal(t, run.ID, loaded.ID)
	require.Equal(t, run.Problem, loaded.Problem)
	require.Equal(t, run.Plan, loaded.Plan)
}

func TestStore_loadMissingRun(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	_, err = s.Load(`does-not-exist`)
	require.Error(t, err)
}
