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

package loader

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/joeycumines/go-blockplan/domain"
)

// Position is a 3D coordinate; the Z axis orders stacking, per spec.md §4.C.
type Position [3]float64

// ProblemEntity is one entry of a problem configuration document: an
// object or robot name mapped to the position it occupies.
type ProblemEntity struct {
	Position Position `yaml:"position"`
}

// Config is a full init.yaml or goal.yaml document: entity name -> position.
type Config map[string]ProblemEntity

const posTolerance = 0.05

// Result bundles everything a Domain Loader produces, spec.md §4.C.
type Result struct {
	Registry *domain.Registry
	Init     domain.State
	Goal     domain.State
}

// BuildDomain builds entities, the initial state, and the goal state from
// init and goal problem configurations, spec.md §4.C.
func BuildDomain(init, goal Config) (*Result, error) {
	reg := domain.NewRegistry()
	positions := make(map[string]Position)
	occupancy := make(map[string]string) // pose name -> occupying object name
	robotPose := make(map[string]string)
	objectPose := make(map[string]string)

	for _, name := range sortedKeys(init) {
		if name == `` {
			return nil, &ConfigurationError{Reason: `init entity has an empty name`}
		}
		if name == domain.Ground {
			return nil, &ConfigurationError{Reason: fmt.Sprintf(`init entity may not use the reserved name %q`, domain.Ground)}
		}
		info := init[name]
		poseName := nextPoseName(positions)
		positions[poseName] = info.Position

		if strings.HasPrefix(name, `robot`) {
			reg.Add(domain.Entity{Name: name, Kind: domain.KindRobot})
			robotPose[name] = poseName
		} else {
			reg.Add(domain.Entity{Name: name, Kind: domain.KindObject})
			objectPose[name] = poseName
			occupancy[poseName] = name
		}
		reg.Add(domain.Entity{Name: poseName, Kind: domain.KindPose})
	}

	goalState := domain.State{}
	for _, name := range sortedKeys(goal) {
		if name == `` {
			return nil, &ConfigurationError{Reason: `goal entity has an empty name`}
		}
		info := goal[name]
		poseName, ok := findPose(positions, info.Position)
		if !ok {
			poseName = nextPoseName(positions)
			positions[poseName] = info.Position
			reg.Add(domain.Entity{Name: poseName, Kind: domain.KindPose})
		}
		goalState[domain.Key(name, `at`)] = poseName
	}

	initState := domain.State{}
	for robot, pose := range robotPose {
		initState[domain.Key(robot, `at`)] = pose
		initState[domain.Key(robot, `holding`)] = domain.None
		initState[domain.Key(robot, `gripper_empty`)] = true
	}
	stacks := stackRelations(reg, positions)
	for _, pose := range reg.Poses {
		rel := stacks[pose.Name]
		occupant, isOccupied := occupancy[pose.Name]
		initState[domain.Key(pose.Name, `clear`)] = !isOccupied
		if isOccupied {
			initState[domain.Key(pose.Name, `occupied_by`)] = occupant
		} else {
			initState[domain.Key(pose.Name, `occupied_by`)] = domain.None
		}
		initState[domain.Key(pose.Name, `on`)] = rel.on
		initState[domain.Key(pose.Name, `below`)] = rel.below
	}
	objectRels := objectStackRelations(reg, positions, occupancy)
	for objName, pose := range objectPose {
		rel := objectRels[objName]
		initState[domain.Key(objName, `at`)] = pose
		initState[domain.Key(objName, `at_top`)] = rel.atTop
		initState[domain.Key(objName, `on`)] = rel.on
		initState[domain.Key(objName, `below`)] = rel.below
	}
	domain.RefreshDerived(reg, initState)

	return &Result{Registry: reg, Init: initState, Goal: goalState}, nil
}

func nextPoseName(existing map[string]Position) string {
	idx := 1
	for {
		name := fmt.Sprintf(`p%d`, idx)
		if _, taken := existing[name]; !taken {
			return name
		}
		idx++
	}
}

func findPose(positions map[string]Position, target Position) (string, bool) {
	for _, name := range sortedPositionKeys(positions) {
		if approxEqual(positions[name], target) {
			return name, true
		}
	}
	return ``, false
}

func approxEqual(a, b Position) bool {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum) <= posTolerance
}

type poseRel struct {
	on, below string
}

// stackRelations groups poses by XY proximity (tolerance posTolerance) and
// returns each pose's computed on/below relation, spec.md §4.C.
func stackRelations(reg *domain.Registry, positions map[string]Position) map[string]poseRel {
	out := make(map[string]poseRel, len(reg.Poses))
	for _, stack := range groupStacks(reg, positions) {
		for i, pose := range stack {
			rel := poseRel{below: domain.None}
			if i == 0 {
				rel.on = domain.Ground
			} else {
				rel.on = stack[i-1]
			}
			if i < len(stack)-1 {
				rel.below = stack[i+1]
			}
			out[pose] = rel
		}
	}
	return out
}

type objectRel struct {
	on, below string
	atTop     bool
}

// objectStackRelations propagates the pose stacking order onto the objects
// occupying those poses, spec.md §4.C: each object's "on" chains to the
// object (or Ground) beneath it, and only the topmost occupied pose in a
// stack yields an at_top object.
func objectStackRelations(reg *domain.Registry, positions map[string]Position, occupancy map[string]string) map[string]objectRel {
	out := make(map[string]objectRel, len(occupancy))
	for _, stack := range groupStacks(reg, positions) {
		lastObject := ``
		for _, pose := range stack {
			occupant, ok := occupancy[pose]
			if !ok {
				continue
			}
			rel := objectRel{below: domain.None, atTop: true}
			if lastObject == `` {
				rel.on = domain.Ground
			} else {
				rel.on = lastObject
				prior := out[lastObject]
				prior.below = occupant
				prior.atTop = false
				out[lastObject] = prior
			}
			out[occupant] = rel
			lastObject = occupant
		}
	}
	return out
}

// groupStacks clusters pose names by XY proximity and sorts each cluster by
// Z ascending, spec.md §4.C.
func groupStacks(reg *domain.Registry, positions map[string]Position) [][]string {
	names := make([]string, 0, len(reg.Poses))
	for _, pose := range reg.Poses {
		names = append(names, pose.Name)
	}
	sort.Strings(names)

	visited := make(map[string]bool, len(names))
	var stacks [][]string
	for _, name := range names {
		if visited[name] {
			continue
		}
		var cluster []string
		for _, other := range names {
			if visited[other] {
				continue
			}
			if sameXY(positions[name], positions[other]) {
				cluster = append(cluster, other)
				visited[other] = true
			}
		}
		sort.SliceStable(cluster, func(i, j int) bool {
			return positions[cluster[i]][2] < positions[cluster[j]][2]
		})
		stacks = append(stacks, cluster)
	}
	return stacks
}

func sameXY(a, b Position) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx+dy*dy) <= posTolerance
}

func sortedKeys(c Config) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPositionKeys(m map[string]Position) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
