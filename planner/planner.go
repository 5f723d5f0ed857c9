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

package planner

import (
	"fmt"
	"math"

	"github.com/joeycumines/go-blockplan/domain"
	"github.com/joeycumines/go-blockplan/dtg"
	"github.com/rs/zerolog"
)

// Verbosity controls logging only; it has no effect on planner semantics,
// spec.md §6 "Planner API".
type Verbosity int

const (
	NONE Verbosity = iota
	INFO
	TRACK
	DEBUG
)

func (v Verbosity) zerologLevel() zerolog.Level {
	switch v {
	case INFO:
		return zerolog.InfoLevel
	case TRACK:
		return zerolog.DebugLevel
	case DEBUG:
		return zerolog.TraceLevel
	default:
		return zerolog.Disabled
	}
}

// Option configures an AcyclicPlanner at construction time.
type Option func(*AcyclicPlanner)

// WithLogger overrides the zerolog.Logger events are written to. The
// default is zerolog.Nop(), silenced regardless of Verbosity.
func WithLogger(logger zerolog.Logger) Option { return func(p *AcyclicPlanner) { p.logger = logger } }

// WithVerbosity sets the logging verbosity, spec.md §6.
func WithVerbosity(v Verbosity) Option { return func(p *AcyclicPlanner) { p.verbosity = v } }

// WithFrontier overrides the frontier-generation strategy; the default is
// DefaultFrontier.
func WithFrontier(f FrontierFunc) Option { return func(p *AcyclicPlanner) { p.frontier = f } }

// WithBranchFilter installs an additional predicate applied to every branch
// the frontier strategy produces, spec.md §9's "parameterise the prune
// predicate" Open Question. See package planner/prune for an expr-lang
// backed implementation.
func WithBranchFilter(f BranchFilter) Option { return func(p *AcyclicPlanner) { p.branchFilter = f } }

// WithStepBudget caps the number of nodes the search may create before
// aborting and returning whatever goal states were already found, spec.md
// §5 ("an optional step-budget parameter may be surfaced"). Zero (the
// default) means unbounded.
func WithStepBudget(n int) Option { return func(p *AcyclicPlanner) { p.stepBudget = n } }

// AcyclicPlanner is the depth-first, branch-and-bound search engine over a
// domain.Registry and dtg.Graph, spec.md §4.G and §6 "Planner API".
type AcyclicPlanner struct {
	reg     *domain.Registry
	graph   dtg.Graph
	schemas map[string]*domain.Schema
	goal    domain.State
	init    domain.State

	frontier     FrontierFunc
	branchFilter BranchFilter
	verbosity    Verbosity
	logger       zerolog.Logger
	stepBudget   int

	nextID int
}

// New constructs an AcyclicPlanner, spec.md §6 "AcyclicPlanner(domain, dtg, verbosity)".
func New(reg *domain.Registry, g dtg.Graph, schemas map[string]*domain.Schema, init, goal domain.State, opts ...Option) *AcyclicPlanner {
	p := &AcyclicPlanner{
		reg:      reg,
		graph:    g,
		schemas:  schemas,
		goal:     goal,
		init:     init,
		frontier: DefaultFrontier,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Level(p.verbosity.zerologLevel())
	return p
}

func (p *AcyclicPlanner) newNode(state domain.State) *LinkedState {
	p.nextID++
	return &LinkedState{ID: p.nextID, State: state, Type: ALIVE}
}

func (p *AcyclicPlanner) computeFrontier(n *LinkedState) ([]Branch, error) {
	robot := p.reg.Robots[0].Name
	robotAt, _ := n.State[domain.Key(robot, `at`)].(string)
	branches := p.frontier(p.reg, p.graph, p.goal, n.State)
	if p.branchFilter == nil {
		return branches, nil
	}
	kept := branches[:0:0]
	for _, b := range branches {
		ok, err := p.branchFilter(b, robotAt)
		if err != nil {
			return nil, fmt.Errorf(`planner: branch filter: %w`, err)
		}
		if ok {
			kept = append(kept, b)
		}
	}
	return kept, nil
}

// Run executes the acyclic DFS main loop, spec.md §4.G, returning every GOAL
// linked state discovered, in discovery order. An empty, non-nil result with
// a nil error is SearchExhausted, spec.md §7: a legitimate outcome, not an
// error. A non-nil error is always fatal (ParameterBindingError,
// DomainInvariantError, or an error from the branch filter).
func (p *AcyclicPlanner) Run() ([]*LinkedState, error) {
	root := p.newNode(p.init)
	goalStates := []*LinkedState{}

	if root.State.Satisfies(p.goal) {
		root.Type = GOAL
		goalStates = append(goalStates, root)
		return goalStates, nil
	}

	var err error
	root.BranchesToExplore, err = p.computeFrontier(root)
	if err != nil {
		return nil, err
	}

	current := root
	steps := 0
	best := math.MaxInt

	for len(current.BranchesToExplore) > 0 || current != root {
		if p.stepBudget > 0 && p.nextID >= p.stepBudget {
			p.logger.Warn().Int(`nodes`, p.nextID).Msg(`step budget exhausted`)
			return goalStates, nil
		}

		if len(current.BranchesToExplore) > 0 && steps < best {
			b := current.BranchesToExplore[0]
			current.BranchesToExplore = current.BranchesToExplore[1:]

			schema := p.schemas[b.Action]
			params, err := dtg.ParseActionParams(p.reg, b.Action, b.Source, b.Target)
			if err != nil {
				return nil, err
			}
			if !domain.IsApplicable(schema, params, current.State) {
				p.logger.Debug().Stringer(`branch`, b).Msg(`not applicable`)
				continue
			}
			sNew, ok := domain.Apply(p.reg, schema, params, current.State)
			if !ok {
				continue
			}
			if err := domain.CheckInvariants(p.reg, sNew); err != nil {
				return nil, err
			}

			if current.Parent != nil && sNew.Equal(current.Parent.Node.State) {
				p.logger.Trace().Stringer(`branch`, b).Msg(`cycle: direct reversal`)
				continue
			}
			if current.hasEdgeToState(sNew) {
				p.logger.Trace().Stringer(`branch`, b).Msg(`cycle: duplicate path`)
				continue
			}

			child := p.newNode(sNew)
			child.Parent = &ParentEdge{Action: b.Action, Params: params, Node: current}
			current.Edges = append(current.Edges, ChildEdge{Action: b.Action, Params: params, Node: child})
			current = child
			steps++

			if sNew.Satisfies(p.goal) {
				current.Type = GOAL
				goalStates = append(goalStates, current)
				if steps < best {
					best = steps
				}
				p.logger.Info().Int(`steps`, steps).Msg(`goal reached`)
			} else {
				current.BranchesToExplore, err = p.computeFrontier(current)
				if err != nil {
					return nil, err
				}
			}
			continue
		}

		if steps >= best {
			current = root
			steps = 0
			continue
		}

		for len(current.BranchesToExplore) == 0 || current.Type == GOAL {
			if current.Type == ALIVE {
				current.Type = DEAD
			}
			if current.Parent == nil {
				return goalStates, nil
			}
			current = current.Parent.Node
			steps--
		}
	}

	return goalStates, nil
}

// NodeCount returns the number of LinkedStates created so far, spec.md §10
// ambient logging's "nodes built" run statistic.
func (p *AcyclicPlanner) NodeCount() int { return p.nextID }

// PlanStep is one element of a retraced plan, spec.md §6 "Plan format".
type PlanStep struct {
	Action string
	Params []string
}

// Retrace walks g's parent edges back to the root and returns the action
// sequence to reach it, spec.md §4.G "Plan extraction".
func (p *AcyclicPlanner) Retrace(g *LinkedState) []PlanStep {
	var reversed []PlanStep
	for n := g; n.Parent != nil; n = n.Parent.Node {
		schema := p.schemas[n.Parent.Action]
		args := make([]string, len(schema.Params))
		for i, param := range schema.Params {
			args[i] = n.Parent.Params[param]
		}
		reversed = append(reversed, PlanStep{Action: n.Parent.Action, Params: args})
	}
	plan := make([]PlanStep, len(reversed))
	for i, step := range reversed {
		plan[len(reversed)-1-i] = step
	}
	return plan
}

// Shortest returns the GOAL state reached in fewest steps among goalStates,
// or nil if goalStates is empty. Ties keep the first (discovery-order)
// winner, preserving spec.md §5's determinism guarantee.
func Shortest(goalStates []*LinkedState) *LinkedState {
	var best *LinkedState
	bestDepth := math.MaxInt
	for _, g := range goalStates {
		depth := 0
		for n := g; n.Parent != nil; n = n.Parent.Node {
			depth++
		}
		if depth < bestDepth {
			bestDepth = depth
			best = g
		}
	}
	return best
}
