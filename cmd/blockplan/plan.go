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

package main

import (
	"fmt"
	"time"

	"github.com/joeycumines/go-blockplan/domain"
	"github.com/joeycumines/go-blockplan/dtg"
	"github.com/joeycumines/go-blockplan/internal/config"
	"github.com/joeycumines/go-blockplan/internal/store"
	"github.com/joeycumines/go-blockplan/loader"
	"github.com/joeycumines/go-blockplan/planner"
	"github.com/joeycumines/go-blockplan/planner/prune"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           `blockplan`,
		Short:         `Plan move/pick/place sequences over a block-manipulation domain`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPlanCmd())
	return root
}

func newPlanCmd() *cobra.Command {
	var (
		verbosity  string
		stepBudget int
		pruneExpr  string
		historyDir string
	)
	cmd := &cobra.Command{
		Use:   `plan <config-root> <name>`,
		Short: `Load a problem and search for a plan`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args[0], args[1], verbosity, stepBudget, pruneExpr, historyDir)
		},
	}
	cmd.Flags().StringVar(&verbosity, `verbosity`, `info`, `logging verbosity: none, info, track, or debug`)
	cmd.Flags().IntVar(&stepBudget, `step-budget`, 0, `abort the search after this many search-tree nodes (0 = unbounded)`)
	cmd.Flags().StringVar(&pruneExpr, `prune`, ``, `expr-lang boolean expression filtering candidate branches (see planner/prune)`)
	cmd.Flags().StringVar(&historyDir, `history-dir`, `./blockplan-runs`, `directory plan-run history documents are written to`)
	return cmd
}

func parseVerbosity(s string) (planner.Verbosity, error) {
	switch s {
	case `none`:
		return planner.NONE, nil
	case `info`:
		return planner.INFO, nil
	case `track`:
		return planner.TRACK, nil
	case `debug`:
		return planner.DEBUG, nil
	default:
		return 0, fmt.Errorf(`blockplan: unknown verbosity %q`, s)
	}
}

func runPlan(cmd *cobra.Command, configRoot, name, verbosityFlag string, stepBudget int, pruneExpr, historyDir string) error {
	verbosity, err := parseVerbosity(verbosityFlag)
	if err != nil {
		return err
	}

	problem, err := config.Load(configRoot, name)
	if err != nil {
		return err
	}

	res, err := loader.BuildDomain(problem.Init, problem.Goal)
	if err != nil {
		return err
	}

	graph, err := dtg.Build(res.Registry)
	if err != nil {
		return err
	}

	run := store.NewRun(configRoot, name)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().
		Timestamp().Str(`problem`, name).Str(`run_id`, run.ID).Logger()

	opts := []planner.Option{planner.WithLogger(logger), planner.WithVerbosity(verbosity)}
	if stepBudget > 0 {
		opts = append(opts, planner.WithStepBudget(stepBudget))
	}
	if pruneExpr != `` {
		filter, err := prune.Compile(pruneExpr)
		if err != nil {
			return err
		}
		opts = append(opts, planner.WithBranchFilter(filter))
	}

	p := planner.New(res.Registry, graph, domain.Schemas(), res.Init, res.Goal, opts...)

	goals, runErr := p.Run()
	run.FinishedAt = time.Now()
	run.NodesBuilt = p.NodeCount()

	hist, openErr := store.Open(historyDir)
	if openErr != nil {
		logger.Warn().Err(openErr).Msg(`could not open history directory, run will not be persisted`)
		hist = nil
	}

	if runErr != nil {
		run.Err = runErr.Error()
		if hist != nil {
			if err := hist.Save(run); err != nil {
				logger.Warn().Err(err).Msg(`failed to persist run history`)
			}
		}
		return runErr
	}

	run.GoalsFound = len(goals)
	if len(goals) == 0 {
		if hist != nil {
			if err := hist.Save(run); err != nil {
				logger.Warn().Err(err).Msg(`failed to persist run history`)
			}
		}
		fmt.Fprintln(cmd.ErrOrStderr(), `no plan found`)
		return errNoPlan
	}

	plan := p.Retrace(planner.Shortest(goals))
	run.Plan = plan
	if hist != nil {
		if err := hist.Save(run); err != nil {
			logger.Warn().Err(err).Msg(`failed to persist run history`)
		}
	}

	for _, step := range plan {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", step.Action, step.Params)
	}
	return nil
}
