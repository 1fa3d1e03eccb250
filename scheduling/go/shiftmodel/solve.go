// Copyright 2010-2024 Google LLC
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

package shiftmodel

import (
	"fmt"
	"os"

	log "github.com/golang/glog"

	lp "github.com/shiftsched/shiftsched/linear_solver/go/linearsolver"
)

// Outcome is how a solve of the scheduling model ended.
type Outcome int

// Outcomes. Statuses without a dedicated outcome, such as FEASIBLE, are UNKNOWN.
const (
	OPTIMAL Outcome = iota
	INFEASIBLE
	UNBOUNDED
	ABNORMAL
	NOT_SOLVED
	UNKNOWN
)

func (o Outcome) String() string {
	switch o {
	case OPTIMAL:
		return "OPTIMAL"
	case INFEASIBLE:
		return "INFEASIBLE"
	case UNBOUNDED:
		return "UNBOUNDED"
	case ABNORMAL:
		return "ABNORMAL"
	case NOT_SOLVED:
		return "NOT_SOLVED"
	}
	return "UNKNOWN"
}

// Message returns the line reported to the user for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OPTIMAL:
		return "Optimization successful"
	case INFEASIBLE:
		return "Model Infeasible"
	case UNBOUNDED:
		return "Model unbounded"
	case ABNORMAL:
		return "Model abnormal"
	case NOT_SOLVED:
		return "Model not solved"
	}
	return "Unknown error"
}

// OutcomeOf interprets a solver status.
func OutcomeOf(s lp.ResultStatus) Outcome {
	switch s {
	case lp.OPTIMAL:
		return OPTIMAL
	case lp.INFEASIBLE:
		return INFEASIBLE
	case lp.UNBOUNDED:
		return UNBOUNDED
	case lp.ABNORMAL:
		return ABNORMAL
	case lp.NOT_SOLVED:
		return NOT_SOLVED
	}
	return UNKNOWN
}

// Options configures Solve. The zero value builds and solves without writing any file.
type Options struct {
	// LPFile is written with the model in LP format before solving, if not empty.
	LPFile string
	// MPSFile is written with the model in free MPS format before solving, if not empty.
	MPSFile string
	// Export configures both exports. Nil means lp.NewExportOptions().
	Export *lp.ExportOptions
	// EnableOutput turns on the solver progress logs.
	EnableOutput bool
	// VerifyTolerance, if positive, checks an optimal solution against the model rows and
	// variable bounds with this tolerance.
	VerifyTolerance float64
}

// Result is the outcome of Solve.
type Result struct {
	Outcome Outcome
	// Status is the status returned by the solver.
	Status lp.ResultStatus
	// Schedule is only set for OPTIMAL.
	Schedule *Schedule
	Vars     *Variables
}

// BuildModel creates the variables, rows and objective of the model on `solver`, which should
// be empty.
func BuildModel(d *Data, solver *lp.LinearSolver) (*Variables, error) {
	vars, err := NewVariables(d, solver)
	if err != nil {
		return nil, fmt.Errorf("creating variables: %w", err)
	}
	if err := AddConstraints(d, solver, vars); err != nil {
		return nil, err
	}
	if err := SetObjective(d, solver, vars); err != nil {
		return nil, fmt.Errorf("setting objective: %w", err)
	}
	return vars, nil
}

// Solve builds the model on `solver`, writes the requested exports, solves and reads back the
// schedule.
//
// An error is returned when the model cannot be built or exported. Solver outcomes other than
// OPTIMAL are not errors: they are reported in the Result, without a schedule.
func Solve(d *Data, solver *lp.LinearSolver, opts Options) (*Result, error) {
	vars, err := BuildModel(d, solver)
	if err != nil {
		return nil, err
	}
	log.Infof("model %q: %d variables, %d constraints", solver.Name(), solver.NumVariables(), solver.NumConstraints())
	if err := writeExports(solver, opts); err != nil {
		return nil, err
	}

	if opts.EnableOutput {
		solver.EnableOutput()
	}
	log.Info("solving")
	status := solver.Solve()
	res := &Result{Outcome: OutcomeOf(status), Status: status, Vars: vars}
	log.Infof("solver returned %v: %s", status, res.Outcome.Message())
	if res.Outcome != OPTIMAL {
		return res, nil
	}
	if opts.VerifyTolerance > 0 {
		if err := solver.VerifySolution(opts.VerifyTolerance); err != nil {
			return res, fmt.Errorf("solution does not satisfy the model: %w", err)
		}
	}
	res.Schedule = ExtractSchedule(d, vars, solver.Objective().Value())
	return res, nil
}

func writeExports(solver *lp.LinearSolver, opts Options) error {
	if opts.LPFile == "" && opts.MPSFile == "" {
		return nil
	}
	m, err := solver.Model()
	if err != nil {
		return err
	}
	eo := lp.NewExportOptions()
	if opts.Export != nil {
		eo = *opts.Export
	}
	exports := []struct {
		path   string
		export func(*lp.Model, lp.ExportOptions) (string, error)
	}{
		{opts.LPFile, lp.ExportModelAsLpFormat},
		{opts.MPSFile, lp.ExportModelAsMpsFormat},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		text, err := e.export(m, eo)
		if err != nil {
			return err
		}
		if err := os.WriteFile(e.path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing model: %w", err)
		}
		log.Infof("wrote model to %s", e.path)
	}
	return nil
}
