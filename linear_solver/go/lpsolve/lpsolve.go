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

// Package lpsolve links the lp_solve engine into linearsolver.
//
// Import it for its side effect of registering the LPSOLVE problem types:
//
//	import _ "github.com/shiftsched/shiftsched/linear_solver/go/lpsolve"
package lpsolve

import (
	"fmt"
	"math"

	"github.com/draffensperger/golp"
	log "github.com/golang/glog"

	lp "github.com/shiftsched/shiftsched/linear_solver/go/linearsolver"
)

// lpInfinity is the value lp_solve treats as an infinite bound.
const lpInfinity = 1e30

func init() {
	lp.RegisterEngine(lp.LPSOLVE_MIXED_INTEGER_PROGRAMMING, func() lp.Engine { return &Engine{} })
	lp.RegisterEngine(lp.LPSOLVE_LINEAR_PROGRAMMING, func() lp.Engine { return &Engine{relax: true} })
}

// Engine solves models with lp_solve. With relax set, integrality requirements are dropped and
// the LP relaxation is solved.
type Engine struct {
	relax bool
}

func clamp(x float64) float64 {
	return math.Max(-lpInfinity, math.Min(lpInfinity, x))
}

// Solve implements lp.Engine.
func (e *Engine) Solve(m *lp.Model, opts lp.SolveOptions) (*lp.SolutionResponse, error) {
	if err := m.Validate(); err != nil {
		return &lp.SolutionResponse{Status: lp.MODEL_INVALID}, nil
	}
	numCols := len(m.Variables)
	prob := golp.NewLP(0, numCols)
	obj := make([]float64, numCols)
	for i, v := range m.Variables {
		if v.Name != "" {
			prob.SetColName(i, v.Name)
		}
		prob.SetBounds(i, clamp(v.LowerBound), clamp(v.UpperBound))
		if v.IsInteger && !e.relax {
			prob.SetInt(i, true)
		}
		obj[i] = v.ObjectiveCoefficient
	}
	prob.SetObjFn(obj)
	if m.Maximize {
		prob.SetMaximize()
	}

	numRows := 0
	for _, c := range m.Constraints {
		row := make([]golp.Entry, len(c.VarIndex))
		for k, j := range c.VarIndex {
			row[k] = golp.Entry{Col: j, Val: c.Coefficient[k]}
		}
		lbFinite := !math.IsInf(c.LowerBound, -1)
		ubFinite := !math.IsInf(c.UpperBound, 1)
		var err error
		switch {
		case c.LowerBound == c.UpperBound:
			err = prob.AddConstraintSparse(row, golp.EQ, c.LowerBound)
			numRows++
		case lbFinite && ubFinite:
			if err = prob.AddConstraintSparse(row, golp.GE, c.LowerBound); err == nil {
				err = prob.AddConstraintSparse(row, golp.LE, c.UpperBound)
			}
			numRows += 2
		case lbFinite:
			err = prob.AddConstraintSparse(row, golp.GE, c.LowerBound)
			numRows++
		case ubFinite:
			err = prob.AddConstraintSparse(row, golp.LE, c.UpperBound)
			numRows++
		}
		if err != nil {
			return nil, fmt.Errorf("adding row %q to lp_solve: %w", c.Name, err)
		}
	}

	if opts.EnableOutput {
		log.Infof("lp_solve: %d columns, %d rows", numCols, numRows)
	}
	st := prob.Solve()
	status := convertStatus(st)
	if opts.EnableOutput {
		log.Infof("lp_solve returned %d (%v)", int(st), status)
	}
	resp := &lp.SolutionResponse{Status: status}
	if status == lp.OPTIMAL || status == lp.FEASIBLE {
		resp.VariableValues = prob.Variables()
		resp.ObjectiveValue = prob.Objective() + m.ObjectiveOffset
	}
	return resp, nil
}

// convertStatus maps lp_solve's solve results onto linearsolver statuses.
func convertStatus(st golp.SolutionType) lp.ResultStatus {
	switch st {
	case golp.OPTIMAL:
		return lp.OPTIMAL
	case golp.SUBOPTIMAL:
		return lp.FEASIBLE
	case golp.INFEASIBLE:
		return lp.INFEASIBLE
	case golp.UNBOUNDED:
		return lp.UNBOUNDED
	case golp.NOMEMORY, golp.DEGENERATE, golp.NUMFAILURE:
		return lp.ABNORMAL
	}
	// User abort, timeout, presolve-only and other early exits.
	return lp.NOT_SOLVED
}
