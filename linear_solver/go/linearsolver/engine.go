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

package linearsolver

import (
	"fmt"
	"sync"

	log "github.com/golang/glog"
)

// ProblemType selects the engine a LinearSolver hands its model to.
type ProblemType int

// Problem types. An engine package must be linked for New to accept its type.
const (
	LPSOLVE_LINEAR_PROGRAMMING ProblemType = iota + 1
	LPSOLVE_MIXED_INTEGER_PROGRAMMING
)

func (t ProblemType) String() string {
	switch t {
	case LPSOLVE_LINEAR_PROGRAMMING:
		return "LPSOLVE_LINEAR_PROGRAMMING"
	case LPSOLVE_MIXED_INTEGER_PROGRAMMING:
		return "LPSOLVE_MIXED_INTEGER_PROGRAMMING"
	}
	return fmt.Sprintf("ProblemType(%d)", int(t))
}

// ResultStatus is the terminal status of a solve. The values follow MPSolver::ResultStatus.
type ResultStatus int

// Result statuses.
const (
	OPTIMAL ResultStatus = iota
	FEASIBLE
	INFEASIBLE
	UNBOUNDED
	ABNORMAL
	MODEL_INVALID
	NOT_SOLVED
)

func (s ResultStatus) String() string {
	switch s {
	case OPTIMAL:
		return "OPTIMAL"
	case FEASIBLE:
		return "FEASIBLE"
	case INFEASIBLE:
		return "INFEASIBLE"
	case UNBOUNDED:
		return "UNBOUNDED"
	case ABNORMAL:
		return "ABNORMAL"
	case MODEL_INVALID:
		return "MODEL_INVALID"
	case NOT_SOLVED:
		return "NOT_SOLVED"
	}
	return fmt.Sprintf("ResultStatus(%d)", int(s))
}

// hasSolution reports whether a response with this status carries variable values.
func (s ResultStatus) hasSolution() bool {
	return s == OPTIMAL || s == FEASIBLE
}

// SolveOptions are passed by a LinearSolver to its engine.
type SolveOptions struct {
	// EnableOutput asks the engine to log its progress.
	EnableOutput bool
}

// SolutionResponse is the result of a solve.
type SolutionResponse struct {
	Status         ResultStatus
	ObjectiveValue float64
	// VariableValues is indexed like Model.Variables. Only set for OPTIMAL and FEASIBLE.
	VariableValues []float64
}

// Engine solves a model snapshot. Engines must not keep references to the model after Solve
// returns.
type Engine interface {
	Solve(m *Model, opts SolveOptions) (*SolutionResponse, error)
}

// EngineFactory creates the engine of a new LinearSolver.
type EngineFactory func() Engine

var (
	enginesMu sync.RWMutex
	engines   = make(map[ProblemType]EngineFactory)
)

// RegisterEngine makes an engine available for a problem type. It is meant to be called from
// the init function of engine packages, and panics if the type already has an engine.
func RegisterEngine(t ProblemType, f EngineFactory) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	if f == nil {
		log.Fatalf("linearsolver: RegisterEngine factory for %v is nil", t)
	}
	if _, dup := engines[t]; dup {
		panic(fmt.Sprintf("linearsolver: RegisterEngine called twice for %v", t))
	}
	engines[t] = f
}

func lookupEngine(t ProblemType) (EngineFactory, bool) {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	f, ok := engines[t]
	return f, ok
}

// SupportsProblemType returns whether the given problem type is supported (which depends on
// the engine packages that you linked).
func SupportsProblemType(t ProblemType) bool {
	_, ok := lookupEngine(t)
	return ok
}
