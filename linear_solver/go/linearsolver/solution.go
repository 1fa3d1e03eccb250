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
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

// ErrNoSolution is returned when a solution is read before a successful Solve.
var ErrNoSolution = errors.New("no solution available")

// ConstraintActivities returns activities of all constraints in the last solution, or nil if
// there is none.
func (ls *LinearSolver) ConstraintActivities() []float64 {
	if !ls.hasSolution() {
		return nil
	}
	activities := make([]float64, len(ls.constraints))
	for i, c := range ls.constraints {
		activities[i] = c.Activity()
	}
	return activities
}

// VerifySolution checks the last solution against variable bounds, integrality and constraint
// bounds, each up to `tolerance`. All violations are logged; the returned error joins them.
func (ls *LinearSolver) VerifySolution(tolerance float64) error {
	if !ls.hasSolution() {
		return ErrNoSolution
	}
	var errs []error
	for _, v := range ls.variables {
		x := v.SolutionValue()
		if x < v.lb-tolerance || x > v.ub+tolerance {
			errs = append(errs, fmt.Errorf("variable %v = %v is out of bounds [%v, %v]", v.name, x, v.lb, v.ub))
		}
		if v.integer && math.Abs(x-math.Round(x)) > tolerance {
			errs = append(errs, fmt.Errorf("integer variable %v = %v is fractional", v.name, x))
		}
	}
	for _, c := range ls.constraints {
		a := c.Activity()
		if a < c.lb-tolerance || a > c.ub+tolerance {
			errs = append(errs, fmt.Errorf("constraint %v activity %v is out of bounds [%v, %v]", c.name, a, c.lb, c.ub))
		}
	}
	for _, err := range errs {
		log.Errorf("VerifySolution: %v", err)
	}
	return errors.Join(errs...)
}
