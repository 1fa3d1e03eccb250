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
	log "github.com/golang/glog"

	lp "github.com/shiftsched/shiftsched/linear_solver/go/linearsolver"
)

// SetObjective makes the model finish every schedule as early as possible: it minimizes the
// sum of the End variables.
func SetObjective(d *Data, solver *lp.LinearSolver, vars *Variables) error {
	expr := lp.NewLinearExpr()
	for _, p := range d.People() {
		expr.Add(vars.End[p.Name])
	}
	if err := solver.Minimize(expr); err != nil {
		return err
	}
	log.V(1).Infof("added objective over %d End vars", d.NumPeople())
	return nil
}
