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
	"math"
)

// Model is a self-contained snapshot of a LinearSolver model, laid out like MPModelProto.
type Model struct {
	Name            string
	Maximize        bool
	ObjectiveOffset float64
	Variables       []ModelVariable
	Constraints     []ModelConstraint
}

// ModelVariable is a column of a Model.
type ModelVariable struct {
	Name                 string
	LowerBound           float64
	UpperBound           float64
	IsInteger            bool
	ObjectiveCoefficient float64
}

// IsBinary reports whether the variable is an integer variable in {0, 1}.
func (v ModelVariable) IsBinary() bool {
	return v.IsInteger && v.LowerBound == 0 && v.UpperBound == 1
}

// ModelConstraint is a row `LowerBound <= sum(Coefficient[i] * x[VarIndex[i]]) <= UpperBound`.
type ModelConstraint struct {
	Name        string
	LowerBound  float64
	UpperBound  float64
	VarIndex    []int
	Coefficient []float64
}

// Validate checks that bounds are not NaN, that no bound interval is empty, and that all
// variable indices are in range.
func (m *Model) Validate() error {
	for i, v := range m.Variables {
		if math.IsNaN(v.LowerBound) || math.IsNaN(v.UpperBound) {
			return fmt.Errorf("variable %d (%q) has a NaN bound", i, v.Name)
		}
		if v.LowerBound > v.UpperBound {
			return fmt.Errorf("variable %d (%q) has empty bounds [%v, %v]", i, v.Name, v.LowerBound, v.UpperBound)
		}
	}
	for i, c := range m.Constraints {
		if math.IsNaN(c.LowerBound) || math.IsNaN(c.UpperBound) {
			return fmt.Errorf("constraint %d (%q) has a NaN bound", i, c.Name)
		}
		if c.LowerBound > c.UpperBound {
			return fmt.Errorf("constraint %d (%q) has empty bounds [%v, %v]", i, c.Name, c.LowerBound, c.UpperBound)
		}
		if len(c.VarIndex) != len(c.Coefficient) {
			return fmt.Errorf("constraint %d (%q) has %d indices and %d coefficients", i, c.Name, len(c.VarIndex), len(c.Coefficient))
		}
		for _, j := range c.VarIndex {
			if j < 0 || j >= len(m.Variables) {
				return fmt.Errorf("constraint %d (%q) references unknown variable %d", i, c.Name, j)
			}
		}
	}
	return nil
}
