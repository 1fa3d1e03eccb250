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

	log "github.com/golang/glog"

	lp "github.com/shiftsched/shiftsched/linear_solver/go/linearsolver"
)

// PersonHour keys the variables that exist for some hours of a person only.
type PersonHour struct {
	Person string
	Hour   int
}

// Variables holds the decision variables of the model.
//
// IsWorking and IsOnBreak are sparse: a missing key means the variable does not exist and the
// term is left out of every row.
type Variables struct {
	// Start is the first hour worked.
	Start map[string]*lp.Variable
	// End is one past the last hour worked.
	End map[string]*lp.Variable
	// Duration is the number of hours worked, break excluded.
	Duration map[string]*lp.Variable
	// HasBreak is 1 if the person takes a break.
	HasBreak  map[string]*lp.Variable
	IsWorking map[PersonHour]*lp.Variable
	IsOnBreak map[PersonHour]*lp.Variable
	// Demand is fixed to the demand of the hour.
	Demand map[int]*lp.Variable
}

func varName(role, person string) string {
	return role + "|" + person
}

func hourVarName(role, person string, h int) string {
	return fmt.Sprintf("%s|%s|%d", role, person, h)
}

// NewVariables creates the variables of the model on `solver`. Variables are created family
// by family, people in data order and hours ascending, so that two builds from the same data
// produce the same model.
func NewVariables(d *Data, solver *lp.LinearSolver) (*Variables, error) {
	n := d.NumPeople()
	vars := &Variables{
		Start:     make(map[string]*lp.Variable, n),
		End:       make(map[string]*lp.Variable, n),
		Duration:  make(map[string]*lp.Variable, n),
		HasBreak:  make(map[string]*lp.Variable, n),
		IsWorking: make(map[PersonHour]*lp.Variable),
		IsOnBreak: make(map[PersonHour]*lp.Variable),
		Demand:    make(map[int]*lp.Variable),
	}
	people := d.People()
	mhb := d.MaxHoursBeforeBreak()

	for _, p := range people {
		v, err := solver.MakeNumVar(float64(p.Window.Start), float64(p.Window.End), varName("Start", p.Name))
		if err != nil {
			return nil, err
		}
		vars.Start[p.Name] = v
	}
	log.V(1).Infof("added %d Start vars", len(vars.Start))

	for _, p := range people {
		v, err := solver.MakeNumVar(float64(p.Window.Start), float64(p.Window.End+1), varName("End", p.Name))
		if err != nil {
			return nil, err
		}
		vars.End[p.Name] = v
	}
	log.V(1).Infof("added %d End vars", len(vars.End))

	for _, p := range people {
		v, err := solver.MakeNumVar(0, solver.Infinity(), varName("Duration", p.Name))
		if err != nil {
			return nil, err
		}
		vars.Duration[p.Name] = v
	}
	log.V(1).Infof("added %d Duration vars", len(vars.Duration))

	for _, p := range people {
		v, err := solver.MakeBoolVar(varName("HasBreak", p.Name))
		if err != nil {
			return nil, err
		}
		vars.HasBreak[p.Name] = v
	}
	log.V(1).Infof("added %d HasBreak vars", len(vars.HasBreak))

	for _, p := range people {
		for h := p.Window.Start; h <= p.Window.End; h++ {
			v, err := solver.MakeBoolVar(hourVarName("IsWorking", p.Name, h))
			if err != nil {
				return nil, err
			}
			vars.IsWorking[PersonHour{p.Name, h}] = v
		}
	}
	log.V(1).Infof("added %d IsWorking vars", len(vars.IsWorking))

	for _, p := range people {
		bw := p.BreakWindow(mhb)
		for h := bw.Start; h <= bw.End; h++ {
			v, err := solver.MakeBoolVar(hourVarName("IsOnBreak", p.Name, h))
			if err != nil {
				return nil, err
			}
			vars.IsOnBreak[PersonHour{p.Name, h}] = v
		}
	}
	log.V(1).Infof("added %d IsOnBreak vars", len(vars.IsOnBreak))

	for _, hd := range d.Demand() {
		demand := float64(hd.Demand)
		v, err := solver.MakeNumVar(demand, demand, fmt.Sprintf("Demand|%d", hd.Hour))
		if err != nil {
			return nil, err
		}
		vars.Demand[hd.Hour] = v
	}
	log.V(1).Infof("added %d Demand vars", len(vars.Demand))

	return vars, nil
}
