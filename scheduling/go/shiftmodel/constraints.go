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
	"math"

	log "github.com/golang/glog"

	lp "github.com/shiftsched/shiftsched/linear_solver/go/linearsolver"
)

// StartHourBigM returns the coefficient of IsWorking in the start hour rows of `p`.
//
// It is the hour cap, widened to the window width when the cap is smaller, so that the row of
// an hour the person does not work never bounds Start below the end of the window.
func StartHourBigM(p Person) float64 {
	return float64(max(p.HoursAvailable, p.Window.End-p.Window.Start))
}

type constraintBuilder struct {
	d      *Data
	solver *lp.LinearSolver
	vars   *Variables
	people []Person
}

// AddConstraints adds the rows of the model to `solver`, family by family:
//
//	CtBalancing|p        Start + Duration + HasBreak - End = 0
//	CtBreak|p            Duration - (cap - mhb) * HasBreak <= mhb, or Duration <= cap if cap <= mhb
//	CtBreakHour|p        HasBreak - sum_h IsOnBreak[h] = 0
//	CtDemandHour|h       sum_p IsWorking[p] - sum_p IsOnBreak[p] - Demand >= 0
//	CtEndHour|p|h        IsWorking[h] = 1 => End >= h + 1
//	CtStartHour|p|h      IsWorking[h] = 1 => Start <= h
//	CtDuration|p         sum_h IsWorking[h] - Duration - HasBreak = 0
//
// Within a family, rows follow the data order of people and increasing hours.
func AddConstraints(d *Data, solver *lp.LinearSolver, vars *Variables) error {
	b := &constraintBuilder{d: d, solver: solver, vars: vars, people: d.People()}
	families := []struct {
		name string
		add  func() (int, error)
	}{
		{"Balancing", b.addBalancing},
		{"Break", b.addBreak},
		{"Break Hour", b.addBreakHour},
		{"Demand", b.addDemand},
		{"End Hour", b.addEndHour},
		{"Start Hour", b.addStartHour},
		{"Duration", b.addDuration},
	}
	for _, f := range families {
		n, err := f.add()
		if err != nil {
			return fmt.Errorf("adding %s constraints: %w", f.name, err)
		}
		log.V(1).Infof("added %d %s constraints", n, f.name)
	}
	return nil
}

func (b *constraintBuilder) addBalancing() (int, error) {
	v := b.vars
	for _, p := range b.people {
		expr := lp.NewLinearExpr().
			AddSum(v.Start[p.Name], v.Duration[p.Name], v.HasBreak[p.Name]).
			AddTerm(v.End[p.Name], -1)
		if _, err := b.solver.AddLinearConstraint(expr, 0, 0, varName("CtBalancing", p.Name)); err != nil {
			return 0, err
		}
	}
	return len(b.people), nil
}

// addBreak caps the duration at the break threshold, up to the hour cap when a break is taken.
func (b *constraintBuilder) addBreak() (int, error) {
	v := b.vars
	mhb := b.d.MaxHoursBeforeBreak()
	for _, p := range b.people {
		expr := lp.NewLinearExpr().Add(v.Duration[p.Name])
		rhs := float64(p.HoursAvailable)
		if extra := p.HoursAvailable - mhb; extra > 0 {
			expr.AddTerm(v.HasBreak[p.Name], -float64(extra))
			rhs = float64(mhb)
		}
		if _, err := b.solver.AddLinearConstraint(expr, math.Inf(-1), rhs, varName("CtBreak", p.Name)); err != nil {
			return 0, err
		}
	}
	return len(b.people), nil
}

func (b *constraintBuilder) addBreakHour() (int, error) {
	v := b.vars
	mhb := b.d.MaxHoursBeforeBreak()
	for _, p := range b.people {
		expr := lp.NewLinearExpr().Add(v.HasBreak[p.Name])
		bw := p.BreakWindow(mhb)
		for h := bw.Start; h <= bw.End; h++ {
			expr.AddTerm(v.IsOnBreak[PersonHour{p.Name, h}], -1)
		}
		if _, err := b.solver.AddLinearConstraint(expr, 0, 0, varName("CtBreakHour", p.Name)); err != nil {
			return 0, err
		}
	}
	return len(b.people), nil
}

func (b *constraintBuilder) addDemand() (int, error) {
	v := b.vars
	hours := b.d.Hours()
	for _, h := range hours {
		expr := lp.NewLinearExpr()
		for _, p := range b.people {
			if w, ok := v.IsWorking[PersonHour{p.Name, h}]; ok {
				expr.Add(w)
			}
			if br, ok := v.IsOnBreak[PersonHour{p.Name, h}]; ok {
				expr.AddTerm(br, -1)
			}
		}
		expr.AddTerm(v.Demand[h], -1)
		if _, err := b.solver.AddLinearConstraint(expr, 0, math.Inf(1), fmt.Sprintf("CtDemandHour|%d", h)); err != nil {
			return 0, err
		}
	}
	return len(hours), nil
}

// addEndHour adds End - (h+1) * IsWorking[h] >= 0.
func (b *constraintBuilder) addEndHour() (int, error) {
	v := b.vars
	n := 0
	for _, p := range b.people {
		for h := p.Window.Start; h <= p.Window.End; h++ {
			ind := v.IsWorking[PersonHour{p.Name, h}]
			bigM := float64(h + 1)
			if _, err := b.solver.AddIndicatorGreaterOrEqual(ind, v.End[p.Name], bigM, bigM, hourVarName("CtEndHour", p.Name, h)); err != nil {
				return 0, err
			}
			n++
		}
	}
	return n, nil
}

// addStartHour adds Start + M * IsWorking[h] <= M + h.
func (b *constraintBuilder) addStartHour() (int, error) {
	v := b.vars
	n := 0
	for _, p := range b.people {
		bigM := StartHourBigM(p)
		for h := p.Window.Start; h <= p.Window.End; h++ {
			ind := v.IsWorking[PersonHour{p.Name, h}]
			if _, err := b.solver.AddIndicatorLessOrEqual(ind, v.Start[p.Name], float64(h), bigM, hourVarName("CtStartHour", p.Name, h)); err != nil {
				return 0, err
			}
			n++
		}
	}
	return n, nil
}

// addDuration counts the hours worked, break hour included, as Duration + HasBreak.
func (b *constraintBuilder) addDuration() (int, error) {
	v := b.vars
	for _, p := range b.people {
		expr := lp.NewLinearExpr()
		for h := p.Window.Start; h <= p.Window.End; h++ {
			expr.Add(v.IsWorking[PersonHour{p.Name, h}])
		}
		expr.AddTerm(v.Duration[p.Name], -1).AddTerm(v.HasBreak[p.Name], -1)
		if _, err := b.solver.AddLinearConstraint(expr, 0, 0, varName("CtDuration", p.Name)); err != nil {
			return 0, err
		}
	}
	return len(b.people), nil
}
