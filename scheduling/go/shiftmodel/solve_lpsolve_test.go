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
	"testing"

	"github.com/google/go-cmp/cmp"

	_ "github.com/shiftsched/shiftsched/linear_solver/go/lpsolve"
	lp "github.com/shiftsched/shiftsched/linear_solver/go/linearsolver"
)

const tolerance = 1e-6

func newMIPSolver(t *testing.T, name string) *lp.LinearSolver {
	t.Helper()
	solver, err := lp.New(name, lp.LPSOLVE_MIXED_INTEGER_PROGRAMMING)
	if err != nil {
		t.Fatalf("New(LPSOLVE_MIXED_INTEGER_PROGRAMMING) returned with unexpected error %v", err)
	}
	return solver
}

func flatDemand(first, last, demand int) []HourDemand {
	var hd []HourDemand
	for h := first; h <= last; h++ {
		hd = append(hd, HourDemand{Hour: h, Demand: demand})
	}
	return hd
}

func solveOptimal(t *testing.T, d *Data) *Result {
	t.Helper()
	res, err := Solve(d, newMIPSolver(t, t.Name()), Options{VerifyTolerance: tolerance})
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error %v", err)
	}
	if res.Outcome != OPTIMAL {
		t.Fatalf("Solve() outcome = %v, want OPTIMAL", res.Outcome)
	}
	return res
}

func TestSolve_IdleDay(t *testing.T) {
	d := NewData(6,
		[]Person{{Name: "Person1", Window: HourWindow{1, 9}, HoursAvailable: 8}},
		flatDemand(1, 9, 0))
	res := solveOptimal(t, d)

	want := &Schedule{
		Objective: 1,
		Shifts:    []Shift{{Person: "Person1", Start: 1, End: 1, Duration: 0}},
	}
	if diff := cmp.Diff(want, res.Schedule); diff != "" {
		t.Errorf("Schedule returned unexpected diff (-want+got): %v", diff)
	}
}

func TestSolve_ForcedBreak(t *testing.T) {
	// Someone is needed at hours 1 and 8, so Person1 works 1 to 8. Working 8 hours is above the
	// threshold of 6, which forces a break.
	demand := flatDemand(1, 9, 0)
	demand[0].Demand = 1
	demand[7].Demand = 1
	d := NewData(6, []Person{{Name: "Person1", Window: HourWindow{1, 9}, HoursAvailable: 8}}, demand)
	res := solveOptimal(t, d)

	s := res.Schedule
	if s.Objective != 9 {
		t.Errorf("Objective = %v, want 9", s.Objective)
	}
	sh := s.Shifts[0]
	if sh.Start != 1 || sh.End != 9 || sh.Duration != 7 || !sh.HasBreak {
		t.Errorf("shift = %+v, want Start 1, End 9, Duration 7 with a break", sh)
	}
	if sh.BreakHour < 2 || sh.BreakHour > 7 {
		t.Errorf("BreakHour = %d, want in [2, 7]", sh.BreakHour)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7, 8}, sh.WorkingHours); diff != "" {
		t.Errorf("WorkingHours returned unexpected diff (-want+got): %v", diff)
	}
	if len(s.Breaks) != 1 || s.Breaks[0] != (PersonHour{"Person1", sh.BreakHour}) {
		t.Errorf("Breaks = %v, want one break of Person1 at %d", s.Breaks, sh.BreakHour)
	}
}

func TestSolve_Infeasible(t *testing.T) {
	demand := flatDemand(1, 9, 0)
	demand[4].Demand = 2
	d := NewData(6, []Person{{Name: "Person1", Window: HourWindow{1, 9}, HoursAvailable: 8}}, demand)
	res, err := Solve(d, newMIPSolver(t, "infeasible"), Options{})
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error %v", err)
	}
	if res.Outcome != INFEASIBLE {
		t.Errorf("Solve() outcome = %v, want INFEASIBLE", res.Outcome)
	}
	if res.Schedule != nil {
		t.Errorf("Schedule = %v, want nil", res.Schedule)
	}
}

// checkSolution checks the properties every solution of the model has, on the raw variable
// values.
func checkSolution(t *testing.T, d *Data, vars *Variables) {
	t.Helper()
	val := func(v *lp.Variable) float64 { return v.SolutionValue() }
	near := func(a, b float64) bool { return math.Abs(a-b) <= tolerance }
	mhb := d.MaxHoursBeforeBreak()

	for _, p := range d.People() {
		start, end := val(vars.Start[p.Name]), val(vars.End[p.Name])
		duration, hasBreak := val(vars.Duration[p.Name]), val(vars.HasBreak[p.Name])

		if !near(start+duration+hasBreak, end) {
			t.Errorf("%s: Start %v + Duration %v + HasBreak %v != End %v", p.Name, start, duration, hasBreak, end)
		}

		breaks := 0.0
		for h := p.Window.Start - 1; h <= p.Window.End+1; h++ {
			if v, ok := vars.IsOnBreak[PersonHour{p.Name, h}]; ok {
				if !p.BreakWindow(mhb).Contains(h) {
					t.Errorf("%s: IsOnBreak exists at hour %d outside of the break window", p.Name, h)
				}
				breaks += val(v)
			}
		}
		if !near(breaks, hasBreak) {
			t.Errorf("%s: %v break hours, HasBreak %v", p.Name, breaks, hasBreak)
		}

		if hasBreak < 0.5 && duration > float64(mhb)+tolerance {
			t.Errorf("%s: Duration %v above %d without a break", p.Name, duration, mhb)
		}
		if duration > float64(p.HoursAvailable)+tolerance {
			t.Errorf("%s: Duration %v above the cap %d", p.Name, duration, p.HoursAvailable)
		}

		for h := p.Window.Start - 1; h <= p.Window.End+1; h++ {
			v, ok := vars.IsWorking[PersonHour{p.Name, h}]
			if ok != p.Window.Contains(h) {
				t.Errorf("%s: IsWorking exists at hour %d: %v, window %v", p.Name, h, ok, p.Window)
			}
			if ok && val(v) > 0.5 && (start > float64(h)+tolerance || end < float64(h+1)-tolerance) {
				t.Errorf("%s: works at hour %d outside of [Start %v, End %v)", p.Name, h, start, end)
			}
		}
	}

	for _, hd := range d.Demand() {
		staffed := 0.0
		for _, p := range d.People() {
			key := PersonHour{p.Name, hd.Hour}
			if v, ok := vars.IsWorking[key]; ok {
				staffed += val(v)
			}
			if v, ok := vars.IsOnBreak[key]; ok {
				staffed -= val(v)
			}
		}
		if staffed < float64(hd.Demand)-tolerance {
			t.Errorf("hour %d: %v people staffed, demand %d", hd.Hour, staffed, hd.Demand)
		}
	}
}

func TestSolve_SolutionProperties(t *testing.T) {
	testCases := []struct {
		name string
		d    *Data
	}{
		{
			name: "ThreePeople",
			d: NewData(4, []Person{
				{Name: "A", Window: HourWindow{1, 10}, HoursAvailable: 6},
				{Name: "B", Window: HourWindow{1, 10}, HoursAvailable: 6},
				{Name: "C", Window: HourWindow{1, 10}, HoursAvailable: 6},
			}, flatDemand(1, 8, 1)),
		},
		{
			name: "MixedWindows",
			d: NewData(3, []Person{
				{Name: "Early", Window: HourWindow{1, 6}, HoursAvailable: 5},
				{Name: "Late", Window: HourWindow{4, 10}, HoursAvailable: 6},
				{Name: "Short", Window: HourWindow{3, 8}, HoursAvailable: 2},
				{Name: "Long", Window: HourWindow{1, 10}, HoursAvailable: 4},
			}, append(flatDemand(1, 3, 1), flatDemand(4, 8, 2)...)),
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			if err := test.d.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			res := solveOptimal(t, test.d)
			checkSolution(t, test.d, res.Vars)
		})
	}
}

// TestSolve_LateStart has a single person needed at the last hour of their window only. The
// cheapest schedule starts at that hour, which needs the start hour rows of the hours before
// to stay slack whatever the cap.
func TestSolve_LateStart(t *testing.T) {
	for width := 1; width <= 8; width++ {
		for hoursAvailable := 1; hoursAvailable <= width; hoursAvailable++ {
			t.Run(fmt.Sprintf("width=%d,cap=%d", width, hoursAvailable), func(t *testing.T) {
				p := Person{Name: "P", Window: HourWindow{1, width}, HoursAvailable: hoursAvailable}
				d := NewData(6, []Person{p}, []HourDemand{{Hour: width, Demand: 1}})
				res := solveOptimal(t, d)
				checkSolution(t, d, res.Vars)

				sh := res.Schedule.Shifts[0]
				if sh.End != float64(width+1) {
					t.Errorf("End = %v, want %d", sh.End, width+1)
				}
				if n := len(sh.WorkingHours); n == 0 || sh.WorkingHours[n-1] != width {
					t.Errorf("WorkingHours = %v, want to include %d", sh.WorkingHours, width)
				}
			})
		}
	}
}
