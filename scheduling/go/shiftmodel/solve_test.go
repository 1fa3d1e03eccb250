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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	lp "github.com/shiftsched/shiftsched/linear_solver/go/linearsolver"
)

// fakeEngine answers every solve with `status` and, for statuses with a solution, the values
// of `values` looked up by variable name.
type fakeEngine struct {
	status    lp.ResultStatus
	values    map[string]float64
	objective float64
	calls     int
}

func (f *fakeEngine) Solve(m *lp.Model, _ lp.SolveOptions) (*lp.SolutionResponse, error) {
	f.calls++
	resp := &lp.SolutionResponse{Status: f.status, ObjectiveValue: f.objective}
	if f.status == lp.OPTIMAL || f.status == lp.FEASIBLE {
		resp.VariableValues = make([]float64, len(m.Variables))
		for i, v := range m.Variables {
			resp.VariableValues[i] = f.values[v.Name]
		}
	}
	return resp, nil
}

// tinySolution is an optimal solution of tinyData: A works 2 to 4 with a break at 3 and B
// covers hour 3.
func tinySolution() map[string]float64 {
	return map[string]float64{
		"Start|A": 2, "End|A": 5, "Duration|A": 2, "HasBreak|A": 1,
		"IsWorking|A|2": 1, "IsWorking|A|3": 1, "IsWorking|A|4": 1, "IsOnBreak|A|3": 1,
		"Start|B": 3, "End|B": 4, "Duration|B": 1,
		"IsWorking|B|3": 1,
		"Demand|3":      1,
	}
}

func TestOutcomeOf(t *testing.T) {
	testCases := []struct {
		status      lp.ResultStatus
		want        Outcome
		wantMessage string
	}{
		{lp.OPTIMAL, OPTIMAL, "Optimization successful"},
		{lp.INFEASIBLE, INFEASIBLE, "Model Infeasible"},
		{lp.UNBOUNDED, UNBOUNDED, "Model unbounded"},
		{lp.ABNORMAL, ABNORMAL, "Model abnormal"},
		{lp.NOT_SOLVED, NOT_SOLVED, "Model not solved"},
		{lp.FEASIBLE, UNKNOWN, "Unknown error"},
		{lp.MODEL_INVALID, UNKNOWN, "Unknown error"},
	}
	for _, test := range testCases {
		t.Run(test.status.String(), func(t *testing.T) {
			got := OutcomeOf(test.status)
			if got != test.want {
				t.Errorf("OutcomeOf(%v) = %v, want %v", test.status, got, test.want)
			}
			if got.Message() != test.wantMessage {
				t.Errorf("Message() = %q, want %q", got.Message(), test.wantMessage)
			}
		})
	}
}

func TestSolve_Outcomes(t *testing.T) {
	testCases := []struct {
		status       lp.ResultStatus
		want         Outcome
		wantSchedule bool
	}{
		{lp.OPTIMAL, OPTIMAL, true},
		{lp.FEASIBLE, UNKNOWN, false},
		{lp.INFEASIBLE, INFEASIBLE, false},
		{lp.UNBOUNDED, UNBOUNDED, false},
		{lp.ABNORMAL, ABNORMAL, false},
		{lp.NOT_SOLVED, NOT_SOLVED, false},
		{lp.MODEL_INVALID, UNKNOWN, false},
	}
	for _, test := range testCases {
		t.Run(test.status.String(), func(t *testing.T) {
			engine := &fakeEngine{status: test.status, values: tinySolution(), objective: 9}
			res, err := Solve(tinyData(), lp.NewWithEngine("tiny", engine), Options{})
			if err != nil {
				t.Fatalf("Solve() returned with unexpected error %v", err)
			}
			if engine.calls != 1 {
				t.Errorf("engine called %d times, want 1", engine.calls)
			}
			if res.Status != test.status {
				t.Errorf("Status = %v, want %v", res.Status, test.status)
			}
			if res.Outcome != test.want {
				t.Errorf("Outcome = %v, want %v", res.Outcome, test.want)
			}
			if (res.Schedule != nil) != test.wantSchedule {
				t.Errorf("Schedule = %v, want a schedule: %v", res.Schedule, test.wantSchedule)
			}
		})
	}
}

func TestSolve_Schedule(t *testing.T) {
	engine := &fakeEngine{status: lp.OPTIMAL, values: tinySolution(), objective: 9}
	res, err := Solve(tinyData(), lp.NewWithEngine("tiny", engine), Options{VerifyTolerance: 1e-9})
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error %v", err)
	}
	want := &Schedule{
		Objective: 9,
		Shifts: []Shift{
			{Person: "A", Start: 2, End: 5, Duration: 2, HasBreak: true, BreakHour: 3, WorkingHours: []int{2, 3, 4}},
			{Person: "B", Start: 3, End: 4, Duration: 1, WorkingHours: []int{3}},
		},
		Breaks: []PersonHour{{"A", 3}},
	}
	if diff := cmp.Diff(want, res.Schedule); diff != "" {
		t.Errorf("Schedule returned unexpected diff (-want+got): %v", diff)
	}
}

func TestSolve_VerifyFails(t *testing.T) {
	values := tinySolution()
	// A ends before its last working hour.
	values["End|A"] = 4
	engine := &fakeEngine{status: lp.OPTIMAL, values: values, objective: 8}
	res, err := Solve(tinyData(), lp.NewWithEngine("tiny", engine), Options{VerifyTolerance: 1e-9})
	if err == nil {
		t.Fatalf("Solve() err = nil, want a verification error")
	}
	if res == nil || res.Schedule != nil {
		t.Errorf("Solve() = %v, want a result without schedule", res)
	}
}

func TestSolve_Exports(t *testing.T) {
	testCases := []struct {
		name       string
		obfuscate  bool
		contains   []string
		notContain []string
	}{
		{
			name:     "Named",
			contains: []string{" CtBalancing|A: +1 Start|A +1 Duration|A +1 HasBreak|A -1 End|A = 0\n", "Binaries\n"},
		},
		{
			name:       "Obfuscated",
			obfuscate:  true,
			contains:   []string{"\\ Obfuscated LP model\n"},
			notContain: []string{"Start|A", "CtBalancing"},
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			eo := lp.NewExportOptions()
			eo.Obfuscate = test.obfuscate
			opts := Options{
				LPFile:  filepath.Join(dir, "scheduling.lp"),
				MPSFile: filepath.Join(dir, "scheduling.mps"),
				Export:  &eo,
			}
			engine := &fakeEngine{status: lp.INFEASIBLE}
			if _, err := Solve(tinyData(), lp.NewWithEngine("tiny", engine), opts); err != nil {
				t.Fatalf("Solve() returned with unexpected error %v", err)
			}
			b, err := os.ReadFile(opts.LPFile)
			if err != nil {
				t.Fatalf("ReadFile(%s) = %v", opts.LPFile, err)
			}
			lpText := string(b)
			for _, s := range test.contains {
				if !strings.Contains(lpText, s) {
					t.Errorf("LP file = %q, want it to contain %q", lpText, s)
				}
			}
			for _, s := range test.notContain {
				if strings.Contains(lpText, s) {
					t.Errorf("LP file = %q, want it not to contain %q", lpText, s)
				}
			}
			mps, err := os.ReadFile(opts.MPSFile)
			if err != nil {
				t.Fatalf("ReadFile(%s) = %v", opts.MPSFile, err)
			}
			if !strings.HasSuffix(string(mps), "ENDATA\n") {
				t.Errorf("MPS file does not end with ENDATA")
			}
		})
	}
}

func TestSolve_ExportError(t *testing.T) {
	// Names are not validated when building, the LP export rejects them.
	d := NewData(1, []Person{{Name: "A B", Window: HourWindow{1, 2}, HoursAvailable: 1}}, nil)
	engine := &fakeEngine{status: lp.OPTIMAL}
	eo := lp.NewExportOptions()
	eo.LogInvalidNames = false
	opts := Options{LPFile: filepath.Join(t.TempDir(), "bad.lp"), Export: &eo}
	if _, err := Solve(d, lp.NewWithEngine("bad", engine), opts); err == nil {
		t.Errorf("Solve() err = nil, want an export error")
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times, want 0", engine.calls)
	}
}
