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
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Shift is the solved schedule of one person.
type Shift struct {
	Person   string
	Start    float64
	End      float64
	Duration float64
	HasBreak bool
	// BreakHour is only meaningful when HasBreak is set.
	BreakHour int
	// WorkingHours lists the hours with IsWorking set, break hour included.
	WorkingHours []int
}

// Schedule is the solved schedule of everyone.
type Schedule struct {
	Objective float64
	// Shifts follow the data order of people.
	Shifts []Shift
	// Breaks lists the break hours, people in data order.
	Breaks []PersonHour
}

// roundValue drops the solver noise of values that are integral in any vertex solution.
func roundValue(x float64) float64 {
	r := math.Round(x*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

func isSet(v interface{ SolutionValue() float64 }) bool {
	return v.SolutionValue() > 0.5
}

// ExtractSchedule reads the schedule from the last solution of the solver owning `vars`.
func ExtractSchedule(d *Data, vars *Variables, objective float64) *Schedule {
	s := &Schedule{Objective: roundValue(objective)}
	mhb := d.MaxHoursBeforeBreak()
	for _, p := range d.People() {
		sh := Shift{
			Person:   p.Name,
			Start:    roundValue(vars.Start[p.Name].SolutionValue()),
			End:      roundValue(vars.End[p.Name].SolutionValue()),
			Duration: roundValue(vars.Duration[p.Name].SolutionValue()),
			HasBreak: isSet(vars.HasBreak[p.Name]),
		}
		for h := p.Window.Start; h <= p.Window.End; h++ {
			if isSet(vars.IsWorking[PersonHour{p.Name, h}]) {
				sh.WorkingHours = append(sh.WorkingHours, h)
			}
		}
		bw := p.BreakWindow(mhb)
		for h := bw.Start; h <= bw.End; h++ {
			if isSet(vars.IsOnBreak[PersonHour{p.Name, h}]) {
				sh.BreakHour = h
				s.Breaks = append(s.Breaks, PersonHour{p.Name, h})
			}
		}
		s.Shifts = append(s.Shifts, sh)
	}
	return s
}

const separator = "--------------------------------------"

// WriteText writes the schedule as:
//
//	Objective value: 9
//	--------------------------------------
//	Start hour of Person1: 1
//	End hour of Person1: 9
//	Duration of Person1: 7
//	````````
//	--------------------------------------
//	Person1 is on break at hour 3
func (s *Schedule) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	p := &textPrinter{w: bw}
	p.printf("Objective value: %v\n", s.Objective)
	p.printf("%s\n", separator)
	for _, sh := range s.Shifts {
		p.printf("Start hour of %s: %v\n", sh.Person, sh.Start)
		p.printf("End hour of %s: %v\n", sh.Person, sh.End)
		p.printf("Duration of %s: %v\n", sh.Person, sh.Duration)
		p.printf("````````\n")
	}
	p.printf("%s\n", separator)
	for _, b := range s.Breaks {
		p.printf("%s is on break at hour %d\n", b.Person, b.Hour)
	}
	if p.err != nil {
		return p.err
	}
	return bw.Flush()
}

// String returns the text report.
func (s *Schedule) String() string {
	sb := &strings.Builder{}
	s.WriteText(sb)
	return sb.String()
}

// Struct returns the schedule as a google.protobuf.Struct:
//
//	{"objective": 9,
//	 "shifts": [{"person": "Person1", "start": 1, "end": 9, "duration": 7, "has_break": true,
//	             "break_hour": 3, "working_hours": [1, 2, ...]}],
//	 "breaks": [{"person": "Person1", "hour": 3}]}
//
// break_hour is left out of shifts without a break.
func (s *Schedule) Struct() (*structpb.Struct, error) {
	shifts := make([]any, 0, len(s.Shifts))
	for _, sh := range s.Shifts {
		hours := make([]any, len(sh.WorkingHours))
		for i, h := range sh.WorkingHours {
			hours[i] = h
		}
		m := map[string]any{
			"person":        sh.Person,
			"start":         sh.Start,
			"end":           sh.End,
			"duration":      sh.Duration,
			"has_break":     sh.HasBreak,
			"working_hours": hours,
		}
		if sh.HasBreak {
			m["break_hour"] = sh.BreakHour
		}
		shifts = append(shifts, m)
	}
	breaks := make([]any, len(s.Breaks))
	for i, b := range s.Breaks {
		breaks[i] = map[string]any{"person": b.Person, "hour": b.Hour}
	}
	return structpb.NewStruct(map[string]any{
		"objective": s.Objective,
		"shifts":    shifts,
		"breaks":    breaks,
	})
}

// JSON returns the indented JSON encoding of Struct.
func (s *Schedule) JSON() ([]byte, error) {
	st, err := s.Struct()
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
}

// textPrinter keeps the first write error.
type textPrinter struct {
	w   io.Writer
	err error
}

func (p *textPrinter) printf(format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}
