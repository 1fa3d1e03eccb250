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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"
)

func twoShifts() *Schedule {
	return &Schedule{
		Objective: 14,
		Shifts: []Shift{
			{Person: "A", Start: 1, End: 9, Duration: 7, HasBreak: true, BreakHour: 3, WorkingHours: []int{1, 2, 3, 4, 5, 6, 7, 8}},
			{Person: "B", Start: 4, End: 5, Duration: 1, WorkingHours: []int{4}},
		},
		Breaks: []PersonHour{{"A", 3}},
	}
}

func TestSchedule_WriteText(t *testing.T) {
	want := "Objective value: 14\n" +
		"--------------------------------------\n" +
		"Start hour of A: 1\n" +
		"End hour of A: 9\n" +
		"Duration of A: 7\n" +
		"````````\n" +
		"Start hour of B: 4\n" +
		"End hour of B: 5\n" +
		"Duration of B: 1\n" +
		"````````\n" +
		"--------------------------------------\n" +
		"A is on break at hour 3\n"
	if diff := cmp.Diff(want, twoShifts().String()); diff != "" {
		t.Errorf("String() returned unexpected diff (-want+got): %v", diff)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSchedule_WriteTextError(t *testing.T) {
	if err := twoShifts().WriteText(failingWriter{}); err == nil {
		t.Errorf("WriteText() err = nil, want error")
	}
}

const twoShiftsJSON = `{
  "objective": 14,
  "shifts": [
    {"person": "A", "start": 1, "end": 9, "duration": 7, "has_break": true, "break_hour": 3,
     "working_hours": [1, 2, 3, 4, 5, 6, 7, 8]},
    {"person": "B", "start": 4, "end": 5, "duration": 1, "has_break": false,
     "working_hours": [4]}
  ],
  "breaks": [{"person": "A", "hour": 3}]
}`

func TestSchedule_Struct(t *testing.T) {
	want := &structpb.Struct{}
	if err := protojson.Unmarshal([]byte(twoShiftsJSON), want); err != nil {
		t.Fatalf("protojson.Unmarshal() = %v", err)
	}
	got, err := twoShifts().Struct()
	if err != nil {
		t.Fatalf("Struct() returned with unexpected error %v", err)
	}
	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Errorf("Struct() returned unexpected diff (-want+got): %v", diff)
	}

	b, err := twoShifts().JSON()
	if err != nil {
		t.Fatalf("JSON() returned with unexpected error %v", err)
	}
	decoded := &structpb.Struct{}
	if err := protojson.Unmarshal(b, decoded); err != nil {
		t.Fatalf("protojson.Unmarshal(JSON()) = %v", err)
	}
	if diff := cmp.Diff(want, decoded, protocmp.Transform()); diff != "" {
		t.Errorf("JSON() returned unexpected diff (-want+got): %v", diff)
	}
}

func TestSchedule_StructNoShifts(t *testing.T) {
	got, err := (&Schedule{Objective: 0}).Struct()
	if err != nil {
		t.Fatalf("Struct() returned with unexpected error %v", err)
	}
	if n := len(got.GetFields()["shifts"].GetListValue().GetValues()); n != 0 {
		t.Errorf("shifts has %d values, want 0", n)
	}
	if got.GetFields()["breaks"].GetListValue() == nil {
		t.Errorf("breaks is not a list")
	}
}
