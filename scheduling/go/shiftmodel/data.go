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

// Package shiftmodel formulates shift scheduling as a mixed-integer linear program.
//
// Every person works one block of hours inside an availability window, takes exactly one
// break hour when working more than a threshold, and the number of people working and not on
// break must meet the demand of every hour. The model minimizes the sum of end hours.
//
// The model is built on a linearsolver.LinearSolver in three steps (NewVariables,
// AddConstraints, SetObjective), or all at once by Solve.
package shiftmodel

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// HourWindow is the inclusive range of hours [Start, End].
type HourWindow struct {
	Start int `yaml:"start_hour"`
	End   int `yaml:"end_hour"`
}

// Contains reports whether `h` is in the window.
func (w HourWindow) Contains(h int) bool {
	return w.Start <= h && h <= w.End
}

// Len returns the number of hours in the window.
func (w HourWindow) Len() int {
	if w.Empty() {
		return 0
	}
	return w.End - w.Start + 1
}

// Empty reports whether the window contains no hour.
func (w HourWindow) Empty() bool {
	return w.Start > w.End
}

func (w HourWindow) String() string {
	return fmt.Sprintf("[%d, %d]", w.Start, w.End)
}

// Person is someone who can be scheduled.
type Person struct {
	Name   string     `yaml:"name"`
	Window HourWindow `yaml:",inline"`
	// HoursAvailable caps the hours worked, break hour excluded.
	HoursAvailable int `yaml:"hours_available"`
}

// BreakWindow returns the hours in which the person may take a break: the first
// maxHoursBeforeBreak+1 hours of the window.
func (p Person) BreakWindow(maxHoursBeforeBreak int) HourWindow {
	return HourWindow{
		Start: p.Window.Start,
		End:   min(p.Window.Start+maxHoursBeforeBreak, p.Window.End),
	}
}

// HourDemand is the number of people required to work, and not be on break, at an hour.
type HourDemand struct {
	Hour   int `yaml:"hour"`
	Demand int `yaml:"demand"`
}

// Data is the immutable input of the model.
type Data struct {
	maxHoursBeforeBreak int
	people              []Person
	demand              []HourDemand
}

// NewData returns Data holding copies of `people` and `demand`. People keep their order and
// demand is sorted by hour. No validation is done; see Validate.
func NewData(maxHoursBeforeBreak int, people []Person, demand []HourDemand) *Data {
	d := &Data{
		maxHoursBeforeBreak: maxHoursBeforeBreak,
		people:              append([]Person(nil), people...),
		demand:              append([]HourDemand(nil), demand...),
	}
	sort.SliceStable(d.demand, func(i, j int) bool { return d.demand[i].Hour < d.demand[j].Hour })
	return d
}

// MaxHoursBeforeBreak returns the number of hours above which a person must take a break.
func (d *Data) MaxHoursBeforeBreak() int {
	return d.maxHoursBeforeBreak
}

// NumPeople returns the number of people.
func (d *Data) NumPeople() int {
	return len(d.people)
}

// People returns the people in input order.
func (d *Data) People() []Person {
	return append([]Person(nil), d.people...)
}

// LookupPerson returns the person with the given name.
func (d *Data) LookupPerson(name string) (Person, bool) {
	for _, p := range d.people {
		if p.Name == name {
			return p, true
		}
	}
	return Person{}, false
}

// Demand returns the demand of every hour with a demand, by increasing hour.
func (d *Data) Demand() []HourDemand {
	return append([]HourDemand(nil), d.demand...)
}

// Hours returns the hours with a demand, in increasing order.
func (d *Data) Hours() []int {
	hours := make([]int, len(d.demand))
	for i, hd := range d.demand {
		hours[i] = hd.Hour
	}
	return hours
}

// DemandAt returns the demand of hour `h`, and false if the hour has none.
func (d *Data) DemandAt(h int) (int, bool) {
	i := sort.Search(len(d.demand), func(i int) bool { return d.demand[i].Hour >= h })
	if i < len(d.demand) && d.demand[i].Hour == h {
		return d.demand[i].Demand, true
	}
	return 0, false
}

// Validate reports everything that would make the model malformed or trivially infeasible.
// The model builders do not call it.
func (d *Data) Validate() error {
	var errs []error
	if d.maxHoursBeforeBreak < 0 {
		errs = append(errs, fmt.Errorf("max hours before break %d is negative", d.maxHoursBeforeBreak))
	}
	names := make(map[string]bool)
	for i, p := range d.people {
		switch {
		case p.Name == "":
			errs = append(errs, fmt.Errorf("person %d has no name", i))
		case strings.ContainsAny(p.Name, "| \t\r\n"):
			errs = append(errs, fmt.Errorf("person %q: name must not contain '|' or spaces", p.Name))
		case names[p.Name]:
			errs = append(errs, fmt.Errorf("person %q is listed twice", p.Name))
		}
		names[p.Name] = true
		if p.Window.Empty() {
			errs = append(errs, fmt.Errorf("person %q: window %v is empty", p.Name, p.Window))
			continue
		}
		if p.HoursAvailable < 0 || p.HoursAvailable > p.Window.Len() {
			errs = append(errs, fmt.Errorf("person %q: hours available %d not in [0, %d]", p.Name, p.HoursAvailable, p.Window.Len()))
		}
	}
	for i, hd := range d.demand {
		if hd.Demand < 0 {
			errs = append(errs, fmt.Errorf("hour %d: demand %d is negative", hd.Hour, hd.Demand))
		}
		if i > 0 && d.demand[i-1].Hour == hd.Hour {
			errs = append(errs, fmt.Errorf("hour %d has more than one demand", hd.Hour))
		}
	}
	return errors.Join(errs...)
}
