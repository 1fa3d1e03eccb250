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

// ExampleData returns a day of 16 hours staffed by 25 people: morning shifts on [1, 9],
// afternoon shifts on [9, 17] and people available all day. Two people are needed at every hour
// and a break is due after 6 hours.
func ExampleData() *Data {
	morning := HourWindow{Start: 1, End: 9}
	afternoon := HourWindow{Start: 9, End: 17}
	allDay := HourWindow{Start: 1, End: 17}

	people := []Person{
		{Name: "Person1", Window: morning, HoursAvailable: 8},
		{Name: "Person12", Window: morning, HoursAvailable: 8},
		{Name: "Person16", Window: morning, HoursAvailable: 8},
		{Name: "Person17", Window: morning, HoursAvailable: 8},
		{Name: "Person20", Window: morning, HoursAvailable: 8},
		{Name: "Person2", Window: allDay, HoursAvailable: 8},
		{Name: "Person10", Window: allDay, HoursAvailable: 8},
		{Name: "Person6", Window: allDay, HoursAvailable: 8},
		{Name: "Person25", Window: allDay, HoursAvailable: 8},
		{Name: "Person18", Window: morning, HoursAvailable: 8},
		{Name: "Person22", Window: allDay, HoursAvailable: 4},
		{Name: "Person7", Window: allDay, HoursAvailable: 8},
		{Name: "Person8", Window: morning, HoursAvailable: 8},
		{Name: "Person9", Window: allDay, HoursAvailable: 8},
		{Name: "Person13", Window: afternoon, HoursAvailable: 8},
		{Name: "Person19", Window: afternoon, HoursAvailable: 8},
		{Name: "Person23", Window: morning, HoursAvailable: 8},
		{Name: "Person24", Window: morning, HoursAvailable: 8},
		{Name: "Person5", Window: allDay, HoursAvailable: 8},
		{Name: "Person11", Window: afternoon, HoursAvailable: 8},
		{Name: "Person14", Window: afternoon, HoursAvailable: 8},
		{Name: "Person3", Window: allDay, HoursAvailable: 4},
		{Name: "Person4", Window: allDay, HoursAvailable: 8},
		{Name: "Person15", Window: allDay, HoursAvailable: 8},
		{Name: "Person21", Window: allDay, HoursAvailable: 8},
	}
	var demand []HourDemand
	for h := 1; h <= 16; h++ {
		demand = append(demand, HourDemand{Hour: h, Demand: 2})
	}
	return NewData(6, people, demand)
}
