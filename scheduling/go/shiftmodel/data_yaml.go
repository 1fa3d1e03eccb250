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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// dataFile is the YAML layout of Data:
//
//	max_hours_before_break: 6
//	demand:
//	  - {hour: 1, demand: 2}
//	people:
//	  - {name: Person1, start_hour: 1, end_hour: 9, hours_available: 8}
type dataFile struct {
	MaxHoursBeforeBreak int          `yaml:"max_hours_before_break"`
	Demand              []HourDemand `yaml:"demand"`
	People              []Person     `yaml:"people"`
}

// ParseDataYAML decodes Data from YAML. Unknown keys are rejected.
func ParseDataYAML(b []byte) (*Data, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var f dataFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schedule data is empty")
		}
		return nil, fmt.Errorf("parse schedule data: %w", err)
	}
	return NewData(f.MaxHoursBeforeBreak, f.People, f.Demand), nil
}

// LoadDataFile reads Data from a YAML file.
func LoadDataFile(path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := ParseDataYAML(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteYAML encodes the data in the format read by ParseDataYAML.
func (d *Data) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	f := dataFile{
		MaxHoursBeforeBreak: d.maxHoursBeforeBreak,
		Demand:              d.demand,
		People:              d.people,
	}
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("encode schedule data: %w", err)
	}
	return enc.Close()
}
