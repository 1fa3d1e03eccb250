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

// The shift_scheduling_milp command schedules shifts with breaks so that the hourly demand is
// met, by solving a MILP with lp_solve.
//
// Without -data it solves a built-in day of 25 people. The model is written to scheduling.lp
// before solving.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/golang/glog"

	// Links lp_solve for LPSOLVE_MIXED_INTEGER_PROGRAMMING.
	_ "github.com/shiftsched/shiftsched/linear_solver/go/lpsolve"
	lp "github.com/shiftsched/shiftsched/linear_solver/go/linearsolver"
	"github.com/shiftsched/shiftsched/scheduling/go/shiftmodel"
)

var (
	dataFile   = flag.String("data", "", "YAML schedule data. Empty uses the built-in example day.")
	lpFile     = flag.String("lp_file", "scheduling", "Base name of the LP export, written as <name>.lp. Empty disables it.")
	mpsFile    = flag.String("mps_file", "", "If set, the model is also written in free MPS format to this file.")
	obfuscate  = flag.Bool("obfuscate", false, "Export the model with generated variable and constraint names.")
	report     = flag.String("report", "text", "Report format: text or json.")
	validate   = flag.Bool("validate", true, "Reject malformed schedule data before building the model.")
	verify     = flag.Float64("verify_tolerance", 1e-6, "Check the optimal solution against the model with this tolerance. 0 disables.")
	showOutput = flag.Bool("solver_output", true, "Log the solver progress.")
	dumpData   = flag.Bool("dump_data", false, "Print the schedule data as YAML and exit.")
)

func loadData() (*shiftmodel.Data, error) {
	if *dataFile == "" {
		return shiftmodel.ExampleData(), nil
	}
	return shiftmodel.LoadDataFile(*dataFile)
}

func shiftSchedulingMilp() error {
	if *report != "text" && *report != "json" {
		return fmt.Errorf("unknown -report %q, want text or json", *report)
	}
	data, err := loadData()
	if err != nil {
		return err
	}
	if *dumpData {
		return data.WriteYAML(os.Stdout)
	}
	if *validate {
		if err := data.Validate(); err != nil {
			return fmt.Errorf("invalid schedule data: %w", err)
		}
	}
	log.Infof("loaded %d people and %d hours of demand", data.NumPeople(), len(data.Hours()))

	solver, err := lp.New("scheduling", lp.LPSOLVE_MIXED_INTEGER_PROGRAMMING)
	if err != nil {
		return err
	}
	exportOptions := lp.NewExportOptions()
	exportOptions.Obfuscate = *obfuscate
	opts := shiftmodel.Options{
		MPSFile:         *mpsFile,
		Export:          &exportOptions,
		EnableOutput:    *showOutput,
		VerifyTolerance: *verify,
	}
	if *lpFile != "" {
		opts.LPFile = *lpFile + ".lp"
	}

	res, err := shiftmodel.Solve(data, solver, opts)
	if err != nil {
		return err
	}
	fmt.Println(res.Outcome.Message())
	if res.Schedule == nil {
		return nil
	}
	if *report == "json" {
		b, err := res.Schedule.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}
	return res.Schedule.WriteText(os.Stdout)
}

func main() {
	flag.Parse()
	if err := shiftSchedulingMilp(); err != nil {
		log.Exitf("shiftSchedulingMilp returned with error: %v", err)
	}
}
