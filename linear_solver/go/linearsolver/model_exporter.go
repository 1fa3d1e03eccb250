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

package linearsolver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	log "github.com/golang/glog"
)

// ExportOptions groups all options for exporting models to text formats.
// Use NewExportOptions() to create.
type ExportOptions struct {
	// Obfuscate replaces variable and constraint names with generated ones.
	Obfuscate bool
	// ShowUnusedVariables keeps variables that appear in no row and not in the objective.
	ShowUnusedVariables bool
	// LogInvalidNames logs the names that forced an error.
	LogInvalidNames bool
	// MaxLineLength wraps LP rows longer than this many characters.
	MaxLineLength int
}

// NewExportOptions returns the default ExportOptions.
func NewExportOptions() ExportOptions {
	return ExportOptions{MaxLineLength: 10000, LogInvalidNames: true}
}

// lpNameChars are the characters allowed in LP format names besides letters and digits.
const lpNameChars = "!\"#$%&()/,.;?@_`'{}|~"

// validLpName reports whether `name` can be used as is in the LP format: it must not be empty,
// start with a digit or a period, or contain anything but letters, digits and lpNameChars.
func validLpName(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	if c := name[0]; c == '.' || (c >= '0' && c <= '9') {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(lpNameChars, r):
		default:
			return false
		}
	}
	return true
}

// modelNames holds the names used by the exporters for one model.
type modelNames struct {
	vars []string
	cts  []string
}

func obfuscatedName(prefix string, i, n int) string {
	width := len(strconv.Itoa(n))
	return fmt.Sprintf("%s%0*d", prefix, width, i)
}

// exportNames returns the variable and constraint names to write. Unnamed elements get
// generated names, as do all elements when obfuscating. Invalid or duplicate names are an error.
func exportNames(m *Model, options ExportOptions, valid func(string) bool) (*modelNames, error) {
	names := &modelNames{
		vars: make([]string, len(m.Variables)),
		cts:  make([]string, len(m.Constraints)),
	}
	var invalid []string
	seen := make(map[string]bool)
	for i, v := range m.Variables {
		name := v.Name
		if options.Obfuscate || name == "" {
			name = obfuscatedName("V", i, len(m.Variables))
		} else if !valid(name) || seen[name] {
			invalid = append(invalid, name)
		}
		seen[name] = true
		names.vars[i] = name
	}
	seen = make(map[string]bool)
	for i, c := range m.Constraints {
		name := c.Name
		if options.Obfuscate || name == "" {
			name = obfuscatedName("C", i, len(m.Constraints))
		} else if !valid(name) || seen[name] {
			invalid = append(invalid, name)
		}
		seen[name] = true
		names.cts[i] = name
	}
	if len(invalid) > 0 {
		if options.LogInvalidNames {
			log.Errorf("invalid or duplicate names: %q", invalid)
		}
		return nil, fmt.Errorf("%d invalid or duplicate names, export with obfuscated names instead", len(invalid))
	}
	return names, nil
}

// usedVariables marks variables with a non-zero coefficient in a row or in the objective.
func usedVariables(m *Model) []bool {
	used := make([]bool, len(m.Variables))
	for i, v := range m.Variables {
		if v.ObjectiveCoefficient != 0 {
			used[i] = true
		}
	}
	for _, c := range m.Constraints {
		for k, j := range c.VarIndex {
			if c.Coefficient[k] != 0 {
				used[j] = true
			}
		}
	}
	return used
}

func formatNumber(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// lpLineBuilder writes space separated tokens and wraps lines at a maximum length.
type lpLineBuilder struct {
	sb      *strings.Builder
	maxLen  int
	lineLen int
}

func (b *lpLineBuilder) start(s string) {
	b.sb.WriteString(s)
	b.lineLen = len(s)
}

func (b *lpLineBuilder) token(s string) {
	if b.maxLen > 0 && b.lineLen+1+len(s) > b.maxLen && b.lineLen > 0 {
		b.sb.WriteString("\n ")
		b.lineLen = 1
	}
	b.sb.WriteString(" ")
	b.sb.WriteString(s)
	b.lineLen += 1 + len(s)
}

func (b *lpLineBuilder) end() {
	b.sb.WriteString("\n")
	b.lineLen = 0
}

func (b *lpLineBuilder) terms(names []string, idx []int, coeffs []float64) {
	for k, j := range idx {
		if coeffs[k] == 0 {
			continue
		}
		b.token(lpCoefficient(coeffs[k]) + " " + names[j])
	}
}

func lpCoefficient(c float64) string {
	if c < 0 {
		return "-" + formatNumber(-c)
	}
	return "+" + formatNumber(c)
}

// ExportModelAsLpFormat outputs the model as a string in the CPLEX LP format.
//
// Usage:
//
//	options := NewExportOptions()
//	options.Obfuscate = true
//	modelStr, err := ExportModelAsLpFormat(model, options)
func ExportModelAsLpFormat(model *Model, options ExportOptions) (string, error) {
	if err := model.Validate(); err != nil {
		return "", fmt.Errorf("cannot export an invalid model as LP format: %w", err)
	}
	names, err := exportNames(model, options, validLpName)
	if err != nil {
		return "", fmt.Errorf("cannot export model as LP format: %w", err)
	}
	used := usedVariables(model)
	show := func(i int) bool { return options.ShowUnusedVariables || used[i] }

	sb := &strings.Builder{}
	b := &lpLineBuilder{sb: sb, maxLen: options.MaxLineLength}
	if options.Obfuscate {
		sb.WriteString("\\ Obfuscated LP model\n")
	} else {
		fmt.Fprintf(sb, "\\ Model name: %s\n", model.Name)
	}
	if model.Maximize {
		sb.WriteString("Maximize\n")
	} else {
		sb.WriteString("Minimize\n")
	}
	b.start(" Obj:")
	for i, v := range model.Variables {
		if v.ObjectiveCoefficient != 0 {
			b.token(lpCoefficient(v.ObjectiveCoefficient) + " " + names.vars[i])
		}
	}
	if model.ObjectiveOffset != 0 {
		b.token(lpCoefficient(model.ObjectiveOffset))
	}
	b.end()

	sb.WriteString("Subject To\n")
	for i, c := range model.Constraints {
		rows := lpRows(names.cts[i], c)
		for _, r := range rows {
			b.start(" " + r.name + ":")
			if len(c.VarIndex) == 0 {
				if len(model.Variables) == 0 {
					return "", errors.New("cannot export an empty row of a model without variables as LP format")
				}
				b.token("0 " + names.vars[0])
			}
			b.terms(names.vars, c.VarIndex, c.Coefficient)
			b.token(r.sense)
			b.token(formatNumber(r.rhs))
			b.end()
		}
	}

	sb.WriteString("Bounds\n")
	for i, v := range model.Variables {
		if !show(i) || v.IsBinary() {
			continue
		}
		name := names.vars[i]
		lb, ub := v.LowerBound, v.UpperBound
		switch {
		case lb == ub:
			fmt.Fprintf(sb, " %s = %s\n", name, formatNumber(lb))
		case math.IsInf(lb, -1) && math.IsInf(ub, 1):
			fmt.Fprintf(sb, " %s free\n", name)
		case lb == 0 && math.IsInf(ub, 1):
			// Default bounds.
		case math.IsInf(ub, 1):
			fmt.Fprintf(sb, " %s >= %s\n", name, formatNumber(lb))
		default:
			fmt.Fprintf(sb, " %s <= %s <= %s\n", formatNumber(lb), name, formatNumber(ub))
		}
	}

	var binaries, generals []string
	for i, v := range model.Variables {
		if !show(i) || !v.IsInteger {
			continue
		}
		if v.IsBinary() {
			binaries = append(binaries, names.vars[i])
		} else {
			generals = append(generals, names.vars[i])
		}
	}
	if len(binaries) > 0 {
		sb.WriteString("Binaries\n")
		for _, n := range binaries {
			fmt.Fprintf(sb, " %s\n", n)
		}
	}
	if len(generals) > 0 {
		sb.WriteString("Generals\n")
		for _, n := range generals {
			fmt.Fprintf(sb, " %s\n", n)
		}
	}
	sb.WriteString("End\n")
	return sb.String(), nil
}

type lpRow struct {
	name  string
	sense string
	rhs   float64
}

// lpRows splits a constraint into the rows written in the LP format. Ranged constraints are
// written as two rows suffixed with _rhs and _lhs.
func lpRows(name string, c ModelConstraint) []lpRow {
	lb, ub := c.LowerBound, c.UpperBound
	switch {
	case lb == ub:
		return []lpRow{{name, "=", lb}}
	case math.IsInf(lb, -1) && math.IsInf(ub, 1):
		return []lpRow{{name, ">=", lb}}
	case math.IsInf(lb, -1):
		return []lpRow{{name, "<=", ub}}
	case math.IsInf(ub, 1):
		return []lpRow{{name, ">=", lb}}
	}
	return []lpRow{{name + "_rhs", "<=", ub}, {name + "_lhs", ">=", lb}}
}

// validMpsName reports whether `name` can be used in free MPS: not empty and without spaces.
func validMpsName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t\r\n")
}

// ExportModelAsMpsFormat outputs the model as a string in free MPS format.
func ExportModelAsMpsFormat(model *Model, options ExportOptions) (string, error) {
	if err := model.Validate(); err != nil {
		return "", fmt.Errorf("cannot export an invalid model as MPS format: %w", err)
	}
	names, err := exportNames(model, options, validMpsName)
	if err != nil {
		return "", fmt.Errorf("cannot export model as MPS format: %w", err)
	}
	used := usedVariables(model)

	type entry struct {
		row   string
		coeff float64
	}
	columns := make([][]entry, len(model.Variables))
	for i, v := range model.Variables {
		if v.ObjectiveCoefficient != 0 {
			columns[i] = append(columns[i], entry{"COST", v.ObjectiveCoefficient})
		}
	}
	for i, c := range model.Constraints {
		for k, j := range c.VarIndex {
			if c.Coefficient[k] != 0 {
				columns[j] = append(columns[j], entry{names.cts[i], c.Coefficient[k]})
			}
		}
	}

	sb := &strings.Builder{}
	name := model.Name
	if options.Obfuscate || !validMpsName(name) {
		name = "MODEL"
	}
	fmt.Fprintf(sb, "NAME %s\n", name)
	if model.Maximize {
		sb.WriteString("OBJSENSE\n    MAX\n")
	}
	sb.WriteString("ROWS\n N  COST\n")
	for i, c := range model.Constraints {
		var t string
		switch {
		case c.LowerBound == c.UpperBound:
			t = "E"
		case math.IsInf(c.LowerBound, -1) && math.IsInf(c.UpperBound, 1):
			t = "N"
		case math.IsInf(c.LowerBound, -1):
			t = "L"
		default:
			t = "G"
		}
		fmt.Fprintf(sb, " %s  %s\n", t, names.cts[i])
	}

	sb.WriteString("COLUMNS\n")
	inInt := false
	marker := 0
	for i, v := range model.Variables {
		if !options.ShowUnusedVariables && !used[i] {
			continue
		}
		if v.IsInteger != inInt {
			tag := "'INTORG'"
			if inInt {
				tag = "'INTEND'"
			}
			fmt.Fprintf(sb, "    MARKER%d 'MARKER' %s\n", marker, tag)
			marker++
			inInt = v.IsInteger
		}
		for _, e := range columns[i] {
			fmt.Fprintf(sb, "    %s %s %s\n", names.vars[i], e.row, formatNumber(e.coeff))
		}
		if len(columns[i]) == 0 {
			fmt.Fprintf(sb, "    %s COST 0\n", names.vars[i])
		}
	}
	if inInt {
		fmt.Fprintf(sb, "    MARKER%d 'MARKER' 'INTEND'\n", marker)
	}

	sb.WriteString("RHS\n")
	if model.ObjectiveOffset != 0 {
		fmt.Fprintf(sb, "    RHS COST %s\n", formatNumber(-model.ObjectiveOffset))
	}
	var ranges []string
	for i, c := range model.Constraints {
		lb, ub := c.LowerBound, c.UpperBound
		var rhs float64
		switch {
		case lb == ub, math.IsInf(ub, 1):
			rhs = lb
		case math.IsInf(lb, -1):
			rhs = ub
		default:
			rhs = lb
			ranges = append(ranges, fmt.Sprintf("    RNG %s %s\n", names.cts[i], formatNumber(ub-lb)))
		}
		if rhs != 0 && !math.IsInf(rhs, 0) {
			fmt.Fprintf(sb, "    RHS %s %s\n", names.cts[i], formatNumber(rhs))
		}
	}
	if len(ranges) > 0 {
		sb.WriteString("RANGES\n")
		for _, r := range ranges {
			sb.WriteString(r)
		}
	}

	sb.WriteString("BOUNDS\n")
	for i, v := range model.Variables {
		if !options.ShowUnusedVariables && !used[i] {
			continue
		}
		n := names.vars[i]
		lb, ub := v.LowerBound, v.UpperBound
		switch {
		case v.IsBinary():
			fmt.Fprintf(sb, " BV BND %s\n", n)
		case lb == ub:
			fmt.Fprintf(sb, " FX BND %s %s\n", n, formatNumber(lb))
		case math.IsInf(lb, -1) && math.IsInf(ub, 1):
			fmt.Fprintf(sb, " FR BND %s\n", n)
		default:
			if math.IsInf(lb, -1) {
				fmt.Fprintf(sb, " MI BND %s\n", n)
			} else if lb != 0 || v.IsInteger {
				fmt.Fprintf(sb, " LO BND %s %s\n", n, formatNumber(lb))
			}
			if !math.IsInf(ub, 1) {
				fmt.Fprintf(sb, " UP BND %s %s\n", n, formatNumber(ub))
			} else if v.IsInteger {
				fmt.Fprintf(sb, " PL BND %s\n", n)
			}
		}
	}
	sb.WriteString("ENDATA\n")
	return sb.String(), nil
}
