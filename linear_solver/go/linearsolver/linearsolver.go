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

// Package linearsolver offers an MPSolver-like API to build linear and mixed-integer programs
// and hand them to a solving engine.
//
// The engine is picked by problem type. Engines register themselves when their package is
// linked, so a program only needs a blank import:
//
//	import _ "github.com/shiftsched/shiftsched/linear_solver/go/lpsolve"
//
//	solver, err := linearsolver.New("my_mip", linearsolver.LPSOLVE_MIXED_INTEGER_PROGRAMMING)
package linearsolver

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

var (
	// ErrMixedModels holds the error when elements added to a model are different.
	ErrMixedModels = errors.New("elements are not part of the same model")
	// ErrDuplicateName is returned when a variable or constraint name is already taken.
	ErrDuplicateName = errors.New("name already exists")
	// ErrNoEngine is returned when no engine is linked for a problem type.
	ErrNoEngine = errors.New("problem type not supported")
)

// LinearSolver holds one model and the solution of its last solve.
//
// The solver is not safe for concurrent use. Variables and constraints are owned by the solver
// that created them and must not be mixed with another solver's.
type LinearSolver struct {
	name        string
	problemType ProblemType
	engine      Engine

	variables   []*Variable
	varByName   map[string]*Variable
	constraints []*Constraint
	ctByName    map[string]*Constraint
	objective   *Objective

	solution *SolutionResponse
	output   bool

	// The first and only the first error is reported by Model and Solve.
	err error
}

// New initializes a new linear solver, given a name and a problem type.
//
// Caller must make sure the engine package for the problem type is linked.
func New(name string, t ProblemType) (*LinearSolver, error) {
	factory, ok := lookupEngine(t)
	if !ok {
		return nil, fmt.Errorf("problem type %v: %w."+
			" Make sure to add the blank import of the matching engine package", t, ErrNoEngine)
	}
	ls := NewWithEngine(name, factory())
	ls.problemType = t
	return ls, nil
}

// NewWithEngine initializes a new linear solver that solves with the given engine.
func NewWithEngine(name string, e Engine) *LinearSolver {
	ls := &LinearSolver{
		name:      name,
		engine:    e,
		varByName: make(map[string]*Variable),
		ctByName:  make(map[string]*Constraint),
	}
	ls.objective = &Objective{ls: ls}
	return ls
}

// Name returns the name given to the solver.
func (ls *LinearSolver) Name() string {
	return ls.name
}

// ProblemType returns the problem type selected, or 0 for a solver built with NewWithEngine.
func (ls *LinearSolver) ProblemType() ProblemType {
	return ls.problemType
}

// Infinity returns the value used for unbounded variable and constraint bounds.
func (ls *LinearSolver) Infinity() float64 {
	return math.Inf(1)
}

// EnableOutput asks the engine to report its progress.
func (ls *LinearSolver) EnableOutput() {
	ls.output = true
}

// SuppressOutput silences the engine. This is the default.
func (ls *LinearSolver) SuppressOutput() {
	ls.output = false
}

// OutputIsEnabled reports whether EnableOutput is in effect.
func (ls *LinearSolver) OutputIsEnabled() bool {
	return ls.output
}

// NumVariables returns the number of variables in the model.
func (ls *LinearSolver) NumVariables() int {
	return len(ls.variables)
}

// NumConstraints returns the number of constraints in the model.
func (ls *LinearSolver) NumConstraints() int {
	return len(ls.constraints)
}

// Variables returns the variables of the model in creation order.
func (ls *LinearSolver) Variables() []*Variable {
	return append([]*Variable(nil), ls.variables...)
}

// Constraints returns the constraints of the model in creation order.
func (ls *LinearSolver) Constraints() []*Constraint {
	return append([]*Constraint(nil), ls.constraints...)
}

// setErrorf stores the error if none was stored before and logs it.
func (ls *LinearSolver) setErrorf(format string, a ...any) error {
	err := fmt.Errorf(format, a...)
	log.Errorf("%v", err)
	if ls.err == nil {
		ls.err = err
	}
	return err
}

// checkSameModelAndSetErrorf returns nil if `v` was created by `ls`. Otherwise an error
// wrapping ErrMixedModels is stored on `ls` and returned.
func (ls *LinearSolver) checkSameModelAndSetErrorf(v *Variable, format string, a ...any) error {
	if v != nil && v.ls == ls {
		return nil
	}
	args := make([]any, len(a)+1)
	copy(args, a)
	args[len(a)] = ErrMixedModels
	return ls.setErrorf(format+": %w", args...)
}

// MakeVar creates and returns a new variable.
//
// Make `name` an empty string if you would like the exporters to generate a name. Otherwise an
// error is returned if the provided `name` already exists as a variable name.
func (ls *LinearSolver) MakeVar(lb, ub float64, integer bool, name string) (*Variable, error) {
	if name != "" {
		if _, ok := ls.varByName[name]; ok {
			return nil, fmt.Errorf("variable with name %s: %w", name, ErrDuplicateName)
		}
	}
	v := &Variable{
		ls:      ls,
		index:   len(ls.variables),
		name:    name,
		lb:      lb,
		ub:      ub,
		integer: integer,
	}
	ls.variables = append(ls.variables, v)
	if name != "" {
		ls.varByName[name] = v
	}
	return v, nil
}

// MakeNumVar creates a continuous variable.
func (ls *LinearSolver) MakeNumVar(lb, ub float64, name string) (*Variable, error) {
	return ls.MakeVar(lb, ub, false, name)
}

// MakeIntVar creates an integer variable.
func (ls *LinearSolver) MakeIntVar(lb, ub float64, name string) (*Variable, error) {
	return ls.MakeVar(lb, ub, true, name)
}

// MakeBoolVar creates an integer variable in {0, 1}.
func (ls *LinearSolver) MakeBoolVar(name string) (*Variable, error) {
	return ls.MakeVar(0, 1, true, name)
}

// LookupVar returns the variable with the given name, or nil if not found.
func (ls *LinearSolver) LookupVar(name string) *Variable {
	return ls.varByName[name]
}

// MakeConstraint creates and returns a new constraint `lb <= 0 <= ub` without terms. Terms are
// added with SetCoefficient.
//
// Make `name` an empty string if you would like the exporters to generate a name. Otherwise an
// error is returned if the provided `name` already exists as a constraint name.
func (ls *LinearSolver) MakeConstraint(lb, ub float64, name string) (*Constraint, error) {
	if name != "" {
		if _, ok := ls.ctByName[name]; ok {
			return nil, fmt.Errorf("constraint with name %s: %w", name, ErrDuplicateName)
		}
	}
	c := &Constraint{
		ls:    ls,
		index: len(ls.constraints),
		name:  name,
		lb:    lb,
		ub:    ub,
	}
	ls.constraints = append(ls.constraints, c)
	if name != "" {
		ls.ctByName[name] = c
	}
	return c, nil
}

// LookupConstraint returns the constraint with the given name, or nil if not found.
func (ls *LinearSolver) LookupConstraint(name string) *Constraint {
	return ls.ctByName[name]
}

// AddLinearConstraint adds the linear constraint `lb <= expr <= ub`. The constant offset of
// `expr` is moved to the bounds.
func (ls *LinearSolver) AddLinearConstraint(expr LinearArgument, lb, ub float64, name string) (*Constraint, error) {
	le := NewLinearExpr().Add(expr)
	terms := le.Terms()
	for _, t := range terms {
		if err := ls.checkSameModelAndSetErrorf(t.Variable, "invalid variable added to constraint %q", name); err != nil {
			return nil, err
		}
	}
	c, err := ls.MakeConstraint(lb-le.offset, ub-le.offset, name)
	if err != nil {
		return nil, err
	}
	for _, t := range terms {
		c.terms.set(t.Variable, t.Coefficient)
	}
	return c, nil
}

// AddEquality adds the linear constraint `lhs == rhs`.
func (ls *LinearSolver) AddEquality(lhs, rhs LinearArgument, name string) (*Constraint, error) {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return ls.AddLinearConstraint(diff, 0, 0, name)
}

// AddLessOrEqual adds the linear constraint `lhs <= rhs`.
func (ls *LinearSolver) AddLessOrEqual(lhs, rhs LinearArgument, name string) (*Constraint, error) {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return ls.AddLinearConstraint(diff, math.Inf(-1), 0, name)
}

// AddGreaterOrEqual adds the linear constraint `lhs >= rhs`.
func (ls *LinearSolver) AddGreaterOrEqual(lhs, rhs LinearArgument, name string) (*Constraint, error) {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return ls.AddLinearConstraint(diff, 0, math.Inf(1), name)
}

// checkIndicator returns an error if `indicator` is not a binary variable of `ls`.
func (ls *LinearSolver) checkIndicator(indicator *Variable, name string) error {
	if err := ls.checkSameModelAndSetErrorf(indicator, "invalid indicator added to constraint %q", name); err != nil {
		return err
	}
	if !indicator.integer || indicator.lb < 0 || indicator.ub > 1 {
		return ls.setErrorf("indicator %v of constraint %q is not a binary variable", indicator.Name(), name)
	}
	return nil
}

// AddIndicatorLessOrEqual adds the implication `indicator == 1 => expr <= rhs`.
//
// Engines without native indicator constraints get the big-M row
// `expr + bigM * indicator <= rhs + bigM`. `bigM` must be large enough for the row to hold for
// every value of `expr` when the indicator is 0.
func (ls *LinearSolver) AddIndicatorLessOrEqual(indicator *Variable, expr LinearArgument, rhs, bigM float64, name string) (*Constraint, error) {
	if err := ls.checkIndicator(indicator, name); err != nil {
		return nil, err
	}
	le := NewLinearExpr().Add(expr).AddTerm(indicator, bigM)
	return ls.AddLinearConstraint(le, math.Inf(-1), rhs+bigM, name)
}

// AddIndicatorGreaterOrEqual adds the implication `indicator == 1 => expr >= rhs` as the big-M
// row `expr - bigM * indicator >= rhs - bigM`.
func (ls *LinearSolver) AddIndicatorGreaterOrEqual(indicator *Variable, expr LinearArgument, rhs, bigM float64, name string) (*Constraint, error) {
	if err := ls.checkIndicator(indicator, name); err != nil {
		return nil, err
	}
	le := NewLinearExpr().Add(expr).AddTerm(indicator, -bigM)
	return ls.AddLinearConstraint(le, rhs-bigM, math.Inf(1), name)
}

// Objective returns the model's objective.
func (ls *LinearSolver) Objective() *Objective {
	return ls.objective
}

// Minimize replaces the objective with the minimization of `expr`.
func (ls *LinearSolver) Minimize(expr LinearArgument) error {
	return ls.setObjective(expr, false)
}

// Maximize replaces the objective with the maximization of `expr`.
func (ls *LinearSolver) Maximize(expr LinearArgument) error {
	return ls.setObjective(expr, true)
}

func (ls *LinearSolver) setObjective(expr LinearArgument, maximize bool) error {
	le := NewLinearExpr().Add(expr)
	terms := le.Terms()
	for _, t := range terms {
		if err := ls.checkSameModelAndSetErrorf(t.Variable, "invalid variable added to the objective"); err != nil {
			return err
		}
	}
	o := ls.objective
	o.Clear()
	for _, t := range terms {
		o.terms.set(t.Variable, t.Coefficient)
	}
	o.offset = le.offset
	o.maximize = maximize
	return nil
}

// Model returns a snapshot of the model. It returns an error when invalid parameters have been
// used during model building (e.g. passing variables from other solvers).
func (ls *LinearSolver) Model() (*Model, error) {
	if ls.err != nil {
		return nil, ls.err
	}
	return ls.model(), nil
}

func (ls *LinearSolver) model() *Model {
	m := &Model{
		Name:            ls.name,
		Maximize:        ls.objective.maximize,
		ObjectiveOffset: ls.objective.offset,
	}
	for _, v := range ls.variables {
		m.Variables = append(m.Variables, ModelVariable{
			Name:                 v.name,
			LowerBound:           v.lb,
			UpperBound:           v.ub,
			IsInteger:            v.integer,
			ObjectiveCoefficient: ls.objective.terms.get(v),
		})
	}
	for _, c := range ls.constraints {
		mc := ModelConstraint{Name: c.name, LowerBound: c.lb, UpperBound: c.ub}
		for _, t := range c.terms.terms() {
			mc.VarIndex = append(mc.VarIndex, t.Variable.index)
			mc.Coefficient = append(mc.Coefficient, t.Coefficient)
		}
		m.Constraints = append(m.Constraints, mc)
	}
	return m
}

// Solve solves the model and returns a status.
//
// A model carrying a building error is not handed to the engine and reports MODEL_INVALID.
func (ls *LinearSolver) Solve() ResultStatus {
	ls.solution = nil
	if ls.err != nil {
		log.Errorf("not solving model %q: %v", ls.name, ls.err)
		ls.solution = &SolutionResponse{Status: MODEL_INVALID}
		return MODEL_INVALID
	}
	if ls.engine == nil {
		log.Errorf("not solving model %q: no engine", ls.name)
		ls.solution = &SolutionResponse{Status: NOT_SOLVED}
		return NOT_SOLVED
	}
	m := ls.model()
	if ls.output {
		log.Infof("solving model %q: %d variables, %d constraints", ls.name, len(m.Variables), len(m.Constraints))
	}
	resp, err := ls.engine.Solve(m, SolveOptions{EnableOutput: ls.output})
	if err != nil {
		log.Errorf("engine failed on model %q: %v", ls.name, err)
		resp = &SolutionResponse{Status: ABNORMAL}
	}
	if resp.Status.hasSolution() && len(resp.VariableValues) != len(m.Variables) {
		log.Errorf("engine returned %d values for %d variables", len(resp.VariableValues), len(m.Variables))
		resp = &SolutionResponse{Status: ABNORMAL}
	}
	ls.solution = resp
	if ls.output {
		log.Infof("model %q solved with status %v", ls.name, resp.Status)
	}
	return resp.Status
}

// Solution returns the response of the last Solve, or nil if Solve was not called.
func (ls *LinearSolver) Solution() *SolutionResponse {
	return ls.solution
}

func (ls *LinearSolver) hasSolution() bool {
	return ls.solution != nil && ls.solution.Status.hasSolution()
}

// Variable is a reference to a variable of a LinearSolver.
type Variable struct {
	ls      *LinearSolver
	index   int
	name    string
	lb, ub  float64
	integer bool
}

// Name returns the name of the variable.
func (v *Variable) Name() string {
	return v.name
}

// Index returns the index of the variable in its solver.
func (v *Variable) Index() int {
	return v.index
}

// LB returns the lower bound.
func (v *Variable) LB() float64 {
	return v.lb
}

// UB returns the upper bound.
func (v *Variable) UB() float64 {
	return v.ub
}

// SetLB sets the lower bound.
func (v *Variable) SetLB(lb float64) {
	v.lb = lb
}

// SetUB sets the upper bound.
func (v *Variable) SetUB(ub float64) {
	v.ub = ub
}

// SetBounds sets both bounds.
func (v *Variable) SetBounds(lb, ub float64) {
	v.lb, v.ub = lb, ub
}

// Integer reports whether the variable must take an integer value.
func (v *Variable) Integer() bool {
	return v.integer
}

// SetInteger sets the integrality requirement.
func (v *Variable) SetInteger(integer bool) {
	v.integer = integer
}

// SolutionValue returns the value of the variable in the last solution, or 0 if there is none.
func (v *Variable) SolutionValue() float64 {
	if !v.ls.hasSolution() {
		return 0
	}
	return v.ls.solution.VariableValues[v.index]
}

func (v *Variable) addToLinearExpr(e *LinearExpr, c float64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{v: v, coeff: c})
}

// Constraint is a reference to a row `lb <= sum(coeff * var) <= ub` of a LinearSolver.
type Constraint struct {
	ls     *LinearSolver
	index  int
	name   string
	lb, ub float64
	terms  termList
}

// Name returns the name of the constraint.
func (c *Constraint) Name() string {
	return c.name
}

// Index returns the index of the constraint in its solver.
func (c *Constraint) Index() int {
	return c.index
}

// LB returns the lower bound.
func (c *Constraint) LB() float64 {
	return c.lb
}

// UB returns the upper bound.
func (c *Constraint) UB() float64 {
	return c.ub
}

// SetBounds sets both bounds.
func (c *Constraint) SetBounds(lb, ub float64) {
	c.lb, c.ub = lb, ub
}

// SetCoefficient sets the coefficient on a variable in the constraint.
func (c *Constraint) SetCoefficient(v *Variable, coeff float64) {
	if c.ls.checkSameModelAndSetErrorf(v, "invalid variable added to constraint %q", c.name) != nil {
		return
	}
	c.terms.set(v, coeff)
}

// Coefficient gets the coefficient on a variable in the constraint.
func (c *Constraint) Coefficient(v *Variable) float64 {
	return c.terms.get(v)
}

// Terms returns the non-zero terms of the constraint in insertion order.
func (c *Constraint) Terms() []Term {
	return c.terms.terms()
}

// Activity returns the value of the row in the last solution.
func (c *Constraint) Activity() float64 {
	var a float64
	for _, t := range c.terms.terms() {
		a += t.Coefficient * t.Variable.SolutionValue()
	}
	return a
}

// Objective is the linear objective of the model. It minimizes by default.
type Objective struct {
	ls       *LinearSolver
	terms    termList
	offset   float64
	maximize bool
}

// SetCoefficient sets the coefficient on a variable in the objective.
func (o *Objective) SetCoefficient(v *Variable, coeff float64) {
	if o.ls.checkSameModelAndSetErrorf(v, "invalid variable added to the objective") != nil {
		return
	}
	o.terms.set(v, coeff)
}

// Coefficient gets the coefficient on a variable in the objective.
func (o *Objective) Coefficient(v *Variable) float64 {
	return o.terms.get(v)
}

// Terms returns the non-zero terms of the objective in insertion order.
func (o *Objective) Terms() []Term {
	return o.terms.terms()
}

// SetOffset sets the constant term of the objective.
func (o *Objective) SetOffset(offset float64) {
	o.offset = offset
}

// Offset returns the constant term of the objective.
func (o *Objective) Offset() float64 {
	return o.offset
}

// SetMinimization makes the objective a minimization.
func (o *Objective) SetMinimization() {
	o.maximize = false
}

// SetMaximization makes the objective a maximization.
func (o *Objective) SetMaximization() {
	o.maximize = true
}

// Minimization reports whether the objective is minimized.
func (o *Objective) Minimization() bool {
	return !o.maximize
}

// Maximization reports whether the objective is maximized.
func (o *Objective) Maximization() bool {
	return o.maximize
}

// Clear removes all terms and the offset, and sets the objective back to minimization.
func (o *Objective) Clear() {
	o.terms.clear()
	o.offset = 0
	o.maximize = false
}

// Value returns the objective value of the last solution, or 0 if there is none.
func (o *Objective) Value() float64 {
	if !o.ls.hasSolution() {
		return 0
	}
	return o.ls.solution.ObjectiveValue
}
