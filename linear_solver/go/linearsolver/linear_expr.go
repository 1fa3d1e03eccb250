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
	log "github.com/golang/glog"
)

// LinearArgument provides an interface for Variable and LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c float64)
}

// LinearExpr is a container for a linear expression.
type LinearExpr struct {
	varCoeffs []varCoeff
	offset    float64
}

type varCoeff struct {
	v     *Variable
	coeff float64
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// NewConstant creates and returns a LinearExpr containing the constant `c`.
func NewConstant(c float64) *LinearExpr {
	return &LinearExpr{offset: c}
}

// Add adds the linear argument term to the LinearExpr and returns itself.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	l.AddTerm(la, 1)
	return l
}

// AddConstant adds the constant to the LinearExpr and returns itself.
func (l *LinearExpr) AddConstant(c float64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds the linear argument term with the given coefficient to the LinearExpr and returns itself.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff float64) *LinearExpr {
	la.addToLinearExpr(l, coeff)
	return l
}

// AddSum adds the sum of the linear arguments to the LinearExpr and returns itself.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.Add(la)
	}
	return l
}

// AddWeightedSum adds the linear arguments with the corresponding coefficients to the LinearExpr
// and returns itself.
func (l *LinearExpr) AddWeightedSum(las []LinearArgument, coeffs []float64) *LinearExpr {
	if len(coeffs) != len(las) {
		log.Fatalf("las and coeffs must be the same length: %v != %v", len(las), len(coeffs))
	}
	for i, la := range las {
		l.AddTerm(la, coeffs[i])
	}
	return l
}

// Offset returns the constant part of the expression.
func (l *LinearExpr) Offset() float64 {
	return l.offset
}

// Terms returns the terms of the expression with the coefficients of repeated variables
// summed. Terms are returned in order of first appearance and zero coefficients are dropped.
func (l *LinearExpr) Terms() []Term {
	pos := make(map[*Variable]int)
	var terms []Term
	for _, vc := range l.varCoeffs {
		if i, ok := pos[vc.v]; ok {
			terms[i].Coefficient += vc.coeff
			continue
		}
		pos[vc.v] = len(terms)
		terms = append(terms, Term{Variable: vc.v, Coefficient: vc.coeff})
	}
	kept := terms[:0]
	for _, t := range terms {
		if t.Coefficient != 0 {
			kept = append(kept, t)
		}
	}
	return kept
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c float64) {
	for _, vc := range l.varCoeffs {
		e.varCoeffs = append(e.varCoeffs, varCoeff{v: vc.v, coeff: vc.coeff * c})
	}
	e.offset += l.offset * c
}

// SolutionValue evaluates the expression against the last solution of the solver owning its
// variables. An expression without variables evaluates to its offset.
func (l *LinearExpr) SolutionValue() float64 {
	result := l.offset
	for _, vc := range l.varCoeffs {
		result += vc.v.SolutionValue() * vc.coeff
	}
	return result
}

// Term is a variable with its coefficient in a row or in the objective.
type Term struct {
	Variable    *Variable
	Coefficient float64
}

// termList keeps coefficients keyed by variable index, in insertion order.
type termList struct {
	coeffs map[int]float64
	order  []*Variable
}

func (tl *termList) set(v *Variable, coeff float64) {
	if tl.coeffs == nil {
		tl.coeffs = make(map[int]float64)
	}
	if _, ok := tl.coeffs[v.index]; !ok {
		tl.order = append(tl.order, v)
	}
	tl.coeffs[v.index] = coeff
}

func (tl *termList) get(v *Variable) float64 {
	return tl.coeffs[v.index]
}

func (tl *termList) terms() []Term {
	var terms []Term
	for _, v := range tl.order {
		if c := tl.coeffs[v.index]; c != 0 {
			terms = append(terms, Term{Variable: v, Coefficient: c})
		}
	}
	return terms
}

func (tl *termList) clear() {
	tl.coeffs = nil
	tl.order = nil
}
