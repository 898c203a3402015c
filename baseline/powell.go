// Copyright ©2016 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package baseline

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Powell adapts PowellMinimizer to gonum's optimize.Method interface, so a
// gtv objective can be driven through gonum's optimize.Minimize the same
// way CmaEsCholB is.
type Powell struct {
	PM     *PowellMinimizer
	status optimize.Status
	err    error
	bestF  float64
	bestX  []float64
}

// Needs reports that Powell requires neither gradient nor Hessian.
func (g *Powell) Needs() struct{ Gradient, Hessian bool } {
	return struct{ Gradient, Hessian bool }{false, false}
}

// Init implements optimize.Method.
func (g *Powell) Init(dim, tasks int) int {
	if dim <= 0 {
		panic(nonpositiveDimension)
	}
	if tasks < 0 {
		panic(negativeTasks)
	}
	g.bestF = math.Inf(1)
	g.bestX = resize(g.bestX, dim)
	return 1
}

func (g *Powell) updateMajor(operation chan<- optimize.Task, task optimize.Task) {
	if task.F < g.bestF {
		g.bestF = task.F
		copy(g.bestX, task.X)
	}
	task.Op = optimize.MajorIteration
	operation <- task
}

// Run implements optimize.Method by running minimizePowell in a goroutine
// and relaying its function evaluations through the operation/result
// channels gonum's driver expects.
func (g *Powell) Run(operation chan<- optimize.Task, result <-chan optimize.Task, tasks []optimize.Task) {
	if g.PM == nil {
		g.PM = NewPowellMinimizer()
	}
	pm := g.PM

	result1 := make(chan optimize.Task)
	dup := func(x []float64) []float64 {
		r := make([]float64, len(x))
		copy(r, x)
		return r
	}
	initX := tasks[0].Location.X
	go func(id int) {
		defer func() { recover() }()
		_, warnflag := minimizePowell(func(x []float64) (y float64) {
			y = math.NaN()
			defer func() { recover() }()
			operation <- optimize.Task{ID: id, Op: optimize.FuncEvaluation, Location: &optimize.Location{X: dup(x)}}
			task := <-result1
			if task.Location != nil {
				y = task.Location.F
			}
			return
		}, initX, nil, pm.Xtol, pm.Ftol, pm.MaxIter, pm.MaxFev, pm.Logger)
		switch warnflag {
		case 1:
			g.status = optimize.FunctionEvaluationLimit
		case 2:
			g.status = optimize.IterationLimit
		default:
			g.status = optimize.MethodConverge
		}
		defer func() { recover() }()
		operation <- optimize.Task{ID: id, Op: optimize.MethodDone}
	}(0)

Loop:
	for {
		task := <-result
		switch task.Op {
		default:
			panic("baseline: unknown operation")
		case optimize.NoOperation, optimize.PostIteration:
			close(result1)
			break Loop
		case optimize.MajorIteration:
		case optimize.FuncEvaluation:
			result1 <- task
			g.updateMajor(operation, task)
		}
	}

	for task := range result {
		switch task.Op {
		default:
			panic("baseline: unknown operation")
		case optimize.MajorIteration:
		case optimize.FuncEvaluation:
			g.updateMajor(operation, task)
		case optimize.NoOperation:
		}
	}
	close(operation)
}

// Status implements optimize.Method.
func (g *Powell) Status() (optimize.Status, error) {
	return g.status, g.err
}
