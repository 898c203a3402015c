// adapted from gonum.org/v1/gonum/optimize's CmaEsChol, with Xmin/Xmax box
// constraints folded into the sample draw and the centroid update.
//
// Copyright ©2017 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
/* BSD license for code copied from gonum/optimize/cmaes.go (all except
clampToBounds, drawSample, NewCmaEsCholB)
Copyright ©2013 The Gonum Authors. All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:
    * Redistributions of source code must retain the above copyright
      notice, this list of conditions and the following disclaimer.
    * Redistributions in binary form must reproduce the above copyright
      notice, this list of conditions and the following disclaimer in the
      documentation and/or other materials provided with the distribution.
    * Neither the name of the gonum project nor the names of its authors and
      contributors may be used to endorse or promote products derived from this
      software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND
ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED
WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/

package baseline

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/pa-m/gtv/gtv"
)

// CmaEsCholB is a box-constrained covariance-matrix-adaptation evolution
// strategy. It cross-checks gtv.Solve with a population-based global search
// on the same chain: every coordinate is bounded to [Xmin[i], Xmax[i]] and
// the population minimizes Objective(input).
//
// It implements gonum's optimize.Method so it can be driven through
// optimize.Minimize the same way a gradient-based method would be; the box
// constraint, applied in drawSample/clampToBounds, is the only departure
// from a vanilla CMA-ES-with-Cholesky implementation.
type CmaEsCholB struct {
	// InitStepSize sets the initial size of the covariance matrix adaptation.
	// If zero, a default of 0.3 is used. Must not be negative.
	InitStepSize float64
	// Population sets the population size. If zero, a default of
	// 4 + floor(3*log(dim)) is used. Must not be negative.
	Population int
	// Src allows a random number generator to be supplied for generating
	// samples. If nil, the default source from golang.org/x/exp/rand is used.
	Src rand.Source

	// Xmin, Xmax bound every coordinate of the search.
	Xmin, Xmax []float64

	nDim, popSize                                 int
	eliteW                                        []float64
	muEff                                          float64
	pathDecay, stepDecay, rank1, rankMu, stepDamp float64
	expChiN                                        float64

	samples *mat.Dense
	sampleF []float64

	sigmaInv                     float64
	evoPathC, evoPathS, centroid []float64
	covChol                      mat.Cholesky

	eliteX []float64
	eliteF float64

	dispatched, completed int
	opChan                chan<- optimize.Task
	runErr                error
}

// NewCmaEsCholB returns a CmaEsCholB with Xmin/Xmax set to input's box
// bounds on every coordinate, ready to minimize Objective(input) through
// optimize.Minimize.
func NewCmaEsCholB(input *gtv.InputData) *CmaEsCholB {
	cma := &CmaEsCholB{Xmin: make([]float64, input.N), Xmax: make([]float64, input.N)}
	for i := range cma.Xmin {
		cma.Xmin[i], cma.Xmax[i] = input.LB, input.UB
	}
	return cma
}

var (
	_ optimize.Statuser = (*CmaEsCholB)(nil)
	_ optimize.Method   = (*CmaEsCholB)(nil)
)

// Needs reports that CmaEsCholB requires neither gradient nor Hessian.
func (cma *CmaEsCholB) Needs() struct{ Gradient, Hessian bool } {
	return struct{ Gradient, Hessian bool }{}
}

// Uses implements optimize.Method.
func (cma *CmaEsCholB) Uses(has optimize.Available) (optimize.Available, error) {
	return optimize.Available{}, nil
}

// logDetFloor is the covariance log-determinant below which the sampling
// ellipsoid is considered too collapsed to keep iterating.
func (cma *CmaEsCholB) logDetFloor() float64 {
	return float64(cma.nDim) * math.Log(1e-16)
}

func (cma *CmaEsCholB) converged() optimize.Status {
	if cma.covChol.LogDet() < cma.logDetFloor() {
		return optimize.MethodConverge
	}
	return optimize.NotTerminated
}

// Status implements optimize.Statuser.
func (cma *CmaEsCholB) Status() (optimize.Status, error) {
	if cma.runErr != nil {
		return optimize.Failure, cma.runErr
	}
	return cma.converged(), nil
}

// eliteWeights returns the log-decreasing recombination weights for the
// top mu samples, normalized to sum to 1, plus their effective number
// muEff = 1/sum(w^2).
func eliteWeights(mu int) (w []float64, muEff float64) {
	w = make([]float64, mu)
	for i := range w {
		w[i] = math.Log(float64(mu)+0.5) - math.Log(float64(i)+1)
	}
	floats.Scale(1/floats.Sum(w), w)
	sumSq := 0.0
	for _, wi := range w {
		sumSq += wi * wi
	}
	return w, 1 / sumSq
}

// adaptationRates derives the CMA-ES path-decay, step-decay and
// covariance-update learning rates from the dimension and the effective
// selection mass. Parameter values are from https://arxiv.org/pdf/1604.00772.pdf.
func adaptationRates(n, muEff float64) (pathDecay, stepDecay, rank1, rankMu, stepDamp float64) {
	pathDecay = (4 + muEff/n) / (n + 4 + 2*muEff/n)
	stepDecay = (muEff + 2) / (n + muEff + 5)
	rank1 = 2 / ((n+1.3)*(n+1.3) + muEff)
	rankMu = math.Min(1-rank1, 2*(muEff-2+1/muEff)/((n+2)*(n+2)+muEff))
	stepDamp = 1 + 2*math.Max(0, math.Sqrt((muEff-1)/(n+1))-1) + stepDecay
	return pathDecay, stepDecay, rank1, rankMu, stepDamp
}

// Init implements optimize.Method.
func (cma *CmaEsCholB) Init(dim, tasks int) int {
	if dim <= 0 {
		panic(nonpositiveDimension)
	}
	if tasks < 0 {
		panic(negativeTasks)
	}

	cma.nDim = dim
	n := float64(dim)
	cma.popSize = cma.Population
	switch {
	case cma.popSize < 0:
		panic("cma-es-chol: negative population size")
	case cma.popSize == 0:
		cma.popSize = 4 + int(3*math.Log(n)) // implicit floor
	}
	mu := cma.popSize / 2
	cma.eliteW, cma.muEff = eliteWeights(mu)
	cma.pathDecay, cma.stepDecay, cma.rank1, cma.rankMu, cma.stepDamp = adaptationRates(n, cma.muEff)
	// E[chi] is taken from https://en.wikipedia.org/wiki/CMA-ES (listed
	// there as E[||N(0,1)||]).
	cma.expChiN = math.Sqrt(n) * (1 - 1.0/(4*n) + 1/(21*n*n))

	cma.samples = mat.NewDense(cma.popSize, dim, nil)
	cma.sampleF = resize(cma.sampleF, cma.popSize)

	switch {
	case cma.InitStepSize < 0:
		panic("cma-es-chol: negative initial step size")
	case cma.InitStepSize == 0:
		cma.sigmaInv = 10.0 / 3
	default:
		cma.sigmaInv = 1 / cma.InitStepSize
	}
	cma.evoPathC = resize(cma.evoPathC, dim)
	cma.evoPathS = resize(cma.evoPathS, dim)
	for i := range cma.evoPathC {
		cma.evoPathC[i], cma.evoPathS[i] = 0, 0
	}
	cma.centroid = resize(cma.centroid, dim) // set at the start of Run

	id := mat.NewDiagDense(dim, nil)
	for i := 0; i < dim; i++ {
		id.SetDiag(i, 1)
	}
	if ok := cma.covChol.Factorize(id); !ok {
		panic("cma-es-chol: bad cholesky, shouldn't happen")
	}

	cma.eliteX = resize(cma.eliteX, dim)
	cma.eliteF = math.Inf(1)

	cma.dispatched, cma.completed = 0, 0
	cma.opChan = nil
	cma.runErr = nil
	return min(tasks, cma.popSize)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// clampToBounds pulls x inside [cma.Xmin, cma.Xmax] coordinate-wise. Each
// out-of-range coordinate is clamped directly to its bound, unless more
// than half the vector is already pinned to a bound — in that case every
// violating coordinate is instead walked halfway toward the centroid until
// it falls inside, so the population can't collapse onto a single corner
// when the optimum sits on a boundary.
func (cma *CmaEsCholB) clampToBounds(x []float64) {
	pinned := 0
	for i, v := range x {
		if (i < len(cma.Xmin) && v <= cma.Xmin[i]) || (i < len(cma.Xmax) && v >= cma.Xmax[i]) {
			pinned++
		}
	}
	pullToCentroid := 2*pinned > len(x)
	for i := range x {
		switch {
		case i < len(cma.Xmin) && x[i] < cma.Xmin[i]:
			if pullToCentroid {
				for x[i] < cma.Xmin[i] {
					x[i] = (x[i] + cma.centroid[i]) / 2
				}
			} else {
				x[i] = cma.Xmin[i]
			}
		case i < len(cma.Xmax) && x[i] > cma.Xmax[i]:
			if pullToCentroid {
				for x[i] > cma.Xmax[i] {
					x[i] = (x[i] + cma.centroid[i]) / 2
				}
			} else {
				x[i] = cma.Xmax[i]
			}
		}
	}
}

// drawSample fills row idx of the population from the current search
// distribution, clamps it into bounds, and dispatches it as a function
// evaluation task. It does not update dispatched/completed.
func (cma *CmaEsCholB) drawSample(idx int, task optimize.Task) {
	task.ID = idx
	task.Op = optimize.FuncEvaluation
	row := cma.samples.RawRowView(idx)
	distmv.NormalRand(row, cma.centroid, &cma.covChol, cma.Src)
	cma.clampToBounds(row)
	copy(task.X, row)
	cma.opChan <- task
}

func (cma *CmaEsCholB) dispatchGeneration(tasks []optimize.Task) {
	for i, task := range tasks {
		cma.drawSample(i, task)
	}
	cma.dispatched = len(tasks)
}

// bestIndex returns the index of the lowest non-NaN sample value, or -1 if
// every sample is NaN.
func (cma *CmaEsCholB) bestIndex() int {
	best, bestVal := -1, math.Inf(1)
	for i, v := range cma.sampleF {
		if math.IsNaN(v) {
			continue
		}
		if v <= bestVal {
			best, bestVal = i, v
		}
	}
	return best
}

// recordElite updates the best-ever sample if this generation improved on
// it, and stamps the running elite into task.
func (cma *CmaEsCholB) recordElite(task optimize.Task) optimize.Task {
	if best := cma.bestIndex(); best != -1 && cma.sampleF[best] < cma.eliteF {
		cma.eliteF = cma.sampleF[best]
		copy(cma.eliteX, cma.samples.RawRowView(best))
	}
	task.F = cma.eliteF
	copy(task.X, cma.eliteX)
	return task
}

// Run implements optimize.Method.
func (cma *CmaEsCholB) Run(operations chan<- optimize.Task, results <-chan optimize.Task, tasks []optimize.Task) {
	copy(cma.centroid, tasks[0].X)
	cma.opChan = operations
	cma.dispatchGeneration(tasks)

Loop:
	for {
		result := <-results
		switch result.Op {
		case optimize.PostIteration:
			break Loop
		case optimize.MajorIteration:
			// All tasks were updated and the major iteration sent; start
			// dispatching the next generation.
			cma.dispatchGeneration(tasks)
		case optimize.FuncEvaluation:
			cma.completed++
			cma.sampleF[result.ID] = result.F
			switch {
			case cma.dispatched < cma.popSize:
				cma.drawSample(cma.dispatched, result)
				cma.dispatched++
			case cma.completed < cma.popSize:
				continue Loop
			default:
				cma.completed, cma.dispatched = 0, 0
				task := cma.recordElite(result)
				err := cma.update()
				for i := range cma.sampleF {
					cma.sampleF[i] = math.NaN()
					cma.samples.Set(i, 0, math.NaN())
				}
				switch {
				case err != nil:
					cma.runErr = err
					task.Op = optimize.MethodDone
				case cma.converged() != optimize.NotTerminated:
					task.Op = optimize.MethodDone
				default:
					task.Op = optimize.MajorIteration
					task.ID = -1
				}
				operations <- task
			}
		default:
			panic("baseline: unknown operation")
		}
	}

	// Told to stop: drain any in-flight evaluations before reporting.
	for task := range results {
		switch task.Op {
		case optimize.FuncEvaluation:
			cma.sampleF[task.ID] = task.F
		case optimize.MajorIteration:
		default:
			panic("baseline: unknown operation")
		}
	}
	if best := cma.bestIndex(); best != -1 && cma.sampleF[best] < cma.eliteF {
		task := tasks[0]
		task.F = cma.sampleF[best]
		copy(task.X, cma.samples.RawRowView(best))
		task.Op = optimize.MajorIteration
		task.ID = -1
		operations <- task
	}
	close(operations)
}

type bySampleValue struct {
	f   []float64
	idx []int
}

func (b bySampleValue) Len() int { return len(b.f) }
func (b bySampleValue) Less(i, j int) bool {
	return b.f[i] < b.f[j]
}
func (b bySampleValue) Swap(i, j int) {
	b.f[i], b.f[j] = b.f[j], b.f[i]
	b.idx[i], b.idx[j] = b.idx[j], b.idx[i]
}

// rankedElites returns the population indices sorted by ascending sample
// value, without disturbing cma.sampleF.
func (cma *CmaEsCholB) rankedElites() []int {
	f := make([]float64, len(cma.sampleF))
	copy(f, cma.sampleF)
	idx := make([]int, len(f))
	for i := range idx {
		idx[i] = i
	}
	sort.Sort(bySampleValue{f: f, idx: idx})
	return idx
}

// updateCentroid recombines the elite samples into a new centroid, clamps
// it back into bounds, and returns the step taken from the previous
// centroid.
func (cma *CmaEsCholB) updateCentroid(ranked []int) []float64 {
	prev := make([]float64, len(cma.centroid))
	copy(prev, cma.centroid)
	for i := range cma.centroid {
		cma.centroid[i] = 0
	}
	for i, w := range cma.eliteW {
		floats.AddScaled(cma.centroid, w, cma.samples.RawRowView(ranked[i]))
	}
	cma.clampToBounds(cma.centroid)
	step := make([]float64, len(cma.centroid))
	floats.SubTo(step, cma.centroid, prev)
	return step
}

// updateEvolutionPaths advances the isotropic (evoPathS) and anisotropic
// (evoPathC) evolution paths from the centroid step.
func (cma *CmaEsCholB) updateEvolutionPaths(step []float64) error {
	floats.Scale(1-cma.pathDecay, cma.evoPathC)
	floats.AddScaled(cma.evoPathC, math.Sqrt(cma.pathDecay*(2-cma.pathDecay)*cma.muEff)*cma.sigmaInv, step)

	floats.Scale(1-cma.stepDecay, cma.evoPathS)
	whitened := make([]float64, cma.nDim)
	whitenedVec := mat.NewVecDense(cma.nDim, whitened)
	stepVec := mat.NewVecDense(cma.nDim, step)
	if err := whitenedVec.SolveVec(cma.covChol.RawU().T(), stepVec); err != nil {
		return err
	}
	floats.AddScaled(cma.evoPathS, math.Sqrt(cma.stepDecay*(2-cma.stepDecay)*cma.muEff)*cma.sigmaInv, whitened)
	return nil
}

// updateCovariance folds the rank-one and rank-mu updates into the
// Cholesky factor of the search covariance.
func (cma *CmaEsCholB) updateCovariance(ranked []int, centroidBefore []float64) {
	decay := 1 - cma.rank1 - cma.rankMu
	if decay == 0 {
		decay = math.SmallestNonzeroFloat64 // kill the old data without zeroing it out
	}
	cma.covChol.Scale(decay, &cma.covChol)
	cma.covChol.SymRankOne(&cma.covChol, cma.rank1, mat.NewVecDense(cma.nDim, cma.evoPathC))

	diff := make([]float64, cma.nDim)
	diffVec := mat.NewVecDense(cma.nDim, diff)
	for i, w := range cma.eliteW {
		floats.SubTo(diff, cma.samples.RawRowView(ranked[i]), centroidBefore)
		cma.covChol.SymRankOne(&cma.covChol, cma.rankMu*w*cma.sigmaInv, diffVec)
	}
}

// updateStepSize rescales the global step length by comparing the
// isotropic path's length to its expectation under random selection.
func (cma *CmaEsCholB) updateStepSize() {
	pathLen := floats.Norm(cma.evoPathS, 2)
	cma.sigmaInv /= math.Exp(cma.stepDecay / cma.stepDamp * (pathLen/cma.expChiN - 1))
}

// update recomputes the centroid, evolution paths, covariance and step
// size from the evaluated generation. It does not touch dispatch/complete
// bookkeeping.
func (cma *CmaEsCholB) update() error {
	ranked := cma.rankedElites()
	centroidBefore := make([]float64, len(cma.centroid))
	copy(centroidBefore, cma.centroid)

	step := cma.updateCentroid(ranked)
	if err := cma.updateEvolutionPaths(step); err != nil {
		return err
	}
	cma.updateCovariance(ranked, centroidBefore)
	cma.updateStepSize()
	return nil
}
