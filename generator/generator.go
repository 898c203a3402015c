// Package generator builds synthetic gtv.InputData instances for algorithm
// comparison and benchmarking, mirroring the data generators used to drive
// the KKT solver's published comparison profiles.
package generator

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pa-m/gtv/gtv"
)

// Kind names a synthetic data family, mirroring GEN_DATA_TYPE from the
// original comparison profiles.
type Kind int

const (
	// PWL1 generates a random piecewise-linear deviation / L1 separation instance.
	PWL1 Kind = iota
	// PWL2 generates a random piecewise-quadratic deviation / L1 separation instance.
	PWL2
	// LPLQ generates a random LP-LQ instance with uniformly sampled scales.
	LPLQ
	// MPONarrowWindowInputSize sweeps n with a fixed narrow separation weight.
	MPONarrowWindowInputSize
	// MPONarrowWindowLambda sweeps the separation weight at fixed n.
	MPONarrowWindowLambda
	// MPOWideWindowInputSize sweeps n with a wide, resampled separation weight.
	MPOWideWindowInputSize
	// MPOWideWindowLambda sweeps the separation weight, resampled around lambda.
	MPOWideWindowLambda
	// CondatWorstCase builds Condat's adversarial fused-lasso instance.
	CondatWorstCase
	// Huber generates a random Huber deviation/separation instance.
	Huber
)

// String names the generator family, mirroring the original toString.
func (k Kind) String() string {
	switch k {
	case PWL1:
		return "KKT-PWL1"
	case PWL2:
		return "KKT-PWL2"
	case LPLQ:
		return "KKT-LP-LQ"
	case MPONarrowWindowInputSize:
		return "MPO-NW-INPUT-SIZE"
	case MPONarrowWindowLambda:
		return "MPO-NW-LAMBDA"
	case MPOWideWindowInputSize:
		return "MPO-W-INPUT-SIZE"
	case MPOWideWindowLambda:
		return "MPO-W-LAMBDA"
	case CondatWorstCase:
		return "CONDAT-WORST-CASE"
	case Huber:
		return "KKT-HUBER"
	default:
		return ""
	}
}

// Tuning hyperparameters for the piecewise generator, mirroring the
// PW_* constants of the original data generator.
const (
	pwBkpUnifLeft  = -15.0
	pwBkpUnifRight = -1.0
	pwDeg2UnifLeft = 0.5
	pwDeg2UnifRight = 5.0
	pwDeg1UnifLeft  = -50.0
	pwDeg1UnifRight = -25.0
	pwIncUnifLeft   = 0.1
	pwIncUnifRight  = 2.0

	pwBkpNumUnifLeft  = 100
	pwBkpNumUnifRight = 200

	lplqADevUnifLeft  = -1.0
	lplqADevUnifRight = 1.0
	lplqCDevUnifLeft  = 0.0
	lplqCDevUnifRight = 1.0
	lplqCSepUnifLeft  = 0.0
	lplqCSepUnifRight = 1.0
)

// Generator wraps an injectable random source so callers can reproduce a
// data set deterministically, the same pattern CmaEsCholB.Src uses.
type Generator struct {
	Src rand.Source
}

// New returns a Generator. If src is nil, a source seeded with 1 is used.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(1)
	}
	return &Generator{Src: src}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: g.Src}.Rand()
}

func (g *Generator) uniformInt(lo, hi int) int {
	return lo + int(distuv.Uniform{Min: 0, Max: float64(hi - lo + 1), Src: g.Src}.Rand())
}

// BkpNums returns n random breakpoint counts, uniform in
// [pwBkpNumUnifLeft, pwBkpNumUnifRight].
func (g *Generator) BkpNums(n int) []int {
	bkpNums := make([]int, n)
	for i := range bkpNums {
		bkpNums[i] = g.uniformInt(pwBkpNumUnifLeft, pwBkpNumUnifRight)
	}
	return bkpNums
}

// FixedBkpNums returns n copies of bkpNum.
func FixedBkpNums(n, bkpNum int) []int {
	bkpNums := make([]int, n)
	for i := range bkpNums {
		bkpNums[i] = bkpNum
	}
	return bkpNums
}

// RangedBkpNums returns n random breakpoint counts uniform in [lb, ub].
func (g *Generator) RangedBkpNums(n, lb, ub int) []int {
	bkpNums := make([]int, n)
	for i := range bkpNums {
		bkpNums[i] = g.uniformInt(lb, ub)
	}
	return bkpNums
}

// PiecewiseFuncs generates the flat PW coefficient buffer for n convex
// piecewise functions of degree pwDeg (1 or 2), one per bkpNums[i]
// breakpoints. Convexity is enforced by construction: sub-gradients (and,
// for degree 2, quadratic coefficients) only ever increase across
// breakpoints.
func (g *Generator) PiecewiseFuncs(n, pwDeg int, bkpNums []int) []float64 {
	total := 0
	for _, k := range bkpNums {
		total += k
	}
	pw := make([]float64, (pwDeg+1)*total+pwDeg*n)
	idx := 0
	if pwDeg == 2 {
		for i := 0; i < n; i++ {
			a := g.uniform(pwDeg2UnifLeft, pwDeg2UnifRight)
			pw[idx] = a
			b := g.uniform(pwDeg1UnifLeft, pwDeg1UnifRight)
			pw[idx+1] = b
			lambda := g.uniform(pwBkpUnifLeft, pwBkpUnifRight)
			for j := 0; j < bkpNums[i]; j++ {
				pw[idx+2+3*j] = lambda
				lGradient := a*lambda - b
				inc := g.uniform(pwIncUnifLeft, pwIncUnifRight)
				rGradient := lGradient + inc
				inc = g.uniform(pwIncUnifLeft, pwIncUnifRight)
				a += inc
				b = a*lambda - rGradient
				pw[idx+2+3*j+1] = a
				pw[idx+2+3*j+2] = b
				inc = g.uniform(pwIncUnifLeft, pwIncUnifRight)
				lambda += inc
			}
			idx += 3*bkpNums[i] + 2
		}
	} else {
		for i := 0; i < n; i++ {
			b := g.uniform(pwDeg1UnifLeft, pwDeg1UnifRight)
			pw[idx] = b
			lambda := g.uniform(pwBkpUnifLeft, pwBkpUnifRight)
			for j := 0; j < bkpNums[i]; j++ {
				pw[idx+1+2*j] = lambda
				inc := g.uniform(pwIncUnifLeft, pwIncUnifRight)
				b += inc
				if j >= bkpNums[i]/2 && b <= 0 {
					b = 1
				}
				pw[idx+1+2*j+1] = b
				inc = g.uniform(pwIncUnifLeft, pwIncUnifRight)
				lambda += inc
			}
			idx += 2*bkpNums[i] + 1
		}
	}
	return pw
}

// FillSeparation fills input.CSep. If lambda >= 0 and !withSample, every
// weight is exactly lambda; if withSample, weights are resampled uniformly
// in [0.5*lambda, 1.5*lambda]; if lambda < 0, weights are drawn
// independently from the default separation range.
func (g *Generator) FillSeparation(input *gtv.InputData, lambda float64, withSample bool) {
	n := input.N
	switch {
	case lambda >= 0 && !withSample:
		for i := 0; i < n-1; i++ {
			input.CSep[i] = lambda
		}
	case lambda >= 0 && withSample:
		for i := 0; i < n-1; i++ {
			input.CSep[i] = g.uniform(0.5*lambda, 1.5*lambda)
		}
	default:
		for i := 0; i < n-1; i++ {
			input.CSep[i] = g.uniform(lplqCSepUnifLeft, lplqCSepUnifRight)
		}
	}
}

func (g *Generator) fillLpLq(input *gtv.InputData, cDevOne bool) {
	for i := 0; i < input.N; i++ {
		input.ADev[i] = g.uniform(lplqADevUnifLeft, lplqADevUnifRight)
		if cDevOne {
			input.CDev[i] = 1
		} else {
			input.CDev[i] = g.uniform(lplqCDevUnifLeft, lplqCDevUnifRight)
		}
	}
}

// LPLQ returns a random p/q instance of size n with independently sampled
// anchors and separation weights. Deviation scales are all 1 when cDevOne
// is set, and sampled otherwise.
func (g *Generator) LPLQ(n, p, q int, cDevOne bool) *gtv.InputData {
	input := gtv.NewLPLQInputData(n, p, q)
	g.fillLpLq(input, cDevOne)
	for i := 0; i < n-1; i++ {
		input.CSep[i] = g.uniform(lplqCSepUnifLeft, lplqCSepUnifRight)
	}
	return input
}

// Piecewise returns a random PiecewiseLP instance of size n and degree
// pwDeg, with bkpNums breakpoints per coordinate and separation weight
// derived from lambda the same way FillSeparation does.
func (g *Generator) Piecewise(n, pwDeg int, bkpNums []int, lambda float64, withSample bool) *gtv.InputData {
	pw := g.PiecewiseFuncs(n, pwDeg, bkpNums)
	input := gtv.NewPiecewiseInputData(n, pwDeg, bkpNums, pw)
	g.FillSeparation(input, lambda, withSample)
	return input
}

// MPONarrowWindowBySize mirrors MPO_NW_INPUT_SIZE: a fresh separation
// weight is drawn once, and the deviation anchors are scaled by it.
func (g *Generator) MPONarrowWindowBySize(n int) (input *gtv.InputData, lambda float64) {
	input = gtv.NewLPLQInputData(n, 2, 1)
	lambda = g.uniform(0, 50)
	for i := 0; i < n; i++ {
		input.CDev[i] = 1
		input.ADev[i] = g.uniform(-2*lambda, 2*lambda)
	}
	for i := 0; i < n-1; i++ {
		input.CSep[i] = lambda
	}
	return input, lambda
}

// MPONarrowWindowByLambda mirrors MPO_NW_LAMBDA: lambda is fixed by the
// caller and anchors are drawn from a fixed range.
func (g *Generator) MPONarrowWindowByLambda(n int, lambda float64) *gtv.InputData {
	if lambda <= 0 {
		panic("generator: lambda must be > 0")
	}
	input := gtv.NewLPLQInputData(n, 2, 1)
	for i := 0; i < n; i++ {
		input.CDev[i] = 1
		input.ADev[i] = g.uniform(-2, 2)
	}
	for i := 0; i < n-1; i++ {
		input.CSep[i] = lambda
	}
	return input
}

// MPOWideWindowBySize mirrors MPO_W_INPUT_SIZE: separation weights are
// drawn independently, and the deviation anchors are scaled by their mean.
func (g *Generator) MPOWideWindowBySize(n int) (input *gtv.InputData, meanLambda float64) {
	input = gtv.NewLPLQInputData(n, 2, 1)
	sum := 0.0
	for i := 0; i < n-1; i++ {
		input.CSep[i] = g.uniform(0, 100)
		sum += input.CSep[i]
	}
	meanLambda = sum / float64(n-1)
	for i := 0; i < n; i++ {
		input.CDev[i] = 1
		input.ADev[i] = g.uniform(-2*meanLambda, 2*meanLambda)
	}
	return input, meanLambda
}

// MPOWideWindowByLambda mirrors MPO_W_LAMBDA: separation weights are
// resampled around a fixed lambda.
func (g *Generator) MPOWideWindowByLambda(n int, lambda float64) *gtv.InputData {
	if lambda <= 0 {
		panic("generator: lambda must be > 0")
	}
	input := gtv.NewLPLQInputData(n, 2, 1)
	for i := 0; i < n; i++ {
		input.CDev[i] = 1
		input.ADev[i] = g.uniform(-2, 2)
	}
	for i := 0; i < n-1; i++ {
		input.CSep[i] = g.uniform(0.5*lambda, 1.5*lambda)
	}
	return input
}

// CondatWorstCase builds the adversarial fused-lasso instance from
// Condat's fast total variation paper: a slow staircase of anchors
// designed to defeat naive taut-string implementations.
func CondatWorstCase(n int) *gtv.InputData {
	if n <= 3 {
		panic("generator: CondatWorstCase requires n > 3")
	}
	input := gtv.NewLPLQInputData(n, 2, 1)
	alpha := 4.0 / float64((n-2)*(n-3))
	for i := 0; i < n; i++ {
		input.CDev[i] = 1
	}
	for i := 0; i < n-1; i++ {
		input.CSep[i] = 1
	}
	input.ADev[0] = -2
	for i := 2; i <= n-1; i++ {
		input.ADev[i-1] = alpha * float64(i-2)
	}
	input.ADev[n-1] = alpha*float64(n-3) + 2
	return input
}

// LinearL2 builds a random p=1,q=2 instance whose CDev sums to zero, the
// precondition FastLinearL2 requires.
func (g *Generator) LinearL2(n int) *gtv.InputData {
	input := gtv.NewLPLQInputData(n, 1, 2)
	sum := 0.0
	for i := 0; i < n-1; i++ {
		input.CDev[i] = g.uniform(-100, 100)
		sum += input.CDev[i]
	}
	input.CDev[n-1] = -sum
	for i := 0; i < n-1; i++ {
		input.CSep[i] = 0.5
	}
	return input
}

// Huber fills in input.HuberD or input.HuberS proportionally to the
// absolute value of baselines, with the ratio drawn uniformly from
// [lRatio, rRatio]. isDev selects which Huber cutoff buffer is filled.
func (g *Generator) Huber(input *gtv.InputData, baselines []float64, isDev bool, lRatio, rRatio float64) {
	if lRatio <= 0 || rRatio <= lRatio {
		panic("generator: Huber requires 0 < lRatio < rRatio")
	}
	if isDev {
		if len(baselines) != input.N {
			panic("generator: len(baselines) must equal input.N for deviation cutoffs")
		}
		for i, b := range baselines {
			input.HuberD[i] = g.uniform(lRatio, rRatio) * math.Abs(b)
		}
		return
	}
	if len(baselines) != input.N-1 {
		panic("generator: len(baselines) must equal input.N-1 for separation cutoffs")
	}
	for i, b := range baselines {
		input.HuberS[i] = g.uniform(lRatio, rRatio) * math.Abs(b)
	}
}
