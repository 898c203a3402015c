package gtv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pa-m/gtv/gtv"
)

// The scenarios below are the end-to-end cases from the specification's
// testable-properties section: concrete instances with a known optimum.

func TestScenarioTrivialFusedLasso(t *testing.T) {
	input := gtv.NewLPLQInputData(3, 2, 1)
	input.CDev = []float64{1, 1, 1}
	input.ADev = []float64{0, 10, 0}
	input.CSep = []float64{100, 100}
	input.LB, input.UB = -20, 20

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	want := 10.0 / 3.0
	for i, x := range output.X {
		require.InDeltaf(t, want, x, 1e-6, "x[%d]", i)
	}
}

func TestScenarioL1L1MedianLike(t *testing.T) {
	// cSep must be at least 2 for every coordinate to fuse at the anchors'
	// median 0; with a smaller weight (e.g. 0.5) the optimum is x = aDev.
	input := gtv.NewLPLQInputData(5, 1, 1)
	input.CDev = []float64{1, 1, 1, 1, 1}
	input.ADev = []float64{-2, -1, 0, 1, 2}
	input.CSep = []float64{2.5, 2.5, 2.5, 2.5}
	input.LB, input.UB = -5, 5

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	for i, x := range output.X {
		require.InDeltaf(t, 0, x, 1e-4, "x[%d]", i)
	}
}

func TestScenarioPiecewiseLinearDegenerate(t *testing.T) {
	// One degree-1 piecewise deviation function with two breakpoints:
	// slope -1 for x < -5, slope +1 for -5 <= x < 5, slope +3 for x >= 5.
	// The right sub-gradient turns non-negative exactly at the breakpoint
	// -5, so that is the minimiser.
	input := gtv.NewPiecewiseInputData(1, 1, []int{2}, []float64{-1, -5, 1, 5, 3})
	input.LB, input.UB = -20, 20

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	require.InDelta(t, -5, output.X[0], 1e-6)
}

func TestScenarioLinearL2ClosedForm(t *testing.T) {
	// cDev sums to zero, so FastLinearL2 applies. The expected trajectory
	// follows directly from the closed form x[i+1] = x[i] + sum_{k<=i}
	// cDev[k] (spec section 6's round-trip property), not from re-deriving
	// each step from the raw cDev value alone.
	input := gtv.NewLPLQInputData(4, 1, 2)
	input.CDev = []float64{1, -2, 3, -2}

	output := gtv.NewOutputData(input)
	gtv.FastLinearL2(input, output)

	want := []float64{0, 1, 0, 2}
	for i, x := range output.X {
		require.InDeltaf(t, want[i], x, 1e-9, "x[%d]", i)
	}
	prefixSum := 0.0
	for i := 0; i < input.N-1; i++ {
		prefixSum += input.CDev[i]
		require.InDeltaf(t, prefixSum, output.X[i+1]-output.X[i], 1e-9, "increment at %d", i)
	}
}

func TestScenarioHuberSmoothing(t *testing.T) {
	input := gtv.NewTypedInputData(3, 2, 2, gtv.LP, gtv.HuberS)
	input.CDev = []float64{1, 1, 1}
	input.ADev = []float64{0, 100, 0}
	input.CSep = []float64{1, 1}
	input.HuberS = []float64{1, 1}

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	for i := 0; i < input.N; i++ {
		require.GreaterOrEqual(t, output.X[i], input.LB)
		require.LessOrEqual(t, output.X[i], input.UB)
	}
	for i := 0; i < input.N-1; i++ {
		require.LessOrEqualf(t, math.Abs(output.X[i]-output.X[i+1]), 1.0+1e-6,
			"kink separation at edge %d", i)
	}
}

func TestScenarioCondatWorstCase(t *testing.T) {
	n := 10
	alpha := 4.0 / float64((n-2)*(n-3))

	build := func() *gtv.InputData {
		input := gtv.NewLPLQInputData(n, 2, 1)
		for i := range input.CDev {
			input.CDev[i] = 1
		}
		for i := range input.CSep {
			input.CSep[i] = 1
		}
		input.ADev[0] = -2
		for i := 2; i <= n-1; i++ {
			input.ADev[i-1] = alpha * float64(i-2)
		}
		input.ADev[n-1] = alpha*float64(n-3) + 2
		return input
	}

	genericInput := build()
	genericOutput := gtv.NewOutputData(genericInput)
	gtv.Solve(genericInput, genericOutput, nil)

	fastInput := build()
	fastOutput := gtv.NewOutputData(fastInput)
	gtv.FastL2L1(fastInput, fastOutput)

	for i := 0; i < n; i++ {
		require.InDeltaf(t, genericOutput.X[i], fastOutput.X[i], 1e-5, "x[%d]", i)
	}
}
