package generator_test

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/require"

	"github.com/pa-m/gtv/generator"
	"github.com/pa-m/gtv/gtv"
)

func TestLPLQProducesValidInstance(t *testing.T) {
	g := generator.New(rand.NewSource(42))
	input := g.LPLQ(10, 2, 1, true)
	require.NotPanics(t, func() { input.Validate() })
	for _, c := range input.CDev {
		require.Equal(t, 1.0, c)
	}
	for _, c := range input.CSep {
		require.Greater(t, c, 0.0)
	}
}

func TestPiecewiseProducesValidConvexInstance(t *testing.T) {
	g := generator.New(rand.NewSource(7))
	bkpNums := g.RangedBkpNums(3, 2, 5)
	input := g.Piecewise(3, 1, bkpNums, 0.5, false)
	require.NotPanics(t, func() { input.Validate() })

	output := gtv.NewOutputData(input)
	require.NotPanics(t, func() { gtv.Solve(input, output, nil) })
	for _, x := range output.X {
		require.GreaterOrEqual(t, x, input.LB)
		require.LessOrEqual(t, x, input.UB)
	}
}

func TestLinearL2SumsToZero(t *testing.T) {
	g := generator.New(rand.NewSource(3))
	input := g.LinearL2(6)
	sum := 0.0
	for _, c := range input.CDev {
		sum += c
	}
	require.InDelta(t, 0, sum, 1e-9)

	output := gtv.NewOutputData(input)
	require.NotPanics(t, func() { gtv.FastLinearL2(input, output) })
}

func TestCondatWorstCaseSolvableByBothPaths(t *testing.T) {
	input := generator.CondatWorstCase(10)
	require.NotPanics(t, func() { input.Validate() })

	generic := gtv.NewOutputData(input)
	gtv.Solve(input, generic, nil)

	fast := gtv.NewOutputData(input)
	gtv.FastL2L1(input, fast)

	for i := 0; i < input.N; i++ {
		require.InDeltaf(t, generic.X[i], fast.X[i], 1e-5, "x[%d]", i)
	}
}

func TestHuberFillsProportionalCutoffs(t *testing.T) {
	g := generator.New(rand.NewSource(11))
	input := gtv.NewTypedInputData(4, 2, 1, gtv.HuberD, gtv.LQ)
	baselines := []float64{-3, 1, 4, -2}
	g.Huber(input, baselines, true, 0.1, 0.5)
	for i, b := range input.HuberD {
		require.GreaterOrEqual(t, b, 0.1*math.Abs(baselines[i]))
		require.LessOrEqual(t, b, 0.5*math.Abs(baselines[i]))
	}
}

func TestMPOWideWindowByLambdaRejectsNonPositiveLambda(t *testing.T) {
	g := generator.New(rand.NewSource(1))
	require.Panics(t, func() { g.MPOWideWindowByLambda(5, 0) })
}
