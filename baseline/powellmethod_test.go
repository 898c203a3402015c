package baseline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pa-m/gtv/baseline"
	"github.com/pa-m/gtv/gtv"
)

func TestPowellMinimizerAgreesWithSolveOnFusedLasso(t *testing.T) {
	input := gtv.NewLPLQInputData(3, 2, 1)
	input.CDev = []float64{1, 1, 1}
	input.ADev = []float64{0, 10, 0}
	input.CSep = []float64{100, 100}
	input.LB, input.UB = -20, 20

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	pm := baseline.NewPowellMinimizer()
	got := pm.Minimize(baseline.Objective(input), []float64{0, 0, 0})

	for i, x := range output.X {
		require.InDeltaf(t, x, got[i], 1e-3, "x[%d]", i)
	}
}

func TestPowellMinimizerAgreesWithSolveOnMedianLike(t *testing.T) {
	input := gtv.NewLPLQInputData(5, 2, 1)
	input.CDev = []float64{1, 1, 1, 1, 1}
	input.ADev = []float64{-2, -1, 0, 1, 2}
	input.CSep = []float64{0.3, 0.3, 0.3, 0.3}
	input.LB, input.UB = -5, 5

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	pm := baseline.NewPowellMinimizer()
	got := pm.Minimize(baseline.Objective(input), make([]float64, input.N))

	objAtGot := baseline.Objective(input)(got)
	objAtSolve := baseline.Objective(input)(output.X)
	require.InDelta(t, objAtSolve, objAtGot, 1e-3)
}
