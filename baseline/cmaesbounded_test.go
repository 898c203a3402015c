package baseline_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/optimize"

	"github.com/stretchr/testify/require"

	"github.com/pa-m/gtv/baseline"
	"github.com/pa-m/gtv/gtv"
)

func TestCmaEsCholBAgreesWithSolveOnFusedLasso(t *testing.T) {
	input := gtv.NewLPLQInputData(3, 2, 1)
	input.CDev = []float64{1, 1, 1}
	input.ADev = []float64{0, 10, 0}
	input.CSep = []float64{100, 100}
	input.LB, input.UB = -20, 20

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	method := baseline.NewCmaEsCholB(input)
	method.Src = rand.NewSource(1)

	res, err := optimize.Minimize(optimize.Problem{
		Func: baseline.Objective(input),
	}, []float64{0, 0, 0}, &optimize.Settings{MajorIterations: 200}, method)
	require.NoError(t, err)

	objAtRes := baseline.Objective(input)(res.X)
	objAtSolve := baseline.Objective(input)(output.X)
	require.InDelta(t, objAtSolve, objAtRes, 1e-2)
}
