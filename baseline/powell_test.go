package baseline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/optimize"

	"github.com/pa-m/gtv/baseline"
	"github.com/pa-m/gtv/gtv"
)

func TestPowellMethodAgreesWithSolve(t *testing.T) {
	input := gtv.NewLPLQInputData(3, 2, 1)
	input.CDev = []float64{1, 1, 1}
	input.ADev = []float64{0, 10, 0}
	input.CSep = []float64{100, 100}
	input.LB, input.UB = -20, 20

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	method := &baseline.Powell{}
	res, err := optimize.Minimize(optimize.Problem{
		Func: baseline.Objective(input),
	}, []float64{0, 0, 0}, &optimize.Settings{}, method)
	require.NoError(t, err)

	for i, x := range output.X {
		require.InDeltaf(t, x, res.X[i], 1e-2, "x[%d]", i)
	}
}
