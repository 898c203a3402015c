package baseline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pa-m/gtv/baseline"
	"github.com/pa-m/gtv/gtv"
)

func TestBrentAgreesWithSolveOnSingleCoordinate(t *testing.T) {
	input := gtv.NewLPLQInputData(1, 2, 1)
	input.CDev[0] = 3
	input.ADev[0] = 7
	input.LB, input.UB = -20, 20

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	obj := baseline.Objective(input)
	deriv := func(x float64) float64 {
		return baseline.Derivative(func(z float64) float64 { return obj([]float64{z}) }, x, 1e-6)
	}

	root, err := baseline.Brent(input.LB, input.UB, input.SolEsp, deriv, nil)
	require.NoError(t, err)
	require.InDelta(t, output.X[0], root, 1e-3)
	require.InDelta(t, input.ADev[0], root, 1e-3)
}

func TestBissectionAgreesWithBrent(t *testing.T) {
	input := gtv.NewLPLQInputData(1, 2, 1)
	input.CDev[0] = 1
	input.ADev[0] = -4
	input.LB, input.UB = -20, 20

	obj := baseline.Objective(input)
	deriv := func(x float64) float64 {
		return baseline.Derivative(func(z float64) float64 { return obj([]float64{z}) }, x, 1e-6)
	}

	brentRoot, err := baseline.Brent(input.LB, input.UB, 1e-8, deriv, nil)
	require.NoError(t, err)
	bisectRoot, err := baseline.Bissection(input.LB, input.UB, 1e-8, deriv, nil)
	require.NoError(t, err)
	require.InDelta(t, brentRoot, bisectRoot, 1e-4)
}
