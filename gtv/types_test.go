package gtv_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pa-m/gtv/gtv"
)

func TestNewLPLQInputDataPanicsOnBadN(t *testing.T) {
	require.Panics(t, func() { gtv.NewLPLQInputData(0, 2, 1) })
}

func TestNewLPLQInputDataPanicsOnBadExponent(t *testing.T) {
	require.Panics(t, func() { gtv.NewLPLQInputData(3, 0, 1) })
}

func TestNewPiecewiseInputDataPanicsOnBufferSizeMismatch(t *testing.T) {
	require.Panics(t, func() {
		gtv.NewPiecewiseInputData(1, 1, []int{2}, []float64{1, 2, 3}) // too short
	})
}

func TestValidateRejectsNegativeScale(t *testing.T) {
	input := gtv.NewLPLQInputData(2, 2, 1)
	input.CDev[0] = -1
	require.Panics(t, func() { input.Validate() })
}

func TestValidateRejectsNonIncreasingBreakpoints(t *testing.T) {
	input := gtv.NewPiecewiseInputData(1, 1, []int{2}, []float64{-1, 5, 1, 5, 3})
	require.Panics(t, func() { input.Validate() })
}

func TestValidateAcceptsWellFormedInstance(t *testing.T) {
	input := gtv.NewLPLQInputData(3, 2, 1)
	input.CDev = []float64{1, 1, 1}
	input.CSep = []float64{1, 1}
	require.NotPanics(t, func() { input.Validate() })
}

func TestOutputDataResetReinitialisesBounds(t *testing.T) {
	input := gtv.NewLPLQInputData(2, 2, 1)
	input.CDev = []float64{1, 1}
	input.ADev = []float64{3, 3}
	input.CSep = []float64{1}
	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	output.Reset(input)
	for _, b := range output.Bounds {
		require.Equal(t, input.LB, b.Lo)
		require.Equal(t, input.UB, b.Hi)
	}
	for _, x := range output.X {
		require.Zero(t, x)
	}
}

func TestSolveIsIdempotentUpToSolEsp(t *testing.T) {
	input := gtv.NewLPLQInputData(4, 2, 1)
	input.CDev = []float64{1, 1, 1, 1}
	input.ADev = []float64{-3, 1, 4, -1}
	input.CSep = []float64{0.3, 0.3, 0.3}

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)
	first := append([]float64(nil), output.X...)

	output.Reset(input)
	gtv.Solve(input, output, nil)

	for i, x := range output.X {
		require.InDeltaf(t, first[i], x, input.SolEsp*10, "x[%d]", i)
	}
}

func TestSolveFeasibility(t *testing.T) {
	input := gtv.NewLPLQInputData(6, 2, 1)
	input.CDev = []float64{1, 1, 1, 1, 1, 1}
	input.ADev = []float64{-3, 1, 4, -1, 2, -2}
	input.CSep = []float64{0.3, 0.3, 0.3, 0.3, 0.3}

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	for _, x := range output.X {
		require.GreaterOrEqual(t, x, input.LB)
		require.LessOrEqual(t, x, input.UB)
	}
}

func TestSolveCursorConsistencyForPiecewise(t *testing.T) {
	input := gtv.NewPiecewiseInputData(2, 1, []int{1, 1},
		[]float64{-1, -2, 3, -4, 0, 6})
	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, nil)

	require.Equal(t, len(input.PW), output.StIndex)
}
