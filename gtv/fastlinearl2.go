package gtv

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FastLinearL2 is the closed-form fast path for p=1, q=2 with
// sum(CDev) == 0 (a 1-D graph-Laplacian problem). It is undefined unless
// that zero-sum invariant holds, which is checked and enforced as a
// precondition (fail fast, not a recoverable error, per the error
// taxonomy of spec section 7).
func FastLinearL2(input *InputData, output *OutputData) {
	if input.N < 2 || input.P != 1 || input.Q != 2 {
		panic("gtv: FastLinearL2 requires n >= 2, p == 1, q == 2")
	}
	if math.Abs(floats.Sum(input.CDev)) >= 1e-6 {
		panic(errZeroSumViolated)
	}
	if output == nil {
		panic(errNilOutput)
	}

	output.X[0] = 0
	linCoeffSum := 0.0
	for i := 0; i < input.N-1; i++ {
		linCoeffSum += input.CDev[i]
		output.X[i+1] = output.X[i] + linCoeffSum
	}
}
