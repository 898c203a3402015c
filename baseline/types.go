// Package baseline provides general-purpose multivariate and scalar
// minimizers (Powell's method, CMA-ES, Brent/bisection root finding) used
// to cross-validate gtv.Solve and the fast paths against independent
// optimization algorithms on the same problem instance.
package baseline

import (
	"github.com/pa-m/gtv/gtv"
)

const (
	nonpositiveDimension string = "baseline: non-positive input dimension"
	negativeTasks        string = "baseline: negative input number of tasks"
)

// resize takes x and returns a slice of length dim. It returns a resliced x
// if cap(x) >= dim, and a new slice otherwise.
func resize(x []float64, dim int) []float64 {
	if dim > cap(x) {
		return make([]float64, dim)
	}
	return x[:dim]
}

// Objective adapts a gtv problem instance into a plain scalar function of x,
// suitable as the f argument to PowellMinimizer.Minimize or as the function
// evaluated at CMA-ES sample points. It allocates a private OutputData so
// concurrent evaluations (as CMA-ES performs during a population evaluation)
// never alias the same X slice.
func Objective(input *gtv.InputData) func([]float64) float64 {
	return func(x []float64) float64 {
		output := gtv.NewOutputData(input)
		copy(output.X, x)
		gtv.CompObj(input, output)
		return output.ObjVal
	}
}
