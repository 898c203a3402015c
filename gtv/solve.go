package gtv

import (
	"log"
	"math"
)

// Solve is the generic KKT solve: a bisection on each coordinate's trial
// value, coupled with Propagator to reconstruct the rest of the chain and
// to tighten the divergence bounds. logger may be nil; when non-nil it
// receives one trace line per bisection step, the same convention Brent
// and Bissection use in package baseline.
func Solve(input *InputData, output *OutputData, logger *log.Logger) {
	if output == nil {
		panic(errNilOutput)
	}
	if output.N != input.N {
		panic(errOutputSizeMismatch)
	}

	for i := 0; i < input.N; i++ {
		l, u := output.Bounds[i].Lo, output.Bounds[i].Hi

		if u-l < input.SolEsp {
			output.X[i] = (u + l) / 2
			if input.DeviationType == PiecewiseLP {
				output.StIndex += input.Stride(i)
			}
			continue
		}

		output.X[i] = (l + u) / 2
		stIndex := output.StIndex
		state, fDrvt := propagate(input, output, i)

		for u-l >= input.SolEsp {
			if logger != nil {
				logger.Printf("i=%d l=%.6g u=%.6g x=%.6g state=%d fDrvt=%.6g",
					i, l, u, output.X[i], state, fDrvt)
			}

			oldLen := u - l
			switch {
			case state < 0:
				l = output.X[i]
			case state > 0:
				u = output.X[i]
			default:
				if math.Abs(fDrvt) < input.DrvtEsp {
					return
				} else if fDrvt < 0 {
					l = output.X[i]
				} else {
					u = output.X[i]
				}
			}
			if newLen := u - l; newLen >= oldLen {
				panic(errNonMonotoneBisect)
			}

			output.X[i] = (l + u) / 2
			output.StIndex = stIndex
			state, fDrvt = propagate(input, output, i)
		}

		output.StIndex = stIndex
		if input.DeviationType == PiecewiseLP {
			output.StIndex += input.Stride(i)
		}
	}
}
