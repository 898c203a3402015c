package gtv

// l1Slope returns the sub-derivative of slope*|value-anchor| with respect to
// value, taking -slope when value == anchor (the tie convention drvt uses
// for an L1 separation term).
func l1Slope(value, anchor, slope float64) float64 {
	if value > anchor {
		return slope
	}
	return -slope
}

// sideIndex picks which of the two running bound-tracking slots
// (boundIndex[0] for the lower side, [1] for the upper side) currently
// holds the tighter (smaller stIndex) accumulator to resume from.
func sideIndex(boundIndex [2]int) int {
	if boundIndex[0] <= boundIndex[1] {
		return 0
	}
	return 1
}

// FastL2L1 is the amortised fast path for p=2, q=1 (fused-lasso-like
// problems). It panics unless input.N >= 2, input.P == 2 and input.Q == 1. Rather
// than re-deriving the deviation sub-gradient from scratch on every
// propagation step, it maintains, per side, the accumulated slope and
// intercept of the piecewise-linear sub-gradient along the chain, so a
// bisection retry only needs to re-evaluate a linear function.
func FastL2L1(input *InputData, output *OutputData) {
	if input.N < 2 || input.P != 2 || input.Q != 1 {
		panic("gtv: FastL2L1 requires n >= 2, p == 2, q == 1")
	}
	if output == nil {
		panic(errNilOutput)
	}

	n := input.N
	i := 0
	for i < n {
		boundIndex := [2]int{i, i}
		accuDrvtCoeff := [2]float64{input.CDev[i], input.CDev[i]}
		accuDrvtConst := [2]float64{-input.CDev[i] * input.ADev[i], -input.CDev[i] * input.ADev[i]}

		l, u := output.Bounds[i].Lo, output.Bounds[i].Hi
		output.X[i] = (l + u) / 2

		for u-l >= input.SolEsp {
			binIndex := sideIndex(boundIndex)
			stIndex := boundIndex[binIndex]
			drvtCoeff := accuDrvtCoeff[binIndex]
			drvtConst := accuDrvtConst[binIndex]

			l1Const := 0.0
			if i > 0 {
				l1Const = l1Slope(output.X[i], output.X[i-1], input.CSep[i-1])
			}
			drvtValue := drvtCoeff*output.X[i] + drvtConst + l1Const

			direction := 1
			if drvtValue < 0 {
				direction = -1
			}

			for stIndex < n-1 {
				if drvtValue >= 0 {
					if drvtValue < input.CSep[stIndex] {
						drvtCoeff += input.CDev[stIndex+1]
						drvtConst += -input.CDev[stIndex+1] * input.ADev[stIndex+1]
						stIndex++
						drvtValue = drvtCoeff*output.X[i] + drvtConst + l1Const
						continue
					}
					boundIndex[1] = stIndex
					accuDrvtCoeff[1] = drvtCoeff
					accuDrvtConst[1] = drvtConst
					direction = 1
					break
				}
				if -drvtValue <= input.CSep[stIndex] {
					drvtCoeff += input.CDev[stIndex+1]
					drvtConst += -input.CDev[stIndex+1] * input.ADev[stIndex+1]
					stIndex++
					drvtValue = drvtCoeff*output.X[i] + drvtConst + l1Const
					continue
				}
				boundIndex[0] = stIndex
				accuDrvtCoeff[0] = drvtCoeff
				accuDrvtConst[0] = drvtConst
				direction = -1
				break
			}

			if stIndex == n-1 {
				direction = 1
				if drvtValue < 0 {
					direction = -1
				}
				if direction == 1 {
					boundIndex[1] = stIndex
					accuDrvtCoeff[1] = drvtCoeff
					accuDrvtConst[1] = drvtConst
				} else {
					boundIndex[0] = stIndex
					accuDrvtCoeff[0] = drvtCoeff
					accuDrvtConst[0] = drvtConst
				}
			}

			if direction == -1 {
				l = output.X[i]
			} else {
				u = output.X[i]
			}
			output.X[i] = (l + u) / 2
		}

		binIndex := sideIndex(boundIndex)
		stIndex := boundIndex[binIndex]
		for j := i + 1; j <= stIndex; j++ {
			output.X[j] = output.X[i]
		}
		i = stIndex + 1
	}
}
