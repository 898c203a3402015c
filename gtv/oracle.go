package gtv

import "math"

// drvt computes the right sub-gradient of f_index at output.X[index],
// optionally adding the contribution of h_{index-1}(x_{index-1}-x_{index})
// with respect to x_index (inclPrev). inclPrev is forced false at index 0,
// since there is no h_{-1}.
//
// The dispatch is a tagged-variant switch rather than an interface call:
// the variant set is small and fixed, the cases share no state, and this
// sits in the hottest loop of the solver.
func drvt(input *InputData, output *OutputData, index int, inclPrev bool) float64 {
	if index == 0 {
		inclPrev = false
	}

	p := input.P
	var fDrvt float64
	switch input.DeviationType {
	case LP:
		base := output.X[index] - input.ADev[index]
		fDrvt = input.CDev[index] * math.Pow(base, float64(p-1))
		if p%2 == 1 && base < 0 {
			fDrvt = -fDrvt
		}
	case PiecewiseLP:
		stIndex := output.StIndex
		bkpNum := input.BkpNums[index]
		x := output.X[index]
		pwIndex := pieceIndex(input.PWDeg, input.PW, bkpNum, stIndex, x)
		if !pieceValid(input.PWDeg, input.PW, bkpNum, stIndex, x, pwIndex) {
			panic("gtv: piece locator produced an inconsistent index")
		}
		base := stIndex + (input.PWDeg+1)*pwIndex
		a := input.PW[base]
		fDrvt = a * math.Pow(x, float64(input.PWDeg-1))
		for i := 1; i < input.PWDeg; i++ {
			b := input.PW[base+i]
			fDrvt -= b * math.Pow(x, float64(input.PWDeg-i-1))
		}
	case HuberD:
		fDrvt = input.CDev[index] * huberDrvt(output.X[index]-input.ADev[index], input.HuberD[index])
	}

	if !inclPrev {
		return fDrvt
	}

	switch input.SeparationType {
	case LQ:
		q := input.Q
		diff := output.X[index-1] - output.X[index]
		switch {
		case q%2 == 0:
			fDrvt -= input.CSep[index-1] * math.Pow(diff, float64(q-1))
		case q == 1:
			if diff >= 0 {
				fDrvt -= input.CSep[index-1]
			} else {
				fDrvt += input.CSep[index-1]
			}
		default:
			if diff >= 0 {
				fDrvt -= input.CSep[index-1] * math.Pow(diff, float64(q-1))
			} else {
				fDrvt += input.CSep[index-1] * math.Pow(-diff, float64(q-1))
			}
		}
	case HuberS:
		fDrvt += input.CSep[index-1] *
			huberDrvt(output.X[index]-output.X[index-1], input.HuberS[index-1])
	}
	return fDrvt
}
