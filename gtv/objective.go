package gtv

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// huberObj evaluates the Huber loss at x with cutoff delta.
func huberObj(x, delta float64) float64 {
	ax := math.Abs(x)
	if ax <= delta {
		return 0.5 * x * x
	}
	return delta * (ax - 0.5*delta)
}

// huberDrvt evaluates the (right) sub-gradient of the Huber loss at x.
func huberDrvt(x, delta float64) float64 {
	if math.Abs(x) <= delta {
		return x
	}
	if x > 0 {
		return delta
	}
	return -delta
}

// plFunc evaluates a degree-1 piecewise function at x. slopeAndBkps lays
// out [b0, (lambda1,b1), (lambda2,b2), ...] as described by InputData.PW.
func plFunc(slopeAndBkps []float64, breakpointNum int, x float64) float64 {
	if breakpointNum == 0 {
		return slopeAndBkps[0] * x
	}
	if x <= slopeAndBkps[1] {
		return (x - slopeAndBkps[1]) * slopeAndBkps[0]
	}
	y := 0.0
	i := 2
	remaining := breakpointNum
	for remaining > 1 {
		if x <= slopeAndBkps[i+1] {
			break
		}
		y += (slopeAndBkps[i+1] - slopeAndBkps[i-1]) * slopeAndBkps[i]
		i += 2
		remaining--
	}
	return y + (x-slopeAndBkps[i-1])*slopeAndBkps[i]
}

// plTV evaluates the total degree-1-piecewise-deviation + L1-separation
// objective over the whole chain.
func plTV(n int, slopeAndBkps []float64, bkpNums []int, cSep, x []float64) float64 {
	cost := 0.0
	off := 0
	for i := 0; i < n; i++ {
		cost += plFunc(slopeAndBkps[off:], bkpNums[i], x[i])
		off += 2*bkpNums[i] + 1
	}
	for i := 0; i < n-1; i++ {
		cost += cSep[i] * math.Abs(x[i+1]-x[i])
	}
	return cost
}

func quadraticFunc(a, b, x0, x float64) float64 {
	return 0.5*a*(x-x0)*(x+x0) - b*(x-x0)
}

// pqFunc evaluates a degree-2 piecewise function at x. qpAndBkps lays out
// [a0, b0, (lambda1,a1,b1), ...] as described by InputData.PW.
func pqFunc(qpAndBkps []float64, breakpointNum int, x float64) float64 {
	if breakpointNum == 0 {
		return 0.5*qpAndBkps[0]*x*x - qpAndBkps[1]*x
	}
	if x <= qpAndBkps[2] {
		return quadraticFunc(qpAndBkps[0], qpAndBkps[1], qpAndBkps[2], x)
	}
	y := 0.0
	i := 3
	remaining := breakpointNum
	for remaining > 1 {
		if x <= qpAndBkps[i+2] {
			break
		}
		y += quadraticFunc(qpAndBkps[i], qpAndBkps[i+1], qpAndBkps[i-1], qpAndBkps[i+2])
		i += 3
		remaining--
	}
	return y + quadraticFunc(qpAndBkps[i], qpAndBkps[i+1], qpAndBkps[i-1], x)
}

// pqTV evaluates the total degree-2-piecewise-deviation + L1-separation
// objective over the whole chain.
func pqTV(n int, qpAndBkps []float64, bkpNums []int, cSep, x []float64) float64 {
	cost := 0.0
	off := 0
	for i := 0; i < n; i++ {
		cost += pqFunc(qpAndBkps[off:], bkpNums[i], x[i])
		off += 3*bkpNums[i] + 2
	}
	for i := 0; i < n-1; i++ {
		cost += cSep[i] * math.Abs(x[i+1]-x[i])
	}
	return cost
}

// CompObj sets output.ObjVal from the current output.X.
func CompObj(input *InputData, output *OutputData) {
	if output == nil {
		panic(errNilOutput)
	}
	switch input.DeviationType {
	case LP:
		devSum := make([]float64, input.N)
		for i := 0; i < input.N; i++ {
			devSum[i] = (1.0 / float64(input.P)) * input.CDev[i] *
				math.Pow(math.Abs(output.X[i]-input.ADev[i]), float64(input.P))
		}
		output.ObjVal = floats.Sum(devSum)
	case PiecewiseLP:
		switch input.PWDeg {
		case 2:
			output.ObjVal = pqTV(input.N, input.PW, input.BkpNums, input.CSep, output.X)
			return
		case 1:
			output.ObjVal = plTV(input.N, input.PW, input.BkpNums, input.CSep, output.X)
			return
		}
	case HuberD:
		devSum := make([]float64, input.N)
		for i := 0; i < input.N; i++ {
			devSum[i] = input.CDev[i] * huberObj(output.X[i]-input.ADev[i], input.HuberD[i])
		}
		output.ObjVal = floats.Sum(devSum)
	}

	if input.N < 2 {
		return
	}
	sepSum := make([]float64, input.N-1)
	switch input.SeparationType {
	case LQ:
		for i := 0; i < input.N-1; i++ {
			sepSum[i] = (1.0 / float64(input.Q)) * input.CSep[i] *
				math.Pow(math.Abs(output.X[i]-output.X[i+1]), float64(input.Q))
		}
	case HuberS:
		for i := 0; i < input.N-1; i++ {
			sepSum[i] = input.CSep[i] * huberObj(output.X[i]-output.X[i+1], input.HuberS[i])
		}
	}
	output.ObjVal += floats.Sum(sepSum)
}
