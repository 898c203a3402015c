package gtv

// propagate walks the chain forward from index, reconstructing
// x_{index+1}, ..., x_{n-1} by inverting each separation term in turn. It
// returns -1 if the walk escapes a lower divergence bound ("go up"), +1 if
// it escapes an upper bound ("go down"), or 0 if it reaches the end of the
// chain, along with the accumulated deviation sub-gradient at the point of
// escape (or at the last index, if the walk reached the end).
//
// Escaping a bound is not a failure: it tightens the corresponding
// output.Bounds entries for every index between index and the escape
// point, since each of those x values is now known to lie within the
// interval that was just proven too wide.
func propagate(input *InputData, output *OutputData, index int) (state int, fDrvtValue float64) {
	n := input.N
	fDrvtValue = drvt(input, output, index, true)

	for i := index; i < n-1; i++ {
		z := sepInverse(input, fDrvtValue, i)
		output.X[i+1] = output.X[i] + z

		if output.X[i+1] < output.Bounds[i+1].Lo {
			for j := index; j <= i; j++ {
				output.Bounds[j].Lo = output.X[j]
			}
			return -1, fDrvtValue
		}
		if output.X[i+1] > output.Bounds[i+1].Hi {
			for j := index; j <= i; j++ {
				output.Bounds[j].Hi = output.X[j]
			}
			return 1, fDrvtValue
		}

		if input.DeviationType == PiecewiseLP {
			output.StIndex += input.Stride(i)
		}
		fDrvtValue += drvt(input, output, i+1, false)
	}

	switch {
	case fDrvtValue > 0:
		for i := index; i < n; i++ {
			output.Bounds[i].Hi = output.X[i]
		}
	case fDrvtValue < 0:
		for i := index; i < n; i++ {
			output.Bounds[i].Lo = output.X[i]
		}
	}
	return 0, fDrvtValue
}
