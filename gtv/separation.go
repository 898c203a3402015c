package gtv

import "math"

// sepInverse inverts h_index's sub-gradient: given a target residual g, it
// returns the increment z = x_{i+1} - x_i such that the right sub-gradient
// of h_index(x_i - x_{i+1}) equals g.
func sepInverse(input *InputData, g float64, index int) float64 {
	switch input.SeparationType {
	case LQ:
		q := input.Q
		c := input.CSep[index]
		if g >= 0 {
			if q > 1 {
				return math.Pow(g/c, 1.0/float64(q-1))
			}
			// Degenerate TV-L1 case: the kink absorbs any residual up to c.
			if g < c {
				return 0
			}
			return input.Infinity
		}
		if q > 1 {
			return -math.Pow(-g/c, 1.0/float64(q-1))
		}
		if -g <= c {
			return 0
		}
		return -input.Infinity
	case HuberS:
		c := input.CSep[index]
		delta := input.HuberS[index] * c
		switch {
		case g > -delta && g < delta:
			return g / c
		case g >= delta:
			return input.Infinity
		default: // g <= -delta
			return -input.Infinity
		}
	}
	return 0
}
