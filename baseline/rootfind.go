package baseline

import (
	"errors"
	"fmt"
	"log"
	"math"
)

// RootFinder locates a zero of a scalar function inside a bracket where the
// function changes sign. With UseInterpolation set it behaves like Brent's
// method (inverse quadratic interpolation falling back to a secant step,
// with bisection whenever the interpolated point isn't trustworthy); with
// UseInterpolation cleared it always takes the bisection branch. Both modes
// share the same bracket-shrinking loop.
//
// Used to cross-check gtv.Solve on single-coordinate (n=1) instances: the
// minimizer of a convex scalar deviation term is the zero of its
// derivative, which RootFinder locates independently of the chain
// bisection the solver itself performs.
type RootFinder struct {
	Tol              float64
	MaxIter          int
	UseInterpolation bool
	Logger           *log.Logger
}

// Solve returns a root of f within [lo, hi]. f(lo) and f(hi) must have
// opposite signs.
func (rf RootFinder) Solve(lo, hi float64, f func(float64) float64) (float64, error) {
	flo, fhi := f(lo), f(hi)
	if flo*fhi >= 0 {
		return math.NaN(), errors.New("baseline: f(lo) and f(hi) must have opposite signs")
	}
	// hi always ends up holding the better (smaller |f|) of the two guesses.
	if math.Abs(flo) < math.Abs(fhi) {
		lo, hi, flo, fhi = hi, lo, fhi, flo
	}

	contra, fcontra := lo, flo // last discarded bracket point
	var beforeContra float64   // value of contra prior to the previous update
	forcedBisect := true

	maxIter := rf.MaxIter
	if maxIter <= 0 {
		maxIter = 1000
	}

	iter := 0
	for ; fhi != 0 && math.Abs(hi-lo) > rf.Tol; iter++ {
		rf.trace(iter, lo, flo, hi, fhi)
		if iter >= maxIter {
			return math.NaN(), fmt.Errorf("baseline: root finder did not converge in %d iterations", iter)
		}

		next := interpolationCandidate(lo, flo, hi, fhi, contra, fcontra)
		useBisection := !rf.UseInterpolation ||
			!acceptable(next, lo, hi, forcedBisect, hi-contra, contra-beforeContra)
		if useBisection {
			next = (lo + hi) / 2
			forcedBisect = true
		} else {
			forcedBisect = false
		}

		fnext := f(next)
		beforeContra = contra
		contra, fcontra = hi, fhi
		if flo*fnext < 0 {
			hi, fhi = next, fnext
		} else {
			lo, flo = next, fnext
		}
		if math.Abs(flo) < math.Abs(fhi) {
			lo, hi, flo, fhi = hi, lo, fhi, flo
		}
	}
	rf.trace(iter, lo, flo, hi, fhi)
	return hi, nil
}

// interpolationCandidate proposes the next root estimate: inverse
// quadratic interpolation through (lo,flo), (hi,fhi) and (contra,fcontra)
// when all three function values are distinct, otherwise the secant line
// through (lo,flo) and (hi,fhi).
func interpolationCandidate(lo, flo, hi, fhi, contra, fcontra float64) float64 {
	if flo != fcontra && fhi != fcontra {
		return lo*fhi*fcontra/(flo-fhi)/(flo-fcontra) +
			hi*flo*fcontra/(fhi-flo)/(fhi-fcontra) +
			contra*flo*fhi/(fcontra-flo)/(fcontra-fhi)
	}
	return hi - fhi*(hi-lo)/(fhi-flo)
}

// acceptable reports whether candidate lies between hi and the point a
// quarter of the way from lo to hi, and is converging fast enough relative
// to the previous step, to be trusted over a plain bisection.
func acceptable(candidate, lo, hi float64, lastStepWasBisect bool, hiToContra, contraToBefore float64) bool {
	quarter := (3*lo + hi) / 4
	inRange := (quarter <= candidate && candidate <= hi) || (quarter >= candidate && candidate >= hi)
	if !inRange {
		return false
	}
	if lastStepWasBisect {
		return math.Abs(candidate-hi) < math.Abs(hiToContra)/2
	}
	return math.Abs(candidate-hi) < math.Abs(contraToBefore)/2
}

func (rf RootFinder) trace(iter int, lo, flo, hi, fhi float64) {
	if rf.Logger != nil {
		rf.Logger.Printf("%d (lo,flo)=(%.5g,%.5g) (hi,fhi)=(%.5g,%.5g)", iter, lo, flo, hi, fhi)
	}
}

// Brent finds a zero of f in [lo,hi] using Brent's method. f(lo) and f(hi)
// must have opposite signs. logger may be nil.
//
// Used to cross-check gtv.Solve on single-coordinate (n=1) instances: see
// RootFinder.
func Brent(lo, hi, tol float64, f func(float64) float64, logger *log.Logger) (float64, error) {
	return RootFinder{Tol: tol, UseInterpolation: true, Logger: logger}.Solve(lo, hi, f)
}

// Bissection finds a zero of f in [lo,hi] by bisection. f(lo) and f(hi)
// must have opposite signs. logger may be nil.
func Bissection(lo, hi, tol float64, f func(float64) float64, logger *log.Logger) (float64, error) {
	return RootFinder{Tol: tol, UseInterpolation: false, Logger: logger}.Solve(lo, hi, f)
}

// Derivative returns a centered finite-difference approximation of the
// derivative of f at x, used to turn Objective into a root-finding problem
// for Brent/Bissection.
func Derivative(f func(float64) float64, x, h float64) float64 {
	return (f(x+h) - f(x-h)) / (2 * h)
}
