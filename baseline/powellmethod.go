package baseline

import (
	"log"
	"math"
)

// PowellMinimizer minimizes a scalar function of multidimensional x using
// the modified Powell algorithm (see fmin_powell in scipy.optimize). It is
// used to cross-check gtv.Solve: given an Objective built from a gtv
// instance, an independent local search should land on the same optimum.
type PowellMinimizer struct {
	Callback        func([]float64)
	Xtol, Ftol      float64
	MaxIter, MaxFev int
	Logger          *log.Logger
}

// NewPowellMinimizer returns a PowellMinimizer with default tolerances.
func NewPowellMinimizer() *PowellMinimizer {
	return &PowellMinimizer{Xtol: 1e-8, Ftol: 1e-8}
}

// Minimize minimizes f starting at x0 and returns the minimizer.
func (pm *PowellMinimizer) Minimize(f func([]float64) float64, x0 []float64) []float64 {
	x, _ := minimizePowell(f, x0, pm.Callback, pm.Xtol, pm.Ftol, pm.MaxIter, pm.MaxFev, pm.Logger)
	return x
}

// minimizePowell performs the modified Powell minimization of f starting
// at x0.
//
// xtol, ftol are the relative tolerances in x and f(x) accepted for
// convergence. maxiter, maxfev bound the number of iterations and function
// evaluations; if both are <= 0 they default to N*1000. disp, if non-nil,
// receives a one-line convergence message.
//
// It returns the minimizer and a warnflag: 0 on convergence, 1 if maxfev
// was hit, 2 if maxiter was hit.
func minimizePowell(
	f func([]float64) float64, x0 []float64, callback func([]float64),
	xtol, ftol float64,
	maxiter, maxfev int,
	disp *log.Logger) ([]float64, int) {
	type float = float64
	var (
		fval, fx, delta, fx2, bnd, t, temp float
		x1, x2, direc, direc1              []float
		bigind, warnflag                   int
	)
	abs := func(x float) float {
		if x < 0 {
			return -x
		}
		return x
	}
	fcalls := 0
	fun := func(x []float) float {
		y := f(x)
		fcalls++
		return y
	}
	x := make([]float64, len(x0))
	copy(x, x0)
	N := len(x)
	if maxiter <= 0 && maxfev <= 0 {
		maxiter = N * 1000
		maxfev = N * 1000
	} else if maxiter <= 0 {
		maxiter = math.MaxInt32
	} else if maxfev <= 0 {
		maxfev = math.MaxInt32
	}
	// direc is used as a matrix direc[i,j] := direc[i*N+j].
	direc = make([]float, N*N)
	direc1 = make([]float, N)
	for i := 0; i < N; i++ {
		direc[i*N+i] = 1
	}

	fval = fun(x)
	x1, x2 = make([]float64, N), make([]float64, N)
	copy(x1, x)
	iter := 0
	ilist := make([]int, N)
	for i := range ilist {
		ilist[i] = i
	}
	for {
		fx = fval
		bigind = 0
		delta = 0.0
		for _, i := range ilist {
			direc1 = direc[i*N : i*N+N]
			fx2 = fval
			fval, x, direc1 = linesearchPowell(fun, x, direc1, xtol*100)
			if (fx2 - fval) > delta {
				delta = fx2 - fval
				bigind = i
			}
		}
		iter++
		if callback != nil {
			callback(x)
		}
		bnd = ftol*(abs(fx)+abs(fval)) + 1e-20
		if 2.0*(fx-fval) <= bnd {
			break
		}
		if fcalls >= maxfev {
			break
		}
		if iter >= maxiter {
			break
		}
		// Construct the extrapolated point.
		for i, xi := range x {
			direc1[i] = xi - x1[i]
			x2[i] = 2*xi - x1[i]
			x1[i] = xi
		}
		fx2 = fun(x2)

		if fx > fx2 {
			t = 2.0 * (fx + fx2 - 2.0*fval)
			temp = fx - fval - delta
			t *= temp * temp
			temp = fx - fx2
			t -= delta * temp * temp
			if t < 0.0 {
				fval, x, direc1 = linesearchPowell(fun, x, direc1, xtol*100)
				copy(direc[bigind*N:bigind*N+N], direc[(N-1)*N:N*N])
				copy(direc[(N-1)*N:N*N], direc1)
			}
		}
	}
	warnflag = 0
	switch {
	case fcalls >= maxfev:
		warnflag = 1
		if disp != nil {
			disp.Println("Warning: maxfev")
		}
	case iter >= maxiter:
		warnflag = 2
		if disp != nil {
			disp.Println("Warning: maxiter")
		}
	default:
		if disp != nil {
			disp.Printf("Success. Current function value: %.7g Iterations: %d Function evaluations: %d", fval, iter, fcalls)
		}
	}
	return x, warnflag
}

// linesearchPowell finds the minimum of fun(p + alpha*direc) over alpha
// using Brent's method, and returns the new function value, the new point,
// and the scaled direction vector.
func linesearchPowell(
	fun func([]float64) float64,
	p, direc []float64,
	tol float64) (float64, []float64, []float64) {
	myfunc := func(alpha float64) float64 {
		xtmp := make([]float64, len(p))
		for i, pi := range p {
			xtmp[i] = pi + alpha*direc[i]
		}
		return fun(xtmp)
	}
	b := newBrentMinimizer(myfunc, tol, 500)
	b.optimize()
	alphaMin, fret := b.Xmin, b.Fval
	pPlusDirec := make([]float64, len(p))
	for i := range p {
		direc[i] *= alphaMin
		pPlusDirec[i] = p[i] + direc[i]
	}
	return fret, pPlusDirec, direc
}

type bracketer struct {
	growLimit float64
	maxIter   int
}

// bracket searches, starting from distinct points xa0, xb0, in the downhill
// direction and returns points xa, xb, xc with f(xa) > f(xb) < f(xc).
func (b bracketer) bracket(f func(float64) float64, xa0, xb0 float64) (xa, xb, xc, fa, fb, fc float64, funcalls int) {
	var (
		tmp1, tmp2, val, denom, w, wlim, fw float64
		iter                                int
	)
	const (
		gold         = 1.618034 // golden ratio: (1+sqrt(5))/2
		verySmallNum = 1e-21
	)
	xa, xb = xa0, xb0
	fa, fb = f(xa), f(xb)
	if fa < fb {
		xa, xb = xb, xa
		fa, fb = fb, fa
	}
	xc = xb + gold*(xb-xa)
	fc = f(xc)
	funcalls = 3
	for fc < fb {
		tmp1 = (xb - xa) * (fb - fc)
		tmp2 = (xb - xc) * (fb - fa)
		val = tmp2 - tmp1
		if math.Abs(val) < verySmallNum {
			denom = 2.0 * verySmallNum
		} else {
			denom = 2.0 * val
		}
		w = xb - ((xb-xc)*tmp2-(xb-xa)*tmp1)/denom
		wlim = xb + b.growLimit*(xc-xb)
		if iter > b.maxIter {
			panic("baseline: bracket failed to converge")
		}
		iter++
		switch {
		case (w-xc)*(xb-w) > 0.0:
			fw = f(w)
			funcalls++
			if fw < fc {
				xa, xb = xb, w
				fa, fb = fb, fw
				return xa, xb, xc, fa, fb, fc, funcalls
			} else if fw > fb {
				xc, fc = w, fw
				return xa, xb, xc, fa, fb, fc, funcalls
			}
			w = xc + gold*(xc-xb)
			fw = f(w)
			funcalls++
		case (w-wlim)*(wlim-xc) >= 0.0:
			w = wlim
			fw = f(w)
			funcalls++
		case (w-wlim)*(xc-w) > 0.0:
			fw = f(w)
			funcalls++
			if fw < fc {
				xb, xc = xc, w
				w = xc + gold*(xc-xb)
				fb, fc = fc, fw
				fw = f(w)
				funcalls++
			}
		default:
			w = xc + gold*(xc-xb)
			fw = f(w)
			funcalls++
		}
		xa, xb, xc = xb, xc, w
		fa, fb, fc = fb, fc, fw
	}
	return xa, xb, xc, fa, fb, fc, funcalls
}

// brentMinimizer is a translation of scipy.optimize.optimize.Brent, used as
// the 1-D line search inside Powell's method.
type brentMinimizer struct {
	Func           func(float64) float64
	Tol            float64
	Maxiter        int
	mintol         float64
	cg             float64
	Xmin           float64
	Fval           float64
	Iter, Funcalls int
	brack          []float64
	bracketer
}

func newBrentMinimizer(fun func(float64) float64, tol float64, maxiter int) *brentMinimizer {
	return &brentMinimizer{
		Func:      fun,
		Tol:       tol,
		Maxiter:   maxiter,
		mintol:    1.0e-11,
		cg:        0.3819660,
		bracketer: bracketer{growLimit: 110, maxIter: 1000},
	}
}

func (bm *brentMinimizer) getBracketInfo() (xa, xb, xc, fa, fb, fc float64, funcalls int) {
	fun := bm.Func
	brack := bm.brack
	switch len(brack) {
	case 2:
		xa, xb, xc, fa, fb, fc, funcalls = bm.bracketer.bracket(fun, brack[0], brack[1])
	case 3:
		xa, xb, xc = brack[0], brack[1], brack[2]
		if xa > xc {
			xa, xc = xc, xa
		}
		fa, fb, fc = fun(xa), fun(xb), fun(xc)
		if !(fb < fa && fb < fc) {
			panic("baseline: not a bracketing interval")
		}
		funcalls = 3
	default:
		xa, xb, xc, fa, fb, fc, funcalls = bm.bracketer.bracket(fun, 0, 1)
	}
	return
}

func (bm *brentMinimizer) optimize() {
	var (
		xa, xb, xc, fb, x, fx, v, fv, w, fw, a, b, deltax, tol1, tol2, xmid, rat, tmp1, tmp2, p, dxTemp, u, fu float64
		funcalls, iter                                                                                         int
	)
	f := bm.Func
	xa, xb, xc, _, fb, _, funcalls = bm.getBracketInfo()
	mintol := bm.mintol
	cg := bm.cg
	v, w, x = xb, xb, xb
	fx = fb
	fv, fw = fx, fx
	if xa < xc {
		a, b = xa, xc
	} else {
		a, b = xc, xa
	}
	deltax = 0.0
	funcalls++
	for iter < bm.Maxiter {
		tol1 = bm.Tol*math.Abs(x) + mintol
		tol2 = 2.0 * tol1
		xmid = 0.5 * (a + b)
		if math.Abs(x-xmid) < (tol2 - 0.5*(b-a)) {
			break
		}
		if math.Abs(deltax) <= tol1 {
			if x >= xmid {
				deltax = a - x
			} else {
				deltax = b - x
			}
			rat = cg * deltax
		} else {
			tmp1 = (x - w) * (fx - fv)
			tmp2 = (x - v) * (fx - fw)
			p = (x-v)*tmp2 - (x-w)*tmp1
			tmp2 = 2.0 * (tmp2 - tmp1)
			if tmp2 > 0.0 {
				p = -p
			}
			tmp2 = math.Abs(tmp2)
			dxTemp = deltax
			deltax = rat
			if (p > tmp2*(a-x)) && (p < tmp2*(b-x)) &&
				(math.Abs(p) < math.Abs(0.5*tmp2*dxTemp)) {
				rat = p * 1.0 / tmp2
				u = x + rat
				if (u-a) < tol2 || (b-u) < tol2 {
					if xmid-x >= 0 {
						rat = tol1
					} else {
						rat = -tol1
					}
				}
			} else {
				if x >= xmid {
					deltax = a - x
				} else {
					deltax = b - x
				}
				rat = cg * deltax
			}
		}
		if math.Abs(rat) < tol1 {
			if rat >= 0 {
				u = x + tol1
			} else {
				u = x - tol1
			}
		} else {
			u = x + rat
		}
		fu = f(u)
		funcalls++

		if fu > fx {
			if u < x {
				a = u
			} else {
				b = u
			}
			if (fu <= fw) || (w == x) {
				v, w = w, u
				fv, fw = fw, fu
			} else if (fu <= fv) || (v == x) || (v == w) {
				v, fv = u, fu
			}
		} else {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
		}
		iter++
	}
	bm.Xmin, bm.Fval, bm.Iter, bm.Funcalls = x, fx, iter, funcalls
}
