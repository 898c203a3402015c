// Package report compares solver outputs and writes the comparison
// profiles the benchmark command produces: numeric agreement checks, a CSV
// table of timings, and a plotted solution trajectory.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"

	"github.com/pa-m/gtv/gtv"
)

// CompareSolutions returns the max, min and mean absolute per-coordinate
// difference between two solver outputs on the same instance.
func CompareSolutions(a, b *gtv.OutputData) (maxDiff, minDiff, meanDiff float64) {
	if a.N != b.N || a.N == 0 {
		panic("report: CompareSolutions requires equal, non-zero length outputs")
	}
	maxDiff = math.Abs(a.X[0] - b.X[0])
	minDiff = maxDiff
	meanDiff = maxDiff
	for i := 1; i < a.N; i++ {
		diff := math.Abs(a.X[i] - b.X[i])
		if diff > maxDiff {
			maxDiff = diff
		}
		if diff < minDiff {
			minDiff = diff
		}
		meanDiff += diff
	}
	meanDiff /= float64(a.N)
	return maxDiff, minDiff, meanDiff
}

// NumSolChg counts the number of neighbouring coordinate pairs that differ
// by at least changeEsp, a fused-lasso style segmentation check.
func NumSolChg(output *gtv.OutputData, changeEsp float64) int {
	if output.N <= 1 {
		panic("report: NumSolChg requires n > 1")
	}
	num := 0
	for i := 0; i < output.N-1; i++ {
		if math.Abs(output.X[i]-output.X[i+1]) >= changeEsp {
			num++
		}
	}
	return num
}

// SolutionsAgree reports whether two outputs on the same instance agree,
// either in objective value (when compareObj is true, within objEsp) or in
// per-coordinate value (within solEsp).
func SolutionsAgree(input *gtv.InputData, a, b *gtv.OutputData, compareObj bool, objEsp, solEsp float64) bool {
	objAgree := false
	if compareObj {
		gtv.CompObj(input, a)
		gtv.CompObj(input, b)
		objAgree = math.Abs(a.ObjVal-b.ObjVal) < objEsp
	}
	maxDiff, _, _ := CompareSolutions(a, b)
	solAgree := math.Abs(maxDiff) < solEsp
	return objAgree || solAgree
}

// Stat returns the mean and (population) standard deviation of samples.
func Stat(samples []float64) (mean, stddev float64) {
	if len(samples) == 0 {
		panic("report: Stat requires at least one sample")
	}
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	for _, v := range samples {
		d := v - mean
		stddev += d * d
	}
	stddev = math.Sqrt(stddev / float64(len(samples)))
	return mean, stddev
}

// Table is a row/column grid of figures destined for a CSV comparison
// profile, mirroring the original CSV struct: one row per algorithm (plus
// an optional "-std" row and any extra per-algorithm suffix rows), one
// column per scale point.
type Table struct {
	ProblemType, DataType string
	N, P, Q               int
	ColTitles             []float64
	RowTitles             []string
	Figures               [][]float64
}

// NewTable allocates a Table for len(algs) algorithms (each contributing a
// mean and a std row, plus one row per entry in plusSuffixes) over
// numScales columns.
func NewTable(algs []string, plusSuffixes []string, numScales int) *Table {
	if len(algs) == 0 || numScales <= 0 {
		panic("report: NewTable requires at least one algorithm and one scale")
	}
	totalPerAlg := 2 + len(plusSuffixes)
	t := &Table{
		ColTitles: make([]float64, numScales),
		RowTitles: make([]string, len(algs)*totalPerAlg),
		Figures:   make([][]float64, len(algs)*totalPerAlg),
	}
	for i, alg := range algs {
		base := i * totalPerAlg
		t.RowTitles[base] = alg
		t.RowTitles[base+1] = alg + "-std"
		for j, suffix := range plusSuffixes {
			t.RowTitles[base+2+j] = alg + suffix
		}
		for j := 0; j < totalPerAlg; j++ {
			t.Figures[base+j] = make([]float64, numScales)
		}
	}
	return t
}

// WriteCSV appends the table to path using the standard library's CSV
// writer, in the same layout the original CSV::write produces: a problem
// type / data type header line, an "n,p,q" line, then the column titles
// and one row per algorithm figure.
func WriteCSV(t *Table, path string) error {
	if len(t.Figures) == 0 || len(t.Figures[0]) == 0 {
		panic("report: WriteCSV requires a non-empty table")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("report: open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{t.ProblemType, t.DataType}); err != nil {
		return err
	}
	if err := w.Write([]string{"n", fmt.Sprint(t.N), "p", fmt.Sprint(t.P), "q", fmt.Sprint(t.Q)}); err != nil {
		return err
	}
	if len(t.ColTitles) > 0 {
		header := make([]string, 0, len(t.ColTitles)+1)
		if len(t.RowTitles) > 0 {
			header = append(header, "")
		}
		for _, c := range t.ColTitles {
			header = append(header, fmt.Sprintf("%g", c))
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}
	for i, row := range t.Figures {
		record := make([]string, 0, len(row)+1)
		if len(t.RowTitles) > 0 {
			record = append(record, t.RowTitles[i])
		}
		for _, v := range row {
			record = append(record, fmt.Sprintf("%g", v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSolution prints the solution vector the way the original
// outputSolution does: an "x = " line, then the values comma-separated on
// one line, followed by a blank line.
func WriteSolution(w *os.File, output *gtv.OutputData) {
	fmt.Fprint(w, "x = \n")
	for i := 0; i < output.N-1; i++ {
		fmt.Fprintf(w, "%g,", output.X[i])
	}
	fmt.Fprintf(w, "%g\n\n", output.X[output.N-1])
}
