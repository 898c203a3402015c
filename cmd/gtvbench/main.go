// Command gtvbench drives the generator/solver/report pipeline from the
// command line: generate a synthetic instance of a chosen problem type and
// size, solve it (optionally with the matching fast path), and report the
// result.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/exp/rand"

	"github.com/pa-m/gtv/generator"
	"github.com/pa-m/gtv/gtv"
	"github.com/pa-m/gtv/report"
)

func main() {
	var (
		problem = flag.String("problem", "l2l1", "problem type: l2l1, l1l1, linearl2, condat, huber")
		n       = flag.Int("n", 100, "chain length")
		lambda  = flag.Float64("lambda", 1.0, "separation weight")
		seed    = flag.Uint64("seed", 1, "random seed")
		fast    = flag.Bool("fast", false, "cross-check against the matching fast path")
		plotPath = flag.String("plot", "", "if set, write a plot of the solution trajectory here (format from the extension, e.g. .png)")
		verbose = flag.Bool("v", false, "log solver iterations to stderr")
	)
	flag.Parse()

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "gtv: ", log.LstdFlags)
	}

	g := generator.New(rand.NewSource(*seed))

	var input *gtv.InputData
	switch *problem {
	case "l2l1":
		input = g.LPLQ(*n, 2, 1, true)
		g.FillSeparation(input, *lambda, false)
	case "l1l1":
		input = g.LPLQ(*n, 1, 1, true)
		g.FillSeparation(input, *lambda, false)
	case "linearl2":
		input = g.LinearL2(*n)
	case "condat":
		input = generator.CondatWorstCase(*n)
	case "huber":
		input = gtv.NewTypedInputData(*n, 2, 1, gtv.HuberD, gtv.LQ)
		base := g.LPLQ(*n, 2, 1, true)
		copy(input.CDev, base.CDev)
		copy(input.ADev, base.ADev)
		copy(input.CSep, base.CSep)
		g.Huber(input, input.ADev, true, 0.1, 0.5)
	default:
		fmt.Fprintf(os.Stderr, "gtvbench: unknown problem type %q\n", *problem)
		os.Exit(2)
	}

	output := gtv.NewOutputData(input)
	gtv.Solve(input, output, logger)
	gtv.CompObj(input, output)
	fmt.Printf("problem=%s n=%d objVal=%g\n", *problem, input.N, output.ObjVal)

	if *fast {
		fastOutput := gtv.NewOutputData(input)
		var ranFast bool
		switch {
		case input.DeviationType == gtv.LP && input.P == 2 && input.SeparationType == gtv.LQ && input.Q == 1:
			gtv.FastL2L1(input, fastOutput)
			ranFast = true
		case input.P == 1 && input.Q == 2:
			gtv.FastLinearL2(input, fastOutput)
			ranFast = true
		}
		if ranFast {
			maxDiff, _, meanDiff := report.CompareSolutions(output, fastOutput)
			fmt.Printf("fast path max|diff|=%g mean|diff|=%g\n", maxDiff, meanDiff)
		} else {
			fmt.Fprintln(os.Stderr, "gtvbench: no fast path applies to this instance, skipping -fast")
		}
	}

	if *plotPath != "" {
		if err := report.PlotSolution(output, fmt.Sprintf("%s (n=%d)", *problem, input.N), *plotPath); err != nil {
			log.Fatalf("gtvbench: %v", err)
		}
	}
}
