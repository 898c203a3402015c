package gtv

import "testing"

func TestDrvtLPEvenPower(t *testing.T) {
	input := NewLPLQInputData(1, 2, 1)
	input.CDev[0] = 2
	input.ADev[0] = 3
	output := NewOutputData(input)
	output.X[0] = 5 // x - a = 2

	got := drvt(input, output, 0, true) // inclPrev forced false at index 0
	if got != 4.0 {                     // cDev * (x-a)^(p-1) = 2 * 2^1 = 4
		t.Errorf("drvt = %v, want 4", got)
	}
}

func TestDrvtLPOddPowerRightSubgradientAtAnchor(t *testing.T) {
	input := NewLPLQInputData(1, 1, 1)
	input.CDev[0] = 5
	input.ADev[0] = 1
	output := NewOutputData(input)
	output.X[0] = 1 // exactly at the anchor

	got := drvt(input, output, 0, true)
	if got != 5 {
		t.Errorf("right sub-gradient at anchor = %v, want +cDev = 5", got)
	}
}

func TestDrvtLQSeparationL1RightContinuous(t *testing.T) {
	input := NewLPLQInputData(2, 2, 1)
	input.CSep[0] = 3
	output := NewOutputData(input)
	output.X[0], output.X[1] = 5, 5 // tied: x[0]-x[1] == 0, right sub-gradient picks -cSep

	got := drvt(input, output, 1, true)
	if got != -3 {
		t.Errorf("tied L1 separation contribution = %v, want -3", got)
	}
}

func TestDrvtHuberDClamped(t *testing.T) {
	input := NewTypedInputData(1, 2, 1, HuberD, LQ)
	input.CDev[0] = 1
	input.ADev[0] = 0
	input.HuberD[0] = 1
	output := NewOutputData(input)
	output.X[0] = 10 // far beyond the cutoff

	got := drvt(input, output, 0, true)
	if got != 1 {
		t.Errorf("clamped Huber deviation drvt = %v, want delta = 1", got)
	}
}

func TestDrvtHuberSFlippedSign(t *testing.T) {
	input := NewTypedInputData(2, 2, 2, LP, HuberS)
	input.CSep[0] = 2
	input.HuberS[0] = 1
	output := NewOutputData(input)
	output.X[0], output.X[1] = 0, 0.5 // within the smooth region: x[1]-x[0] = 0.5

	got := drvt(input, output, 1, true)
	// LP term at index 1 with x=0.5, a=0: cDev[1]*(x-a) = 0*... CDev defaults to 0 here,
	// so only the Huber separation contribution survives: cSep[0]*clamp(x1-x0, -delta, delta).
	want := 2.0 * 0.5
	if got != want {
		t.Errorf("Huber separation drvt = %v, want %v", got, want)
	}
}
