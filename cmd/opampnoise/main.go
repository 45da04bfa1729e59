// Command opampnoise estimates the RMS output voltage noise of
// inverting opamp circuit stages.
//
// Usage:
//
//	opampnoise [voltage-noise [current-noise [gbw [corner-freq [feedback-res [ground-res [filter-res [filter-cap]]]]]]]]
//	opampnoise chain [flags] stages.json
//
// The single-stage form takes up to eight positional values in SI
// units; omitted values fall back to documented defaults. The chain
// form analyzes a whole signal path described as a JSON stage list.
//
// Examples:
//
//	opampnoise
//	opampnoise 5.8e-9 0.8e-12 2.7e6 0.1 5e3 5e3 10e3 33e-6
//	opampnoise --no-filter 2.8e-9 0.3e-12 10e6 30 1 1
//	opampnoise chain --bars vref.json
package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-noise/opamp"
)

// Positional defaults, in argument order.
var stageDefaults = [8]float64{
	1.0e-9,   // voltage noise, V/√Hz
	21.7e-12, // current noise, A/√Hz
	80e6,     // gain-bandwidth product, Hz
	20,       // 1/f corner frequency, Hz
	100e3,    // feedback resistance, Ω
	1e3,      // ground resistance, Ω
	5e3,      // filter resistance, Ω
	4.7e-9,   // filter capacitance, F
}

var noFilter bool

func main() {
	rootCmd := newRootCmd()
	rootCmd.AddCommand(newChainCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opampnoise [voltage-noise [current-noise [gbw [corner-freq [feedback-res [ground-res [filter-res [filter-cap]]]]]]]]",
		Short: "Total opamp circuit output noise",
		Long: `Estimates the RMS output voltage noise of one inverting opamp stage
from its datasheet noise parameters, feedback resistor pair, and an
optional single-pole RC output filter, and reports which noise source
dominates.

Positional values are SI units with these defaults:

  voltage-noise  1.0e-9   V/√Hz
  current-noise  21.7e-12 A/√Hz
  gbw            80e6     Hz
  corner-freq    20       Hz (0 skips the 1/f check)
  feedback-res   100e3    Ω
  ground-res     1e3      Ω
  filter-res     5e3      Ω
  filter-cap     4.7e-9   F`,
		Args:          cobra.MaximumNArgs(len(stageDefaults)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runStage,
	}

	cmd.Flags().BoolVar(&noFilter, "no-filter", false, "analyze without an RC output filter")

	return cmd
}

func runStage(_ *cobra.Command, args []string) error {
	values := stageDefaults

	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("argument %d (%q) is not a number", i+1, arg)
		}

		values[i] = v
	}

	amp := opamp.Spec{
		VoltageNoise: values[0],
		CurrentNoise: values[1],
		GBW:          values[2],
		CornerFreq:   values[3],
	}
	feedbackRes, groundRes := values[4], values[5]

	var filter *opamp.RCFilter
	if !noFilter {
		filter = &opamp.RCFilter{Res: values[6], Cap: values[7]}
	}

	res, err := opamp.AnalyzeStage(amp, feedbackRes, groundRes, filter)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Signal gain\t%.4g V/V\n", res.Gain)
	fmt.Fprintf(tw, "Noise gain\t%.4g V/V\n", res.NoiseGain)
	fmt.Fprintf(tw, "Bandwidth\t%.4g Hz (%s limited)\n", res.Bandwidth, res.Limit)
	fmt.Fprintf(tw, "Input noise\t%.4g µVrms\n", res.InputRMS*1e6)
	fmt.Fprintf(tw, "Output noise\t%.4g µVrms\n", res.OutputRMS*1e6)

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Println()

	return printVerdicts(amp, feedbackRes, groundRes)
}

func printVerdicts(amp opamp.Spec, feedbackRes, groundRes float64) error {
	vsResistor, err := opamp.CompareVoltageToResistorNoise(feedbackRes, groundRes, amp.VoltageNoise)
	if err != nil {
		return err
	}

	vsCurrent, err := opamp.CompareVoltageToCurrentNoise(feedbackRes, groundRes, amp.CurrentNoise, amp.VoltageNoise)
	if err != nil {
		return err
	}

	fmt.Println(describeResistorVerdict(vsResistor))
	fmt.Println(describeCurrentVerdict(vsCurrent))

	if amp.CornerFreq <= 0 {
		fmt.Println("Flicker check skipped: no corner frequency given.")
		return nil
	}

	vsFlicker, err := opamp.CompareBroadbandToFlicker(feedbackRes, groundRes, amp.GBW, amp.CornerFreq)
	if err != nil {
		return err
	}

	fmt.Println(describeFlickerVerdict(vsFlicker))

	return nil
}

func describeResistorVerdict(d opamp.Dominance) string {
	switch d {
	case opamp.FirstDominant:
		return "Opamp voltage noise dominant over resistor noise; a low-noise opamp pays off."
	case opamp.SecondDominant:
		return "Resistor noise dominant over opamp voltage noise; reduce feedback resistor values."
	default:
		return "Neither opamp voltage noise nor resistor noise is clearly dominant."
	}
}

func describeCurrentVerdict(d opamp.Dominance) string {
	switch d {
	case opamp.FirstDominant:
		return "Opamp voltage noise dominant over current noise."
	case opamp.SecondDominant:
		return "Current noise dominant over voltage noise; reduce resistances or use a JFET/CMOS-input opamp."
	default:
		return "Neither voltage noise nor current noise is clearly dominant."
	}
}

func describeFlickerVerdict(d opamp.Dominance) string {
	switch d {
	case opamp.FirstDominant:
		return "Broadband noise dominant over 1/f noise."
	case opamp.SecondDominant:
		return "1/f noise dominant over broadband noise; check the 0.1 Hz to 10 Hz noise spec."
	default:
		return "Neither broadband nor 1/f noise is clearly dominant."
	}
}
