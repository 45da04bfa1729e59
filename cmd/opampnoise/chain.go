package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-noise/chain"
)

const barWidth = 40

var showBars bool

func newChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain [flags] stages.json",
		Short: "Analyze a multi-stage signal path",
		Long: `Analyzes a chain of opamp stages described as a JSON list of stage
descriptors and prints per-stage noise results plus chain totals.

A stage descriptor looks like:

  {
    "name": "vref-first",
    "amp": {
      "voltage_noise": 5.8e-9,
      "current_noise": 0.8e-12,
      "gbw": 2.7e6,
      "corner_freq": 0.1
    },
    "feedback_res": 5000,
    "ground_res": 5000,
    "filter": { "res": 10000, "cap": 33e-6 }
  }

The filter entry is optional and must be complete when present.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runChain,
	}

	cmd.Flags().BoolVar(&showBars, "bars", false, "print a bar chart of stage contributions")

	return cmd
}

func runChain(_ *cobra.Command, args []string) error {
	stages, err := chain.LoadFile(args[0])
	if err != nil {
		return err
	}

	res, err := chain.Analyze(stages)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Stage\tGain\tBandwidth [Hz]\tLimit\tOutput [µVrms]\n")
	fmt.Fprintf(tw, "-----\t----\t--------------\t-----\t--------------\n")

	micro := res.OutputMicrovolts()
	for i, s := range res.Stages {
		fmt.Fprintf(tw, "%s\t%.4g\t%.4g\t%s\t%.4g\n", s.Name, s.Gain, s.Bandwidth, s.Limit, micro[i])
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nTotal output noise (linear sum): %.4g µVrms\n", res.TotalOutputRMS*1e6)
	fmt.Printf("Total output noise (quadrature): %.4g µVrms\n", res.TotalOutputRMSQuadrature*1e6)

	if showBars {
		fmt.Println()
		printBars(res, micro)
	}

	return nil
}

func printBars(res chain.Result, micro []float64) {
	max := 0.0
	for _, v := range micro {
		if v > max {
			max = v
		}
	}

	if max <= 0 {
		return
	}

	for i, s := range res.Stages {
		n := int(micro[i] / max * barWidth)
		if n < 1 {
			n = 1
		}

		fmt.Printf("%-16s |%s %.4g µVrms\n", s.Name, strings.Repeat("#", n), micro[i])
	}
}
