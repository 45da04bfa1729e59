// Package chain evaluates the noise of multi-stage opamp signal paths.
//
// A chain is plain configuration data: a list of stage descriptors,
// each naming an opamp spec, the feedback resistor pair, and an
// optional RC output filter. Analyze folds the opamp package's pure
// functions over the list and reports per-stage results plus chain
// totals, both the linear sum of stage outputs and the quadrature
// (root-sum-square) combination for uncorrelated stages.
//
// # Usage
//
//	stages, err := chain.LoadFile("vref.json")
//	res, err := chain.Analyze(stages)
//	for _, s := range res.Stages {
//	    fmt.Printf("%-12s %.3g Vrms (%s limited)\n", s.Name, s.OutputRMS, s.Limit)
//	}
//	fmt.Printf("total %.3g Vrms\n", res.TotalOutputRMS)
package chain
