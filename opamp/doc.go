// Package opamp computes RMS output voltage noise for inverting opamp
// circuit stages from resistor values and datasheet noise parameters.
//
// The model covers the dominant white-noise sources of a single stage:
//
//   - Input voltage noise of the amplifier (V/√Hz)
//   - Input current noise flowing through the feedback network (A/√Hz)
//   - Johnson-Nyquist thermal noise of the feedback resistors
//
// The three densities combine in quadrature and integrate over the
// stage's noise-equivalent bandwidth, which is either set by the
// amplifier's gain-bandwidth product at the circuit's noise gain or by
// a single-pole RC low-pass following the stage, whichever corner is
// lower. Flicker (1/f) noise is not integrated; a dominance check
// against the amplifier's corner frequency indicates when it matters.
//
// # Usage
//
//	amp := opamp.Spec{
//	    VoltageNoise: 5.8e-9,  // V/√Hz
//	    CurrentNoise: 0.8e-12, // A/√Hz
//	    GBW:          2.7e6,   // Hz
//	    CornerFreq:   0.1,     // Hz
//	}
//	res, err := opamp.AnalyzeStage(amp, 5e3, 5e3, &opamp.RCFilter{Res: 10e3, Cap: 33e-6})
//	fmt.Printf("%.3g Vrms over %.3g Hz (%s limited)\n", res.OutputRMS, res.Bandwidth, res.Limit)
//
// All inputs are strictly positive physical quantities; invalid values
// yield errors wrapping ErrDomain, never NaN or Inf results.
package opamp
