package opamp

import (
	"fmt"
	"math"
)

// BandwidthLimit identifies which mechanism bounded the integration
// bandwidth of a stage.
type BandwidthLimit int

const (
	// LimitAmplifier means the gain-bandwidth product set the bandwidth.
	LimitAmplifier BandwidthLimit = iota
	// LimitFilter means the RC low-pass corner set the bandwidth.
	LimitFilter
)

func (l BandwidthLimit) String() string {
	switch l {
	case LimitAmplifier:
		return "amplifier"
	case LimitFilter:
		return "filter"
	default:
		return fmt.Sprintf("BandwidthLimit(%d)", int(l))
	}
}

// Result holds the noise analysis of a single stage.
type Result struct {
	Gain      float64        // signal gain magnitude Rf/Rg
	NoiseGain float64        // 1 + Rf/Rg
	InputRMS  float64        // input-referred noise, Vrms
	OutputRMS float64        // output-referred noise, Vrms
	Bandwidth float64        // bandwidth actually integrated, Hz
	Limit     BandwidthLimit // what set the bandwidth
}

// TotalInputNoiseRMS integrates the stage's combined white-noise
// density over its noise-equivalent bandwidth and returns the
// input-referred RMS voltage noise.
//
// The voltage, current and resistor noise densities add in quadrature.
// With no filter the bandwidth is the amplifier's; with a filter whose
// corner lies below the amplifier bandwidth, the filter corner (times
// the single-pole conversion factor) is integrated instead.
func TotalInputNoiseRMS(voltageNoise, currentNoise, feedbackRes, groundRes, gbw float64, filter *RCFilter) (float64, error) {
	rms, _, _, err := inputNoise(voltageNoise, currentNoise, feedbackRes, groundRes, gbw, filter)

	return rms, err
}

// TotalOutputNoiseRMS refers an input RMS noise to the stage output.
// The sign of an inverting gain is irrelevant to noise, so the gain's
// magnitude is used.
func TotalOutputNoiseRMS(inputRMS, gain float64) float64 {
	return inputRMS * math.Abs(gain)
}

// AnalyzeStage computes the full noise result of one inverting stage
// from an opamp spec, the feedback resistor pair, and an optional
// output filter.
func AnalyzeStage(amp Spec, feedbackRes, groundRes float64, filter *RCFilter) (Result, error) {
	if err := amp.Validate(); err != nil {
		return Result{}, err
	}

	gain, err := InvertingGain(feedbackRes, groundRes)
	if err != nil {
		return Result{}, err
	}

	rms, bandwidth, limit, err := inputNoise(amp.VoltageNoise, amp.CurrentNoise, feedbackRes, groundRes, amp.GBW, filter)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Gain:      gain,
		NoiseGain: 1 + gain,
		InputRMS:  rms,
		OutputRMS: TotalOutputNoiseRMS(rms, gain),
		Bandwidth: bandwidth,
		Limit:     limit,
	}, nil
}

func inputNoise(voltageNoise, currentNoise, feedbackRes, groundRes, gbw float64, filter *RCFilter) (float64, float64, BandwidthLimit, error) {
	if err := requirePositive("voltage noise density", voltageNoise); err != nil {
		return 0, 0, LimitAmplifier, err
	}

	req, err := ParallelResistance(feedbackRes, groundRes)
	if err != nil {
		return 0, 0, LimitAmplifier, err
	}

	currentContribution, err := CurrentNoiseContribution(feedbackRes, groundRes, currentNoise)
	if err != nil {
		return 0, 0, LimitAmplifier, err
	}

	resistorNoise, err := ThermalNoiseDensity(req)
	if err != nil {
		return 0, 0, LimitAmplifier, err
	}

	noiseGain, err := NoiseGain(feedbackRes, groundRes)
	if err != nil {
		return 0, 0, LimitAmplifier, err
	}

	bandwidth, err := AmplifierBandwidth(gbw, noiseGain)
	if err != nil {
		return 0, 0, LimitAmplifier, err
	}

	limit := LimitAmplifier

	if filter != nil {
		corner, err := filter.Corner()
		if err != nil {
			return 0, 0, LimitAmplifier, err
		}

		// The amplifier bandwidth already carries the brick-wall
		// factor; the raw RC corner gets it only once chosen.
		if corner < bandwidth {
			bandwidth = SinglePoleNEB * corner
			limit = LimitFilter
		}
	}

	density := math.Sqrt(voltageNoise*voltageNoise +
		currentContribution*currentContribution +
		resistorNoise*resistorNoise)

	return density * math.Sqrt(bandwidth), bandwidth, limit, nil
}
