package opamp

import "fmt"

const (
	// densityMargin is the 3x (~9.5 dB) rule-of-thumb ratio at which
	// one noise density safely dominates another.
	densityMargin = 3.0

	// flickerMargin is the ratio of noise bandwidth to 1/f corner above
	// which broadband noise safely dominates flicker noise.
	flickerMargin = 10.0
)

// Dominance is the outcome of comparing two noise contributions.
type Dominance int

const (
	// Neither means no contribution exceeds the other by the margin.
	Neither Dominance = iota
	// FirstDominant means the first contribution exceeds the second by
	// the margin.
	FirstDominant
	// SecondDominant means the second contribution exceeds the first by
	// the margin.
	SecondDominant
)

func (d Dominance) String() string {
	switch d {
	case Neither:
		return "neither dominant"
	case FirstDominant:
		return "first dominant"
	case SecondDominant:
		return "second dominant"
	default:
		return fmt.Sprintf("Dominance(%d)", int(d))
	}
}

// dominance applies the margin symmetrically with strict comparisons,
// so the exact boundary lands on Neither.
func dominance(first, second, margin float64) Dominance {
	switch {
	case first > margin*second:
		return FirstDominant
	case second > margin*first:
		return SecondDominant
	default:
		return Neither
	}
}

// CompareVoltageToResistorNoise reports whether the amplifier's input
// voltage noise or the feedback network's thermal noise dominates.
// When the resistor noise dominates, lowering the feedback resistor
// values helps more than a lower-noise opamp would.
func CompareVoltageToResistorNoise(feedbackRes, groundRes, voltageNoise float64) (Dominance, error) {
	if err := requirePositive("voltage noise density", voltageNoise); err != nil {
		return Neither, err
	}

	req, err := ParallelResistance(feedbackRes, groundRes)
	if err != nil {
		return Neither, err
	}

	resistorNoise, err := ThermalNoiseDensity(req)
	if err != nil {
		return Neither, err
	}

	return dominance(voltageNoise, resistorNoise, densityMargin), nil
}

// CompareVoltageToCurrentNoise reports whether the amplifier's input
// voltage noise or its current noise through the feedback network
// dominates. When current noise dominates, lower resistances or a
// JFET/CMOS-input opamp help.
func CompareVoltageToCurrentNoise(feedbackRes, groundRes, currentNoise, voltageNoise float64) (Dominance, error) {
	if err := requirePositive("voltage noise density", voltageNoise); err != nil {
		return Neither, err
	}

	contribution, err := CurrentNoiseContribution(feedbackRes, groundRes, currentNoise)
	if err != nil {
		return Neither, err
	}

	return dominance(voltageNoise, contribution, densityMargin), nil
}

// CompareBroadbandToFlicker reports whether broadband noise or 1/f
// noise dominates, by comparing the stage's noise bandwidth against
// the amplifier's flicker corner frequency.
func CompareBroadbandToFlicker(feedbackRes, groundRes, gbw, cornerFreq float64) (Dominance, error) {
	if err := requirePositive("corner frequency", cornerFreq); err != nil {
		return Neither, err
	}

	noiseGain, err := NoiseGain(feedbackRes, groundRes)
	if err != nil {
		return Neither, err
	}

	bandwidth, err := AmplifierBandwidth(gbw, noiseGain)
	if err != nil {
		return Neither, err
	}

	return dominance(bandwidth, cornerFreq, flickerMargin), nil
}

// VoltageNoiseDominantOverResistor reports whether the opamp voltage
// noise safely dominates the feedback network's thermal noise.
func VoltageNoiseDominantOverResistor(feedbackRes, groundRes, voltageNoise float64) (bool, error) {
	d, err := CompareVoltageToResistorNoise(feedbackRes, groundRes, voltageNoise)

	return d == FirstDominant, err
}

// VoltageNoiseDominantOverCurrent reports whether the opamp voltage
// noise safely dominates its current noise contribution.
func VoltageNoiseDominantOverCurrent(feedbackRes, groundRes, currentNoise, voltageNoise float64) (bool, error) {
	d, err := CompareVoltageToCurrentNoise(feedbackRes, groundRes, currentNoise, voltageNoise)

	return d == FirstDominant, err
}

// BroadbandDominantOverFlicker reports whether broadband noise safely
// dominates 1/f noise for the stage.
func BroadbandDominantOverFlicker(feedbackRes, groundRes, gbw, cornerFreq float64) (bool, error) {
	d, err := CompareBroadbandToFlicker(feedbackRes, groundRes, gbw, cornerFreq)

	return d == FirstDominant, err
}
