package opamp

import (
	"errors"
	"fmt"
	"math"
)

const (
	// boltzmann is the Boltzmann constant in J/K (CODATA 2018 exact value).
	boltzmann = 1.380649e-23

	// noiseTemperature is the assumed ambient temperature in K for
	// thermal noise calculations.
	noiseTemperature = 289.0
)

// SinglePoleNEB converts a first-order -3 dB corner frequency into the
// equivalent brick-wall noise bandwidth.
const SinglePoleNEB = 1.57

// ErrDomain reports a physically invalid input value, such as a
// non-positive resistance or noise density.
var ErrDomain = errors.New("opamp: invalid physical parameter")

func requirePositive(name string, value float64) error {
	if !(value > 0) || math.IsInf(value, 1) {
		return fmt.Errorf("%w: %s must be strictly positive and finite, got %v", ErrDomain, name, value)
	}

	return nil
}

// InvertingGain returns the signal gain magnitude Rf/Rg of an inverting
// amplifier stage.
func InvertingGain(feedbackRes, groundRes float64) (float64, error) {
	if err := requirePositive("feedback resistance", feedbackRes); err != nil {
		return 0, err
	}

	if err := requirePositive("ground resistance", groundRes); err != nil {
		return 0, err
	}

	return feedbackRes / groundRes, nil
}

// NoiseGain returns 1 + Rf/Rg, the gain seen by the amplifier's own
// input voltage noise. It holds regardless of signal topology.
func NoiseGain(feedbackRes, groundRes float64) (float64, error) {
	gain, err := InvertingGain(feedbackRes, groundRes)
	if err != nil {
		return 0, err
	}

	return 1 + gain, nil
}

// ParallelResistance returns the equivalent resistance of two resistors
// in parallel.
func ParallelResistance(r1, r2 float64) (float64, error) {
	if err := requirePositive("first resistance", r1); err != nil {
		return 0, err
	}

	if err := requirePositive("second resistance", r2); err != nil {
		return 0, err
	}

	return (r1 * r2) / (r1 + r2), nil
}

// ThermalNoiseDensity returns the Johnson-Nyquist noise density
// √(4·kB·T·R) in V/√Hz of a resistance at the assumed ambient
// temperature.
func ThermalNoiseDensity(res float64) (float64, error) {
	if err := requirePositive("resistance", res); err != nil {
		return 0, err
	}

	return math.Sqrt(4 * boltzmann * noiseTemperature * res), nil
}

// CurrentNoiseContribution returns the voltage noise density in V/√Hz
// produced by the amplifier's input current noise flowing through the
// feedback network's equivalent resistance Rf‖Rg.
func CurrentNoiseContribution(feedbackRes, groundRes, currentNoiseDensity float64) (float64, error) {
	if err := requirePositive("current noise density", currentNoiseDensity); err != nil {
		return 0, err
	}

	req, err := ParallelResistance(feedbackRes, groundRes)
	if err != nil {
		return 0, err
	}

	return req * currentNoiseDensity, nil
}

// AmplifierBandwidth returns the noise-equivalent bandwidth in Hz set
// by the amplifier's gain-bandwidth product at the given noise gain,
// including the single-pole brick-wall conversion factor.
func AmplifierBandwidth(gbw, noiseGain float64) (float64, error) {
	if err := requirePositive("gain-bandwidth product", gbw); err != nil {
		return 0, err
	}

	if err := requirePositive("noise gain", noiseGain); err != nil {
		return 0, err
	}

	return SinglePoleNEB * gbw / noiseGain, nil
}

// Spec holds the datasheet noise parameters of an opamp. The engine
// never stores a Spec; it is plain input data.
type Spec struct {
	VoltageNoise float64 `json:"voltage_noise"` // input voltage noise density, V/√Hz
	CurrentNoise float64 `json:"current_noise"` // input current noise density, A/√Hz
	GBW          float64 `json:"gbw"`           // gain-bandwidth product, Hz
	CornerFreq   float64 `json:"corner_freq"`   // 1/f corner frequency, Hz; zero when unspecified
}

// Validate checks that the spec's fields are physically plausible.
// CornerFreq is optional and may be zero.
func (s Spec) Validate() error {
	if err := requirePositive("voltage noise density", s.VoltageNoise); err != nil {
		return err
	}

	if err := requirePositive("current noise density", s.CurrentNoise); err != nil {
		return err
	}

	if err := requirePositive("gain-bandwidth product", s.GBW); err != nil {
		return err
	}

	if s.CornerFreq < 0 || math.IsNaN(s.CornerFreq) || math.IsInf(s.CornerFreq, 1) {
		return fmt.Errorf("%w: corner frequency must be zero or positive, got %v", ErrDomain, s.CornerFreq)
	}

	return nil
}

// RCFilter describes a single-pole RC low-pass following a stage. A
// stage either carries a complete filter or none at all; partially
// specified filters are invalid.
type RCFilter struct {
	Res float64 `json:"res"` // Ω
	Cap float64 `json:"cap"` // F
}

// Validate checks that both filter values are strictly positive.
func (f RCFilter) Validate() error {
	if err := requirePositive("filter resistance", f.Res); err != nil {
		return err
	}

	return requirePositive("filter capacitance", f.Cap)
}

// Corner returns the -3 dB corner frequency 1/(2πRC) in Hz.
func (f RCFilter) Corner() (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	return 1 / (2 * math.Pi * f.Res * f.Cap), nil
}

// NoiseBandwidth returns the noise-equivalent bandwidth of the filter,
// SinglePoleNEB times the -3 dB corner.
func (f RCFilter) NoiseBandwidth() (float64, error) {
	corner, err := f.Corner()
	if err != nil {
		return 0, err
	}

	return SinglePoleNEB * corner, nil
}
