package chain

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-noise/opamp"
)

// ErrEmptyChain reports an analysis request without any stages.
var ErrEmptyChain = errors.New("chain: no stages")

// Stage describes one inverting amplifier stage of a signal path.
type Stage struct {
	Name        string          `json:"name"`
	Amp         opamp.Spec      `json:"amp"`
	FeedbackRes float64         `json:"feedback_res"` // Ω
	GroundRes   float64         `json:"ground_res"`   // Ω
	Filter      *opamp.RCFilter `json:"filter,omitempty"`
}

// Validate checks the stage's physical parameters without running the
// full analysis.
func (s Stage) Validate() error {
	if err := s.Amp.Validate(); err != nil {
		return err
	}

	if _, err := opamp.InvertingGain(s.FeedbackRes, s.GroundRes); err != nil {
		return err
	}

	if s.Filter != nil {
		return s.Filter.Validate()
	}

	return nil
}

// StageResult holds one stage's analysis within a chain.
type StageResult struct {
	Name      string
	Gain      float64
	NoiseGain float64
	InputRMS  float64 // Vrms
	OutputRMS float64 // Vrms
	Bandwidth float64 // Hz
	Limit     opamp.BandwidthLimit

	// Dominance verdicts; BroadbandVsFlicker stays Neither when the
	// opamp spec carries no corner frequency.
	VoltageVsResistor  opamp.Dominance
	VoltageVsCurrent   opamp.Dominance
	BroadbandVsFlicker opamp.Dominance
}

// Result holds the analysis of a whole chain.
type Result struct {
	Stages []StageResult

	// TotalOutputRMS sums stage outputs linearly, the conservative
	// figure for budgeting. TotalOutputRMSQuadrature combines them
	// root-sum-square, the expected value for uncorrelated stages.
	TotalOutputRMS           float64
	TotalOutputRMSQuadrature float64
}

// OutputMicrovolts returns each stage's output noise in µVrms, in
// stage order, for reporting and comparison plots.
func (r Result) OutputMicrovolts() []float64 {
	raw := make([]float64, len(r.Stages))
	for i, s := range r.Stages {
		raw[i] = s.OutputRMS
	}

	out := make([]float64, len(raw))
	vecmath.ScaleBlock(out, raw, 1e6)

	return out
}

// Analyze folds the noise engine over the stages. It fails on the
// first invalid stage, naming it in the error, and returns no partial
// result.
func Analyze(stages []Stage) (Result, error) {
	if len(stages) == 0 {
		return Result{}, ErrEmptyChain
	}

	res := Result{Stages: make([]StageResult, 0, len(stages))}

	for i, st := range stages {
		sr, err := analyzeStage(st)
		if err != nil {
			return Result{}, fmt.Errorf("chain: stage %d (%s): %w", i, st.Name, err)
		}

		res.Stages = append(res.Stages, sr)
	}

	outputs := make([]float64, len(res.Stages))
	for i, s := range res.Stages {
		outputs[i] = s.OutputRMS
	}

	for _, v := range outputs {
		res.TotalOutputRMS += v
	}

	res.TotalOutputRMSQuadrature = rootSumSquares(outputs)

	return res, nil
}

func analyzeStage(st Stage) (StageResult, error) {
	stage, err := opamp.AnalyzeStage(st.Amp, st.FeedbackRes, st.GroundRes, st.Filter)
	if err != nil {
		return StageResult{}, err
	}

	sr := StageResult{
		Name:      st.Name,
		Gain:      stage.Gain,
		NoiseGain: stage.NoiseGain,
		InputRMS:  stage.InputRMS,
		OutputRMS: stage.OutputRMS,
		Bandwidth: stage.Bandwidth,
		Limit:     stage.Limit,
	}

	sr.VoltageVsResistor, err = opamp.CompareVoltageToResistorNoise(st.FeedbackRes, st.GroundRes, st.Amp.VoltageNoise)
	if err != nil {
		return StageResult{}, err
	}

	sr.VoltageVsCurrent, err = opamp.CompareVoltageToCurrentNoise(st.FeedbackRes, st.GroundRes, st.Amp.CurrentNoise, st.Amp.VoltageNoise)
	if err != nil {
		return StageResult{}, err
	}

	if st.Amp.CornerFreq > 0 {
		sr.BroadbandVsFlicker, err = opamp.CompareBroadbandToFlicker(st.FeedbackRes, st.GroundRes, st.Amp.GBW, st.Amp.CornerFreq)
		if err != nil {
			return StageResult{}, err
		}
	}

	return sr, nil
}

func rootSumSquares(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	squares := make([]float64, len(values))
	vecmath.MulBlock(squares, values, values)

	total := 0.0
	for _, s := range squares {
		total += s
	}

	return math.Sqrt(total)
}
