package chain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cwbudde/algo-noise/internal/testutil"
	"github.com/cwbudde/algo-noise/opamp"
)

func vrefStages(t *testing.T) []Stage {
	t.Helper()

	stages, err := LoadFile("testdata/vref.json")
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	return stages
}

func TestAnalyzeVrefChain(t *testing.T) {
	stages := vrefStages(t)
	if len(stages) != 4 {
		t.Fatalf("loaded %d stages, want 4", len(stages))
	}

	res, err := Analyze(stages)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	// The three filtered conditioning stages are filter limited; the
	// unfiltered unity buffer runs at the full amplifier bandwidth.
	for i := 0; i < 3; i++ {
		if res.Stages[i].Limit != opamp.LimitFilter {
			t.Fatalf("stage %d limit = %v, want filter", i, res.Stages[i].Limit)
		}
	}

	if res.Stages[3].Limit != opamp.LimitAmplifier {
		t.Fatalf("buffer limit = %v, want amplifier", res.Stages[3].Limit)
	}

	// With megahertz of bandwidth, the wideband buffer dwarfs the
	// sub-hertz filtered stages.
	for i := 0; i < 3; i++ {
		if res.Stages[3].OutputRMS <= res.Stages[i].OutputRMS {
			t.Fatalf("buffer output %v not above stage %d output %v",
				res.Stages[3].OutputRMS, i, res.Stages[i].OutputRMS)
		}
	}

	sum := 0.0
	for _, s := range res.Stages {
		sum += s.OutputRMS
		testutil.RequireFinite(t, s.OutputRMS)
	}

	testutil.RequireRelativeNear(t, res.TotalOutputRMS, sum, 1e-12)

	if res.TotalOutputRMSQuadrature > res.TotalOutputRMS {
		t.Fatalf("quadrature total %v exceeds linear total %v",
			res.TotalOutputRMSQuadrature, res.TotalOutputRMS)
	}

	if res.TotalOutputRMSQuadrature < res.Stages[3].OutputRMS {
		t.Fatalf("quadrature total %v below largest stage %v",
			res.TotalOutputRMSQuadrature, res.Stages[3].OutputRMS)
	}
}

func TestAnalyzeMatchesSingleStageEngine(t *testing.T) {
	stages := vrefStages(t)

	res, err := Analyze(stages)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	for i, st := range stages {
		direct, err := opamp.AnalyzeStage(st.Amp, st.FeedbackRes, st.GroundRes, st.Filter)
		if err != nil {
			t.Fatalf("AnalyzeStage error: %v", err)
		}

		if res.Stages[i].OutputRMS != direct.OutputRMS {
			t.Fatalf("stage %d output %v differs from direct engine result %v",
				i, res.Stages[i].OutputRMS, direct.OutputRMS)
		}

		if res.Stages[i].Bandwidth != direct.Bandwidth {
			t.Fatalf("stage %d bandwidth %v differs from direct engine result %v",
				i, res.Stages[i].Bandwidth, direct.Bandwidth)
		}
	}
}

func TestAnalyzeDominanceVerdicts(t *testing.T) {
	stages := vrefStages(t)

	res, err := Analyze(stages)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	// vref-first: 5.8 nV/√Hz against 2.5 kΩ thermal noise (≈6.3 nV/√Hz)
	// is too close to call either way.
	if got := res.Stages[0].VoltageVsResistor; got != opamp.Neither {
		t.Fatalf("vref-first voltage-vs-resistor = %v, want neither", got)
	}

	// vref-buffer: 1 Ω feedback values put resistor noise far below the
	// opamp, and the 7.85 MHz bandwidth buries the 30 Hz corner.
	if got := res.Stages[3].VoltageVsResistor; got != opamp.FirstDominant {
		t.Fatalf("vref-buffer voltage-vs-resistor = %v, want first dominant", got)
	}

	if got := res.Stages[3].BroadbandVsFlicker; got != opamp.FirstDominant {
		t.Fatalf("vref-buffer broadband-vs-flicker = %v, want first dominant", got)
	}
}

func TestAnalyzeChannelChain(t *testing.T) {
	stages, err := LoadFile("testdata/channel.json")
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	res, err := Analyze(stages)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if len(res.Stages) != 4 {
		t.Fatalf("analyzed %d stages, want 4", len(res.Stages))
	}

	// current-feedback runs unfiltered at gain 2.
	last := res.Stages[3]
	testutil.RequireNearlyEqual(t, last.Gain, 2, 1e-12)

	if last.Limit != opamp.LimitAmplifier {
		t.Fatalf("current-feedback limit = %v, want amplifier", last.Limit)
	}

	testutil.RequireRelativeNear(t, last.OutputRMS, 2*last.InputRMS, 1e-12)
}

func TestAnalyzeEmptyChain(t *testing.T) {
	if _, err := Analyze(nil); !errors.Is(err, ErrEmptyChain) {
		t.Fatalf("Analyze(nil) error = %v, want ErrEmptyChain", err)
	}
}

func TestAnalyzeNamesFailingStage(t *testing.T) {
	stages := vrefStages(t)
	stages[2].GroundRes = 0

	_, err := Analyze(stages)
	if !errors.Is(err, opamp.ErrDomain) {
		t.Fatalf("error = %v, want ErrDomain", err)
	}

	if !strings.Contains(err.Error(), "vref-third") {
		t.Fatalf("error %q does not name the failing stage", err)
	}
}

func TestLoadRejectsPartialFilter(t *testing.T) {
	const doc = `[{
		"name": "broken",
		"amp": {"voltage_noise": 1e-9, "current_noise": 1e-12, "gbw": 1e6},
		"feedback_res": 1000,
		"ground_res": 1000,
		"filter": {"res": 1000}
	}]`

	_, err := Load(strings.NewReader(doc))
	if !errors.Is(err, opamp.ErrDomain) {
		t.Fatalf("error = %v, want ErrDomain for half-specified filter", err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	const doc = `[{
		"name": "typo",
		"amp": {"voltage_noise": 1e-9, "current_noise": 1e-12, "gbw": 1e6},
		"feedback_res": 1000,
		"ground_res": 1000,
		"filter_res": 1000
	}]`

	if _, err := Load(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadRejectsEmptyList(t *testing.T) {
	if _, err := Load(strings.NewReader("[]")); !errors.Is(err, ErrEmptyChain) {
		t.Fatalf("error = %v, want ErrEmptyChain", err)
	}
}

func TestStageJSONRoundTrip(t *testing.T) {
	stages := vrefStages(t)

	encoded, err := json.Marshal(stages)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	reloaded, err := Load(strings.NewReader(string(encoded)))
	if err != nil {
		t.Fatalf("Load of re-encoded stages error: %v", err)
	}

	first, err := Analyze(stages)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	second, err := Analyze(reloaded)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if first.TotalOutputRMS != second.TotalOutputRMS {
		t.Fatalf("round trip changed total: %v vs %v", first.TotalOutputRMS, second.TotalOutputRMS)
	}
}

func TestOutputMicrovolts(t *testing.T) {
	stages := vrefStages(t)

	res, err := Analyze(stages)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	micro := res.OutputMicrovolts()
	if len(micro) != len(res.Stages) {
		t.Fatalf("len = %d, want %d", len(micro), len(res.Stages))
	}

	for i, v := range micro {
		testutil.RequireRelativeNear(t, v, res.Stages[i].OutputRMS*1e6, 1e-12)
	}
}
