package hydraulics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlowPattern(t *testing.T) {
	tests := []struct {
		in      string
		want    FlowPattern
		wantErr bool
	}{
		{in: "bubble", want: PatternBubble},
		{in: "Slug", want: PatternSlug},
		{in: " annular ", want: PatternAnnular},
		{in: "mist", want: PatternMist},
		{in: "churn", want: PatternTransition},
		{in: "dispersed bubble", want: PatternBubble},
		{in: "intermittent", want: PatternSlug},
		{in: "segregated", want: PatternStratified},
		{in: "plug", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFlowPattern(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlowPattern_JSON(t *testing.T) {
	data, err := json.Marshal(PatternSample{Depth: 100, Pattern: PatternAnnular})
	require.NoError(t, err)
	assert.JSONEq(t, `{"depth":100,"pattern":"annular"}`, string(data))

	var ps PatternSample
	require.NoError(t, json.Unmarshal([]byte(`{"depth":5,"pattern":"churn"}`), &ps))
	assert.Equal(t, PatternTransition, ps.Pattern)

	assert.Error(t, json.Unmarshal([]byte(`{"pattern":"plug"}`), &ps))
	assert.Equal(t, "FlowPattern(42)", FlowPattern(42).String())
}

func TestFluidProperties_Ratios(t *testing.T) {
	f := FluidProperties{OilRate: 1000, WaterRate: 500, GasRate: 2000}
	assert.Equal(t, 1500.0, f.LiquidRate())
	assert.InDelta(t, 1333.333, f.GLR(), 1e-3)
	assert.Equal(t, 2000.0, f.ProducingGOR())

	dry := FluidProperties{GasRate: 100}
	assert.True(t, math.IsInf(dry.GLR(), 1))
	assert.Zero(t, dry.ProducingGOR())
}

func TestInput_Clone(t *testing.T) {
	in := scenarioInput(MethodGray)
	in.Survey = []SurveyPoint{{MD: 0, Inclination: 0}, {MD: 5000, Inclination: 30}}
	in.GasLift = &GasLift{InjectionDepth: 6000, InjectionRate: 500, Valves: []Valve{{Depth: 500, PortSize: 0.25}}}

	c := in.Clone()
	c.Geometry.Segments[0].Diameter = 3.5
	c.Survey[1].Inclination = 60
	c.GasLift.InjectionRate = 0
	c.GasLift.Valves[0].Depth = 1000

	assert.Equal(t, 2.875, in.Geometry.Segments[0].Diameter)
	assert.Equal(t, 30.0, in.Survey[1].Inclination)
	assert.Equal(t, 500.0, in.GasLift.InjectionRate)
	assert.Equal(t, 500.0, in.GasLift.Valves[0].Depth)
}

func TestInput_MaxDeviation(t *testing.T) {
	in := scenarioInput(MethodGray)
	in.Geometry.Deviation = 20
	assert.Equal(t, 20.0, in.MaxDeviation())

	in.Survey = []SurveyPoint{{MD: 0}, {MD: 3000, Inclination: 55}}
	assert.Equal(t, 55.0, in.MaxDeviation())
}

func TestWellboreGeometry(t *testing.T) {
	g := WellboreGeometry{Segments: []PipeSegment{
		{StartDepth: 0, EndDepth: 3000, Diameter: 3.958},
		{StartDepth: 3000, EndDepth: 8000, Diameter: 2.441},
	}}
	assert.Equal(t, 8000.0, g.TotalDepth())
	assert.Equal(t, 3.958, g.MaxDiameter())
	assert.Zero(t, WellboreGeometry{}.TotalDepth())
}
