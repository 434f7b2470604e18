package hydraulics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellflow/pkg/apperror"
)

func TestDefaultValves(t *testing.T) {
	valves := DefaultValves(8500)
	require.Len(t, valves, 5)

	wantDepths := []float64{500, 2500, 4500, 6500, 8500}
	wantPorts := []float64{0.0625, 0.125, 0.1875, 0.25, 0.3125}
	for i, v := range valves {
		assert.InDelta(t, wantDepths[i], v.Depth, 1e-9)
		assert.InDelta(t, wantPorts[i], v.PortSize, 1e-12)
	}
}

func TestDesignGasLift_NaturalFlow(t *testing.T) {
	res, err := DesignGasLift(context.Background(), &GasLiftDesign{
		Input:             *scenarioInput(MethodHagedornBrown),
		FormationPressure: 5000,
		InjectionDepth:    8000,
	})
	require.NoError(t, err)

	assert.False(t, res.GasLiftNeeded)
	assert.True(t, res.NaturalFlowPossible())
	assert.Zero(t, res.InjectionRate)
	assert.Equal(t, res.NaturalBHP, res.DesignBHP)
	assert.Empty(t, res.RateSweep)
	assert.Empty(t, res.Valves)
	require.NotNil(t, res.Result)
}

func TestDesignGasLift_Needed(t *testing.T) {
	design := &GasLiftDesign{
		Input:             *deadOilInput(MethodHagedornBrown),
		FormationPressure: 3500,
		InjectionDepth:    8000,
	}
	res, err := NewPool(4).DesignGasLift(context.Background(), design)
	require.NoError(t, err)

	assert.True(t, res.GasLiftNeeded)
	assert.Greater(t, res.NaturalBHP, 3500.0)
	require.Len(t, res.RateSweep, 10)
	assert.Equal(t, 100.0, res.RateSweep[0].Rate)
	assert.Equal(t, 2000.0, res.RateSweep[9].Rate)

	// выбран первый расход, при котором забойное ниже пластового
	idx := -1
	for i, rp := range res.RateSweep {
		if rp.BHP < design.FormationPressure {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, res.RateSweep[idx].Rate, res.InjectionRate)
	assert.Equal(t, res.RateSweep[idx].BHP, res.DesignBHP)
	assert.Less(t, res.DesignBHP, res.NaturalBHP)

	require.Len(t, res.Valves, 5)
	for i, v := range res.Valves {
		assert.Greater(t, v.CasingPressure, design.Input.SurfacePressure)
		assert.InDelta(t, v.CasingPressure-v.TubingPressure, v.Differential, 1e-9)
		if i > 0 {
			assert.Greater(t, v.Depth, res.Valves[i-1].Depth)
			assert.Greater(t, v.CasingPressure, res.Valves[i-1].CasingPressure)
		}
	}
	assert.Equal(t, 500.0, res.Valves[0].Depth)
}

func TestDesignGasLift_FallsBackToLastRate(t *testing.T) {
	res, err := DesignGasLift(context.Background(), &GasLiftDesign{
		Input:             *deadOilInput(MethodHagedornBrown),
		FormationPressure: 1000,
		InjectionDepth:    8000,
		InjectionRates:    []float64{100, 200},
		Valves:            []Valve{{Depth: 4000, PortSize: 0.25}},
	})
	require.NoError(t, err)

	assert.True(t, res.GasLiftNeeded)
	assert.Equal(t, 200.0, res.InjectionRate)
	assert.Equal(t, res.RateSweep[1].BHP, res.DesignBHP)
	require.Len(t, res.Valves, 1)
	assert.Equal(t, 0.25, res.Valves[0].PortSize)
}

func TestDesignGasLift_Validation(t *testing.T) {
	tests := []struct {
		name   string
		design *GasLiftDesign
		code   apperror.ErrorCode
	}{
		{"nil", nil, apperror.CodeNilInput},
		{"zero formation pressure", &GasLiftDesign{Input: *scenarioInput(""), InjectionDepth: 5000}, apperror.CodeInvalidGasLift},
		{"injection below well", &GasLiftDesign{Input: *scenarioInput(""), FormationPressure: 3000, InjectionDepth: 15000}, apperror.CodeInvalidGasLift},
		{"negative rate", &GasLiftDesign{Input: *scenarioInput(""), FormationPressure: 3000, InjectionDepth: 5000, InjectionRates: []float64{-1}}, apperror.CodeInvalidGasLift},
		{"bad well", &GasLiftDesign{Input: Input{SurfacePressure: 100}, FormationPressure: 3000, InjectionDepth: 5000}, apperror.CodeInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DesignGasLift(context.Background(), tt.design)
			assert.Equal(t, tt.code, apperror.Code(err))
		})
	}
}
