package pvt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFluid() Fluid {
	return Fluid{OilGravity: 35, GasGravity: 0.65, WaterGravity: 1.07, BubblePoint: 2000}
}

func TestBlackOil_ReferencePoints(t *testing.T) {
	tests := []struct {
		name  string
		p, t  float64
		gor   float64
		want  Properties
		delta float64
	}{
		{
			name: "saturated",
			p:    1000, t: 150,
			want: Properties{
				OilFVF: 1.114263, WaterFVF: 1.0189, GasFVF: 0.015612,
				OilViscosity: 1.381312, WaterViscosity: 0.397075, GasViscosity: 0.013805,
				SolutionGOR: 192.747712, ZFactor: 0.905785,
			},
		},
		{
			name: "undersaturated",
			p:    3000, t: 150,
			want: Properties{
				OilFVF: 1.207206, WaterFVF: 1.0189, GasFVF: 0.005035,
				OilViscosity: 0.972337, WaterViscosity: 0.397075, GasViscosity: 0.019584,
				SolutionGOR: 437.652117, ZFactor: 0.876397,
			},
		},
		{
			name: "anchored to producing GOR",
			p:    1000, t: 150, gor: 2000,
			want: Properties{
				OilFVF: 1.429556, WaterFVF: 1.0189, GasFVF: 0.015612,
				OilViscosity: 0.564423, WaterViscosity: 0.397075, GasViscosity: 0.013805,
				SolutionGOR: 880.82614, ZFactor: 0.905785,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFluid()
			f.ProducingGOR = tt.gor

			got, err := NewBlackOil().Properties(tt.p, tt.t, f)
			require.NoError(t, err)

			assert.InDelta(t, tt.want.OilFVF, got.OilFVF, 1e-5, "Bo")
			assert.InDelta(t, tt.want.WaterFVF, got.WaterFVF, 1e-5, "Bw")
			assert.InDelta(t, tt.want.GasFVF, got.GasFVF, 1e-5, "Bg")
			assert.InDelta(t, tt.want.OilViscosity, got.OilViscosity, 1e-5, "μo")
			assert.InDelta(t, tt.want.WaterViscosity, got.WaterViscosity, 1e-5, "μw")
			assert.InDelta(t, tt.want.GasViscosity, got.GasViscosity, 1e-5, "μg")
			assert.InDelta(t, tt.want.SolutionGOR, got.SolutionGOR, 1e-4, "Rs")
			assert.InDelta(t, tt.want.ZFactor, got.ZFactor, 1e-5, "Z")
		})
	}
}

func TestBlackOil_PressureFloor(t *testing.T) {
	bo := NewBlackOil()
	low, err := bo.Properties(1, 60, testFluid())
	require.NoError(t, err)
	atm, err := bo.Properties(atmPressure, 60, testFluid())
	require.NoError(t, err)

	assert.Equal(t, atm, low)
}

func TestBlackOil_SolutionGORCappedAtBubblePoint(t *testing.T) {
	bo := NewBlackOil()
	atPb, err := bo.Properties(2000, 150, testFluid())
	require.NoError(t, err)
	above, err := bo.Properties(4000, 150, testFluid())
	require.NoError(t, err)

	assert.InDelta(t, atPb.SolutionGOR, above.SolutionGOR, 1e-9)
	assert.Less(t, above.OilFVF, atPb.OilFVF, "undersaturated oil shrinks with pressure")
	assert.Greater(t, above.OilViscosity, atPb.OilViscosity)
}

func TestBlackOil_AnchoredGORAtBubblePoint(t *testing.T) {
	f := testFluid()
	f.ProducingGOR = 800

	got, err := NewBlackOil().Properties(2500, 150, f)
	require.NoError(t, err)
	assert.InDelta(t, 800, got.SolutionGOR, 1e-9)
}

func TestBlackOil_InvalidFluid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Fluid)
	}{
		{"oil gravity", func(f *Fluid) { f.OilGravity = 0 }},
		{"gas gravity", func(f *Fluid) { f.GasGravity = -0.1 }},
		{"water gravity", func(f *Fluid) { f.WaterGravity = 0 }},
		{"bubble point", func(f *Fluid) { f.BubblePoint = 0 }},
		{"negative gor", func(f *Fluid) { f.ProducingGOR = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFluid()
			tt.mutate(&f)
			_, err := NewBlackOil().Properties(1000, 150, f)
			assert.ErrorIs(t, err, ErrInvalidFluid)
		})
	}
}

func TestZFactor_Floor(t *testing.T) {
	// холодный тяжёлый газ уводит Papay ниже минимума
	assert.Equal(t, 0.25, ZFactor(2000, -100, 1.2))
	assert.InDelta(t, 1.0, ZFactor(atmPressure, 60, 0.65), 0.01)
}

func TestSanitize(t *testing.T) {
	got := Properties{
		OilFVF:       math.NaN(),
		OilViscosity: math.Inf(1),
		GasFVF:       math.NaN(),
		GasViscosity: math.Inf(-1),
		ZFactor:      math.NaN(),
		SolutionGOR:  math.NaN(),
		WaterFVF:     1.02,
	}.sanitize()

	assert.Equal(t, FallbackOilFVF, got.OilFVF)
	assert.Equal(t, FallbackOilViscosity, got.OilViscosity)
	assert.Equal(t, FallbackGasFVF, got.GasFVF)
	assert.Equal(t, FallbackGasViscosity, got.GasViscosity)
	assert.Equal(t, FallbackZFactor, got.ZFactor)
	assert.Equal(t, FallbackSolutionGOR, got.SolutionGOR)
	assert.Equal(t, 1.02, got.WaterFVF)
}

func TestFunc_Adapter(t *testing.T) {
	want := errors.New("lab data missing")
	var p Provider = Func(func(p, t float64, f Fluid) (Properties, error) {
		return Properties{}, want
	})

	_, err := p.Properties(1000, 100, testFluid())
	assert.ErrorIs(t, err, want)
}
