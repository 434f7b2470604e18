package hydraulics

import (
	"math"

	"wellflow/services/hydraulics-svc/internal/pvt"
)

// State локальные условия в узле глубины. Строится фреймворком заново
// для каждого шага и передаётся корреляции.
type State struct {
	Depth       float64 // ft
	Pressure    float64 // psia
	Temperature float64 // °F

	Diameter     float64 // ft
	Area         float64 // ft²
	RelRoughness float64 // e/D
	AbsRoughness float64 // ft
	Inclination  float64 // градусы от вертикали
	CosTheta     float64

	// in-situ расходы, ft³/s
	OilFlow   float64
	WaterFlow float64
	GasFlow   float64

	Vsl float64 // ft/s
	Vsg float64
	Vm  float64

	LiquidDensity   float64 // lbm/ft³
	GasDensity      float64
	LiquidViscosity float64 // cp
	GasViscosity    float64

	NoSlipHoldup    float64 // λL
	NoSlipDensity   float64
	NoSlipViscosity float64

	SurfaceTension    float64 // dyn/cm
	SurfaceTensionLbm float64 // lbm/s²

	// давление предыдущего узла (0 для первого) и длина шага к текущему
	PrevPressure float64
	StepLength   float64

	Props pvt.Properties
}

// surfaceTension межфазное натяжение нефть/газ и вода/газ, смешанное по доле воды
func surfaceTension(t, p, waterFraction float64) float64 {
	oil := math.Max(1, 30-0.1*(t-60)-0.005*(p-14.7))
	water := math.Max(5, 70-0.15*(t-60)-0.01*(p-14.7))
	return oil*(1-waterFraction) + water*waterFraction
}

type stateArgs struct {
	depth, pressure, temperature float64
	diameterIn                   float64
	inclination                  float64
	prevPressure, stepLength     float64
}

// newState переводит поверхностные дебиты в in-situ скорости и свойства фаз
func newState(in *Input, props pvt.Properties, a stateArgs) *State {
	f := in.Fluid
	roughIn := in.Geometry.RoughnessIn()

	s := &State{
		Depth:        a.depth,
		Pressure:     a.pressure,
		Temperature:  a.temperature,
		Diameter:     a.diameterIn * ftPerIn,
		RelRoughness: roughIn / a.diameterIn,
		AbsRoughness: roughIn * ftPerIn,
		Inclination:  a.inclination,
		CosTheta:     math.Cos(a.inclination * math.Pi / 180),
		PrevPressure: a.prevPressure,
		StepLength:   a.stepLength,
		Props:        props,
	}
	s.Area = math.Pi * s.Diameter * s.Diameter / 4

	s.OilFlow = f.OilRate * props.OilFVF * ft3PerBbl / secPerDay
	s.WaterFlow = f.WaterRate * props.WaterFVF * ft3PerBbl / secPerDay

	freeGas := math.Max(0, f.GasRate*1000-f.OilRate*props.SolutionGOR)
	if gl := in.GasLift; gl != nil && a.depth < gl.InjectionDepth {
		freeGas += gl.InjectionRate * 1000
	}
	s.GasFlow = freeGas * props.GasFVF / secPerDay

	s.Vsl = (s.OilFlow + s.WaterFlow) / s.Area
	s.Vsg = s.GasFlow / s.Area
	s.Vm = s.Vsl + s.Vsg

	gammaO := 141.5 / (131.5 + f.OilGravity)
	oilDensity := (waterDensity*gammaO + 0.0136*props.SolutionGOR*f.GasGravity) / props.OilFVF
	waterDens := waterDensity * f.WaterGravity / props.WaterFVF
	s.GasDensity = airDensitySTP * f.GasGravity / props.GasFVF

	oilFraction := 1.0
	if q := s.OilFlow + s.WaterFlow; q > 0 {
		oilFraction = s.OilFlow / q
	}
	s.LiquidDensity = oilDensity*oilFraction + waterDens*(1-oilFraction)
	s.LiquidViscosity = props.OilViscosity*oilFraction + props.WaterViscosity*(1-oilFraction)
	s.GasViscosity = props.GasViscosity

	s.NoSlipHoldup = 1
	if s.Vm > 0 {
		s.NoSlipHoldup = s.Vsl / (s.Vm + eps)
	}
	s.NoSlipDensity = s.LiquidDensity*s.NoSlipHoldup + s.GasDensity*(1-s.NoSlipHoldup)
	s.NoSlipViscosity = s.LiquidViscosity*s.NoSlipHoldup + s.GasViscosity*(1-s.NoSlipHoldup)

	s.SurfaceTension = surfaceTension(a.temperature, a.pressure, 1-oilFraction)
	s.SurfaceTensionLbm = s.SurfaceTension * dynCmToLbfFt * gc

	return s
}
