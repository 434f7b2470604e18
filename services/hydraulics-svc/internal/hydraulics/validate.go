package hydraulics

import (
	"fmt"
	"math"

	"wellflow/pkg/apperror"
)

// contiguity tolerance between consecutive segments, ft
const segmentGap = 1e-6

// normalize подставляет значения по умолчанию в копию входа
func normalize(in Input) Input {
	out := in.Clone()
	if out.Method == "" {
		out.Method = MethodHagedornBrown
	}
	if out.Geometry.Steps == 0 {
		out.Geometry.Steps = DefaultSteps
	}
	if out.Geometry.Roughness == nil {
		r := DefaultRoughness
		out.Geometry.Roughness = &r
	}
	if out.Fluid.WaterGravity == 0 {
		out.Fluid.WaterGravity = DefaultWaterGravity
	}
	return out
}

// Validate проверяет вход целиком и возвращает все найденные проблемы
// одной ошибкой (первая ошибка, полный список в Details["errors"]).
func Validate(in *Input) error {
	if in == nil {
		return apperror.ErrNilInput.Clone()
	}

	v := apperror.NewValidationErrors()
	validateGeometry(v, in.Geometry)
	validateFluid(v, in.Fluid)
	validateSurvey(v, in.Survey)
	validateGasLift(v, in.GasLift, in.Geometry.TotalDepth())

	if !(in.SurfacePressure > 0) {
		v.AddErrorWithField(apperror.CodeInvalidInput,
			fmt.Sprintf("surface pressure must be positive, got %g", in.SurfacePressure), "surface_pressure")
	}
	if in.Method != "" {
		if _, ok := Lookup(in.Method); !ok {
			v.AddErrorWithField(apperror.CodeUnknownMethod,
				fmt.Sprintf("unknown method %q", in.Method), "method")
		}
	}

	return v.Err()
}

func validateGeometry(v *apperror.ValidationErrors, g WellboreGeometry) {
	if len(g.Segments) == 0 {
		v.Add(apperror.ErrNoSegments.Clone().WithField("geometry.segments"))
	}

	for i, s := range g.Segments {
		field := fmt.Sprintf("geometry.segments[%d]", i)
		if !(s.EndDepth > s.StartDepth) {
			v.AddErrorWithField(apperror.CodeInvalidGeometry,
				fmt.Sprintf("segment %d: end depth %g must exceed start depth %g", i, s.EndDepth, s.StartDepth), field)
		}
		if !(s.Diameter > 0) {
			v.AddErrorWithField(apperror.CodeInvalidGeometry,
				fmt.Sprintf("segment %d: diameter must be positive, got %g", i, s.Diameter), field)
		}

		expectedStart := 0.0
		if i > 0 {
			expectedStart = g.Segments[i-1].EndDepth
		}
		if math.Abs(s.StartDepth-expectedStart) > segmentGap {
			v.AddErrorWithField(apperror.CodeInvalidGeometry,
				fmt.Sprintf("segment %d: starts at %g, expected %g", i, s.StartDepth, expectedStart), field)
		}
	}

	if g.RoughnessIn() < 0 {
		v.AddErrorWithField(apperror.CodeInvalidGeometry, "roughness must be non-negative", "geometry.roughness")
	}
	if g.Steps < 0 {
		v.AddErrorWithField(apperror.CodeInvalidGeometry, "steps must be at least 1", "geometry.steps")
	}
	if g.Deviation < 0 || g.Deviation > 180 {
		v.AddErrorWithField(apperror.CodeInvalidGeometry,
			fmt.Sprintf("deviation %g outside [0, 180]", g.Deviation), "geometry.deviation")
	}
}

func validateFluid(v *apperror.ValidationErrors, f FluidProperties) {
	rates := []struct {
		name  string
		value float64
	}{
		{"oil_rate", f.OilRate},
		{"water_rate", f.WaterRate},
		{"gas_rate", f.GasRate},
	}
	for _, r := range rates {
		if r.value < 0 || math.IsNaN(r.value) {
			v.AddErrorWithField(apperror.CodeInvalidRates,
				fmt.Sprintf("%s must be non-negative, got %g", r.name, r.value), "fluid."+r.name)
		}
	}

	gravities := []struct {
		name  string
		value float64
	}{
		{"oil_gravity", f.OilGravity},
		{"gas_gravity", f.GasGravity},
		{"bubble_point", f.BubblePoint},
	}
	for _, g := range gravities {
		if !(g.value > 0) {
			v.AddErrorWithField(apperror.CodeInvalidFluid,
				fmt.Sprintf("%s must be positive, got %g", g.name, g.value), "fluid."+g.name)
		}
	}
	if f.WaterGravity < 0 {
		v.AddErrorWithField(apperror.CodeInvalidFluid, "water_gravity must be positive", "fluid.water_gravity")
	}
}

func validateSurvey(v *apperror.ValidationErrors, survey []SurveyPoint) {
	for i, sp := range survey {
		field := fmt.Sprintf("survey[%d]", i)
		if i > 0 && !(sp.MD > survey[i-1].MD) {
			v.AddErrorWithField(apperror.CodeInvalidSurvey,
				fmt.Sprintf("survey point %d: measured depth %g not increasing", i, sp.MD), field)
		}
		if sp.Inclination < 0 || sp.Inclination > 180 {
			v.AddErrorWithField(apperror.CodeInvalidSurvey,
				fmt.Sprintf("survey point %d: inclination %g outside [0, 180]", i, sp.Inclination), field)
		}
	}
}

func validateGasLift(v *apperror.ValidationErrors, gl *GasLift, totalDepth float64) {
	if gl == nil {
		return
	}
	if gl.InjectionRate < 0 {
		v.AddErrorWithField(apperror.CodeInvalidGasLift, "injection rate must be non-negative", "gas_lift.injection_rate")
	}
	if gl.InjectionDepth < 0 || (totalDepth > 0 && gl.InjectionDepth > totalDepth) {
		v.AddErrorWithField(apperror.CodeInvalidGasLift,
			fmt.Sprintf("injection depth %g outside [0, %g]", gl.InjectionDepth, totalDepth), "gas_lift.injection_depth")
	}
	for i, valve := range gl.Valves {
		if valve.PortSize <= 0 || valve.Depth < 0 {
			v.AddErrorWithField(apperror.CodeInvalidGasLift,
				fmt.Sprintf("valve %d: depth and port size must be positive", i), fmt.Sprintf("gas_lift.valves[%d]", i))
		}
	}
}
