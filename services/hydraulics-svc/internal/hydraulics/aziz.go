package hydraulics

import "math"

// Aziz карта режимов Aziz-Govier-Fogarasi в координатах Nx/Ny,
// масштабированная по λL и наклону; голдап по drift-flux.
type Aziz struct{}

func (Aziz) Name() Method { return MethodAziz }

func (Aziz) Step(s *State) StepResult {
	q := math.Pow(72*s.LiquidDensity/(waterDensity*s.SurfaceTension), 0.25)
	nx := s.Vsg * math.Cbrt(s.GasDensity/airDensitySTP) * q
	ny := s.Vsl * q

	scale := (0.5 + 0.5*s.NoSlipHoldup) * math.Sqrt(math.Max(s.CosTheta, 0.1))
	n1 := 0.51 * math.Pow(100*ny+eps, 0.172) * scale
	n2 := (8.6 + 3.8*ny) * scale
	n3 := math.Max(70*math.Pow(100*ny+eps, -0.152)*scale, n2)

	var r StepResult
	switch {
	case nx < n1:
		r.Pattern, r.Holdup = PatternBubble, s.driftFluxHoldup(1.2, s.bubbleRise())
	case nx < n2:
		r.Pattern, r.Holdup = PatternSlug, s.driftFluxHoldup(1.2, s.taylorRise())
	case nx < n3:
		r.Pattern, r.Holdup = PatternTransition, s.driftFluxHoldup(1.15, s.taylorRise())
	default:
		r.Pattern, r.Holdup = PatternAnnular, s.NoSlipHoldup
	}

	r.Holdup = clampHoldup(r.Holdup)
	r.MixtureDensity = s.slipDensity(r.Holdup)
	r.Reynolds = s.noSlipReynolds()
	r.FrictionFactor = FrictionFactor(r.Reynolds, s.RelRoughness)
	r.Friction = FrictionGradient(r.FrictionFactor, r.MixtureDensity, s.Vm, s.Diameter)
	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)

	// отношение предыдущего давления к текущему; при спуске вниз по стволу
	// давление растёт, и член ускорения остаётся нулевым
	if s.Pressure > 0 && s.PrevPressure > 0 && s.PrevPressure/s.Pressure > 1.01 {
		r.Acceleration = 0.05 * r.Friction
	}
	return r
}
