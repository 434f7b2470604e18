package hydraulics

import "math"

// HagedornBrown эмпирическая корреляция для вертикальных скважин.
// В пузырьковой области (граница Griffith) голдап считается по Griffith.
type HagedornBrown struct{}

func (HagedornBrown) Name() Method { return MethodHagedornBrown }

func (HagedornBrown) Step(s *State) StepResult {
	nlv, ngv, nd, nl := s.velocityNumbers()

	cnl := (0.0019 + 0.0322*nl - 0.6642*nl*nl + 4.9951*nl*nl*nl) /
		(1 - 10.0147*nl + 33.8696*nl*nl + 277.2817*nl*nl*nl)
	h := nlv / math.Pow(math.Max(ngv, eps), 0.575) * math.Pow(s.Pressure/14.7, 0.1) * cnl / nd
	holdupRatio := math.Sqrt((0.0047 + 1123.32*h + 729489.64*h*h) / (1 + 1097.1566*h + 722153.97*h*h))

	b := ngv * math.Pow(nl, 0.38) / math.Pow(nd, 2.14)
	psi := 1.0
	if b > 0.025 {
		psi = (1.0886 - 69.9473*b + 2334.3497*b*b - 12896.683*b*b*b) /
			(1 - 53.4401*b + 1517.9369*b*b - 8419.8115*b*b*b)
	}

	var r StepResult
	switch {
	case ngv < 0.1:
		r.Pattern = PatternBubble
	case ngv < 1:
		r.Pattern = PatternSlug
	case ngv < 10:
		r.Pattern = PatternTransition
	default:
		r.Pattern = PatternAnnular
	}

	if 1-s.NoSlipHoldup < s.griffithBoundary() {
		r.Pattern = PatternBubble
		r.Holdup = clampHoldup(s.griffithHoldup())
		r.MixtureDensity = s.slipDensity(r.Holdup)

		vl := s.Vsl / r.Holdup
		r.Reynolds = ReynoldsNumber(s.LiquidDensity, vl, s.Diameter, s.LiquidViscosity)
		r.FrictionFactor = FrictionFactor(r.Reynolds, s.RelRoughness)
		r.Friction = FrictionGradient(r.FrictionFactor, s.LiquidDensity, vl, s.Diameter)
	} else {
		r.Holdup = clampHoldup(math.Max(holdupRatio*psi, s.NoSlipHoldup))
		r.MixtureDensity = s.slipDensity(r.Holdup)

		mu := math.Pow(s.LiquidViscosity, r.Holdup) * math.Pow(s.GasViscosity, 1-r.Holdup)
		r.Reynolds = ReynoldsNumber(s.NoSlipDensity, s.Vm, s.Diameter, mu)
		r.FrictionFactor = FrictionFactor(r.Reynolds, s.RelRoughness)
		r.Friction = FrictionGradient(r.FrictionFactor, r.MixtureDensity, s.Vm, s.Diameter)
	}

	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)
	r.Acceleration = s.kineticAcceleration(r.MixtureDensity, r.Elevation, r.Friction)
	return r
}
