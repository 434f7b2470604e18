package hydraulics

import "math"

// HasanKabir drift-flux модель с границами, зависящими от наклона.
// Эффективная шероховатость масштабируется абсолютной шероховатостью и режимом.
type HasanKabir struct{}

func (HasanKabir) Name() Method { return MethodHasanKabir }

func (HasanKabir) Step(s *State) StepResult {
	cosA := math.Max(s.CosTheta, 0.05)
	vb := s.bubbleRise() * math.Sqrt(cosA)
	vt := s.taylorRise() * math.Sqrt(cosA) * math.Pow(1+math.Sqrt(math.Max(1-cosA*cosA, 0)), 1.2)
	va := s.annularOnset()

	var r StepResult
	roughScale := 1.0
	switch {
	case s.Vsg < (0.429*s.Vsl+0.357*vb)*cosA || (s.dispersedBubble() && 1-s.NoSlipHoldup < 0.52):
		r.Pattern, r.Holdup = PatternBubble, s.driftFluxHoldup(1.2, vb)
		roughScale = 0.9
	case s.Vsg >= va:
		_, hl := s.filmModel()
		r.Pattern, r.Holdup = PatternAnnular, hl
		roughScale = 1.2
	case s.Vsg > 1.08*s.Vsl+0.52*vt*4:
		r.Pattern, r.Holdup = PatternTransition, s.driftFluxHoldup(1.15, vt)
	default:
		r.Pattern, r.Holdup = PatternSlug, s.driftFluxHoldup(1.2, vt)
	}

	r.Holdup = clampHoldup(r.Holdup)
	r.MixtureDensity = s.slipDensity(r.Holdup)

	rough := s.AbsRoughness
	if s.RelRoughness > 0.001 {
		rough *= 1 + 10*(s.RelRoughness-0.001)
	}
	rough *= roughScale

	r.Reynolds = s.noSlipReynolds()
	r.FrictionFactor = FrictionFactor(r.Reynolds, rough/s.Diameter)
	r.Friction = FrictionGradient(r.FrictionFactor, r.MixtureDensity, s.Vm, s.Diameter)
	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)
	r.Acceleration = s.kineticAcceleration(r.MixtureDensity, r.Elevation, r.Friction)
	return r
}
