package hydraulics

// Chokshi механистическая модель: граница диспергированных пузырей Barnea,
// drift-flux по режимам, в кольцевом режиме шероховатость увеличена плёнкой.
// Ускорение оценивается по расширению газа относительно предыдущего узла.
type Chokshi struct{}

func (Chokshi) Name() Method { return MethodChokshi }

func (Chokshi) Step(s *State) StepResult {
	vb := s.bubbleRise()
	vt := s.taylorRise()
	va := s.annularOnset()
	roughness := s.RelRoughness

	var r StepResult
	switch {
	case s.Vsg < (s.Vsl+1.15*vb/1.53)/3 || (s.dispersedBubble() && 1-s.NoSlipHoldup < 0.52):
		r.Pattern, r.Holdup = PatternBubble, s.driftFluxHoldup(1.2, vb)
	case s.Vsg >= va:
		thickness, hl := s.filmModel()
		r.Pattern, r.Holdup = PatternAnnular, hl
		roughness += thickness
	case s.Vsg >= 0.7*va:
		r.Pattern, r.Holdup = PatternTransition, s.driftFluxHoldup(1.15, vt)
	default:
		r.Pattern, r.Holdup = PatternSlug, s.driftFluxHoldup(1.2, vt)
	}

	r.Holdup = clampHoldup(r.Holdup)
	r.MixtureDensity = s.slipDensity(r.Holdup)
	r.Reynolds = s.noSlipReynolds()
	r.FrictionFactor = FrictionFactor(r.Reynolds, roughness)
	r.Friction = FrictionGradient(r.FrictionFactor, r.MixtureDensity, s.Vm, s.Diameter)
	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)
	r.Acceleration = s.laggedAcceleration(r.MixtureDensity)
	return r
}
