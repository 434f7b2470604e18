package hydraulics

// Orkiszewski: Griffith для пузырькового режима, проскальзывание с пузырём
// Тейлора для пробкового, фиксированные границы по Vsg 10 и 20 ft/s.
type Orkiszewski struct{}

func (Orkiszewski) Name() Method { return MethodOrkiszewski }

const (
	orkSlugLimit = 10.0 // ft/s
	orkMistLimit = 20.0
)

func (Orkiszewski) Step(s *State) StepResult {
	var r StepResult

	if 1-s.NoSlipHoldup < s.griffithBoundary() {
		r.Pattern = PatternBubble
		r.Holdup = clampHoldup(s.griffithHoldup())

		vl := s.Vsl / r.Holdup
		r.Reynolds = ReynoldsNumber(s.LiquidDensity, vl, s.Diameter, s.LiquidViscosity)
		r.FrictionFactor = FrictionFactor(r.Reynolds, s.RelRoughness)
		r.Friction = FrictionGradient(r.FrictionFactor, s.LiquidDensity, vl, s.Diameter)
	} else {
		vb := s.taylorRise()
		slugHoldup := (s.Vsl + vb) / (s.Vm + vb)

		reS := ReynoldsNumber(s.LiquidDensity, s.Vm, s.Diameter, s.LiquidViscosity)
		fS := FrictionFactor(reS, s.RelRoughness)
		frictionS := FrictionGradient(fS, s.LiquidDensity, s.Vm, s.Diameter) * slugHoldup

		reM := ReynoldsNumber(s.GasDensity, s.Vsg, s.Diameter, s.GasViscosity)
		fM := FrictionFactor(reM, s.RelRoughness)
		frictionM := FrictionGradient(fM, s.NoSlipDensity, s.Vm, s.Diameter)

		switch {
		case s.Vsg < orkSlugLimit:
			r.Pattern, r.Holdup = PatternSlug, slugHoldup
			r.Reynolds, r.FrictionFactor, r.Friction = reS, fS, frictionS
		case s.Vsg < orkMistLimit:
			w := (s.Vsg - orkSlugLimit) / (orkMistLimit - orkSlugLimit)
			r.Pattern = PatternTransition
			r.Holdup = (1-w)*slugHoldup + w*s.NoSlipHoldup
			r.Reynolds = (1-w)*reS + w*reM
			r.FrictionFactor = (1-w)*fS + w*fM
			r.Friction = (1-w)*frictionS + w*frictionM
		default:
			r.Pattern, r.Holdup = PatternMist, s.NoSlipHoldup
			r.Reynolds, r.FrictionFactor, r.Friction = reM, fM, frictionM
		}
		r.Holdup = clampHoldup(r.Holdup)
	}

	r.MixtureDensity = s.slipDensity(r.Holdup)
	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)
	r.Acceleration = s.kineticAcceleration(r.MixtureDensity, r.Elevation, r.Friction)
	return r
}
