package hydraulics

import (
	"math"

	"wellflow/pkg/domain"
)

// Ansari механистическая модель: пузырьковый, пробковый (динамика пузыря
// Тейлора), переходный и кольцевой режимы.
type Ansari struct{}

func (Ansari) Name() Method { return MethodAnsari }

// доля жидкости в плёнке вокруг пузыря Тейлора
const ansariFilmFraction = 0.85

func (Ansari) Step(s *State) StepResult {
	vb := s.bubbleRise()
	va := s.annularOnset()

	var r StepResult
	switch {
	case s.Vsg < 0.429*s.Vsl+0.357*vb || (s.dispersedBubble() && 1-s.NoSlipHoldup < 0.52):
		r.Pattern, r.Holdup = PatternBubble, s.driftFluxHoldup(1.2, vb)
	case s.Vsg >= va:
		_, hl := s.filmModel()
		r.Pattern, r.Holdup = PatternAnnular, hl
	default:
		slugBody := 1 / (1 + math.Pow(s.Vm/28.4, 1.39))
		vtb := 1.2*s.Vm + s.taylorRise()
		vgls := 1.2*s.Vm + vb*math.Sqrt(slugBody)

		var beta float64
		if den := ansariFilmFraction*vtb - (1-slugBody)*vgls; math.Abs(den) > eps {
			beta = domain.Clamp((s.Vsg-(1-slugBody)*vgls)/den, 0, 1)
		}
		r.Holdup = (1-beta)*slugBody + beta*(1-ansariFilmFraction)

		r.Pattern = PatternSlug
		if s.Vsg >= 0.7*va {
			r.Pattern = PatternTransition
		}
	}

	r.Holdup = clampHoldup(r.Holdup)
	r.MixtureDensity = s.slipDensity(r.Holdup)
	r.Reynolds = s.noSlipReynolds()
	r.FrictionFactor = FrictionFactor(r.Reynolds, s.RelRoughness)
	r.Friction = FrictionGradient(r.FrictionFactor, r.MixtureDensity, s.Vm, s.Diameter)
	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)
	r.Acceleration = s.kineticAcceleration(r.MixtureDensity, r.Elevation, r.Friction)
	return r
}
