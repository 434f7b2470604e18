package hydraulics

import (
	"math"

	"wellflow/pkg/domain"
)

// DunsRoss режимы по безразмерным числам скорости газа/жидкости и диаметра,
// переходная зона интерполируется между пробковым и туманным режимом.
type DunsRoss struct{}

func (DunsRoss) Name() Method { return MethodDunsRoss }

func (DunsRoss) Step(s *State) StepResult {
	nlv, ngv, nd, _ := s.velocityNumbers()

	l1 := domain.Clamp(2.0-0.025*(nd-10), 1, 2)
	l2 := domain.Clamp(0.5+0.02*nd, 0.5, 1.1)
	slugLimit := 50 + 36*nlv
	mistLimit := 75 + 84*math.Pow(nlv, 0.75)

	bubbleHoldup := s.driftFluxHoldup(1.2, s.bubbleRise())
	slugHoldup := s.driftFluxHoldup(1.2, s.taylorRise())

	reL := ReynoldsNumber(s.LiquidDensity, s.Vsl, s.Diameter, s.LiquidViscosity)
	fL := FrictionFactor(reL, s.RelRoughness)
	frictionL := fL * s.LiquidDensity * s.Vsl * s.Vm / (2 * gc * s.Diameter * sqInPerFt)

	reG := ReynoldsNumber(s.GasDensity, s.Vsg, s.Diameter, s.GasViscosity)
	fG := FrictionFactor(reG, s.RelRoughness)
	frictionG := FrictionGradient(fG, s.GasDensity, s.Vsg, s.Diameter)

	var r StepResult
	switch {
	case ngv < l1+l2*nlv:
		r.Pattern, r.Holdup = PatternBubble, bubbleHoldup
		r.Reynolds, r.FrictionFactor, r.Friction = reL, fL, frictionL
	case ngv < slugLimit:
		r.Pattern, r.Holdup = PatternSlug, slugHoldup
		r.Reynolds, r.FrictionFactor, r.Friction = reL, fL, frictionL
	case ngv < mistLimit:
		w := (ngv - slugLimit) / (mistLimit - slugLimit)
		r.Pattern = PatternTransition
		r.Holdup = (1-w)*slugHoldup + w*s.NoSlipHoldup
		r.Reynolds = (1-w)*reL + w*reG
		r.FrictionFactor = (1-w)*fL + w*fG
		r.Friction = (1-w)*frictionL + w*frictionG
	default:
		r.Pattern, r.Holdup = PatternMist, s.NoSlipHoldup
		r.Reynolds, r.FrictionFactor, r.Friction = reG, fG, frictionG
	}

	r.Holdup = clampHoldup(r.Holdup)
	r.MixtureDensity = s.slipDensity(r.Holdup)
	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)
	r.Acceleration = s.kineticAcceleration(r.MixtureDensity, r.Elevation, r.Friction)
	return r
}
