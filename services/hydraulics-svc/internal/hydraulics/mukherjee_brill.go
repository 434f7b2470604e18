package hydraulics

import "math"

// MukherjeeBrill корреляция для наклонных скважин: границы режимов зависят
// от угла, отдельная ветка для нисходящего расслоенного течения.
type MukherjeeBrill struct{}

func (MukherjeeBrill) Name() Method { return MethodMukherjeeBrill }

// коэффициенты голдапа C1..C6
var (
	mbUphill     = [6]float64{-0.380113, 0.129875, -0.119788, 2.343227, 0.475686, 0.288657}
	mbStratified = [6]float64{-1.330282, 4.808139, 4.171584, 56.262268, 0.079951, 0.504887}
	mbDownhill   = [6]float64{-0.516644, 0.789805, 0.551627, 15.519214, 0.371771, 0.393952}
)

func (MukherjeeBrill) Step(s *State) StepResult {
	nlv, ngv, _, nl := s.velocityNumbers()
	nlv = math.Max(nlv, eps)

	theta := (90 - s.Inclination) * math.Pi / 180 // от горизонтали
	sin := math.Sin(theta)

	bubbleSlug := math.Pow(10, math.Log10(nlv)+0.940+0.074*sin-0.855*sin*sin+3.695*nl)
	slugMist := math.Pow(10, 1.401-2.694*nl+0.521*math.Pow(nlv, 0.329))
	lg := math.Log10(math.Max(ngv, eps))
	stratified := math.Pow(10, 0.321-0.017*ngv-4.267*sin-2.972*nl-0.033*lg*lg-3.925*sin*sin)

	var r StepResult
	c := mbUphill
	switch {
	case theta <= 0 && nlv < stratified:
		r.Pattern, c = PatternStratified, mbStratified
	case ngv > slugMist:
		r.Pattern = PatternAnnular
	case ngv < bubbleSlug:
		r.Pattern = PatternBubble
	default:
		r.Pattern = PatternSlug
	}
	if theta < 0 && r.Pattern != PatternStratified {
		c = mbDownhill
	}

	hl := math.Exp((c[0] + c[1]*sin + c[2]*sin*sin + c[3]*nl*nl) *
		math.Pow(ngv, c[4]) / math.Pow(nlv, c[5]))
	if theta > 0 {
		// поправка Palmer для восходящего потока
		hl = math.Max(0.918*hl, s.NoSlipHoldup)
	}

	r.Holdup = clampHoldup(hl)
	r.MixtureDensity = s.slipDensity(r.Holdup)
	r.Reynolds = s.noSlipReynolds()
	r.FrictionFactor = FrictionFactor(r.Reynolds, s.RelRoughness)
	if r.Pattern == PatternAnnular {
		r.Friction = FrictionGradient(r.FrictionFactor, s.NoSlipDensity, s.Vm, s.Diameter)
	} else {
		r.Friction = FrictionGradient(r.FrictionFactor, r.MixtureDensity, s.Vm, s.Diameter)
	}
	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)
	r.Acceleration = s.kineticAcceleration(r.MixtureDensity, r.Elevation, r.Friction)
	return r
}
