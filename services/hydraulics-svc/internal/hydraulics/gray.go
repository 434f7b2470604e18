package hydraulics

import "math"

// Gray корреляция для газовых скважин с конденсатом/водой. Голдап без
// ветвления по режимам; эффективная шероховатость растёт за счёт
// поверхностного натяжения при низком жидкостном факторе.
type Gray struct{}

func (Gray) Name() Method { return MethodGray }

func (Gray) Step(s *State) StepResult {
	dr := s.LiquidDensity - s.GasDensity

	holdup := 1.0
	nv, nd, ratio := 0.0, 1.0, 1e9
	if s.Vsg > eps {
		nv = s.NoSlipDensity * s.NoSlipDensity * math.Pow(s.Vm, 4) / (gravity * s.SurfaceTensionLbm * dr)
		nd = gravity * dr * s.Diameter * s.Diameter / s.SurfaceTensionLbm
		ratio = s.Vsl / s.Vsg

		b := 0.0814 * (1 - 0.0554*math.Log(1+730*ratio/(ratio+1)))
		f1 := -2.314 * math.Pow(nv*(1+205/nd), b)
		holdup = 1 - (1-s.NoSlipHoldup)*(1-math.Exp(f1))
	}

	var r StepResult
	x := nv * (1 + 205/nd)
	switch {
	case 1-s.NoSlipHoldup < 0.25 || s.Vsg <= eps:
		r.Pattern = PatternBubble
	case x < 100:
		r.Pattern = PatternSlug
	case x < 1000:
		r.Pattern = PatternTransition
	default:
		r.Pattern = PatternAnnular
	}

	r.Holdup = clampHoldup(holdup)
	r.MixtureDensity = s.slipDensity(r.Holdup)

	k0 := 28.5 * s.SurfaceTensionLbm / (s.NoSlipDensity*s.Vm*s.Vm + eps)
	k := k0
	if ratio < 0.007 {
		k = s.AbsRoughness + ratio*(k0-s.AbsRoughness)/0.007
	}
	k = math.Max(k, math.Max(2.77e-5, s.AbsRoughness))

	r.Reynolds = s.noSlipReynolds()
	r.FrictionFactor = FrictionFactor(r.Reynolds, k/s.Diameter)
	r.Friction = FrictionGradient(r.FrictionFactor, s.NoSlipDensity, s.Vm, s.Diameter)
	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)
	r.Acceleration = s.kineticAcceleration(r.MixtureDensity, r.Elevation, r.Friction)
	return r
}
