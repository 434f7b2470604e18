package hydraulics

import "math"

// BeggsBrill корреляция для любых углов наклона: режим по числу Фруда
// и границам L1..L4, поправка голдапа на наклон, двухфазный множитель трения.
type BeggsBrill struct{}

func (BeggsBrill) Name() Method { return MethodBeggsBrill }

type bbRegime int

const (
	bbSegregated bbRegime = iota
	bbTransition
	bbIntermittent
	bbDistributed
)

// horizontal holdup coefficients a, b, c
var bbCoefficients = map[bbRegime][3]float64{
	bbSegregated:   {0.98, 0.4846, 0.0868},
	bbIntermittent: {0.845, 0.5351, 0.0173},
	bbDistributed:  {1.065, 0.5824, 0.0609},
}

func (BeggsBrill) Step(s *State) StepResult {
	lambda := math.Max(s.NoSlipHoldup, 1e-6)
	froude := math.Max(s.Vm*s.Vm/(gravity*s.Diameter), eps)

	l1 := 316 * math.Pow(lambda, 0.302)
	l2 := 0.0009252 * math.Pow(lambda, -2.4684)
	l3 := 0.1 * math.Pow(lambda, -1.4516)
	l4 := 0.5 * math.Pow(lambda, -6.738)

	var regime bbRegime
	switch {
	case lambda >= 0.999 || s.Vsg <= eps:
		regime = bbDistributed
	case (lambda < 0.01 && froude < l1) || (lambda >= 0.01 && froude < l2):
		regime = bbSegregated
	case lambda >= 0.01 && froude >= l2 && froude <= l3:
		regime = bbTransition
	case (lambda >= 0.01 && lambda < 0.4 && froude > l3 && froude <= l1) ||
		(lambda >= 0.4 && froude > l3 && froude <= l4):
		regime = bbIntermittent
	default:
		regime = bbDistributed
	}

	theta := (90 - s.Inclination) * math.Pi / 180
	nlv := 1.938 * s.Vsl * math.Pow(s.LiquidDensity/s.SurfaceTension, 0.25)

	holdup := func(rg bbRegime) float64 {
		c := bbCoefficients[rg]
		h := math.Max(c[0]*math.Pow(lambda, c[1])/math.Pow(froude, c[2]), lambda)
		if rg == bbDistributed {
			return h
		}

		var arg float64
		if rg == bbSegregated {
			arg = 0.011 * math.Pow(nlv, 3.539) / (math.Pow(lambda, 3.768) * math.Pow(froude, 1.614))
		} else {
			arg = 2.96 * math.Pow(lambda, 0.305) * math.Pow(froude, 0.0978) / math.Pow(nlv, 0.4473)
		}
		cc := math.Max((1-lambda)*math.Log(math.Max(arg, eps)), 0)
		sin := math.Sin(1.8 * theta)
		return h * (1 + cc*(sin-0.333*sin*sin*sin))
	}

	var r StepResult
	switch regime {
	case bbSegregated:
		r.Pattern = PatternStratified
		r.Holdup = holdup(bbSegregated)
	case bbIntermittent:
		r.Pattern = PatternSlug
		r.Holdup = holdup(bbIntermittent)
	case bbDistributed:
		r.Pattern = PatternBubble
		r.Holdup = holdup(bbDistributed)
	default:
		w := (l3 - froude) / (l3 - l2)
		r.Pattern = PatternTransition
		r.Holdup = w*holdup(bbSegregated) + (1-w)*holdup(bbIntermittent)
	}

	r.Holdup = clampHoldup(r.Holdup)
	r.MixtureDensity = s.slipDensity(r.Holdup)

	r.Reynolds = s.noSlipReynolds()
	fn := FrictionFactor(r.Reynolds, s.RelRoughness)

	y := lambda / (r.Holdup * r.Holdup)
	var sExp float64
	if y > 1 && y < 1.2 {
		sExp = math.Log(2.2*y - 1.2)
	} else {
		ly := math.Log(y)
		sExp = ly / (-0.0523 + 3.182*ly - 0.8725*ly*ly + 0.01853*math.Pow(ly, 4))
	}
	r.FrictionFactor = fn * math.Exp(sExp)

	r.Friction = FrictionGradient(r.FrictionFactor, s.NoSlipDensity, s.Vm, s.Diameter)
	r.Elevation = ElevationGradient(r.MixtureDensity, s.CosTheta)
	r.Acceleration = s.kineticAcceleration(r.MixtureDensity, r.Elevation, r.Friction)
	return r
}
