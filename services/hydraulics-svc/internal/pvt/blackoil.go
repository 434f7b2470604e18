package pvt

import "math"

const (
	atmPressure = 14.7   // psia
	rankine     = 459.67 // °F -> °R
	airMW       = 28.97
)

// BlackOil стандартные корреляции black-oil:
//   - Rs, Bo: Standing; выше Pb сжимаемость Vasquez-Beggs
//   - μo: Beggs-Robinson, выше Pb Vasquez-Beggs
//   - Z: Sutton + Papay; μg: Lee-Gonzalez-Eakin
//   - Bw, μw: McCain
type BlackOil struct{}

// NewBlackOil provider по умолчанию
func NewBlackOil() BlackOil {
	return BlackOil{}
}

func (BlackOil) Properties(p, t float64, fluid Fluid) (Properties, error) {
	if err := fluid.Validate(); err != nil {
		return Properties{}, err
	}

	p = math.Max(p, atmPressure)
	pb := fluid.BubblePoint
	api := fluid.OilGravity
	gg := fluid.GasGravity

	rs, rsb := solutionGOR(p, t, fluid)
	z := ZFactor(p, t, gg)

	props := Properties{
		OilFVF:         oilFVF(p, t, rs, rsb, fluid),
		WaterFVF:       WaterFVF(t),
		GasFVF:         0.02827 * z * (t + rankine) / p,
		OilViscosity:   oilViscosity(p, t, api, pb, rs, rsb),
		WaterViscosity: WaterViscosity(t),
		GasViscosity:   gasViscosity(p, t, gg, z),
		SolutionGOR:    rs,
		ZFactor:        z,
	}
	return props.sanitize(), nil
}

// standingRs растворимость газа по Standing при давлении p
func standingRs(p, t, api, gg float64) float64 {
	return gg * math.Pow((p/18.2+1.4)*math.Pow(10, 0.0125*api-0.00091*t), 1.2048)
}

// solutionGOR возвращает Rs(p) и Rs(pb). Если задан промысловый GOR,
// кривая масштабируется так, чтобы Rs(pb) совпал с ним.
func solutionGOR(p, t float64, f Fluid) (rs, rsb float64) {
	pr := math.Min(p, f.BubblePoint)
	rs = standingRs(pr, t, f.OilGravity, f.GasGravity)
	rsb = standingRs(f.BubblePoint, t, f.OilGravity, f.GasGravity)

	if f.ProducingGOR > 0 {
		rs = f.ProducingGOR * rs / rsb
		rsb = f.ProducingGOR
	}
	return rs, rsb
}

func oilSpecificGravity(api float64) float64 {
	return 141.5 / (131.5 + api)
}

func standingBo(rs, t, gg, gammaO float64) float64 {
	return 0.9759 + 0.00012*math.Pow(rs*math.Sqrt(gg/gammaO)+1.25*t, 1.2)
}

func oilFVF(p, t, rs, rsb float64, f Fluid) float64 {
	gammaO := oilSpecificGravity(f.OilGravity)
	if p <= f.BubblePoint {
		return standingBo(rs, t, f.GasGravity, gammaO)
	}

	// недонасыщенная нефть
	bob := standingBo(rsb, t, f.GasGravity, gammaO)
	co := (-1433 + 5*rsb + 17.2*t - 1180*f.GasGravity + 12.61*f.OilGravity) / (1e5 * p)
	return bob * math.Exp(co*(f.BubblePoint-p))
}

func deadOilViscosity(t, api float64) float64 {
	x := math.Pow(10, 3.0324-0.02023*api) * math.Pow(t, -1.163)
	return math.Pow(10, x) - 1
}

func liveOilViscosity(muDead, rs float64) float64 {
	a := 10.715 * math.Pow(rs+100, -0.515)
	b := 5.44 * math.Pow(rs+150, -0.338)
	return a * math.Pow(muDead, b)
}

func oilViscosity(p, t, api, pb, rs, rsb float64) float64 {
	muDead := deadOilViscosity(t, api)
	if p <= pb {
		return liveOilViscosity(muDead, rs)
	}

	muB := liveOilViscosity(muDead, rsb)
	m := 2.6 * math.Pow(p, 1.187) * math.Exp(-11.513-8.98e-5*p)
	return muB * math.Pow(p/pb, m)
}

// PseudoCritical псевдокритические параметры газа (Sutton), °R и psia
func PseudoCritical(gg float64) (tpc, ppc float64) {
	tpc = 169.2 + 349.5*gg - 74*gg*gg
	ppc = 756.8 - 131*gg - 3.6*gg*gg
	return tpc, ppc
}

// ZFactor коэффициент сверхсжимаемости по Papay, не ниже 0.25
func ZFactor(p, t, gg float64) float64 {
	tpc, ppc := PseudoCritical(gg)
	tpr := (t + rankine) / tpc
	ppr := p / ppc

	z := 1 - 3.52*ppr/math.Pow(10, 0.9813*tpr) + 0.274*ppr*ppr/math.Pow(10, 0.8157*tpr)
	return math.Max(z, 0.25)
}

// gasViscosity Lee-Gonzalez-Eakin, плотность газа в г/см³
func gasViscosity(p, t, gg, z float64) float64 {
	tr := t + rankine
	mw := airMW * gg
	rho := 1.4935e-3 * p * mw / (z * tr)

	k := (9.4 + 0.02*mw) * math.Pow(tr, 1.5) / (209 + 19*mw + tr)
	x := 3.5 + 986/tr + 0.01*mw
	y := 2.4 - 0.2*x
	return 1e-4 * k * math.Exp(x*math.Pow(rho, y))
}

// WaterFVF объёмный коэффициент воды (McCain, без учёта давления)
func WaterFVF(t float64) float64 {
	dt := t - 60
	return 1 + 1.2e-4*dt + 1e-6*dt*dt
}

// WaterViscosity вязкость пресной воды при атмосферном давлении (McCain)
func WaterViscosity(t float64) float64 {
	return 109.574 * math.Pow(t, -1.12166)
}
