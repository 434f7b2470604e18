package hydraulics

import "math"

// FrictionFactor коэффициент трения Муди: 64/Re в ламинарном режиме,
// явная аппроксимация Colebrook-White (Haaland) в турбулентном.
func FrictionFactor(re, relRough float64) float64 {
	re = math.Max(re, 1)
	if re < laminarReynolds {
		return 64 / re
	}
	x := -1.8 * math.Log10(math.Pow(relRough/3.7, 1.11)+6.9/re)
	return 1 / (x * x)
}

// ReynoldsNumber ρ lbm/ft³, v ft/s, d ft, μ cp
func ReynoldsNumber(rho, v, d, mu float64) float64 {
	return 1488 * rho * v * d / math.Max(mu, minViscosity)
}

// ElevationGradient гидростатика, psi/ft
func ElevationGradient(rho, cosTheta float64) float64 {
	return rho * cosTheta / sqInPerFt
}

// FrictionGradient потери на трение, psi/ft
func FrictionGradient(f, rho, v, d float64) float64 {
	return f * rho * v * v / (2 * gc * d * sqInPerFt)
}

// slipDensity плотность смеси с учётом проскальзывания
func (s *State) slipDensity(hl float64) float64 {
	return s.LiquidDensity*hl + s.GasDensity*(1-hl)
}

// kineticAcceleration ускорение через кинетический член Ek, ограниченный maxEk
func (s *State) kineticAcceleration(rho, elevation, friction float64) float64 {
	ek := math.Min(rho*s.Vm*s.Vsg/(gc*s.Pressure*sqInPerFt), maxEk)
	return ek * (elevation + friction) / (1 - ek)
}

// laggedAcceleration ускорение по расширению газа относительно предыдущего узла
func (s *State) laggedAcceleration(rho float64) float64 {
	if s.PrevPressure <= 0 || s.StepLength <= 0 {
		return 0
	}
	expansion := s.Pressure/s.PrevPressure - 1
	return math.Max(0, rho*s.Vm*s.Vsg*expansion/(gc*sqInPerFt*s.StepLength))
}

// bubbleRise скорость всплытия мелкого пузыря (Harmathy)
func (s *State) bubbleRise() float64 {
	dr := s.LiquidDensity - s.GasDensity
	return 1.53 * math.Pow(gravity*s.SurfaceTensionLbm*dr/(s.LiquidDensity*s.LiquidDensity), 0.25)
}

// taylorRise скорость всплытия пузыря Тейлора
func (s *State) taylorRise() float64 {
	dr := s.LiquidDensity - s.GasDensity
	return 0.35 * math.Sqrt(gravity*s.Diameter*dr/s.LiquidDensity)
}

// annularOnset критическая скорость газа для кольцевого режима
func (s *State) annularOnset() float64 {
	dr := s.LiquidDensity - s.GasDensity
	rg := math.Max(s.GasDensity, minGasDens)
	return 3.1 * math.Pow(gravity*s.SurfaceTensionLbm*dr/(rg*rg), 0.25)
}

// driftFluxHoldup 1 - Vsg/(C0·Vm + Vd)
func (s *State) driftFluxHoldup(c0, vd float64) float64 {
	return 1 - s.Vsg/(c0*s.Vm+vd)
}

// filmModel толщина плёнки (доли диаметра) и голдап кольцевого режима с уносом капель
func (s *State) filmModel() (thickness, holdup float64) {
	thickness = 0.01 * math.Sqrt(s.Vsl/(s.Vsg+0.1))
	entrained := math.Min(0.3+0.5*s.Vsg/(s.Vm+1), 0.9)
	film := 4 * thickness * (1 - thickness)
	core := entrained * s.Vsl / (s.Vsg + entrained*s.Vsl + eps) * (1 - film)
	return thickness, film + core
}

// dispersedBubble критерий Barnea для диспергированных пузырей
func (s *State) dispersedBubble() bool {
	dr := s.LiquidDensity - s.GasDensity
	fn := FrictionFactor(s.noSlipReynolds(), s.RelRoughness)
	lhs := 2 * math.Sqrt(0.4*s.SurfaceTensionLbm/(dr*gravity)) *
		math.Pow(s.LiquidDensity/s.SurfaceTensionLbm, 0.6) *
		math.Pow(fn*s.Vm*s.Vm*s.Vm/(2*s.Diameter), 0.4)
	return lhs > 0.725+4.15*math.Sqrt(s.Vsg/(s.Vm+eps))
}

// griffithBoundary граница пузырькового режима по Griffith
func (s *State) griffithBoundary() float64 {
	return math.Max(1.071-0.2218*s.Vm*s.Vm/s.Diameter, 0.13)
}

// griffithHoldup голдап с постоянной скоростью проскальзывания 0.8 ft/s
func (s *State) griffithHoldup() float64 {
	const vs = 0.8
	a := 1 + s.Vm/vs
	return 1 - 0.5*(a-math.Sqrt(math.Max(a*a-4*s.Vsg/vs, 0)))
}

func (s *State) noSlipReynolds() float64 {
	return ReynoldsNumber(s.NoSlipDensity, s.Vm, s.Diameter, s.NoSlipViscosity)
}

// velocityNumbers безразмерные числа Ros: Nlv, Ngv, Nd, Nl
func (s *State) velocityNumbers() (nlv, ngv, nd, nl float64) {
	a := math.Pow(s.LiquidDensity/s.SurfaceTension, 0.25)
	nlv = 1.938 * s.Vsl * a
	ngv = 1.938 * s.Vsg * a
	nd = 120.872 * s.Diameter * math.Sqrt(s.LiquidDensity/s.SurfaceTension)
	nl = 0.15726 * s.LiquidViscosity * math.Pow(1/(s.LiquidDensity*math.Pow(s.SurfaceTension, 3)), 0.25)
	return nlv, ngv, nd, nl
}
