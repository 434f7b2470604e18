// Package pvt provides fluid properties for multiphase flow calculations.
//
// The hydraulics engine never computes PVT itself: it asks a Provider for
// formation volume factors, viscosities, solution GOR and Z-factor at the
// local pressure and temperature of every depth step. BlackOil is the
// default provider built from standard black-oil correlations.
//
// Units: pressure psia, temperature °F, Bg ft³/scf, viscosity cp, Rs scf/STB.
package pvt

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFluid возвращается для нефизичного описания флюида
var ErrInvalidFluid = errors.New("invalid fluid description")

// Fluid описание флюида, не зависящее от давления
type Fluid struct {
	OilGravity   float64 `json:"oil_gravity"`   // °API
	GasGravity   float64 `json:"gas_gravity"`   // air = 1
	WaterGravity float64 `json:"water_gravity"` // water = 1
	BubblePoint  float64 `json:"bubble_point"`  // psia
	ProducingGOR float64 `json:"producing_gor"` // scf/STB, 0 = не привязывать
}

// Validate проверяет гравитации и давление насыщения
func (f Fluid) Validate() error {
	switch {
	case f.OilGravity <= 0:
		return fmt.Errorf("%w: oil gravity %.3f", ErrInvalidFluid, f.OilGravity)
	case f.GasGravity <= 0:
		return fmt.Errorf("%w: gas gravity %.3f", ErrInvalidFluid, f.GasGravity)
	case f.WaterGravity <= 0:
		return fmt.Errorf("%w: water gravity %.3f", ErrInvalidFluid, f.WaterGravity)
	case f.BubblePoint <= 0:
		return fmt.Errorf("%w: bubble point %.3f", ErrInvalidFluid, f.BubblePoint)
	case f.ProducingGOR < 0:
		return fmt.Errorf("%w: producing GOR %.3f", ErrInvalidFluid, f.ProducingGOR)
	}
	return nil
}

// Properties свойства фаз при (p, T)
type Properties struct {
	OilFVF         float64 `json:"oil_fvf"`   // bbl/STB
	WaterFVF       float64 `json:"water_fvf"` // bbl/STB
	GasFVF         float64 `json:"gas_fvf"`   // ft³/scf
	OilViscosity   float64 `json:"oil_viscosity"`
	WaterViscosity float64 `json:"water_viscosity"`
	GasViscosity   float64 `json:"gas_viscosity"`
	SolutionGOR    float64 `json:"solution_gor"` // scf/STB
	ZFactor        float64 `json:"z_factor"`
}

// Provider источник свойств флюида. Реализации должны быть безопасны
// для параллельного вызова.
type Provider interface {
	Properties(p, t float64, fluid Fluid) (Properties, error)
}

// Func адаптер функции к Provider
type Func func(p, t float64, fluid Fluid) (Properties, error)

func (f Func) Properties(p, t float64, fluid Fluid) (Properties, error) {
	return f(p, t, fluid)
}

// Значения, подставляемые вместо NaN/Inf
const (
	FallbackOilFVF       = 1.1
	FallbackOilViscosity = 1.0
	FallbackGasFVF       = 0.005
	FallbackGasViscosity = 0.02
	FallbackZFactor      = 0.8
	FallbackSolutionGOR  = 0.0
)

// sanitize заменяет нефинитные значения на fallback
func (p Properties) sanitize() Properties {
	fix := func(v *float64, fallback float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = fallback
		}
	}
	fix(&p.OilFVF, FallbackOilFVF)
	fix(&p.OilViscosity, FallbackOilViscosity)
	fix(&p.GasFVF, FallbackGasFVF)
	fix(&p.GasViscosity, FallbackGasViscosity)
	fix(&p.ZFactor, FallbackZFactor)
	fix(&p.SolutionGOR, FallbackSolutionGOR)
	fix(&p.WaterFVF, 1.0)
	fix(&p.WaterViscosity, 1.0)
	return p
}
