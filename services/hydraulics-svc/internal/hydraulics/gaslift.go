package hydraulics

import (
	"context"
	"fmt"
	"math"

	"wellflow/pkg/apperror"
	"wellflow/pkg/logger"
	"wellflow/services/hydraulics-svc/internal/pvt"
)

// параметры проектирования газлифта по умолчанию
const (
	defaultValveCount      = 5
	defaultTopValveDepth   = 500.0  // ft
	defaultMinInjection    = 100.0  // Mscf/d
	defaultMaxInjection    = 2000.0 // Mscf/d
	defaultInjectionPoints = 10
	casingPressureFactor   = 1.5 // средняя затрубная от устьевой
	gasDensityFactor       = 0.0764
)

// defaultPortSizes порты растут с глубиной, in
var defaultPortSizes = [defaultValveCount]float64{1.0 / 16, 1.0 / 8, 3.0 / 16, 1.0 / 4, 5.0 / 16}

// GasLiftDesign входные данные проектирования.
// Input описывает скважину без закачки; Input.GasLift игнорируется.
type GasLiftDesign struct {
	Input             Input     `json:"input"`
	FormationPressure float64   `json:"formation_pressure"` // psia
	InjectionDepth    float64   `json:"injection_depth"`    // ft
	Valves            []Valve   `json:"valves,omitempty"`   // пусто - 5 клапанов от 500 ft
	InjectionRates    []float64 `json:"injection_rates,omitempty"`
	// CasingGasGravity относительная плотность закачиваемого газа; 0 - газ пласта
	CasingGasGravity float64 `json:"casing_gas_gravity,omitempty"`
}

// ValveDesign давления на клапане при выбранном расходе закачки
type ValveDesign struct {
	Depth          float64 `json:"depth"`
	PortSize       float64 `json:"port_size"`
	TubingPressure float64 `json:"tubing_pressure"`
	CasingPressure float64 `json:"casing_pressure"`
	Differential   float64 `json:"differential"`
}

// RatePoint забойное давление при расходе закачки
type RatePoint struct {
	Rate float64 `json:"rate"` // Mscf/d
	BHP  float64 `json:"bhp"`
}

// GasLiftResult итог проектирования
type GasLiftResult struct {
	NaturalBHP        float64       `json:"natural_bhp"`
	FormationPressure float64       `json:"formation_pressure"`
	GasLiftNeeded     bool          `json:"gas_lift_needed"`
	InjectionRate     float64       `json:"injection_rate"` // 0 если фонтанирует
	DesignBHP         float64       `json:"design_bhp"`
	RateSweep         []RatePoint   `json:"rate_sweep,omitempty"`
	Valves            []ValveDesign `json:"valves,omitempty"`
	Result            *Result       `json:"result"`
}

// NaturalFlowPossible скважина фонтанирует без закачки
func (r *GasLiftResult) NaturalFlowPossible() bool {
	return !r.GasLiftNeeded
}

func (d *GasLiftDesign) validate(totalDepth float64) error {
	v := apperror.NewValidationErrors()
	if !(d.FormationPressure > 0) {
		v.AddErrorWithField(apperror.CodeInvalidGasLift,
			fmt.Sprintf("formation pressure must be positive, got %g", d.FormationPressure), "formation_pressure")
	}
	if !(d.InjectionDepth > 0) || d.InjectionDepth > totalDepth {
		v.AddErrorWithField(apperror.CodeInvalidGasLift,
			fmt.Sprintf("injection depth %g outside (0, %g]", d.InjectionDepth, totalDepth), "injection_depth")
	}
	for i, r := range d.InjectionRates {
		if r < 0 {
			v.AddErrorWithField(apperror.CodeInvalidGasLift,
				fmt.Sprintf("injection rate %d is negative", i), fmt.Sprintf("injection_rates[%d]", i))
		}
	}
	if d.CasingGasGravity < 0 {
		v.AddErrorWithField(apperror.CodeInvalidGasLift, "casing gas gravity must be non-negative", "casing_gas_gravity")
	}
	return v.Err()
}

// DefaultValves 5 клапанов равномерно от 500 ft до глубины закачки, порты 1/16..5/16 in
func DefaultValves(injectionDepth float64) []Valve {
	depths := Linspace(defaultTopValveDepth, injectionDepth, defaultValveCount)
	valves := make([]Valve, defaultValveCount)
	for i := range valves {
		valves[i] = Valve{Depth: depths[i], PortSize: defaultPortSizes[i]}
	}
	return valves
}

// DesignGasLift см. Pool.DesignGasLift
func DesignGasLift(ctx context.Context, d *GasLiftDesign, opts ...Option) (*GasLiftResult, error) {
	return NewPool(1, opts...).DesignGasLift(ctx, d)
}

// DesignGasLift проверяет фонтанирование и подбирает расход закачки.
//
// Забойное без закачки сравнивается с пластовым. Если оно выше, перебираются
// расходы закачки (по умолчанию 10 значений 100..2000 Mscf/d) и выбирается
// первый, при котором забойное ниже пластового; если такого нет - последний.
// Для выбранного расхода считаются давления на клапанах.
func (p *Pool) DesignGasLift(ctx context.Context, d *GasLiftDesign) (*GasLiftResult, error) {
	if d == nil {
		return nil, apperror.ErrNilInput.Clone()
	}

	base := normalize(d.Input)
	base.GasLift = nil
	if err := Validate(&base); err != nil {
		return nil, err
	}
	if err := d.validate(base.Geometry.TotalDepth()); err != nil {
		return nil, err
	}

	natural, err := p.CalculatePooled(ctx, &base)
	if err != nil {
		return nil, err
	}

	out := &GasLiftResult{
		NaturalBHP:        natural.BottomholePressure,
		FormationPressure: d.FormationPressure,
		GasLiftNeeded:     natural.BottomholePressure > d.FormationPressure,
		DesignBHP:         natural.BottomholePressure,
		Result:            natural,
	}
	if !out.GasLiftNeeded {
		return out, nil
	}

	rates := d.InjectionRates
	if len(rates) == 0 {
		rates = Linspace(defaultMinInjection, defaultMaxInjection, defaultInjectionPoints)
	}
	tasks := make([]BatchTask, len(rates))
	for i, rate := range rates {
		ti := base.Clone()
		ti.GasLift = &GasLift{InjectionDepth: d.InjectionDepth, InjectionRate: rate}
		tasks[i] = BatchTask{TaskID: fmt.Sprintf("rate=%g", rate), Input: &ti}
	}

	var chosen, last *Result
	var lastRate float64
	for i, r := range p.Batch(ctx, tasks) {
		if r.Err != nil {
			logger.Log.Warn("gas lift rate failed", "rate", rates[i], "error", r.Err)
			continue
		}
		out.RateSweep = append(out.RateSweep, RatePoint{Rate: rates[i], BHP: r.Result.BottomholePressure})
		last, lastRate = r.Result, rates[i]
		if chosen == nil && r.Result.BottomholePressure < d.FormationPressure {
			chosen = r.Result
			out.InjectionRate = rates[i]
		}
	}
	if last == nil {
		if err := ctx.Err(); err != nil {
			return nil, ContextError(err)
		}
		return nil, apperror.New(apperror.CodeCalculationFailed, "no injection rate produced a result").
			WithDetails("rates", rates)
	}
	if chosen == nil {
		chosen, out.InjectionRate = last, lastRate
	}
	out.DesignBHP = chosen.BottomholePressure
	out.Result = chosen

	valves := d.Valves
	if len(valves) == 0 {
		valves = DefaultValves(d.InjectionDepth)
	}
	gg := d.CasingGasGravity
	if gg == 0 {
		gg = base.Fluid.GasGravity
	}
	out.Valves = valvePressures(valves, chosen.Points, base.SurfacePressure, base.Fluid, gg)

	logger.Log.Debug("gas lift designed",
		"natural_bhp", out.NaturalBHP,
		"injection_rate", out.InjectionRate,
		"design_bhp", out.DesignBHP,
		"valves", len(out.Valves),
	)
	return out, nil
}

// valvePressures давление в НКТ в ближайшем узле профиля и давление
// столба газа в затрубье на глубине клапана
func valvePressures(valves []Valve, profile []Point, whp float64, fluid FluidProperties, gg float64) []ValveDesign {
	pavg := whp * casingPressureFactor
	out := make([]ValveDesign, len(valves))
	for i, v := range valves {
		tubing := nearestPoint(profile, v.Depth).Pressure

		tAvg := fluid.SurfaceTemperature + fluid.TemperatureGradient*v.Depth/2
		z := pvt.ZFactor(pavg, tAvg, gg)
		rho := gasDensityFactor * gg * pavg / (z * (tAvg + 460))
		casing := whp + rho*v.Depth/144

		out[i] = ValveDesign{
			Depth:          v.Depth,
			PortSize:       v.PortSize,
			TubingPressure: tubing,
			CasingPressure: casing,
			Differential:   casing - tubing,
		}
	}
	return out
}

func nearestPoint(profile []Point, depth float64) Point {
	best := profile[0]
	for _, p := range profile[1:] {
		if math.Abs(p.Depth-depth) < math.Abs(best.Depth-depth) {
			best = p
		}
	}
	return best
}
