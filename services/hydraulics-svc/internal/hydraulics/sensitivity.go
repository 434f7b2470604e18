package hydraulics

import (
	"context"
	"fmt"
	"math"

	"wellflow/pkg/apperror"
	"wellflow/pkg/logger"
)

// SweepKind тип свипа
type SweepKind string

const (
	SweepFlowRate SweepKind = "flow_rate"
	SweepTubing   SweepKind = "tubing"
)

// FlowRateSweep свип по дебиту нефти; вода и газ пересчитываются из обводнённости и GOR
type FlowRateSweep struct {
	MinOilRate float64 `json:"min_oil_rate"` // STB/d
	MaxOilRate float64 `json:"max_oil_rate"`
	Steps      int     `json:"steps"`
	WaterCut   float64 `json:"water_cut"` // доля
	GOR        float64 `json:"gor"`       // scf/STB
}

// TubingSweep свип по внутреннему диаметру НКТ
type TubingSweep struct {
	MinID float64 `json:"min_id"` // in
	MaxID float64 `json:"max_id"`
	Steps int     `json:"steps"`
}

// SweepPoint одна точка свипа
type SweepPoint struct {
	Value            float64 `json:"value"`
	OilRate          float64 `json:"oil_rate"`
	WaterRate        float64 `json:"water_rate"`
	GasRate          float64 `json:"gas_rate"`
	TotalLiquid      float64 `json:"total_liquid"`
	TubingID         float64 `json:"tubing_id"`
	FlowArea         float64 `json:"flow_area"` // ft²
	BHP              float64 `json:"bhp"`
	PressureDrop     float64 `json:"pressure_drop"`
	ElevationPercent float64 `json:"elevation_percent"`
	FrictionPercent  float64 `json:"friction_percent"`
}

// Sweep серия точек; ошибка любой точки прерывает весь свип
type Sweep struct {
	Kind   SweepKind    `json:"kind"`
	Method Method       `json:"method"`
	Points []SweepPoint `json:"points"`
}

// Linspace steps равноотстоящих значений от min до max включительно; steps < 2 - только min
func Linspace(min, max float64, steps int) []float64 {
	if steps < 2 {
		return []float64{min}
	}
	out := make([]float64, steps)
	step := (max - min) / float64(steps-1)
	for i := range out {
		out[i] = min + step*float64(i)
	}
	out[steps-1] = max
	return out
}

// FlowAreaFt2 площадь сечения трубы по внутреннему диаметру в дюймах
func FlowAreaFt2(idIn float64) float64 {
	return math.Pi * math.Pow(idIn/24, 2)
}

func (s FlowRateSweep) validate() error {
	v := apperror.NewValidationErrors()
	if s.MinOilRate < 0 || s.MaxOilRate < s.MinOilRate {
		v.AddErrorWithField(apperror.CodeInvalidRange,
			fmt.Sprintf("oil rate range [%g, %g] is invalid", s.MinOilRate, s.MaxOilRate), "sweep.oil_rate")
	}
	if s.WaterCut < 0 || s.WaterCut > 1 {
		v.AddErrorWithField(apperror.CodeInvalidRange,
			fmt.Sprintf("water cut %g outside [0, 1]", s.WaterCut), "sweep.water_cut")
	}
	if s.GOR < 0 {
		v.AddErrorWithField(apperror.CodeInvalidRange, "GOR must be non-negative", "sweep.gor")
	}
	return v.Err()
}

func (s TubingSweep) validate() error {
	if !(s.MinID > 0) || s.MaxID < s.MinID {
		return apperror.NewWithField(apperror.CodeInvalidRange,
			fmt.Sprintf("tubing ID range [%g, %g] is invalid", s.MinID, s.MaxID), "sweep.tubing_id")
	}
	return nil
}

// FlowRateSensitivity см. Pool.FlowRateSensitivity
func FlowRateSensitivity(ctx context.Context, in *Input, sweep FlowRateSweep, opts ...Option) (*Sweep, error) {
	return NewPool(1, opts...).FlowRateSensitivity(ctx, in, sweep)
}

// TubingSensitivity см. Pool.TubingSensitivity
func TubingSensitivity(ctx context.Context, in *Input, sweep TubingSweep, opts ...Option) (*Sweep, error) {
	return NewPool(1, opts...).TubingSensitivity(ctx, in, sweep)
}

// FlowRateSensitivity пересчитывает профиль для сетки дебитов нефти.
// Вода = oil·wc/(1−wc) (0 при wc = 1), газ = oil·GOR/1000.
func (p *Pool) FlowRateSensitivity(ctx context.Context, in *Input, sweep FlowRateSweep) (*Sweep, error) {
	if in == nil {
		return nil, apperror.ErrNilInput.Clone()
	}
	if err := sweep.validate(); err != nil {
		return nil, err
	}

	base := normalize(*in)
	if err := Validate(&base); err != nil {
		return nil, err
	}
	rates := Linspace(sweep.MinOilRate, sweep.MaxOilRate, sweep.Steps)
	tasks := make([]BatchTask, len(rates))
	for i, oil := range rates {
		pi := base.Clone()
		pi.Fluid.OilRate = oil
		pi.Fluid.WaterRate = 0
		if sweep.WaterCut < 1 {
			pi.Fluid.WaterRate = oil * sweep.WaterCut / (1 - sweep.WaterCut)
		}
		pi.Fluid.GasRate = oil * sweep.GOR / 1000
		tasks[i] = BatchTask{TaskID: fmt.Sprintf("oil=%g", oil), Input: &pi}
	}

	return p.sweep(ctx, SweepFlowRate, base.Method, rates, tasks)
}

// TubingSensitivity пересчитывает профиль для сетки диаметров НКТ;
// диаметр всех сегментов заменяется значением точки.
func (p *Pool) TubingSensitivity(ctx context.Context, in *Input, sweep TubingSweep) (*Sweep, error) {
	if in == nil {
		return nil, apperror.ErrNilInput.Clone()
	}
	if err := sweep.validate(); err != nil {
		return nil, err
	}

	base := normalize(*in)
	if err := Validate(&base); err != nil {
		return nil, err
	}
	ids := Linspace(sweep.MinID, sweep.MaxID, sweep.Steps)
	tasks := make([]BatchTask, len(ids))
	for i, id := range ids {
		pi := base.Clone()
		for j := range pi.Geometry.Segments {
			pi.Geometry.Segments[j].Diameter = id
		}
		tasks[i] = BatchTask{TaskID: fmt.Sprintf("id=%g", id), Input: &pi}
	}

	return p.sweep(ctx, SweepTubing, base.Method, ids, tasks)
}

func (p *Pool) sweep(ctx context.Context, kind SweepKind, method Method, values []float64, tasks []BatchTask) (*Sweep, error) {
	out := &Sweep{Kind: kind, Method: method, Points: make([]SweepPoint, 0, len(tasks))}

	results := p.Batch(ctx, tasks)
	if err := ctx.Err(); err != nil {
		return nil, ContextError(err)
	}

	for i, r := range results {
		if r.Err != nil {
			logger.Log.Warn("sweep point failed",
				"kind", kind,
				"value", values[i],
				"method", method,
				"error", r.Err,
			)
			return nil, fmt.Errorf("%s sweep at %g: %w", kind, values[i], r.Err)
		}
		f := tasks[i].Input.Fluid
		id := tasks[i].Input.Geometry.MaxDiameter()
		out.Points = append(out.Points, SweepPoint{
			Value:            values[i],
			OilRate:          f.OilRate,
			WaterRate:        f.WaterRate,
			GasRate:          f.GasRate,
			TotalLiquid:      f.LiquidRate(),
			TubingID:         id,
			FlowArea:         FlowAreaFt2(id),
			BHP:              r.Result.BottomholePressure,
			PressureDrop:     r.Result.PressureDrop,
			ElevationPercent: r.Result.ElevationPercent,
			FrictionPercent:  r.Result.FrictionPercent,
		})
	}

	return out, nil
}
