package hydraulics

import (
	"context"
	"fmt"
	"math"

	"wellflow/pkg/apperror"
	"wellflow/pkg/domain"
	"wellflow/pkg/logger"
)

const (
	DefaultTargetTolerance     = 5.0 // psi
	DefaultTargetMaxIterations = 20

	minSurfacePressure = 50.0 // psia
	maxSurfaceFraction = 0.9  // от целевого забойного
	secantFlatError    = 1e-6
)

// TargetConfig параметры подбора устьевого давления
type TargetConfig struct {
	Tolerance     float64 `json:"tolerance"` // psi
	MaxIterations int     `json:"max_iterations"`
}

// DefaultTargetConfig 5 psi, 20 итераций
func DefaultTargetConfig() TargetConfig {
	return TargetConfig{
		Tolerance:     DefaultTargetTolerance,
		MaxIterations: DefaultTargetMaxIterations,
	}
}

// SolveForSurfacePressure подбирает устьевое давление, при котором расчётное
// забойное совпадает с target в пределах cfg.Tolerance.
//
// Первое приближение 0.5·target, первый шаг ×0.8 (перелёт) или ×1.2 (недолёт),
// дальше секущие; при вырожденной секущей берётся середина отрезка.
// Приближение ограничено [50, 0.9·target].
//
// Если сходимость не достигнута, возвращается последний результат (с TargetBHP)
// вместе с предупреждением TARGET_NOT_CONVERGED; результат при этом пригоден.
func SolveForSurfacePressure(ctx context.Context, in *Input, target float64, cfg TargetConfig, opts ...Option) (*Result, error) {
	if in == nil {
		return nil, apperror.ErrNilInput.Clone()
	}
	if !(target > 0) || !domain.IsFinite(target) {
		return nil, apperror.NewWithField(apperror.CodeInvalidRange,
			fmt.Sprintf("target bottomhole pressure must be positive, got %g", target), "target_bhp")
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTargetTolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultTargetMaxIterations
	}

	work := normalize(*in)
	hi := maxSurfaceFraction * target

	var (
		res             *Result
		prevPs, prevErr float64
		lastErr         float64
		ps              = target * 0.5
	)

	for i := 0; i < cfg.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, ContextError(err)
		}

		work.SurfacePressure = ps
		r, err := Calculate(ctx, &work, opts...)
		if err != nil {
			return nil, err
		}
		res = r

		e := r.BottomholePressure - target
		lastErr = e
		if math.Abs(e) < cfg.Tolerance {
			res.TargetBHP = &target
			logger.Log.Debug("target bhp converged",
				"target", target,
				"surface_pressure", ps,
				"iterations", i+1,
			)
			return res, nil
		}

		var next float64
		switch {
		case i == 0:
			factor := 1.2
			if e > 0 {
				factor = 0.8
			}
			next = ps * factor
		case math.Abs(e-prevErr) > secantFlatError:
			next = ps - e*(ps-prevPs)/(e-prevErr)
		default:
			next = (ps + prevPs) / 2
		}

		prevPs, prevErr = ps, e
		ps = domain.Clamp(next, minSurfacePressure, hi)
	}

	res.TargetBHP = &target
	return res, apperror.ErrTargetUnreachable.Clone().
		WithDetails("target_bhp", target).
		WithDetails("bottomhole_pressure", res.BottomholePressure).
		WithDetails("surface_pressure", res.SurfacePressure).
		WithDetails("error", lastErr).
		WithDetails("iterations", cfg.MaxIterations)
}
