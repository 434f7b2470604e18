// Package hydraulics computes pressure-vs-depth profiles in producing wells
// with one of ten multiphase flow correlations.
//
// The framework marches from the surface to total depth over equally spaced
// nodes. At each node it resolves pipe diameter and inclination, queries the
// fluid-property provider at local pressure and temperature, builds a State
// and asks the selected Correlation for holdup, flow pattern and the three
// pressure-gradient components. Pressure at the next node is advanced with
// the total gradient times the step length.
//
// # Thread Safety
//
// Calculate is a pure function of its input: no shared mutable state, no I/O
// besides the pvt.Provider. Any number of calculations may run concurrently;
// use Pool to bound the parallelism of comparisons and sweeps.
//
// # Example Usage
//
//	in := &hydraulics.Input{
//	    Fluid:           hydraulics.FluidProperties{OilRate: 1000, GasRate: 2000, ...},
//	    Geometry:        hydraulics.WellboreGeometry{Segments: []hydraulics.PipeSegment{{0, 10000, 2.875}}},
//	    Method:          hydraulics.MethodHagedornBrown,
//	    SurfacePressure: 500,
//	}
//	res, err := hydraulics.Calculate(ctx, in)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("BHP: %.1f psia\n", res.BottomholePressure)
package hydraulics

import (
	"context"
	"errors"
	"math"

	"wellflow/pkg/apperror"
	"wellflow/pkg/domain"
	"wellflow/pkg/logger"
	"wellflow/services/hydraulics-svc/internal/pvt"
)

// =============================================================================
// Options
// =============================================================================

type options struct {
	provider pvt.Provider
}

// Option настраивает расчёт
type Option func(*options)

// WithProvider заменяет источник PVT-свойств (по умолчанию pvt.BlackOil)
func WithProvider(p pvt.Provider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{provider: pvt.NewBlackOil()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// =============================================================================
// Calculate
// =============================================================================

// Calculate строит профиль давления выбранным методом.
//
// Контекст проверяется только перед началом марша: один расчёт короткий
// и выполняется до конца.
func Calculate(ctx context.Context, in *Input, opts ...Option) (*Result, error) {
	if in == nil {
		return nil, apperror.ErrNilInput.Clone()
	}
	if err := ctx.Err(); err != nil {
		return nil, ContextError(err)
	}

	normalized := normalize(*in)
	if err := Validate(&normalized); err != nil {
		return nil, err
	}

	corr, ok := Lookup(normalized.Method)
	if !ok {
		return nil, apperror.ErrUnknownMethod.Clone().WithDetails("method", normalized.Method)
	}

	o := buildOptions(opts)
	res, err := march(&normalized, corr, o.provider)
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("hydraulics calculated",
		"method", res.Method,
		"steps", len(res.Points),
		"bhp", res.BottomholePressure,
	)
	return res, nil
}

// ContextError переводит ошибку контекста в код приложения: TIMEOUT или UNAVAILABLE
func ContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.Wrap(err, apperror.CodeTimeout, "calculation timed out")
	}
	return apperror.Wrap(err, apperror.CodeUnavailable, "calculation canceled")
}

// march основной цикл по узлам глубины
func march(in *Input, corr Correlation, provider pvt.Provider) (*Result, error) {
	n := in.Geometry.Steps
	totalDepth := in.Geometry.TotalDepth()

	depths := make([]float64, n)
	temps := make([]float64, n)
	for i := range depths {
		if n > 1 {
			depths[i] = totalDepth * float64(i) / float64(n-1)
		}
		temps[i] = in.Fluid.SurfaceTemperature + in.Fluid.TemperatureGradient*depths[i]
	}

	fluid := pvt.Fluid{
		OilGravity:   in.Fluid.OilGravity,
		GasGravity:   in.Fluid.GasGravity,
		WaterGravity: in.Fluid.WaterGravity,
		BubblePoint:  in.Fluid.BubblePoint,
		ProducingGOR: in.Fluid.ProducingGOR(),
	}
	geo := newGeometryResolver(in.Geometry, in.Survey)

	points := make([]Point, n)
	pressure := in.SurfacePressure

	for i := 0; i < n; i++ {
		props, err := provider.Properties(pressure, temps[i], fluid)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodePropertyFailure, "fluid property evaluation failed").
				WithDetails("depth", depths[i]).
				WithDetails("pressure", pressure).
				WithDetails("temperature", temps[i]).
				WithDetails("method", corr.Name())
		}

		args := stateArgs{
			depth:       depths[i],
			pressure:    pressure,
			temperature: temps[i],
			diameterIn:  geo.segment(depths[i]).Diameter,
			inclination: geo.inclination(depths[i]),
		}
		if i > 0 {
			args.prevPressure = points[i-1].Pressure
			args.stepLength = depths[i] - depths[i-1]
		}
		s := newState(in, props, args)

		r := corr.Step(s)
		r.Holdup = clampHoldup(r.Holdup)
		total := r.Elevation + r.Friction + r.Acceleration

		points[i] = Point{
			Depth:            depths[i],
			Pressure:         pressure,
			Temperature:      temps[i],
			FlowPattern:      r.Pattern,
			Holdup:           r.Holdup,
			MixtureDensity:   r.MixtureDensity,
			MixtureVelocity:  s.Vm,
			Vsl:              s.Vsl,
			Vsg:              s.Vsg,
			Reynolds:         r.Reynolds,
			FrictionFactor:   r.FrictionFactor,
			DpdzElevation:    r.Elevation,
			DpdzFriction:     r.Friction,
			DpdzAcceleration: r.Acceleration,
			DpdzTotal:        total,
		}

		if !domain.IsFinite(total) || !domain.IsFinite(r.Holdup) {
			return nil, apperror.New(apperror.CodeCalculationFailed, "non-finite pressure gradient").
				WithDetails("depth", depths[i]).
				WithDetails("pressure", pressure).
				WithDetails("method", corr.Name())
		}

		if i < n-1 {
			pressure += total * (depths[i+1] - depths[i])
		}
	}

	return assemble(corr.Name(), depths, points), nil
}

// assemble сводит точки в Result: перепад, доли по трапециям, выборка режимов
func assemble(method Method, depths []float64, points []Point) *Result {
	n := len(points)
	res := &Result{
		Method:             method,
		Points:             points,
		SurfacePressure:    points[0].Pressure,
		BottomholePressure: points[n-1].Pressure,
	}
	res.PressureDrop = res.BottomholePressure - res.SurfacePressure

	elevation := make([]float64, n)
	friction := make([]float64, n)
	acceleration := make([]float64, n)
	for i, p := range points {
		elevation[i] = p.DpdzElevation
		friction[i] = p.DpdzFriction
		acceleration[i] = p.DpdzAcceleration
	}
	ie := domain.Trapezoid(depths, elevation)
	ifr := domain.Trapezoid(depths, friction)
	ia := domain.Trapezoid(depths, acceleration)
	if total := ie + ifr + ia; total != 0 && !math.IsNaN(total) {
		res.ElevationPercent = ie / total * 100
		res.FrictionPercent = ifr / total * 100
		res.AccelerationPercent = ia / total * 100
	}

	stride := max(1, n/20)
	for i := 0; i < n; i += stride {
		p := points[i]
		res.FlowPatterns = append(res.FlowPatterns, PatternSample{
			Depth:           p.Depth,
			Pattern:         p.FlowPattern,
			Holdup:          p.Holdup,
			MixtureVelocity: p.MixtureVelocity,
			Vsl:             p.Vsl,
			Vsg:             p.Vsg,
		})
	}
	return res
}
