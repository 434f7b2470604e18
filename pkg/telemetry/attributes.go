package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Ключи атрибутов расчёта
const (
	AttrMethod          = "hydraulics.method"
	AttrSteps           = "hydraulics.steps"
	AttrTotalDepth      = "hydraulics.total_depth_ft"
	AttrSurfacePressure = "hydraulics.surface_pressure_psia"
	AttrBHP             = "hydraulics.bhp_psia"
	AttrPressureDrop    = "hydraulics.pressure_drop_psi"
	AttrMethodsCount    = "hydraulics.methods"
	AttrSweepKind       = "hydraulics.sweep.kind"
	AttrSweepPoints     = "hydraulics.sweep.points"
	AttrCacheHit        = "cache.hit"
	AttrInputHash       = "hydraulics.input_hash"
)

// CalculationAttributes атрибуты входа расчёта
func CalculationAttributes(method string, steps int, totalDepth, surfacePressure float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.Int(AttrSteps, steps),
		attribute.Float64(AttrTotalDepth, totalDepth),
		attribute.Float64(AttrSurfacePressure, surfacePressure),
	}
}

// ResultAttributes атрибуты результата
func ResultAttributes(bhp, drop float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64(AttrBHP, bhp),
		attribute.Float64(AttrPressureDrop, drop),
	}
}

// SweepAttributes атрибуты свипа
func SweepAttributes(kind string, points int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSweepKind, kind),
		attribute.Int(AttrSweepPoints, points),
	}
}
