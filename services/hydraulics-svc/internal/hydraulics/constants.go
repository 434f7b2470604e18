package hydraulics

import "math"

// Физические константы и пересчёт единиц (ft, lbm, s, psi)
const (
	gravity   = 32.174 // ft/s²
	gc        = 32.174 // lbm·ft/(lbf·s²)
	sqInPerFt = 144.0
	ftPerIn   = 1.0 / 12.0
	ft3PerBbl = 5.615
	secPerDay = 86400.0

	waterDensity  = 62.4   // lbm/ft³
	airDensitySTP = 0.0764 // lbm/ft³

	// dyn/cm -> lbf/ft и далее в lbm/s²
	dynCmToLbfFt = 6.85e-5
)

// Защиты от деления на ноль
const (
	eps          = 1e-10
	minViscosity = 1e-6 // cp
	minGasDens   = 1e-3 // lbm/ft³
	maxEk        = 0.95 // потолок кинетического члена
)

// Ограничения голдапа, применяемые после любой корреляции
const (
	MinHoldup = 0.01
	MaxHoldup = 0.99
)

const laminarReynolds = 2100.0

var inf = math.Inf(1)

// Значения по умолчанию для незаданных полей
const (
	DefaultRoughness    = 0.0006 // in
	DefaultSteps        = 100
	DefaultWaterGravity = 1.0
)
