package hydraulics

import (
	"fmt"
	"strings"
)

// =============================================================================
// Method
// =============================================================================

// Method идентификатор корреляции
type Method string

const (
	MethodHagedornBrown  Method = "hagedorn-brown"
	MethodBeggsBrill     Method = "beggs-brill"
	MethodDunsRoss       Method = "duns-ross"
	MethodChokshi        Method = "chokshi"
	MethodOrkiszewski    Method = "orkiszewski"
	MethodGray           Method = "gray"
	MethodMukherjeeBrill Method = "mukherjee-brill"
	MethodAziz           Method = "aziz"
	MethodHasanKabir     Method = "hasan-kabir"
	MethodAnsari         Method = "ansari"
)

// AllMethods все методы в порядке отображения
func AllMethods() []Method {
	return []Method{
		MethodHagedornBrown,
		MethodBeggsBrill,
		MethodDunsRoss,
		MethodChokshi,
		MethodOrkiszewski,
		MethodGray,
		MethodMukherjeeBrill,
		MethodAziz,
		MethodHasanKabir,
		MethodAnsari,
	}
}

func (m Method) String() string {
	return string(m)
}

// =============================================================================
// Flow Pattern
// =============================================================================

// FlowPattern режим течения в точке
type FlowPattern int

const (
	PatternBubble FlowPattern = iota
	PatternSlug
	PatternTransition
	PatternAnnular
	PatternStratified
	PatternWavy
	PatternMist
)

var patternNames = [...]string{
	PatternBubble:     "bubble",
	PatternSlug:       "slug",
	PatternTransition: "transition",
	PatternAnnular:    "annular",
	PatternStratified: "stratified",
	PatternWavy:       "wavy",
	PatternMist:       "mist",
}

// синонимы из литературы
var patternAliases = map[string]FlowPattern{
	"churn":            PatternTransition,
	"dispersed bubble": PatternBubble,
	"dispersed_bubble": PatternBubble,
	"distributed":      PatternBubble,
	"intermittent":     PatternSlug,
	"segregated":       PatternStratified,
	"froth":            PatternMist,
}

func (p FlowPattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return fmt.Sprintf("FlowPattern(%d)", int(p))
	}
	return patternNames[p]
}

// IsLiquidDominated bubble или slug
func (p FlowPattern) IsLiquidDominated() bool {
	return p == PatternBubble || p == PatternSlug
}

// ParseFlowPattern переводит название режима (в т.ч. синонимы) в FlowPattern
func ParseFlowPattern(name string) (FlowPattern, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range patternNames {
		if n == key {
			return FlowPattern(i), nil
		}
	}
	if p, ok := patternAliases[key]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("unknown flow pattern %q", name)
}

func (p FlowPattern) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *FlowPattern) UnmarshalText(text []byte) error {
	parsed, err := ParseFlowPattern(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// =============================================================================
// Input
// =============================================================================

// FluidProperties дебиты и свойства флюида на поверхности
type FluidProperties struct {
	OilRate             float64 `json:"oil_rate"`   // STB/d
	WaterRate           float64 `json:"water_rate"` // STB/d
	GasRate             float64 `json:"gas_rate"`   // Mscf/d
	OilGravity          float64 `json:"oil_gravity"`
	WaterGravity        float64 `json:"water_gravity"`
	GasGravity          float64 `json:"gas_gravity"`
	BubblePoint         float64 `json:"bubble_point"`         // psia
	SurfaceTemperature  float64 `json:"surface_temperature"`  // °F
	TemperatureGradient float64 `json:"temperature_gradient"` // °F/ft
}

// LiquidRate нефть + вода, STB/d
func (f FluidProperties) LiquidRate() float64 {
	return f.OilRate + f.WaterRate
}

// GLR газожидкостный фактор, scf/STB; +Inf без жидкости
func (f FluidProperties) GLR() float64 {
	liquid := f.LiquidRate()
	if liquid <= 0 {
		return inf
	}
	return f.GasRate * 1000 / liquid
}

// ProducingGOR газовый фактор, scf/STB; 0 без нефти
func (f FluidProperties) ProducingGOR() float64 {
	if f.OilRate <= 0 {
		return 0
	}
	return f.GasRate * 1000 / f.OilRate
}

// PipeSegment участок НКТ постоянного диаметра
type PipeSegment struct {
	StartDepth float64 `json:"start_depth"` // ft
	EndDepth   float64 `json:"end_depth"`   // ft
	Diameter   float64 `json:"diameter"`    // in
}

// WellboreGeometry конструкция скважины
type WellboreGeometry struct {
	Segments []PipeSegment `json:"segments"`
	// Roughness абсолютная шероховатость, in; nil означает DefaultRoughness,
	// 0 задаёт гладкую трубу
	Roughness *float64 `json:"roughness,omitempty"`
	Steps     int      `json:"steps"`
	Deviation float64  `json:"deviation"` // градусы от вертикали
}

// RoughnessIn шероховатость с учётом значения по умолчанию, in
func (g WellboreGeometry) RoughnessIn() float64 {
	if g.Roughness == nil {
		return DefaultRoughness
	}
	return *g.Roughness
}

// TotalDepth конец последнего сегмента
func (g WellboreGeometry) TotalDepth() float64 {
	if len(g.Segments) == 0 {
		return 0
	}
	return g.Segments[len(g.Segments)-1].EndDepth
}

// MaxDiameter наибольший внутренний диаметр, in
func (g WellboreGeometry) MaxDiameter() float64 {
	var d float64
	for _, s := range g.Segments {
		d = max(d, s.Diameter)
	}
	return d
}

// SurveyPoint точка инклинометрии
type SurveyPoint struct {
	MD          float64 `json:"md"`
	TVD         float64 `json:"tvd"`
	Inclination float64 `json:"inclination"` // градусы от вертикали
}

// Valve газлифтный клапан
type Valve struct {
	Depth    float64 `json:"depth"`     // ft
	PortSize float64 `json:"port_size"` // in
}

// GasLift закачка газа: газ добавляется к свободному во всех узлах выше точки ввода
type GasLift struct {
	InjectionDepth float64 `json:"injection_depth"` // ft
	InjectionRate  float64 `json:"injection_rate"`  // Mscf/d
	Valves         []Valve `json:"valves,omitempty"`
}

// Input полный набор входных данных одного расчёта
type Input struct {
	Fluid           FluidProperties  `json:"fluid"`
	Geometry        WellboreGeometry `json:"geometry"`
	Method          Method           `json:"method"`
	SurfacePressure float64          `json:"surface_pressure"` // psia
	Survey          []SurveyPoint    `json:"survey,omitempty"`
	GasLift         *GasLift         `json:"gas_lift,omitempty"`
}

// Clone глубокая копия; свипы меняют копию, не исходный вход
func (in Input) Clone() Input {
	out := in
	out.Geometry.Segments = append([]PipeSegment(nil), in.Geometry.Segments...)
	if in.Geometry.Roughness != nil {
		r := *in.Geometry.Roughness
		out.Geometry.Roughness = &r
	}
	out.Survey = append([]SurveyPoint(nil), in.Survey...)
	if in.GasLift != nil {
		gl := *in.GasLift
		gl.Valves = append([]Valve(nil), in.GasLift.Valves...)
		out.GasLift = &gl
	}
	return out
}

// MaxDeviation максимум из скалярного отклонения и углов инклинометрии
func (in Input) MaxDeviation() float64 {
	dev := in.Geometry.Deviation
	for _, sp := range in.Survey {
		dev = max(dev, sp.Inclination)
	}
	return dev
}

// =============================================================================
// Result
// =============================================================================

// Point состояние в узле глубины
type Point struct {
	Depth            float64     `json:"depth"`
	Pressure         float64     `json:"pressure"`
	Temperature      float64     `json:"temperature"`
	FlowPattern      FlowPattern `json:"flow_pattern"`
	Holdup           float64     `json:"holdup"`
	MixtureDensity   float64     `json:"mixture_density"`  // lbm/ft³
	MixtureVelocity  float64     `json:"mixture_velocity"` // ft/s
	Vsl              float64     `json:"vsl"`
	Vsg              float64     `json:"vsg"`
	Reynolds         float64     `json:"reynolds"`
	FrictionFactor   float64     `json:"friction_factor"`
	DpdzElevation    float64     `json:"dpdz_elevation"` // psi/ft
	DpdzFriction     float64     `json:"dpdz_friction"`
	DpdzAcceleration float64     `json:"dpdz_acceleration"`
	DpdzTotal        float64     `json:"dpdz_total"`
}

// PatternSample прореженная выборка режима, holdup и скоростей
type PatternSample struct {
	Depth           float64     `json:"depth"`
	Pattern         FlowPattern `json:"pattern"`
	Holdup          float64     `json:"liquid_holdup"`
	MixtureVelocity float64     `json:"mixture_velocity"` // ft/s
	Vsl             float64     `json:"vsl"`
	Vsg             float64     `json:"vsg"`
}

// Result профиль давления по стволу
type Result struct {
	Method              Method          `json:"method"`
	Points              []Point         `json:"points"`
	SurfacePressure     float64         `json:"surface_pressure"`
	BottomholePressure  float64         `json:"bottomhole_pressure"`
	PressureDrop        float64         `json:"pressure_drop"`
	ElevationPercent    float64         `json:"elevation_percent"`
	FrictionPercent     float64         `json:"friction_percent"`
	AccelerationPercent float64         `json:"acceleration_percent"`
	FlowPatterns        []PatternSample `json:"flow_patterns"`
	TargetBHP           *float64        `json:"target_bhp,omitempty"`
}
