package hydraulics

import (
	"sort"
	"sync"

	"wellflow/pkg/domain"
)

// =============================================================================
// Correlation Contract
// =============================================================================

// StepResult ответ корреляции для одного узла
type StepResult struct {
	Pattern        FlowPattern
	Holdup         float64
	MixtureDensity float64 // с учётом проскальзывания
	Reynolds       float64
	FrictionFactor float64
	Elevation      float64 // psi/ft
	Friction       float64
	Acceleration   float64
}

// Correlation модель многофазного течения. Реализации не хранят состояния
// между вызовами Step и безопасны для параллельного использования.
type Correlation interface {
	Name() Method
	Step(s *State) StepResult
}

func clampHoldup(h float64) float64 {
	return domain.Clamp(h, MinHoldup, MaxHoldup)
}

// =============================================================================
// Registry
// =============================================================================

// MethodInfo описание метода для отображения
type MethodInfo struct {
	ID          Method `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type registration struct {
	info        MethodInfo
	correlation Correlation
}

var (
	registryMu sync.RWMutex
	registry   = map[Method]registration{}
)

// Register добавляет или заменяет корреляцию
func Register(c Correlation, name, description string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Name()] = registration{
		info:        MethodInfo{ID: c.Name(), Name: name, Description: description},
		correlation: c,
	}
}

// Lookup корреляция по идентификатору
func Lookup(m Method) (Correlation, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[m]
	return r.correlation, ok
}

// Methods метаданные всех зарегистрированных методов. Встроенные идут
// в порядке AllMethods, дополнительные за ними по алфавиту.
func Methods() []MethodInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	rank := make(map[Method]int, len(registry))
	for i, m := range AllMethods() {
		rank[m] = i
	}

	infos := make([]MethodInfo, 0, len(registry))
	for _, r := range registry {
		infos = append(infos, r.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		ri, iok := rank[infos[i].ID]
		rj, jok := rank[infos[j].ID]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return infos[i].ID < infos[j].ID
		}
	})
	return infos
}

func init() {
	Register(HagedornBrown{}, "Hagedorn-Brown", "Vertical multiphase flow correlation for oil and gas wells")
	Register(BeggsBrill{}, "Beggs-Brill", "Inclined multiphase flow correlation for all inclination angles")
	Register(DunsRoss{}, "Duns-Ross", "Vertical flow correlation based on flow pattern transitions")
	Register(Chokshi{}, "Chokshi", "Modern mechanistic model for multiphase flow in wellbores")
	Register(Orkiszewski{}, "Orkiszewski", "Specialized correlation for wells with large tubing diameters")
	Register(Gray{}, "Gray", "Correlation developed for high-rate gas wells and high Reynolds numbers")
	Register(MukherjeeBrill{}, "Mukherjee-Brill", "Specialized correlation for directional and deviated wells")
	Register(Aziz{}, "Aziz et al.", "Correlation for wide range of gas-liquid ratios with flow pattern transitions")
	Register(HasanKabir{}, "Hasan-Kabir", "Correlation considering pipe roughness effects on pressure drop calculations")
	Register(Ansari{}, "Ansari", "Mechanistic model for flow pattern prediction and pressure gradient calculations")
}
