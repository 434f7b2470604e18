package repository

import (
	"context"
	"errors"
	"time"
)

// Стандартные ошибки
var (
	ErrRunNotFound = errors.New("hydraulic run not found")
)

// Kind тип сохранённого запуска
type Kind string

const (
	KindCalculate Kind = "calculate"
	KindCompare   Kind = "compare"
	KindFlowRate  Kind = "flow_rate"
	KindTubing    Kind = "tubing"
	KindTarget    Kind = "target"
	KindGasLift   Kind = "gas_lift"
)

// Run сохранённый расчёт
type Run struct {
	ID                 string
	Kind               Kind
	Method             string
	SurfacePressure    float64
	BottomholePressure *float64 // нет у сравнений без успешных методов
	PressureDrop       *float64
	DepthSteps         int
	InputHash          string
	Input              []byte // JSON
	Result             []byte // JSON
	DurationMs         float64
	Tags               []string
	CreatedAt          time.Time
}

// RunSummary строка списка без JSON
type RunSummary struct {
	ID                 string
	Kind               Kind
	Method             string
	SurfacePressure    float64
	BottomholePressure *float64
	DurationMs         float64
	Tags               []string
	CreatedAt          time.Time
}

// ListFilter фильтры списка
type ListFilter struct {
	Kind    Kind
	Methods []string
	Tags    []string
	Since   *time.Time
	Limit   int
	Offset  int
}

// Stats агрегаты по истории
type Stats struct {
	TotalRuns         int
	AverageDurationMs float64
	RunsByKind        map[Kind]int
	Methods           []MethodStats
}

// MethodStats агрегаты по методу
type MethodStats struct {
	Method     string
	Runs       int
	AverageBHP float64
	MinBHP     float64
	MaxBHP     float64
}

// RunRepository история гидравлических расчётов
type RunRepository interface {
	Create(ctx context.Context, run *Run) error
	GetByID(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, filter *ListFilter) ([]*RunSummary, int64, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, since *time.Time) (*Stats, error)
}
