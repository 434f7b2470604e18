package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"wellflow/pkg/apperror"
	"wellflow/pkg/cache"
	"wellflow/pkg/config"
	"wellflow/pkg/logger"
	"wellflow/pkg/metrics"
	"wellflow/pkg/telemetry"
	"wellflow/services/hydraulics-svc/internal/hydraulics"
	"wellflow/services/hydraulics-svc/internal/report"
	"wellflow/services/hydraulics-svc/internal/repository"
)

// Префиксы ключей кэша
const (
	cacheKindCalculate = "calc"
	cacheKindCompare   = "compare"
)

// compareMethod значение method у сохранённых сравнений
const compareMethod = "compare"

// ErrHistoryDisabled история запрошена без настроенной базы
var ErrHistoryDisabled = apperror.New(apperror.CodeUnavailable, "run history is not configured")

// Deps внешние зависимости сервиса; любая может быть nil
type Deps struct {
	Cache   cache.Cache
	Repo    repository.RunRepository
	Metrics *metrics.Metrics
	// CacheTTL 0 - TTL кэша по умолчанию
	CacheTTL time.Duration
	// Engine опции расчётного ядра (провайдер PVT)
	Engine []hydraulics.Option
}

// HydraulicsService фасад расчётного ядра: валидация, кэш, пул, метрики, история
type HydraulicsService struct {
	cfg     config.HydraulicsConfig
	report  config.ReportConfig
	pool    *hydraulics.Pool
	engine  []hydraulics.Option
	cache   cache.Cache
	ttl     time.Duration
	repo    repository.RunRepository
	metrics *metrics.Metrics
}

// NewHydraulicsService собирает сервис по конфигурации
func NewHydraulicsService(cfg *config.Config, deps Deps) *HydraulicsService {
	workers := cfg.Hydraulics.Workers
	if workers < 1 {
		workers = hydraulics.DefaultWorkers
	}

	return &HydraulicsService{
		cfg:     cfg.Hydraulics,
		report:  cfg.Report,
		pool:    hydraulics.NewPool(workers, deps.Engine...),
		engine:  deps.Engine,
		cache:   deps.Cache,
		ttl:     deps.CacheTTL,
		repo:    deps.Repo,
		metrics: deps.Metrics,
	}
}

// Pool пул расчётов сервиса
func (s *HydraulicsService) Pool() *hydraulics.Pool {
	return s.pool
}

// =============================================================================
// Calculate
// =============================================================================

// Calculate профиль давления одним методом. Результат кэшируется по отпечатку входа.
func (s *HydraulicsService) Calculate(ctx context.Context, in *hydraulics.Input, tags ...string) (*hydraulics.Result, error) {
	prepared, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "HydraulicsService.Calculate",
		telemetry.WithAttrs(telemetry.CalculationAttributes(
			prepared.Method.String(),
			prepared.Geometry.Steps,
			prepared.Geometry.TotalDepth(),
			prepared.SurfacePressure,
		)...),
	)
	defer span.End()

	hash, err := cache.HashInput(prepared)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "fingerprint input")
	}
	span.SetAttributes(attribute.String(telemetry.AttrInputHash, hash))
	key := cache.BuildKey(cacheKindCalculate, prepared.Method.String(), hash)

	var cached hydraulics.Result
	if s.lookup(ctx, key, &cached) {
		span.SetAttributes(telemetry.ResultAttributes(cached.BottomholePressure, cached.PressureDrop)...)
		return &cached, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := s.pool.CalculatePooled(ctx, prepared)
	elapsed := time.Since(start)
	s.recordCalculation(prepared.Method, res, err, elapsed)
	if err != nil {
		telemetry.SetError(ctx, err)
		logger.WithContext(ctx, "method", prepared.Method).Warn("calculation failed", "error", err)
		return nil, err
	}

	span.SetAttributes(telemetry.ResultAttributes(res.BottomholePressure, res.PressureDrop)...)
	s.store(ctx, key, res)
	s.save(ctx, repository.KindCalculate, prepared.Method.String(), prepared, hash, res, res, elapsed, tags)

	logger.WithContext(ctx, "method", res.Method).Info("calculation completed",
		"bhp", res.BottomholePressure,
		"steps", len(res.Points),
		"duration_ms", elapsed.Milliseconds(),
	)
	return res, nil
}

// =============================================================================
// Compare / Recommend
// =============================================================================

type compareKey struct {
	Input   *hydraulics.Input   `json:"input"`
	Methods []hydraulics.Method `json:"methods"`
}

// Compare тот же вход несколькими методами; пустой список - все методы
func (s *HydraulicsService) Compare(ctx context.Context, in *hydraulics.Input, methods []hydraulics.Method, tags ...string) (*hydraulics.Comparison, error) {
	prepared, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		methods = hydraulics.AllMethods()
	}

	ctx, span := telemetry.StartSpan(ctx, "HydraulicsService.Compare",
		trace.WithAttributes(attribute.Int(telemetry.AttrMethodsCount, len(methods))),
	)
	defer span.End()

	hash, err := cache.HashInput(compareKey{Input: prepared, Methods: methods})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "fingerprint input")
	}
	key := cache.BuildKey(cacheKindCompare, hash)

	var cached hydraulics.Comparison
	if s.lookup(ctx, key, &cached) {
		restoreOutcomeErrors(&cached)
		return &cached, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	cmp, err := s.pool.Compare(ctx, prepared, methods)
	elapsed := time.Since(start)
	s.observePool()
	if cmp != nil {
		s.recordSweep(cacheKindCompare, len(cmp.Order))
		for _, m := range cmp.Order {
			if o := cmp.Results[m]; o != nil {
				s.recordCalculation(m, o.Result, o.Err, 0)
			}
		}
	}
	if err != nil {
		telemetry.SetError(ctx, err)
		return cmp, err
	}

	span.SetAttributes(
		attribute.Int("hydraulics.compare.successful", cmp.Statistics.Successful),
		attribute.Float64("hydraulics.compare.range_psi", cmp.Statistics.Range),
	)
	s.store(ctx, key, cmp)

	run := &summaryValues{
		bhp:  cmp.Statistics.Average,
		drop: cmp.Statistics.Average - prepared.SurfacePressure,
	}
	s.save(ctx, repository.KindCompare, compareMethod, prepared, hash, cmp, run, elapsed, tags)
	return cmp, nil
}

// Recommend метод для входа по эвристикам геометрии и флюида
func (s *HydraulicsService) Recommend(ctx context.Context, in *hydraulics.Input) hydraulics.Method {
	_, span := telemetry.StartSpan(ctx, "HydraulicsService.Recommend")
	defer span.End()

	m := hydraulics.Recommend(in)
	span.SetAttributes(attribute.String(telemetry.AttrMethod, m.String()))
	return m
}

// Methods зарегистрированные корреляции
func (s *HydraulicsService) Methods() []hydraulics.MethodInfo {
	return hydraulics.Methods()
}

// =============================================================================
// Sensitivity / Target / Gas lift
// =============================================================================

// FlowRateSensitivity свип по дебиту нефти
func (s *HydraulicsService) FlowRateSensitivity(ctx context.Context, in *hydraulics.Input, sweep hydraulics.FlowRateSweep, tags ...string) (*hydraulics.Sweep, error) {
	prepared, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "HydraulicsService.FlowRateSensitivity")
	defer span.End()

	return s.runSweep(ctx, repository.KindFlowRate, prepared, sweep, tags, func(ctx context.Context) (*hydraulics.Sweep, error) {
		return s.pool.FlowRateSensitivity(ctx, prepared, sweep)
	})
}

// TubingSensitivity свип по диаметру НКТ
func (s *HydraulicsService) TubingSensitivity(ctx context.Context, in *hydraulics.Input, sweep hydraulics.TubingSweep, tags ...string) (*hydraulics.Sweep, error) {
	prepared, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "HydraulicsService.TubingSensitivity")
	defer span.End()

	return s.runSweep(ctx, repository.KindTubing, prepared, sweep, tags, func(ctx context.Context) (*hydraulics.Sweep, error) {
		return s.pool.TubingSensitivity(ctx, prepared, sweep)
	})
}

func (s *HydraulicsService) runSweep(
	ctx context.Context,
	kind repository.Kind,
	prepared *hydraulics.Input,
	params any,
	tags []string,
	run func(context.Context) (*hydraulics.Sweep, error),
) (*hydraulics.Sweep, error) {
	hash, err := cache.HashInput(struct {
		Input  *hydraulics.Input `json:"input"`
		Params any               `json:"params"`
	}{prepared, params})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "fingerprint input")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	sw, err := run(ctx)
	elapsed := time.Since(start)
	s.observePool()
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	telemetry.SetAttributes(ctx, telemetry.SweepAttributes(string(sw.Kind), len(sw.Points))...)
	s.recordSweep(string(sw.Kind), len(sw.Points))

	var summary *summaryValues
	if n := len(sw.Points); n > 0 {
		last := sw.Points[n-1]
		summary = &summaryValues{bhp: last.BHP, drop: last.PressureDrop}
	}
	s.save(ctx, kind, sw.Method.String(), prepared, hash, sw, summary, elapsed, tags)
	return sw, nil
}

// SolveTarget подбирает устьевое давление под целевое забойное.
// При отсутствии сходимости возвращает последний профиль вместе с предупреждением.
func (s *HydraulicsService) SolveTarget(ctx context.Context, in *hydraulics.Input, targetBHP float64, tags ...string) (*hydraulics.Result, error) {
	prepared, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "HydraulicsService.SolveTarget",
		trace.WithAttributes(attribute.Float64("hydraulics.target_bhp_psia", targetBHP)),
	)
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Целевой расчёт занимает один слот пула
	if err := s.pool.Acquire(ctx); err != nil {
		return nil, hydraulics.ContextError(err)
	}
	s.observePool()
	start := time.Now()
	res, err := hydraulics.SolveForSurfacePressure(ctx, prepared, targetBHP, s.targetConfig(), s.engine...)
	elapsed := time.Since(start)
	s.pool.Release()
	s.observePool()

	s.recordCalculation(prepared.Method, res, err, elapsed)
	if res == nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}
	if err != nil {
		telemetry.AddEvent(ctx, "target_not_converged",
			attribute.Float64(telemetry.AttrBHP, res.BottomholePressure),
		)
		logger.WithContext(ctx, "method", res.Method).Warn("target bottomhole pressure not reached",
			"target", targetBHP,
			"bhp", res.BottomholePressure,
			"surface_pressure", res.SurfacePressure,
		)
	}

	span.SetAttributes(telemetry.ResultAttributes(res.BottomholePressure, res.PressureDrop)...)
	hash, herr := cache.HashInput(struct {
		Input  *hydraulics.Input `json:"input"`
		Target float64           `json:"target"`
	}{prepared, targetBHP})
	if herr == nil {
		s.save(ctx, repository.KindTarget, res.Method.String(), prepared, hash, res, res, elapsed, tags)
	}
	return res, err
}

func (s *HydraulicsService) targetConfig() hydraulics.TargetConfig {
	cfg := hydraulics.DefaultTargetConfig()
	if s.cfg.TargetTolerance > 0 {
		cfg.Tolerance = s.cfg.TargetTolerance
	}
	if s.cfg.TargetMaxIter > 0 {
		cfg.MaxIterations = s.cfg.TargetMaxIter
	}
	return cfg
}

// DesignGasLift проверка фонтанирования и подбор расхода закачки
func (s *HydraulicsService) DesignGasLift(ctx context.Context, d *hydraulics.GasLiftDesign, tags ...string) (*hydraulics.GasLiftResult, error) {
	if d == nil {
		return nil, apperror.ErrNilInput.Clone()
	}
	prepared, err := s.prepare(&d.Input)
	if err != nil {
		return nil, err
	}
	design := *d
	design.Input = *prepared

	ctx, span := telemetry.StartSpan(ctx, "HydraulicsService.DesignGasLift",
		trace.WithAttributes(attribute.Float64("hydraulics.formation_pressure_psia", d.FormationPressure)),
	)
	defer span.End()

	hash, err := cache.HashInput(design)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "fingerprint input")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := s.pool.DesignGasLift(ctx, &design)
	elapsed := time.Since(start)
	s.observePool()
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("hydraulics.gas_lift.needed", res.GasLiftNeeded),
		attribute.Float64("hydraulics.gas_lift.rate_mscfd", res.InjectionRate),
	)
	s.recordSweep(string(repository.KindGasLift), len(res.RateSweep))

	summary := &summaryValues{bhp: res.DesignBHP, drop: res.DesignBHP - prepared.SurfacePressure}
	s.save(ctx, repository.KindGasLift, prepared.Method.String(), &design.Input, hash, res, summary, elapsed, tags)
	return res, nil
}

// =============================================================================
// History / Reports
// =============================================================================

// History список сохранённых расчётов
func (s *HydraulicsService) History(ctx context.Context, filter *repository.ListFilter) ([]*repository.RunSummary, int64, error) {
	if s.repo == nil {
		return nil, 0, ErrHistoryDisabled.Clone()
	}
	ctx, span := telemetry.StartSpan(ctx, "HydraulicsService.History")
	defer span.End()

	return s.repo.List(ctx, filter)
}

// Run сохранённый расчёт по id
func (s *HydraulicsService) Run(ctx context.Context, id string) (*repository.Run, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled.Clone()
	}
	run, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrRunNotFound) {
		return nil, apperror.Wrap(err, apperror.CodeNotFound, "run not found").WithDetails("id", id)
	}
	return run, err
}

// DeleteRun удаляет сохранённый расчёт
func (s *HydraulicsService) DeleteRun(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrHistoryDisabled.Clone()
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrRunNotFound) {
		return apperror.Wrap(err, apperror.CodeNotFound, "run not found").WithDetails("id", id)
	}
	return err
}

// HistoryStats агрегаты истории с момента since (nil - за всё время)
func (s *HydraulicsService) HistoryStats(ctx context.Context, since *time.Time) (*repository.Stats, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled.Clone()
	}
	return s.repo.Stats(ctx, since)
}

// Render отчёт в заданном формате; компания и лимит строк берутся из конфигурации
func (s *HydraulicsService) Render(ctx context.Context, format report.Format, doc *report.Document) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "HydraulicsService.Render",
		trace.WithAttributes(attribute.String("report.format", string(format))),
	)
	defer span.End()

	g, err := report.New(format)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		if doc.Company == "" {
			doc.Company = s.report.CompanyName
		}
		if doc.MaxPoints == 0 {
			doc.MaxPoints = s.report.MaxPoints
		}
	}

	out, err := report.Render(ctx, g, doc)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("report.bytes", len(out)))
	return out, nil
}

// =============================================================================
// helpers
// =============================================================================

// prepare копия входа с умолчаниями из конфигурации и проверкой лимита шагов
func (s *HydraulicsService) prepare(in *hydraulics.Input) (*hydraulics.Input, error) {
	if in == nil {
		return nil, apperror.ErrNilInput.Clone()
	}
	out := in.Clone()
	if out.Method == "" && s.cfg.DefaultMethod != "" {
		out.Method = hydraulics.Method(s.cfg.DefaultMethod)
	}
	if out.Geometry.Steps == 0 && s.cfg.DefaultSteps > 0 {
		out.Geometry.Steps = s.cfg.DefaultSteps
	}
	if s.cfg.MaxSteps > 0 && out.Geometry.Steps > s.cfg.MaxSteps {
		return nil, apperror.Newf(apperror.CodeInvalidGeometry,
			"steps %d exceed the configured maximum %d", out.Geometry.Steps, s.cfg.MaxSteps).
			WithField("geometry.steps")
	}
	return &out, nil
}

func (s *HydraulicsService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// lookup читает значение из кэша; ошибки кэша не прерывают расчёт
func (s *HydraulicsService) lookup(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}

	data, err := s.cache.Get(ctx, key)
	if err == nil {
		err = json.Unmarshal(data, out)
	}
	hit := err == nil

	if s.metrics != nil {
		s.metrics.RecordCache(hit)
	}
	telemetry.SetAttributes(ctx, attribute.Bool(telemetry.AttrCacheHit, hit))
	if err != nil && !errors.Is(err, cache.ErrKeyNotFound) {
		logger.WithContext(ctx).Warn("result cache read failed", "key", key, "error", err)
	}
	return hit
}

func (s *HydraulicsService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.ttl)
	}
	if err != nil {
		logger.WithContext(ctx).Warn("failed to cache result", "key", key, "error", err)
	}
}

// summaryValues давления для колонок истории
type summaryValues struct {
	bhp  float64
	drop float64
}

// save пишет запуск в историю; ошибки только логируются
func (s *HydraulicsService) save(
	ctx context.Context,
	kind repository.Kind,
	method string,
	in *hydraulics.Input,
	hash string,
	result any,
	summary any,
	elapsed time.Duration,
	tags []string,
) {
	if s.repo == nil {
		return
	}

	input, err := json.Marshal(in)
	if err != nil {
		logger.WithContext(ctx).Warn("failed to encode run input", "error", err)
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		logger.WithContext(ctx).Warn("failed to encode run result", "error", err)
		return
	}

	run := &repository.Run{
		Kind:            kind,
		Method:          method,
		SurfacePressure: in.SurfacePressure,
		DepthSteps:      in.Geometry.Steps,
		InputHash:       hash,
		Input:           input,
		Result:          payload,
		DurationMs:      float64(elapsed.Microseconds()) / 1000,
		Tags:            tags,
	}
	switch v := summary.(type) {
	case *hydraulics.Result:
		run.BottomholePressure = &v.BottomholePressure
		run.PressureDrop = &v.PressureDrop
	case *summaryValues:
		if v != nil {
			run.BottomholePressure = &v.bhp
			run.PressureDrop = &v.drop
		}
	}

	if err := s.repo.Create(ctx, run); err != nil {
		logger.WithContext(ctx, "kind", kind).Warn("failed to save run", "error", err)
		return
	}
	telemetry.AddEvent(ctx, "run_saved", attribute.String("run.id", run.ID))
}

func (s *HydraulicsService) recordCalculation(method hydraulics.Method, res *hydraulics.Result, err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	var bhp float64
	var steps int
	if res != nil {
		bhp = res.BottomholePressure
		steps = len(res.Points)
	}
	s.metrics.RecordCalculation(method.String(), err == nil && res != nil, elapsed, bhp, steps)
	s.metrics.PoolInFlight.Set(float64(s.pool.InFlight()))
}

func (s *HydraulicsService) recordSweep(kind string, points int) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordSweep(kind, points)
}

func (s *HydraulicsService) observePool() {
	if s.metrics == nil {
		return
	}
	s.metrics.PoolInFlight.Set(float64(s.pool.InFlight()))
}

// restoreOutcomeErrors восстанавливает Err у исходов, прочитанных из кэша
func restoreOutcomeErrors(c *hydraulics.Comparison) {
	for _, o := range c.Results {
		if o != nil && o.Result == nil && o.Error != "" && o.Err == nil {
			o.Err = apperror.New(apperror.CodeCalculationFailed, o.Error)
		}
	}
}
