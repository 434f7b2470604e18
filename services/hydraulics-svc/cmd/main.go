// Package main is the command-line entry point of hydraulics-svc.
//
// hydraulics-svc computes multiphase pressure traverses in producing wells
// with ten empirical and mechanistic correlations. Every subcommand reads a
// YAML or JSON document, runs the calculation through the service layer
// (result cache, worker pool, metrics, tracing, run history) and prints JSON.
//
// # Commands
//
//	calculate   -input well.yaml [-method gray] [-steps 200]
//	compare     -input well.yaml [-methods hagedorn-brown,beggs-brill]
//	recommend   -input well.yaml
//	sensitivity -input well.yaml -kind flow_rate|tubing -min 200 -max 2000 -steps 10
//	target      -input well.yaml -bhp 3000
//	gaslift     -input design.yaml
//	methods
//	history     [-kind calculate] [-method gray] [-limit 20] [-stats] [-show id] [-delete id]
//	migrate     [up|down|status]
//
// calculate, compare, sensitivity, target and gaslift accept -report
// xlsx|pdf|csv (several comma separated) and write the report into
// report.output_dir.
//
// # Configuration
//
// Configuration priority (highest first):
//  1. Environment variables (prefix: WELLFLOW_)
//  2. Config file (CONFIG_PATH, config.yaml, config/config.yaml, /etc/wellflow/config.yaml)
//  3. Defaults
//
// Useful variables:
//
//	WELLFLOW_LOG_LEVEL                   - debug, info, warn, error
//	WELLFLOW_HYDRAULICS_DEFAULT_METHOD   - correlation when input has none
//	WELLFLOW_HYDRAULICS_WORKERS          - parallel calculations for compare and sweeps
//	WELLFLOW_HYDRAULICS_TIMEOUT          - per-operation timeout (e.g. 30s)
//	WELLFLOW_CACHE_ENABLED, WELLFLOW_CACHE_DRIVER=memory|redis
//	WELLFLOW_DATABASE_ENABLED            - persist runs to PostgreSQL
//	WELLFLOW_TRACING_ENABLED             - export spans over OTLP gRPC
//	WELLFLOW_METRICS_ENABLED             - serve /metrics while the command runs
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"wellflow/pkg/apperror"
	"wellflow/pkg/cache"
	"wellflow/pkg/config"
	"wellflow/pkg/database"
	"wellflow/pkg/logger"
	"wellflow/pkg/metrics"
	"wellflow/pkg/telemetry"
	"wellflow/services/hydraulics-svc/internal/hydraulics"
	"wellflow/services/hydraulics-svc/internal/report"
	"wellflow/services/hydraulics-svc/internal/repository"
	"wellflow/services/hydraulics-svc/internal/service"
	"wellflow/services/hydraulics-svc/migrations"
)

const serviceName = "hydraulics-svc"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run разбирает подкоманду и возвращает код выхода
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		usage(stderr)
		return 2
	}

	// Справочник методов не требует окружения
	if args[0] == "methods" {
		return exit(stderr, writeJSON(stdout, hydraulics.Methods()))
	}

	cfg, err := config.LoadWithServiceDefaults(serviceName)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	logger.Log = logger.WithService(serviceName)

	// один request_id на запуск, попадает во все записи сервиса
	ctx = logger.ContextWithRequestID(ctx, uuid.NewString())

	app, err := newApp(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return 1
	}
	defer app.close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "calculate":
		err = app.calculate(ctx, rest, stdout)
	case "compare":
		err = app.compare(ctx, rest, stdout)
	case "recommend":
		err = app.recommend(ctx, rest, stdout)
	case "sensitivity":
		err = app.sensitivity(ctx, rest, stdout)
	case "target":
		err = app.target(ctx, rest, stdout)
	case "gaslift":
		err = app.gaslift(ctx, rest, stdout)
	case "history":
		err = app.history(ctx, rest, stdout)
	case "migrate":
		err = app.migrate(ctx, rest, stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}
	return exit(stderr, err)
}

func exit(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, flag.ErrHelp) {
		return 2
	}
	if apperror.IsWarning(err) {
		fmt.Fprintf(stderr, "warning: %v\n", err)
		return 0
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	if details := apperror.DetailsOf(err); len(details) > 0 {
		_ = json.NewEncoder(stderr).Encode(details)
	}
	return 1
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage: hydraulics-svc <command> [flags]

commands:
  calculate    pressure traverse with one correlation
  compare      run several correlations on the same input
  recommend    suggest a correlation for the input
  sensitivity  flow rate or tubing size sweep
  target       surface pressure for a target bottomhole pressure
  gaslift      natural flow check and gas lift design
  methods      list correlations
  history      list, show, delete and summarize saved runs
  migrate      apply database migrations (up, down, status)`)
}

// =============================================================================
// Wiring
// =============================================================================

type app struct {
	cfg     *config.Config
	svc     *service.HydraulicsService
	db      *database.Postgres
	cache   cache.Cache
	tracing *telemetry.Provider
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     true,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.Tracing.ServiceName,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		a.tracing = tp
	}

	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
	if cfg.Metrics.Enabled {
		prometheus.MustRegister(metrics.NewRuntimeCollector(cfg.Metrics.Namespace, cfg.Metrics.Subsystem))
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	deps := service.Deps{Metrics: m, CacheTTL: cfg.Cache.DefaultTTL}

	if cfg.Cache.Enabled {
		c, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			// Без кэша считаем дальше
			logger.Warn("result cache unavailable", "driver", cfg.Cache.Driver, "error", err)
		} else {
			a.cache = c
			deps.Cache = c
		}
	}

	if cfg.Database.Enabled {
		db, err := database.Connect(ctx, &cfg.Database)
		if err != nil {
			a.close()
			return nil, err
		}
		a.db = db
		deps.Repo = repository.NewPostgresRunRepository(db)

		if cfg.Database.AutoMigrate {
			if err := a.migrateUp(ctx); err != nil {
				a.close()
				return nil, err
			}
		}
	}

	a.svc = service.NewHydraulicsService(cfg, deps)
	return a, nil
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracing.Shutdown(ctx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}
}

// =============================================================================
// Commands
// =============================================================================

// common флаги, общие для расчётных команд
type common struct {
	input   string
	tags    string
	reports string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.input, "input", "", "input document (yaml or json)")
	fs.StringVar(&c.tags, "tags", "", "comma separated tags stored with the run")
	fs.StringVar(&c.reports, "report", "", "report formats to write: xlsx, pdf, csv")
}

func (c *common) tagList() []string {
	return splitList(c.tags)
}

func (c *common) loadInput() (*hydraulics.Input, error) {
	if c.input == "" {
		return nil, apperror.New(apperror.CodeInvalidInput, "-input is required").WithField("input")
	}
	var in hydraulics.Input
	if err := config.DecodeFile(c.input, &in); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidInput, "read input")
	}
	return &in, nil
}

func (a *app) calculate(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	var c common
	c.register(fs)
	method := fs.String("method", "", "correlation id (default from config)")
	steps := fs.Int("steps", 0, "depth nodes (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := c.loadInput()
	if err != nil {
		return err
	}
	if *method != "" {
		in.Method = hydraulics.Method(*method)
	}
	if *steps > 0 {
		in.Geometry.Steps = *steps
	}

	res, err := a.svc.Calculate(ctx, in, c.tagList()...)
	if err != nil {
		return err
	}
	if err := a.writeReports(ctx, c.reports, "traverse", &report.Document{Input: in, Result: res}); err != nil {
		return err
	}
	return writeJSON(stdout, res)
}

func (a *app) compare(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	var c common
	c.register(fs)
	methods := fs.String("methods", "", "comma separated correlation ids (default all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := c.loadInput()
	if err != nil {
		return err
	}

	cmp, err := a.svc.Compare(ctx, in, parseMethods(*methods), c.tagList()...)
	if err != nil {
		return err
	}
	if err := a.writeReports(ctx, c.reports, "comparison", &report.Document{Input: in, Comparison: cmp}); err != nil {
		return err
	}
	return writeJSON(stdout, cmp)
}

func (a *app) recommend(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := c.loadInput()
	if err != nil {
		return err
	}
	return writeJSON(stdout, map[string]hydraulics.Method{"method": a.svc.Recommend(ctx, in)})
}

func (a *app) sensitivity(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("sensitivity", flag.ContinueOnError)
	var c common
	c.register(fs)
	kind := fs.String("kind", string(hydraulics.SweepFlowRate), "flow_rate or tubing")
	minV := fs.Float64("min", 0, "first value (STB/d or in)")
	maxV := fs.Float64("max", 0, "last value (STB/d or in)")
	steps := fs.Int("steps", 10, "number of points")
	waterCut := fs.Float64("water-cut", 0, "water cut fraction for flow_rate sweeps")
	gor := fs.Float64("gor", 0, "producing GOR, scf/STB, for flow_rate sweeps")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := c.loadInput()
	if err != nil {
		return err
	}

	var sw *hydraulics.Sweep
	switch hydraulics.SweepKind(*kind) {
	case hydraulics.SweepFlowRate:
		sw, err = a.svc.FlowRateSensitivity(ctx, in, hydraulics.FlowRateSweep{
			MinOilRate: *minV,
			MaxOilRate: *maxV,
			Steps:      *steps,
			WaterCut:   *waterCut,
			GOR:        *gor,
		}, c.tagList()...)
	case hydraulics.SweepTubing:
		sw, err = a.svc.TubingSensitivity(ctx, in, hydraulics.TubingSweep{
			MinID: *minV,
			MaxID: *maxV,
			Steps: *steps,
		}, c.tagList()...)
	default:
		return apperror.Newf(apperror.CodeInvalidInput, "unknown sweep kind %q", *kind).WithField("kind")
	}
	if err != nil {
		return err
	}
	if err := a.writeReports(ctx, c.reports, "sensitivity", &report.Document{Input: in, Sweep: sw}); err != nil {
		return err
	}
	return writeJSON(stdout, sw)
}

func (a *app) target(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("target", flag.ContinueOnError)
	var c common
	c.register(fs)
	bhp := fs.Float64("bhp", 0, "target bottomhole pressure, psia")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := c.loadInput()
	if err != nil {
		return err
	}

	res, err := a.svc.SolveTarget(ctx, in, *bhp, c.tagList()...)
	if res == nil {
		return err
	}
	if rerr := a.writeReports(ctx, c.reports, "target", &report.Document{Input: in, Result: res}); rerr != nil {
		return rerr
	}
	if werr := writeJSON(stdout, res); werr != nil {
		return werr
	}
	// предупреждение о несходимости печатается после результата
	return err
}

func (a *app) gaslift(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("gaslift", flag.ContinueOnError)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.input == "" {
		return apperror.New(apperror.CodeInvalidInput, "-input is required").WithField("input")
	}

	var design hydraulics.GasLiftDesign
	if err := config.DecodeFile(c.input, &design); err != nil {
		return apperror.Wrap(err, apperror.CodeInvalidInput, "read gas lift design")
	}

	res, err := a.svc.DesignGasLift(ctx, &design, c.tagList()...)
	if err != nil {
		return err
	}
	if err := a.writeReports(ctx, c.reports, "gaslift", &report.Document{Input: &design.Input, GasLift: res}); err != nil {
		return err
	}
	return writeJSON(stdout, res)
}

func (a *app) history(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	kind := fs.String("kind", "", "filter by kind")
	methods := fs.String("method", "", "comma separated methods")
	tags := fs.String("tags", "", "runs having any of the tags")
	since := fs.Duration("since", 0, "only runs newer than this (e.g. 24h)")
	limit := fs.Int("limit", 20, "page size (max 100)")
	offset := fs.Int("offset", 0, "page offset")
	stats := fs.Bool("stats", false, "print aggregates instead of the list")
	show := fs.String("show", "", "print one run with input and result")
	del := fs.String("delete", "", "delete run by id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var sinceTime *time.Time
	if *since > 0 {
		t := time.Now().Add(-*since)
		sinceTime = &t
	}

	switch {
	case *del != "":
		if err := a.svc.DeleteRun(ctx, *del); err != nil {
			return err
		}
		return writeJSON(stdout, map[string]string{"deleted": *del})
	case *show != "":
		run, err := a.svc.Run(ctx, *show)
		if err != nil {
			return err
		}
		return writeJSON(stdout, runView(run))
	case *stats:
		st, err := a.svc.HistoryStats(ctx, sinceTime)
		if err != nil {
			return err
		}
		return writeJSON(stdout, st)
	}

	runs, total, err := a.svc.History(ctx, &repository.ListFilter{
		Kind:    repository.Kind(*kind),
		Methods: splitList(*methods),
		Tags:    splitList(*tags),
		Since:   sinceTime,
		Limit:   *limit,
		Offset:  *offset,
	})
	if err != nil {
		return err
	}
	return writeJSON(stdout, map[string]any{"total": total, "runs": runs})
}

func (a *app) migrate(ctx context.Context, args []string, stdout io.Writer) error {
	if a.db == nil {
		return apperror.New(apperror.CodeUnavailable, "database is disabled (set WELLFLOW_DATABASE_ENABLED=true)")
	}

	action := "up"
	if len(args) > 0 {
		action = args[0]
	}

	if err := database.HealthCheck(ctx, a.db); err != nil {
		return apperror.Wrap(err, apperror.CodeUnavailable, "database is not reachable")
	}

	m, err := database.NewMigrator(a.db.Pool, migrations.FS, ".")
	if err != nil {
		return err
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(ctx); err != nil {
			return err
		}
	case "down":
		if err := m.Down(ctx); err != nil {
			return err
		}
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		out := make([]map[string]any, 0, len(statuses))
		for _, s := range statuses {
			out = append(out, map[string]any{
				"version":    s.Source.Version,
				"path":       s.Source.Path,
				"state":      string(s.State),
				"applied_at": s.AppliedAt,
			})
		}
		return writeJSON(stdout, out)
	default:
		return apperror.Newf(apperror.CodeInvalidInput, "unknown migrate action %q", action)
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	return writeJSON(stdout, map[string]int64{"version": version})
}

func (a *app) migrateUp(ctx context.Context) error {
	m, err := database.NewMigrator(a.db.Pool, migrations.FS, ".")
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up(ctx)
}

// =============================================================================
// Output
// =============================================================================

// writeReports пишет отчёты в report.output_dir; formats - список через запятую
func (a *app) writeReports(ctx context.Context, formats, name string, doc *report.Document) error {
	list := splitList(formats)
	if len(list) == 0 {
		return nil
	}

	dir := a.cfg.Report.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	stamp := time.Now().Format("20060102-150405")
	for _, f := range list {
		format, err := report.ParseFormat(f)
		if err != nil {
			return err
		}
		data, err := a.svc.Render(ctx, format, doc)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%s%s", name, stamp, format.Extension()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", "path", path, "bytes", len(data))
	}
	return nil
}

// runView сохранённый запуск с развёрнутыми JSON полями
func runView(run *repository.Run) map[string]any {
	return map[string]any{
		"id":                  run.ID,
		"kind":                run.Kind,
		"method":              run.Method,
		"surface_pressure":    run.SurfacePressure,
		"bottomhole_pressure": run.BottomholePressure,
		"pressure_drop":       run.PressureDrop,
		"depth_steps":         run.DepthSteps,
		"input_hash":          run.InputHash,
		"duration_ms":         run.DurationMs,
		"tags":                run.Tags,
		"created_at":          run.CreatedAt,
		"input":               json.RawMessage(run.Input),
		"result":              json.RawMessage(run.Result),
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseMethods(s string) []hydraulics.Method {
	var out []hydraulics.Method
	for _, m := range splitList(s) {
		out = append(out, hydraulics.Method(strings.ToLower(m)))
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
