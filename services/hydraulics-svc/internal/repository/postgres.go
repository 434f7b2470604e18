package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq"

	"wellflow/pkg/database"
	"wellflow/pkg/telemetry"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// PostgresRunRepository PostgreSQL реализация
type PostgresRunRepository struct {
	db database.DB
}

// NewPostgresRunRepository создаёт репозиторий
func NewPostgresRunRepository(db database.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

func (r *PostgresRunRepository) Create(ctx context.Context, run *Run) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Create")
	defer span.End()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Tags == nil {
		run.Tags = []string{}
	}

	query := `
		INSERT INTO hydraulic_runs (
			id, kind, method, surface_pressure, bottomhole_pressure,
			pressure_drop, depth_steps, input_hash, input, result,
			duration_ms, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		run.ID,
		string(run.Kind),
		run.Method,
		run.SurfacePressure,
		run.BottomholePressure,
		run.PressureDrop,
		run.DepthSteps,
		run.InputHash,
		run.Input,
		run.Result,
		run.DurationMs,
		run.Tags,
	).Scan(&run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

func (r *PostgresRunRepository) GetByID(ctx context.Context, id string) (*Run, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.GetByID")
	defer span.End()

	query := `
		SELECT
			id, kind, method, surface_pressure, bottomhole_pressure,
			pressure_drop, depth_steps, input_hash, input, result,
			duration_ms, tags, created_at
		FROM hydraulic_runs
		WHERE id = $1
	`

	var (
		run  Run
		kind string
		bhp  pgtype.Float8
		drop pgtype.Float8
		tags pgtype.Array[string]
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&kind,
		&run.Method,
		&run.SurfacePressure,
		&bhp,
		&drop,
		&run.DepthSteps,
		&run.InputHash,
		&run.Input,
		&run.Result,
		&run.DurationMs,
		&tags,
		&run.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Kind = Kind(kind)
	run.BottomholePressure = float8Ptr(bhp)
	run.PressureDrop = float8Ptr(drop)
	run.Tags = tags.Elements

	return &run, nil
}

func (r *PostgresRunRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Delete")
	defer span.End()

	result, err := r.db.Exec(ctx, `DELETE FROM hydraulic_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRunNotFound
	}

	return nil
}

func (r *PostgresRunRepository) List(ctx context.Context, filter *ListFilter) ([]*RunSummary, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.List")
	defer span.End()

	if filter == nil {
		filter = &ListFilter{}
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	where, args := buildWhereClause(filter)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM hydraulic_runs WHERE %s`, where)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			id, kind, method, surface_pressure, bottomhole_pressure,
			duration_ms, tags, created_at
		FROM hydraulic_runs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	args = append(args, limit, filter.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []*RunSummary
	for rows.Next() {
		var (
			s    RunSummary
			kind string
			bhp  pgtype.Float8
			tags pgtype.Array[string]
		)

		err := rows.Scan(
			&s.ID,
			&kind,
			&s.Method,
			&s.SurfacePressure,
			&bhp,
			&s.DurationMs,
			&tags,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan run: %w", err)
		}

		s.Kind = Kind(kind)
		s.BottomholePressure = float8Ptr(bhp)
		s.Tags = tags.Elements
		results = append(results, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return results, total, nil
}

func buildWhereClause(filter *ListFilter) (string, []any) {
	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if filter.Kind != "" {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, string(filter.Kind))
		argIdx++
	}

	if len(filter.Methods) > 0 {
		conditions = append(conditions, fmt.Sprintf("method = ANY($%d)", argIdx))
		args = append(args, pq.Array(filter.Methods))
		argIdx++
	}

	if len(filter.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && $%d", argIdx))
		args = append(args, pq.Array(filter.Tags))
		argIdx++
	}

	if filter.Since != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *filter.Since)
	}

	return strings.Join(conditions, " AND "), args
}

func (r *PostgresRunRepository) Stats(ctx context.Context, since *time.Time) (*Stats, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Stats")
	defer span.End()

	where := "TRUE"
	var args []any
	if since != nil {
		where = "created_at >= $1"
		args = append(args, *since)
	}

	// три запроса в одной транзакции
	return database.InTx(ctx, r.db, func(tx pgx.Tx) (*Stats, error) {
		return collectStats(ctx, tx, where, args)
	})
}

// querier общее подмножество pgx.Tx и database.DB
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func collectStats(ctx context.Context, q querier, where string, args []any) (*Stats, error) {
	stats := &Stats{RunsByKind: make(map[Kind]int)}

	totalQuery := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(AVG(duration_ms), 0)
		FROM hydraulic_runs
		WHERE %s
	`, where)
	if err := q.QueryRow(ctx, totalQuery, args...).Scan(&stats.TotalRuns, &stats.AverageDurationMs); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	kindQuery := fmt.Sprintf(`
		SELECT kind, COUNT(*)
		FROM hydraulic_runs
		WHERE %s
		GROUP BY kind
	`, where)
	kindRows, err := q.Query(ctx, kindQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get kind stats: %w", err)
	}
	defer kindRows.Close()

	for kindRows.Next() {
		var kind string
		var count int
		if err := kindRows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan kind stats: %w", err)
		}
		stats.RunsByKind[Kind(kind)] = count
	}
	if err := kindRows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	methodQuery := fmt.Sprintf(`
		SELECT
			method,
			COUNT(*),
			COALESCE(AVG(bottomhole_pressure), 0),
			COALESCE(MIN(bottomhole_pressure), 0),
			COALESCE(MAX(bottomhole_pressure), 0)
		FROM hydraulic_runs
		WHERE %s AND bottomhole_pressure IS NOT NULL
		GROUP BY method
		ORDER BY method
	`, where)
	methodRows, err := q.Query(ctx, methodQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get method stats: %w", err)
	}
	defer methodRows.Close()

	for methodRows.Next() {
		var ms MethodStats
		if err := methodRows.Scan(&ms.Method, &ms.Runs, &ms.AverageBHP, &ms.MinBHP, &ms.MaxBHP); err != nil {
			return nil, fmt.Errorf("failed to scan method stats: %w", err)
		}
		stats.Methods = append(stats.Methods, ms)
	}

	return stats, methodRows.Err()
}

func float8Ptr(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
