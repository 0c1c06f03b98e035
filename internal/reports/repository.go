// Package reports serves the read-only sales dashboard.
package reports

import (
	"context"
	"time"

	leaddomain "crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeadTotals aggregates the active lead set.
type LeadTotals struct {
	Total     int
	Qualified int
	Converted int
	ScoreSum  int
}

// DealSample is the part of a deal the dashboard needs.
type DealSample struct {
	Stage             string
	Value             float64
	Probability       int
	ExpectedCloseDate *time.Time
	AssignedTo        *uuid.UUID
	AssignedToName    string
}

// Store reads dashboard inputs. It never writes.
type Store interface {
	LeadTotals(ctx context.Context) (LeadTotals, error)
	LeadSources(ctx context.Context) ([]leaddomain.SourceSample, error)
	Deals(ctx context.Context) ([]DealSample, error)
	CountOverdueTasks(ctx context.Context, now time.Time) (int, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) LeadTotals(ctx context.Context) (LeadTotals, error) {
	var totals LeadTotals
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total_leads,
			COUNT(*) FILTER (WHERE status = 'Qualified') AS qualified_leads,
			COUNT(*) FILTER (WHERE status = 'Converted') AS converted_leads,
			COALESCE(SUM(lead_score), 0) AS score_sum
		FROM leads
		WHERE deleted_at IS NULL
	`).Scan(&totals.Total, &totals.Qualified, &totals.Converted, &totals.ScoreSum)
	if err != nil {
		return LeadTotals{}, err
	}
	return totals, nil
}

func (r *Repository) LeadSources(ctx context.Context) ([]leaddomain.SourceSample, error) {
	rows, err := r.pool.Query(ctx, `SELECT COALESCE(source, ''), lead_score, status FROM leads WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]leaddomain.SourceSample, 0)
	for rows.Next() {
		var (
			sample leaddomain.SourceSample
			status string
		)
		if err := rows.Scan(&sample.Source, &sample.Score, &status); err != nil {
			return nil, err
		}
		sample.Status = leaddomain.Status(status)
		out = append(out, sample)
	}
	return out, rows.Err()
}

func (r *Repository) Deals(ctx context.Context) ([]DealSample, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.stage, d.value, d.probability, d.expected_close_date, d.assigned_to, COALESCE(m.name, '')
		FROM deals d
		LEFT JOIN team_members m ON m.id = d.assigned_to
		WHERE d.deleted_at IS NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DealSample, 0)
	for rows.Next() {
		var d DealSample
		if err := rows.Scan(&d.Stage, &d.Value, &d.Probability, &d.ExpectedCloseDate, &d.AssignedTo, &d.AssignedToName); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) CountOverdueTasks(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM activities
		WHERE deleted_at IS NULL
			AND is_task = TRUE
			AND completed = FALSE
			AND due_date IS NOT NULL
			AND due_date < $1
	`, now).Scan(&n)
	return n, err
}

var _ Store = (*Repository)(nil)
