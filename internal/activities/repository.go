package activities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("activity not found")

type Activity struct {
	ID          uuid.UUID
	Type        string
	Title       string
	Description string
	ContactID   *uuid.UUID
	CompanyID   *uuid.UUID
	LeadID      *uuid.UUID
	DealID      *uuid.UUID
	OwnerID     *uuid.UUID
	IsTask      bool
	DueDate     *time.Time
	Completed   bool
	CompletedAt *time.Time
	Priority    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	Type        string
	Title       string
	Description string
	ContactID   *uuid.UUID
	CompanyID   *uuid.UUID
	LeadID      *uuid.UUID
	DealID      *uuid.UUID
	OwnerID     *uuid.UUID
	IsTask      bool
	DueDate     *time.Time
	Completed   bool
	CompletedAt *time.Time
	Priority    string
}

type UpdateParams struct {
	Type           *string
	Title          *string
	Description    *string
	IsTask         *bool
	DueDateSet     bool
	DueDate        *time.Time
	OwnerIDSet     bool
	OwnerID        *uuid.UUID
	Completed      *bool
	CompletedAtSet bool
	CompletedAt    *time.Time
	Priority       *string
}

type ListParams struct {
	ContactID *uuid.UUID
	CompanyID *uuid.UUID
	LeadID    *uuid.UUID
	DealID    *uuid.UUID
	OwnerID   *uuid.UUID
	Type      string
	TasksOnly bool
	// OverdueAt lists open tasks due before the given time.
	OverdueAt *time.Time
	Offset    int
	Limit     int
}

// Store is the persistence contract of the activities context.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Activity, error)
	GetByID(ctx context.Context, id uuid.UUID) (Activity, error)
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, p ListParams) ([]Activity, int, error)
}

const activityColumns = `id, type, title, description, contact_id, company_id, lead_id, deal_id, owner_id,
	is_task, due_date, completed, completed_at, priority, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanActivity(row pgx.Row) (Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.Type, &a.Title, &a.Description, &a.ContactID, &a.CompanyID, &a.LeadID,
		&a.DealID, &a.OwnerID, &a.IsTask, &a.DueDate, &a.Completed, &a.CompletedAt, &a.Priority,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Activity, error) {
	return scanActivity(r.pool.QueryRow(ctx, `
		INSERT INTO activities (type, title, description, contact_id, company_id, lead_id, deal_id, owner_id,
			is_task, due_date, completed, completed_at, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+activityColumns,
		p.Type, p.Title, p.Description, p.ContactID, p.CompanyID, p.LeadID, p.DealID, p.OwnerID,
		p.IsTask, p.DueDate, p.Completed, p.CompletedAt, p.Priority,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Activity, error) {
	a, err := scanActivity(r.pool.QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Activity{}, ErrNotFound
	}
	return a, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Activity, error) {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   any
	}{
		{p.Type != nil, "type", p.Type},
		{p.Title != nil, "title", p.Title},
		{p.Description != nil, "description", p.Description},
		{p.IsTask != nil, "is_task", p.IsTask},
		{p.DueDateSet, "due_date", p.DueDate},
		{p.OwnerIDSet, "owner_id", p.OwnerID},
		{p.Completed != nil, "completed", p.Completed},
		{p.CompletedAtSet, "completed_at", p.CompletedAt},
		{p.Priority != nil, "priority", p.Priority},
	}
	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	// A moved due date re-arms the overdue notification.
	if p.DueDateSet {
		setClauses = append(setClauses, "overdue_notified_at = NULL")
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	a, err := scanActivity(r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE activities SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, activityColumns), args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Activity{}, ErrNotFound
	}
	return a, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE activities SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, p ListParams) ([]Activity, int, error) {
	whereClause, args, argIdx := buildActivityListWhere(p)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM activities WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC"
	if p.TasksOnly || p.OverdueAt != nil {
		orderBy = "due_date ASC NULLS LAST, created_at DESC"
	}
	args = append(args, p.Limit, p.Offset)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM activities
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, activityColumns, whereClause, orderBy, argIdx, argIdx+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func buildActivityListWhere(p ListParams) (string, []any, int) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}
	argIdx := 1

	refs := []struct {
		column string
		value  *uuid.UUID
	}{
		{"contact_id", p.ContactID},
		{"company_id", p.CompanyID},
		{"lead_id", p.LeadID},
		{"deal_id", p.DealID},
		{"owner_id", p.OwnerID},
	}
	for _, ref := range refs {
		if ref.value == nil {
			continue
		}
		where = append(where, fmt.Sprintf("%s = $%d", ref.column, argIdx))
		args = append(args, *ref.value)
		argIdx++
	}

	if p.Type != "" {
		where = append(where, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, p.Type)
		argIdx++
	}
	if p.TasksOnly {
		where = append(where, "is_task = TRUE")
	}
	if p.OverdueAt != nil {
		where = append(where, fmt.Sprintf("is_task = TRUE AND completed = FALSE AND due_date < $%d", argIdx))
		args = append(args, *p.OverdueAt)
		argIdx++
	}
	return strings.Join(where, " AND "), args, argIdx
}

// ClaimOverdue marks up to limit overdue tasks as notified and returns them.
// Rows locked by a concurrent sweeper are skipped, so every task is claimed
// once until its due date moves.
func (r *Repository) ClaimOverdue(ctx context.Context, now time.Time, limit int) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		WITH due AS (
			SELECT id FROM activities
			WHERE deleted_at IS NULL
				AND is_task = TRUE
				AND completed = FALSE
				AND due_date < $1
				AND overdue_notified_at IS NULL
			ORDER BY due_date ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE activities a SET overdue_notified_at = $1
		FROM due
		WHERE a.id = due.id
		RETURNING a.id, a.type, a.title, a.description, a.contact_id, a.company_id, a.lead_id, a.deal_id,
			a.owner_id, a.is_task, a.due_date, a.completed, a.completed_at, a.priority, a.created_at, a.updated_at
	`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// ReleaseOverdue clears a claim so the next sweep picks the task up again.
func (r *Repository) ReleaseOverdue(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE activities SET overdue_notified_at = NULL WHERE id = $1", id)
	return err
}

var _ Store = (*Repository)(nil)
