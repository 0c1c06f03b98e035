package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("deal not found")
	ErrUnknownCompany  = errors.New("deal company does not exist")
	ErrUnknownAssignee = errors.New("deal assignee does not exist")
)

type Deal struct {
	ID                uuid.UUID
	Title             string
	Value             float64
	Probability       int
	Stage             string
	ExpectedCloseDate *time.Time
	CompanyID         *uuid.UUID
	ContactPerson     string
	ContactEmail      string
	LeadID            *uuid.UUID
	LeadSource        string
	LeadScore         int
	AssignedTo        *uuid.UUID
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type CreateDealParams struct {
	Title             string
	Value             float64
	Probability       int
	Stage             string
	ExpectedCloseDate *time.Time
	CompanyID         *uuid.UUID
	ContactPerson     string
	ContactEmail      string
	LeadID            *uuid.UUID
	LeadSource        string
	LeadScore         int
	AssignedTo        *uuid.UUID
	Notes             string
}

type UpdateDealParams struct {
	Title                *string
	Value                *float64
	Probability          *int
	Stage                *string
	ExpectedCloseDate    *time.Time
	ExpectedCloseDateSet bool
	CompanyID            *uuid.UUID
	CompanyIDSet         bool
	ContactPerson        *string
	ContactEmail         *string
	AssignedTo           *uuid.UUID
	AssignedToSet        bool
	Notes                *string
}

// ListParams filters deals. A zero Limit returns every match.
type ListParams struct {
	Stage         *string
	LeadID        *uuid.UUID
	LeadSource    *string
	CompanyID     *uuid.UUID
	AssignedTo    *uuid.UUID
	ConvertedOnly bool
	Search        string
	SortBy        string
	SortOrder     string
	Offset        int
	Limit         int
}

// DealStore is the persistence contract of the pipeline.
type DealStore interface {
	Create(ctx context.Context, params CreateDealParams) (Deal, error)
	GetByID(ctx context.Context, id uuid.UUID) (Deal, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateDealParams) (Deal, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage string) (Deal, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ListParams) ([]Deal, int, error)
}

const dealColumns = `id, title, value, probability, stage, expected_close_date, company_id,
	contact_person, contact_email, lead_id, lead_source, lead_score, assigned_to, notes,
	created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanDeal(row pgx.Row) (Deal, error) {
	var d Deal
	err := row.Scan(
		&d.ID, &d.Title, &d.Value, &d.Probability, &d.Stage, &d.ExpectedCloseDate, &d.CompanyID,
		&d.ContactPerson, &d.ContactEmail, &d.LeadID, &d.LeadSource, &d.LeadScore, &d.AssignedTo, &d.Notes,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return Deal{}, translateWriteErr(err)
	}
	return d, nil
}

// translateWriteErr maps a foreign key violation on company_id or
// assigned_to to the matching sentinel.
func translateWriteErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "assigned_to"):
			return ErrUnknownAssignee
		case strings.Contains(pgErr.ConstraintName, "company_id"):
			return ErrUnknownCompany
		}
	}
	return err
}

func (r *Repository) Create(ctx context.Context, params CreateDealParams) (Deal, error) {
	return scanDeal(r.pool.QueryRow(ctx, `
		INSERT INTO deals (
			title, value, probability, stage, expected_close_date, company_id,
			contact_person, contact_email, lead_id, lead_source, lead_score, assigned_to, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+dealColumns,
		params.Title, params.Value, params.Probability, params.Stage, params.ExpectedCloseDate, params.CompanyID,
		params.ContactPerson, params.ContactEmail, params.LeadID, params.LeadSource, params.LeadScore, params.AssignedTo, params.Notes,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Deal, error) {
	return scanDeal(r.pool.QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateDealParams) (Deal, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.Title != nil, "title", params.Title},
		{params.Value != nil, "value", params.Value},
		{params.Probability != nil, "probability", params.Probability},
		{params.Stage != nil, "stage", params.Stage},
		{params.ExpectedCloseDateSet, "expected_close_date", params.ExpectedCloseDate},
		{params.CompanyIDSet, "company_id", params.CompanyID},
		{params.ContactPerson != nil, "contact_person", params.ContactPerson},
		{params.ContactEmail != nil, "contact_email", params.ContactEmail},
		{params.AssignedToSet, "assigned_to", params.AssignedTo},
		{params.Notes != nil, "notes", params.Notes},
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

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	return scanDeal(r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE deals SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, dealColumns), args...))
}

// UpdateStage writes only the stage column. Concurrent moves are last
// write wins.
func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, stage string) (Deal, error) {
	return scanDeal(r.pool.QueryRow(ctx, `
		UPDATE deals SET stage = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+dealColumns, id, stage))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "UPDATE deals SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Deal, int, error) {
	whereClause, args, argIdx := buildDealListWhere(params)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM deals WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM deals
		WHERE %s
		ORDER BY %s %s, id`, dealColumns, whereClause, mapDealSortColumn(params.SortBy), sortOrder)
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, params.Limit, params.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	deals := make([]Deal, 0)
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, 0, err
		}
		deals = append(deals, d)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return deals, total, nil
}

func buildDealListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	if params.Stage != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("stage = $%d", argIdx))
		args = append(args, *params.Stage)
		argIdx++
	}
	if params.LeadID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lead_id = $%d", argIdx))
		args = append(args, *params.LeadID)
		argIdx++
	}
	if params.LeadSource != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lead_source = $%d", argIdx))
		args = append(args, *params.LeadSource)
		argIdx++
	}
	if params.CompanyID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("company_id = $%d", argIdx))
		args = append(args, *params.CompanyID)
		argIdx++
	}
	if params.AssignedTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("assigned_to = $%d", argIdx))
		args = append(args, *params.AssignedTo)
		argIdx++
	}
	if params.ConvertedOnly {
		whereClauses = append(whereClauses, "lead_id IS NOT NULL")
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(title ILIKE $%d OR contact_person ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+search+"%")
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapDealSortColumn(sortBy string) string {
	switch sortBy {
	case "value":
		return "value"
	case "probability":
		return "probability"
	case "expectedCloseDate":
		return "expected_close_date"
	case "title":
		return "title"
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

var _ DealStore = (*Repository)(nil)
