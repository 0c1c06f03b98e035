package companies

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

var ErrNotFound = errors.New("company not found")

type Company struct {
	ID        uuid.UUID
	Name      string
	Industry  string
	Website   string
	Employees int
	MRR       float64
	Plan      string
	Status    string
	LeadID    *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateParams struct {
	Name      string
	Industry  string
	Website   string
	Employees int
	MRR       float64
	Plan      string
	Status    string
	LeadID    *uuid.UUID
}

type UpdateParams struct {
	Name      *string
	Industry  *string
	Website   *string
	Employees *int
	MRR       *float64
	Plan      *string
	Status    *string
}

type ListParams struct {
	Search    string
	Plan      string
	Status    string
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
}

// Store is the persistence contract of the companies context.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (Company, error)
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, p ListParams) ([]Company, int, error)
}

const companyColumns = "id, name, industry, website, employees, mrr, plan, status, lead_id, created_at, updated_at"

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Industry, &c.Website, &c.Employees, &c.MRR,
		&c.Plan, &c.Status, &c.LeadID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Company, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO companies (name, industry, website, employees, mrr, plan, status, lead_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+companyColumns,
		p.Name, p.Industry, p.Website, p.Employees, p.MRR, p.Plan, p.Status, p.LeadID,
	)
	return scanCompany(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Company, error) {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   any
	}{
		{p.Name != nil, "name", p.Name},
		{p.Industry != nil, "industry", p.Industry},
		{p.Website != nil, "website", p.Website},
		{p.Employees != nil, "employees", p.Employees},
		{p.MRR != nil, "mrr", p.MRR},
		{p.Plan != nil, "plan", p.Plan},
		{p.Status != nil, "status", p.Status},
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

	c, err := scanCompany(r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE companies SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, companyColumns), args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE companies SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, p ListParams) ([]Company, int, error) {
	whereClause, args, argIdx := buildCompanyListWhere(p)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortOrder := "DESC"
	if strings.EqualFold(p.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM companies
		WHERE %s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, companyColumns, whereClause, mapCompanySortColumn(p.SortBy), sortOrder, argIdx, argIdx+1)
	args = append(args, p.Limit, p.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func buildCompanyListWhere(p ListParams) (string, []any, int) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}
	argIdx := 1

	if p.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR industry ILIKE $%d OR website ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+p.Search+"%")
		argIdx++
	}
	if p.Plan != "" {
		where = append(where, fmt.Sprintf("plan = $%d", argIdx))
		args = append(args, p.Plan)
		argIdx++
	}
	if p.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, p.Status)
		argIdx++
	}
	return strings.Join(where, " AND "), args, argIdx
}

func mapCompanySortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return "name"
	case "mrr":
		return "mrr"
	case "employees":
		return "employees"
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

var _ Store = (*Repository)(nil)
