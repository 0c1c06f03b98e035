package contacts

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

var ErrNotFound = errors.New("contact not found")

type Contact struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CompanyID   *uuid.UUID
	CompanyName string
	Status      string
	MRR         float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CompanyID   *uuid.UUID
	CompanyName string
	Status      string
	MRR         float64
}

type UpdateParams struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	CompanyIDSet bool
	CompanyID    *uuid.UUID
	CompanyName  *string
	Status       *string
	MRR          *float64
}

type ListParams struct {
	CompanyID *uuid.UUID
	Status    string
	Search    string
	Offset    int
	Limit     int
}

// Store is the persistence contract of the contacts context.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (Contact, error)
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, p ListParams) ([]Contact, int, error)
}

const contactColumns = "id, first_name, last_name, email, phone, company_id, company_name, status, mrr, created_at, updated_at"

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanContact(row pgx.Row) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CompanyID,
		&c.CompanyName, &c.Status, &c.MRR, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `
		INSERT INTO contacts (first_name, last_name, email, phone, company_id, company_name, status, mrr)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+contactColumns,
		p.FirstName, p.LastName, p.Email, p.Phone, p.CompanyID, p.CompanyName, p.Status, p.MRR,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Contact, error) {
	c, err := scanContact(r.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Contact, error) {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   any
	}{
		{p.FirstName != nil, "first_name", p.FirstName},
		{p.LastName != nil, "last_name", p.LastName},
		{p.Email != nil, "email", p.Email},
		{p.Phone != nil, "phone", p.Phone},
		{p.CompanyIDSet, "company_id", p.CompanyID},
		{p.CompanyName != nil, "company_name", p.CompanyName},
		{p.Status != nil, "status", p.Status},
		{p.MRR != nil, "mrr", p.MRR},
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

	c, err := scanContact(r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE contacts SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, contactColumns), args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE contacts SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, p ListParams) ([]Contact, int, error) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}
	argIdx := 1

	if p.CompanyID != nil {
		where = append(where, fmt.Sprintf("company_id = $%d", argIdx))
		args = append(args, *p.CompanyID)
		argIdx++
	}
	if p.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, p.Status)
		argIdx++
	}
	if p.Search != "" {
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR company_name ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+p.Search+"%")
		argIdx++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contacts WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM contacts
		WHERE %s
		ORDER BY created_at DESC, id ASC
		LIMIT $%d OFFSET $%d
	`, contactColumns, whereClause, argIdx, argIdx+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

var _ Store = (*Repository)(nil)
