package comments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("comment not found")

// Comment belongs to exactly one lead or deal.
type Comment struct {
	ID         uuid.UUID
	LeadID     *uuid.UUID
	DealID     *uuid.UUID
	AuthorID   *uuid.UUID
	AuthorName string
	Text       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateParams struct {
	LeadID     *uuid.UUID
	DealID     *uuid.UUID
	AuthorID   *uuid.UUID
	AuthorName string
	Text       string
}

// Store is the persistence contract of the comments context.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (Comment, error)
	UpdateText(ctx context.Context, id uuid.UUID, text string) (Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]Comment, error)
	ListByDeal(ctx context.Context, dealID uuid.UUID) ([]Comment, error)
}

const commentColumns = "id, lead_id, deal_id, author_id, author_name, body, created_at, updated_at"

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanComment(row pgx.Row) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.LeadID, &c.DealID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `
		INSERT INTO comments (lead_id, deal_id, author_id, author_name, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+commentColumns,
		p.LeadID, p.DealID, p.AuthorID, p.AuthorName, p.Text,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) UpdateText(ctx context.Context, id uuid.UUID, text string) (Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, `
		UPDATE comments SET body = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+commentColumns, id, text))
	if errors.Is(err, pgx.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Comment, error) {
	return r.list(ctx, "lead_id", leadID)
}

func (r *Repository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]Comment, error) {
	return r.list(ctx, "deal_id", dealID)
}

func (r *Repository) list(ctx context.Context, column string, id uuid.UUID) ([]Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE `+column+` = $1
		ORDER BY created_at DESC, id DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

var _ Store = (*Repository)(nil)
