package team

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
	ErrNotFound       = errors.New("team member not found")
	ErrDuplicateEmail = errors.New("team member email already exists")
)

// Member is a sales team member that leads can be assigned to.
type Member struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Territory string
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateParams struct {
	Name      string
	Email     string
	Territory string
}

type UpdateParams struct {
	Name      *string
	Email     *string
	Territory *string
	Position  *int
	Active    *bool
}

type ListParams struct {
	Territory  *string
	ActiveOnly bool
}

// Store is the persistence contract of the team context.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (Member, error)
	List(ctx context.Context, p ListParams) ([]Member, error)
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Member, error)
	UpsertByEmail(ctx context.Context, p CreateParams) (Member, bool, error)
}

const memberColumns = "id, name, email, territory, position, active, created_at, updated_at"

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Territory, &m.Position, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func translateWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Create appends a member at the end of the list order.
func (r *Repository) Create(ctx context.Context, p CreateParams) (Member, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO team_members (name, email, territory, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), 0) + 1 FROM team_members))
		RETURNING `+memberColumns,
		p.Name, strings.ToLower(p.Email), p.Territory,
	)
	m, err := scanMember(row)
	if err != nil {
		return Member{}, translateWriteErr(err)
	}
	return m, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Member, error) {
	m, err := scanMember(r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM team_members WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

// List returns members in list order (position, then creation time).
func (r *Repository) List(ctx context.Context, p ListParams) ([]Member, error) {
	where := []string{"TRUE"}
	args := []any{}
	if p.ActiveOnly {
		where = append(where, "active = TRUE")
	}
	if p.Territory != nil {
		args = append(args, *p.Territory)
		where = append(where, fmt.Sprintf("territory = $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM team_members
		WHERE %s
		ORDER BY position ASC, created_at ASC
	`, memberColumns, strings.Join(where, " AND ")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Member, error) {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   any
	}{
		{p.Name != nil, "name", p.Name},
		{p.Email != nil, "email", lowerPtr(p.Email)},
		{p.Territory != nil, "territory", p.Territory},
		{p.Position != nil, "position", p.Position},
		{p.Active != nil, "active", p.Active},
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

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE team_members SET %s WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, memberColumns), args...)

	m, err := scanMember(row)
	if err != nil {
		return Member{}, translateWriteErr(err)
	}
	return m, nil
}

// UpsertByEmail creates the member or refreshes name and territory of the
// existing one. The bool reports whether a row was inserted.
func (r *Repository) UpsertByEmail(ctx context.Context, p CreateParams) (Member, bool, error) {
	var inserted bool
	var m Member
	err := r.pool.QueryRow(ctx, `
		INSERT INTO team_members (name, email, territory, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), 0) + 1 FROM team_members))
		ON CONFLICT (email) DO UPDATE
			SET name = EXCLUDED.name, territory = EXCLUDED.territory, active = TRUE, updated_at = now()
		RETURNING `+memberColumns+`, (xmax = 0)`,
		p.Name, strings.ToLower(p.Email), p.Territory,
	).Scan(&m.ID, &m.Name, &m.Email, &m.Territory, &m.Position, &m.Active, &m.CreatedAt, &m.UpdatedAt, &inserted)
	if err != nil {
		return Member{}, false, err
	}
	return m, inserted, nil
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}

var _ Store = (*Repository)(nil)
