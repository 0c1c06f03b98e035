package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadColumns = `id, first_name, last_name, email, phone, title, company_name, company_size,
	industry, website, source, engagement_level,
	lead_score, score_company_size, score_industry_fit, score_engagement, score_budget_fit,
	status, assigned_to, assigned_to_name, territory, next_follow_up, notes, tags, lost_reason,
	converted_deal_id, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Title, &l.CompanyName, &l.CompanySize,
		&l.Industry, &l.Website, &l.Source, &l.EngagementLevel,
		&l.Score.Total, &l.Score.CompanySize, &l.Score.IndustryFit, &l.Score.Engagement, &l.Score.BudgetFit,
		&l.Status, &l.AssignedTo, &l.AssignedToName, &l.Territory, &l.NextFollowUp, &l.Notes, &l.Tags, &l.LostReason,
		&l.ConvertedDealID, &l.CreatedAt, &l.UpdatedAt,
	)
	if l.Tags == nil {
		l.Tags = []string{}
	}
	return l, err
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			first_name, last_name, email, phone, title, company_name, company_size,
			industry, website, source, engagement_level,
			lead_score, score_company_size, score_industry_fit, score_engagement, score_budget_fit,
			status, next_follow_up, notes, tags, assigned_to, assigned_to_name, territory
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING `+leadColumns,
		params.FirstName, params.LastName, params.Email, params.Phone, params.Title, params.CompanyName, params.CompanySize,
		params.Industry, params.Website, params.Source, params.EngagementLevel,
		params.Score.Total, params.Score.CompanySize, params.Score.IndustryFit, params.Score.Engagement, params.Score.BudgetFit,
		params.Status, params.NextFollowUp, params.Notes, tags,
		params.AssignedTo, params.AssignedToName, params.Territory,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	var score Score
	if params.Score != nil {
		score = *params.Score
	}
	tags := params.Tags
	if params.TagsSet && tags == nil {
		tags = []string{}
	}

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.FirstName != nil, "first_name", params.FirstName},
		{params.LastName != nil, "last_name", params.LastName},
		{params.Email != nil, "email", params.Email},
		{params.Phone != nil, "phone", params.Phone},
		{params.Title != nil, "title", params.Title},
		{params.CompanyName != nil, "company_name", params.CompanyName},
		{params.CompanySize != nil, "company_size", params.CompanySize},
		{params.Industry != nil, "industry", params.Industry},
		{params.Website != nil, "website", params.Website},
		{params.Source != nil, "source", params.Source},
		{params.EngagementLevel != nil, "engagement_level", params.EngagementLevel},
		{params.Score != nil, "lead_score", score.Total},
		{params.Score != nil, "score_company_size", score.CompanySize},
		{params.Score != nil, "score_industry_fit", score.IndustryFit},
		{params.Score != nil, "score_engagement", score.Engagement},
		{params.Score != nil, "score_budget_fit", score.BudgetFit},
		{params.Status != nil, "status", params.Status},
		{params.LostReason != nil, "lost_reason", params.LostReason},
		{params.Notes != nil, "notes", params.Notes},
		{params.TagsSet, "tags", tags},
		{params.AssignedToSet, "assigned_to", params.AssignedTo},
		{params.AssignedToName != nil, "assigned_to_name", params.AssignedToName},
		{params.Territory != nil, "territory", params.Territory},
		{params.NextFollowUpSet, "next_follow_up", params.NextFollowUp},
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

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// MarkConverted moves a lead to Converted and links the deal. It fails
// with ErrAlreadyConverted when another conversion won the race.
func (r *Repository) MarkConverted(ctx context.Context, id uuid.UUID, dealID uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET status = 'Converted', converted_deal_id = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL AND status <> 'Converted'
		RETURNING `+leadColumns, id, dealID))
	if err == nil {
		return lead, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, err
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return Lead{}, getErr
	}
	return Lead{}, ErrAlreadyConverted
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "UPDATE leads SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapLeadSortColumn(params.SortBy)
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY %s %s, id
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	addFilter := func(clause string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Status != nil {
		addFilter("status = $%d", *params.Status)
	}
	if params.Source != nil {
		addFilter("source = $%d", *params.Source)
	}
	if params.Territory != nil {
		addFilter("territory = $%d", *params.Territory)
	}
	if params.AssignedTo != nil {
		addFilter("assigned_to = $%d", *params.AssignedTo)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR company_name ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, pattern)
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "score":
		return "lead_score"
	case "name":
		return "last_name"
	case "company":
		return "company_name"
	case "status":
		return "status"
	case "nextFollowUp":
		return "next_follow_up"
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

// CountAssignedLeads counts non-deleted leads per assignee. With a
// territory only leads in that territory are counted.
func (r *Repository) CountAssignedLeads(ctx context.Context, territory *string) (map[uuid.UUID]int, error) {
	query := `SELECT assigned_to, COUNT(*) FROM leads
		WHERE deleted_at IS NULL AND assigned_to IS NOT NULL`
	args := []interface{}{}
	if territory != nil {
		query += " AND territory = $1"
		args = append(args, *territory)
	}
	query += " GROUP BY assigned_to"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (r *Repository) ListSourceRows(ctx context.Context) ([]SourceRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT source, lead_score, status FROM leads WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SourceRow, 0)
	for rows.Next() {
		var row SourceRow
		if err := rows.Scan(&row.Source, &row.Score, &row.Status); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

var _ LeadsRepository = (*Repository)(nil)
