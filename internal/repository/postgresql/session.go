package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepository{db: db}
}

// sessionColumns is the canonical select list. duration_minutes wins over the
// legacy minutes column; rows written before the duration migration only
// carry minutes.
const sessionColumns = `
	id, user_record_id, user_numeric_id, user_name,
	date, start_time, end_time,
	COALESCE(duration_minutes, minutes),
	site_id, site_name, machine_id, machine_name,
	work_description, status,
	created_at, updated_at
`

func scanSession(row pgx.Row) (session.Session, error) {
	var s session.Session
	err := row.Scan(
		&s.ID, &s.Identity.RecordID, &s.Identity.NumericID, &s.Identity.Name,
		&s.Date, &s.Start, &s.End,
		&s.DurationMinutes,
		&s.Site.ID, &s.Site.Name, &s.Machine.ID, &s.Machine.Name,
		&s.WorkDescription, &s.RawStatus,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// filterConditions builds the WHERE clause for the optional filter fields.
// The date-range conditions are always present; identity/site/machine narrow
// the fetch when set.
func filterConditions(filter session.SessionFilter) ([]string, []interface{}) {
	conditions := []string{"date >= $1", "date <= $2"}
	args := []interface{}{filter.StartDate, filter.EndDate}
	argIdx := 3

	if filter.UserNumericID != nil {
		conditions = append(conditions, fmt.Sprintf("user_numeric_id = $%d", argIdx))
		args = append(args, *filter.UserNumericID)
		argIdx++
	}
	if filter.UserName != nil && *filter.UserName != "" {
		conditions = append(conditions, fmt.Sprintf("user_name ILIKE $%d", argIdx))
		args = append(args, *filter.UserName)
		argIdx++
	}
	if filter.SiteID != nil && *filter.SiteID != "" {
		conditions = append(conditions, fmt.Sprintf("site_id = $%d", argIdx))
		args = append(args, *filter.SiteID)
		argIdx++
	}
	if filter.SiteName != nil && *filter.SiteName != "" {
		conditions = append(conditions, fmt.Sprintf("site_name ILIKE $%d", argIdx))
		args = append(args, *filter.SiteName)
		argIdx++
	}
	if filter.MachineID != nil && *filter.MachineID != "" {
		conditions = append(conditions, fmt.Sprintf("machine_id = $%d", argIdx))
		args = append(args, *filter.MachineID)
	}

	return conditions, args
}

// FetchRange implements session.SessionRepository.
func (r *sessionRepository) FetchRange(ctx context.Context, filter session.SessionFilter) ([]session.Session, error) {
	q := GetQuerier(ctx, r.db)

	conditions, args := filterConditions(filter)
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE %s
		ORDER BY date ASC, start_time ASC NULLS LAST, id ASC
	`, sessionColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// List implements session.SessionRepository.
func (r *sessionRepository) List(ctx context.Context, filter session.SessionFilter) ([]session.Session, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions, args := filterConditions(filter)
	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sessions WHERE %s", where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE %s
		ORDER BY date DESC, start_time DESC NULLS LAST, id ASC
		LIMIT $%d OFFSET $%d
	`, sessionColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, total, nil
}

// GetByID implements session.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE id = $1
	`, sessionColumns)

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return s, nil
}

// Update implements session.SessionRepository. The service hands in the fully
// merged session; corrections always rewrite the mutable columns together so
// a partially applied patch can never be observed.
func (r *sessionRepository) Update(ctx context.Context, s session.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE sessions
		SET date = $1,
			start_time = $2,
			end_time = $3,
			duration_minutes = $4,
			status = $5,
			work_description = $6,
			machine_id = $7,
			machine_name = $8,
			updated_at = NOW()
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		s.Date,
		s.Start,
		s.End,
		s.DurationMinutes,
		s.RawStatus,
		s.WorkDescription,
		s.Machine.ID,
		s.Machine.Name,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}

	return nil
}

// ListSites implements session.SessionRepository. Site rows are derived from
// the sessions themselves; a site with no sessions does not exist as far as
// the reports are concerned.
func (r *sessionRepository) ListSites(ctx context.Context) ([]session.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT site_id, COALESCE(site_name, site_id)
		FROM sessions
		WHERE site_id IS NOT NULL
		ORDER BY 2 ASC, 1 ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []session.Site
	for rows.Next() {
		var site session.Site
		if err := rows.Scan(&site.ID, &site.Name); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}

	return sites, nil
}
