package postgresql

import (
	"context"
	"fmt"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/directory"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"golang.org/x/time/rate"
)

// enrichChunkSize bounds how many numeric ids one batched lookup carries.
const enrichChunkSize = 100

type directoryRepository struct {
	db *database.DB

	// limiter paces the chunked enrichment lookups so a large month fetch
	// cannot monopolize the pool.
	limiter *rate.Limiter
}

func NewDirectoryRepository(db *database.DB) directory.DirectoryRepository {
	return &directoryRepository{
		db:      db,
		limiter: rate.NewLimiter(rate.Limit(10), 2),
	}
}

const workerColumns = `record_id, numeric_id, name, exclude_break_deduction`

func scanWorker(row pgx.Row) (directory.Worker, error) {
	var w directory.Worker
	err := row.Scan(&w.RecordID, &w.NumericID, &w.Name, &w.ExcludeBreakDeduction)
	return w, err
}

// GetByRecordID implements directory.DirectoryRepository.
func (r *directoryRepository) GetByRecordID(ctx context.Context, recordID string) (directory.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM workers
		WHERE record_id = $1
	`, workerColumns)

	w, err := scanWorker(q.QueryRow(ctx, query, recordID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return directory.Worker{}, directory.ErrWorkerNotFound
		}
		return directory.Worker{}, fmt.Errorf("failed to get worker by record id: %w", err)
	}

	return w, nil
}

// GetByNumericID implements directory.DirectoryRepository.
func (r *directoryRepository) GetByNumericID(ctx context.Context, numericID int) (directory.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM workers
		WHERE numeric_id = $1
	`, workerColumns)

	w, err := scanWorker(q.QueryRow(ctx, query, numericID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return directory.Worker{}, directory.ErrWorkerNotFound
		}
		return directory.Worker{}, fmt.Errorf("failed to get worker by numeric id: %w", err)
	}

	return w, nil
}

// FindByName implements directory.DirectoryRepository. The match is
// case-insensitive and may legitimately return more than one worker; the
// resolver treats that as ambiguity, not an error.
func (r *directoryRepository) FindByName(ctx context.Context, name string) ([]directory.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM workers
		WHERE LOWER(name) = LOWER($1)
		ORDER BY record_id ASC
	`, workerColumns)

	rows, err := q.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find workers by name: %w", err)
	}
	defer rows.Close()

	var workers []directory.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workers: %w", err)
	}

	return workers, nil
}

// GetManyByNumericIDs implements directory.DirectoryRepository. IDs are
// deduplicated, chunked, and paced through the limiter. Missing ids are
// simply absent from the result map.
func (r *directoryRepository) GetManyByNumericIDs(ctx context.Context, numericIDs []int) (map[int]directory.Worker, error) {
	result := make(map[int]directory.Worker, len(numericIDs))
	if len(numericIDs) == 0 {
		return result, nil
	}

	seen := make(map[int]struct{}, len(numericIDs))
	unique := make([]int, 0, len(numericIDs))
	for _, id := range numericIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`
		SELECT %s
		FROM workers
		WHERE numeric_id = ANY($1)
	`, workerColumns)

	for start := 0; start < len(unique); start += enrichChunkSize {
		end := min(start+enrichChunkSize, len(unique))

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		rows, err := q.Query(ctx, query, unique[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to batch-get workers: %w", err)
		}
		for rows.Next() {
			w, err := scanWorker(rows)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan worker: %w", err)
			}
			if w.NumericID != nil {
				result[*w.NumericID] = w
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to iterate workers: %w", err)
		}
		rows.Close()
	}

	return result, nil
}
