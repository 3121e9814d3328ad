package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iiitbh/gatepass/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, rollNumber, name, action string, guardID int64) (*domain.AccessEvent, error)
	ListByRoll(ctx context.Context, rollNumber string) ([]domain.AccessEvent, error)
	ListAll(ctx context.Context) ([]domain.AccessEvent, error)
	TodayStats(ctx context.Context) (*domain.TodayStats, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

// The append-only log: inserts only, no update or delete statements.
func (r *eventRepository) Create(ctx context.Context, rollNumber, name, action string, guardID int64) (*domain.AccessEvent, error) {
	const q = `
		INSERT INTO access_events (roll_number, name, action, scanned_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, roll_number, name, action, scanned_by, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.AccessEvent
	err := r.pool.QueryRow(ctx, q, rollNumber, name, action, guardID).Scan(
		&e.ID, &e.RollNumber, &e.Name, &e.Action, &e.ScannedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Listings join the recording guard's display identity at read time; the
// event row itself only stores the reference.
const eventListCols = `e.id, e.roll_number, e.name, e.action, e.scanned_by, e.created_at,
COALESCE(g.name, ''), COALESCE(g.employee_id, '')`

func (r *eventRepository) ListByRoll(ctx context.Context, rollNumber string) ([]domain.AccessEvent, error) {
	const q = `
		SELECT ` + eventListCols + `
		FROM access_events e
		LEFT JOIN employees g ON g.id = e.scanned_by
		WHERE e.roll_number = $1
		ORDER BY e.created_at DESC, e.id DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, rollNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *eventRepository) ListAll(ctx context.Context) ([]domain.AccessEvent, error) {
	const q = `
		SELECT ` + eventListCols + `
		FROM access_events e
		LEFT JOIN employees g ON g.id = e.scanned_by
		ORDER BY e.created_at DESC, e.id DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]domain.AccessEvent, error) {
	var events []domain.AccessEvent
	for rows.Next() {
		var e domain.AccessEvent
		if err := rows.Scan(
			&e.ID, &e.RollNumber, &e.Name, &e.Action, &e.ScannedBy, &e.CreatedAt,
			&e.GuardName, &e.GuardEmpID,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// TodayStats counts events in the server-local day. date_trunc uses the
// database session timezone, which the deployment pins to campus time.
func (r *eventRepository) TodayStats(ctx context.Context) (*domain.TodayStats, error) {
	const q = `
		SELECT count(*),
		       count(*) FILTER (WHERE action = 'ENTRY'),
		       count(*) FILTER (WHERE action = 'EXIT')
		FROM access_events
		WHERE created_at >= date_trunc('day', now())
		  AND created_at < date_trunc('day', now()) + interval '1 day'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.TodayStats
	err := r.pool.QueryRow(ctx, q).Scan(&s.TotalLogs, &s.TotalEntry, &s.TotalExit)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
