package habit

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/logger"
	"github.com/rnwolfe/habits/internal/stats"
)

// RecordFilter narrows Records. Zero values mean "no bound".
type RecordFilter struct {
	From     calendar.Day
	To       calendar.Day
	Statuses []stats.Status
}

// Validate checks a record before it is written.
func Validate(r stats.Record) error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidRecord)
	}
	if _, err := stats.ParseStatus(string(r.Status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if r.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration %d is negative", ErrInvalidRecord, r.DurationMinutes)
	}
	if r.RecoveryDate != nil {
		if r.Status != stats.StatusSkipped {
			return fmt.Errorf("%w: only skipped days can have a recovery date", ErrInvalidRecord)
		}
		if r.RecoveryDate.IsZero() || r.RecoveryDate.Equal(r.Date) {
			return fmt.Errorf("%w: recovery date must differ from %s", ErrInvalidRecord, r.Date)
		}
	}
	return nil
}

// Log writes the record for r.Date, replacing any existing record for that
// day, and returns the refreshed aggregate.
func (s *Store) Log(habitID string, r stats.Record) (stats.Aggregate, error) {
	if err := Validate(r); err != nil {
		return stats.Aggregate{}, err
	}
	return s.mutate(habitID, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO habit_records (habit_id, date, status, duration_minutes, recovery_date)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(habit_id, date) DO UPDATE SET
				status = excluded.status,
				duration_minutes = excluded.duration_minutes,
				recovery_date = excluded.recovery_date,
				updated_at = CURRENT_TIMESTAMP`,
			habitID, r.Date, string(r.Status), r.DurationMinutes, recoveryValue(r.RecoveryDate),
		)
		if err != nil {
			return fmt.Errorf("logging %s: %w", r.Date, err)
		}
		logger.Debug("record logged", "habit", habitID, "date", r.Date, "status", r.Status, "minutes", r.DurationMinutes)
		return nil
	})
}

// AddMinutes adds a timed session to day, marking it completed.
func (s *Store) AddMinutes(habitID string, day calendar.Day, minutes int) (stats.Aggregate, error) {
	if minutes <= 0 {
		return stats.Aggregate{}, fmt.Errorf("%w: session of %d minutes", ErrInvalidRecord, minutes)
	}
	if day.IsZero() {
		return stats.Aggregate{}, fmt.Errorf("%w: date is required", ErrInvalidRecord)
	}
	return s.mutate(habitID, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO habit_records (habit_id, date, status, duration_minutes)
			 VALUES (?, ?, 'completed', ?)
			 ON CONFLICT(habit_id, date) DO UPDATE SET
				status = 'completed',
				duration_minutes = CASE WHEN habit_records.status = 'completed'
					THEN habit_records.duration_minutes + excluded.duration_minutes
					ELSE excluded.duration_minutes END,
				recovery_date = NULL,
				updated_at = CURRENT_TIMESTAMP`,
			habitID, day, minutes,
		)
		if err != nil {
			return fmt.Errorf("adding minutes on %s: %w", day, err)
		}
		logger.Debug("session logged", "habit", habitID, "date", day, "minutes", minutes)
		return nil
	})
}

// Unlog deletes the record for day.
func (s *Store) Unlog(habitID string, day calendar.Day) (stats.Aggregate, error) {
	return s.mutate(habitID, func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM habit_records WHERE habit_id = ? AND date = ?`, habitID, day)
		if err != nil {
			return fmt.Errorf("removing %s: %w", day, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("record for %s: %w", day, ErrNotFound)
		}
		return nil
	})
}

// Records returns a habit's records ordered by date.
func (s *Store) Records(habitID string, f RecordFilter) ([]stats.Record, error) {
	return queryRecords(s.db, habitID, f)
}

// Restore upserts a habit by ID together with its records and recomputes its
// aggregate. Existing records on other days are kept.
func (s *Store) Restore(h Habit, records []stats.Record) (stats.Aggregate, error) {
	name, err := cleanName(h.Name)
	if err != nil {
		return stats.Aggregate{}, err
	}
	if _, err := uuid.Parse(h.ID); err != nil {
		return stats.Aggregate{}, fmt.Errorf("%w: habit id %q: %v", ErrInvalidRecord, h.ID, err)
	}
	for _, r := range records {
		if err := Validate(r); err != nil {
			return stats.Aggregate{}, fmt.Errorf("habit %q: %w", name, err)
		}
	}

	created := h.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	mu := s.lock(h.ID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return stats.Aggregate{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO habits (id, name, description, color, archived, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			color = excluded.color,
			archived = excluded.archived,
			updated_at = excluded.updated_at`,
		h.ID, name, h.Description, h.Color, boolInt(h.Archived), formatTime(created), formatTime(s.now()),
	)
	if err != nil {
		return stats.Aggregate{}, fmt.Errorf("restoring habit %q: %w", name, wrapConstraint(err))
	}

	for _, r := range records {
		if _, err := tx.Exec(
			`INSERT INTO habit_records (habit_id, date, status, duration_minutes, recovery_date)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(habit_id, date) DO UPDATE SET
				status = excluded.status,
				duration_minutes = excluded.duration_minutes,
				recovery_date = excluded.recovery_date,
				updated_at = CURRENT_TIMESTAMP`,
			h.ID, r.Date, string(r.Status), r.DurationMinutes, recoveryValue(r.RecoveryDate),
		); err != nil {
			return stats.Aggregate{}, fmt.Errorf("restoring %s for %q: %w", r.Date, name, err)
		}
	}

	agg, err := s.recomputeTx(tx, h.ID)
	if err != nil {
		return stats.Aggregate{}, err
	}
	if err := tx.Commit(); err != nil {
		return stats.Aggregate{}, err
	}
	logger.Debug("habit restored", "id", h.ID, "name", name, "records", len(records))
	return agg, nil
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func queryRecords(q queryer, habitID string, f RecordFilter) ([]stats.Record, error) {
	b := sq.Select("date", "status", "duration_minutes", "recovery_date").
		From("habit_records").
		Where(sq.Eq{"habit_id": habitID}).
		OrderBy("date ASC")
	if !f.From.IsZero() {
		b = b.Where(sq.GtOrEq{"date": f.From.String()})
	}
	if !f.To.IsZero() {
		b = b.Where(sq.LtOrEq{"date": f.To.String()})
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		b = b.Where(sq.Eq{"status": statuses})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building record query: %w", err)
	}
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []stats.Record
	for rows.Next() {
		var r stats.Record
		var status string
		var recovery calendar.Day
		if err := rows.Scan(&r.Date, &status, &r.DurationMinutes, &recovery); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Status = stats.Status(status)
		if !recovery.IsZero() {
			r.RecoveryDate = &recovery
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func recoveryValue(d *calendar.Day) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}
