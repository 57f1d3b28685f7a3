package habit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rnwolfe/habits/internal/calendar"
	"github.com/rnwolfe/habits/internal/logger"
	"github.com/rnwolfe/habits/internal/stats"
	"golang.org/x/sync/errgroup"
)

// recomputeWorkers bounds RecomputeAll.
const recomputeWorkers = 4

func (s *Store) lock(habitID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(habitID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Today is the current calendar day in the store's zone.
func (s *Store) Today() calendar.Day {
	return calendar.Today(s.now(), s.loc)
}

// mutate runs write inside a transaction under the habit's lock, then
// rebuilds the aggregate from the records in the same transaction.
func (s *Store) mutate(habitID string, write func(tx *sql.Tx) error) (stats.Aggregate, error) {
	mu := s.lock(habitID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return stats.Aggregate{}, err
	}
	defer tx.Rollback()

	if err := habitExists(tx, habitID); err != nil {
		return stats.Aggregate{}, err
	}
	if err := write(tx); err != nil {
		return stats.Aggregate{}, err
	}
	agg, err := s.recomputeTx(tx, habitID)
	if err != nil {
		return stats.Aggregate{}, err
	}
	if err := tx.Commit(); err != nil {
		return stats.Aggregate{}, fmt.Errorf("committing: %w", err)
	}
	return agg, nil
}

func habitExists(tx *sql.Tx, habitID string) error {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM habits WHERE id = ?`, habitID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("habit %q: %w", habitID, ErrNotFound)
	}
	return err
}

// recomputeTx overwrites the cached aggregate with one computed from every
// record of the habit.
func (s *Store) recomputeTx(tx *sql.Tx, habitID string) (stats.Aggregate, error) {
	records, err := queryRecords(tx, habitID, RecordFilter{})
	if err != nil {
		return stats.Aggregate{}, err
	}
	agg := s.calc.HabitStats(records, s.Today())

	_, err = tx.Exec(
		`INSERT INTO habit_levels (habit_id, unique_days, completion_level, total_hours, hours_level,
			current_streak, longest_streak, last_date, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(habit_id) DO UPDATE SET
			unique_days = excluded.unique_days,
			completion_level = excluded.completion_level,
			total_hours = excluded.total_hours,
			hours_level = excluded.hours_level,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_date = excluded.last_date,
			updated_at = CURRENT_TIMESTAMP`,
		habitID, agg.UniqueDays, agg.CompletionLevel, agg.TotalHours, agg.HoursLevel,
		agg.CurrentStreak, agg.LongestStreak, recoveryValue(agg.LastDate),
	)
	if err != nil {
		return stats.Aggregate{}, fmt.Errorf("saving aggregate: %w", err)
	}
	logger.Debug("aggregate recomputed", "habit", habitID, "days", agg.UniqueDays,
		"completion_level", agg.CompletionLevel, "hours_level", agg.HoursLevel, "streak", agg.CurrentStreak)
	return agg, nil
}

// Level returns the cached aggregate. Streak values reflect the day of the
// last recompute.
func (s *Store) Level(habitID string) (stats.Aggregate, error) {
	var agg stats.Aggregate
	var last calendar.Day
	err := s.db.QueryRow(
		`SELECT unique_days, completion_level, total_hours, hours_level, current_streak, longest_streak, last_date
		 FROM habit_levels WHERE habit_id = ?`, habitID,
	).Scan(&agg.UniqueDays, &agg.CompletionLevel, &agg.TotalHours, &agg.HoursLevel,
		&agg.CurrentStreak, &agg.LongestStreak, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Aggregate{}, fmt.Errorf("level for habit %q: %w", habitID, ErrNotFound)
	}
	if err != nil {
		return stats.Aggregate{}, fmt.Errorf("reading level: %w", err)
	}
	if !last.IsZero() {
		agg.LastDate = &last
	}
	return agg, nil
}

// Recompute rebuilds one habit's aggregate.
func (s *Store) Recompute(habitID string) (stats.Aggregate, error) {
	return s.mutate(habitID, func(*sql.Tx) error { return nil })
}

// RecomputeAll rebuilds the aggregate of every habit, archived ones included.
func (s *Store) RecomputeAll(ctx context.Context) (int, error) {
	habits, err := s.List(true)
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(recomputeWorkers)
	for _, h := range habits {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := s.Recompute(h.ID); err != nil {
				return fmt.Errorf("recomputing %q: %w", h.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	logger.Info("recomputed all habits", "count", len(habits))
	return len(habits), nil
}
