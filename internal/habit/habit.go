// Package habit persists habits and their daily records, and keeps each
// habit's cached aggregate in sync with its records.
package habit

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rnwolfe/habits/internal/logger"
	"github.com/rnwolfe/habits/internal/stats"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("already exists")
	ErrInvalidName   = errors.New("invalid habit name")
	ErrInvalidRecord = errors.New("invalid record")
)

// Habit is a tracked habit.
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store handles habit persistence.
type Store struct {
	db   *sql.DB
	calc *stats.Calculator
	loc  *time.Location
	now  func() time.Time

	locks sync.Map // habit ID -> *sync.Mutex
}

// NewStore creates a habit store. loc decides which calendar day is "today"
// when aggregates are recomputed.
func NewStore(db *sql.DB, calc *stats.Calculator, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	if calc == nil {
		calc = stats.Default()
	}
	return &Store{db: db, calc: calc, loc: loc, now: time.Now}
}

// SetClock replaces the clock used for timestamps and for "today".
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

const habitColumns = `id, name, description, color, archived, created_at, updated_at`

// Add creates a habit.
func (s *Store) Add(name, description string) (*Habit, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	h := &Habit{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	h.UpdatedAt = h.CreatedAt

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO habits (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Description, formatTime(h.CreatedAt), formatTime(h.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("adding habit %q: %w", name, wrapConstraint(err))
	}
	if _, err := s.recomputeTx(tx, h.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	logger.Debug("habit added", "id", h.ID, "name", h.Name)
	return h, nil
}

// Get resolves ref to a habit. ref may be a full ID, a name (case-insensitive)
// or an unambiguous ID prefix of at least four characters.
func (s *Store) Get(ref string) (*Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("habit %q: %w", ref, ErrNotFound)
	}

	h, err := scanHabit(s.db.QueryRow(
		`SELECT `+habitColumns+` FROM habits WHERE id = ? OR name = ? COLLATE NOCASE
		 ORDER BY id = ? DESC LIMIT 1`, ref, ref, ref,
	))
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting habit %q: %w", ref, err)
	}

	if len(ref) >= 4 {
		rows, err := s.db.Query(`SELECT `+habitColumns+` FROM habits WHERE id LIKE ? || '%' LIMIT 2`, ref)
		if err != nil {
			return nil, fmt.Errorf("getting habit %q: %w", ref, err)
		}
		defer rows.Close()
		matches, err := scanHabits(rows)
		if err != nil {
			return nil, err
		}
		if len(matches) == 1 {
			return &matches[0], nil
		}
		if len(matches) > 1 {
			return nil, fmt.Errorf("habit %q is ambiguous: %w", ref, ErrNotFound)
		}
	}
	return nil, fmt.Errorf("habit %q: %w", ref, ErrNotFound)
}

// List returns habits ordered by name. Archived habits are included only
// when includeArchived is set.
func (s *Store) List(includeArchived bool) ([]Habit, error) {
	q := `SELECT ` + habitColumns + ` FROM habits`
	if !includeArchived {
		q += ` WHERE archived = 0`
	}
	q += ` ORDER BY name COLLATE NOCASE ASC`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()
	return scanHabits(rows)
}

// Archive hides a habit from the dashboard without touching its history.
func (s *Store) Archive(ref string) (*Habit, error) {
	return s.setArchived(ref, true)
}

func (s *Store) Unarchive(ref string) (*Habit, error) {
	return s.setArchived(ref, false)
}

func (s *Store) setArchived(ref string, archived bool) (*Habit, error) {
	h, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(
		`UPDATE habits SET archived = ?, updated_at = ? WHERE id = ?`,
		boolInt(archived), formatTime(s.now()), h.ID,
	); err != nil {
		return nil, fmt.Errorf("updating habit %q: %w", h.Name, err)
	}
	h.Archived = archived
	return h, nil
}

// Rename changes a habit's name.
func (s *Store) Rename(ref, newName string) (*Habit, error) {
	newName, err := cleanName(newName)
	if err != nil {
		return nil, err
	}
	h, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(
		`UPDATE habits SET name = ?, updated_at = ? WHERE id = ?`,
		newName, formatTime(s.now()), h.ID,
	); err != nil {
		return nil, fmt.Errorf("renaming habit %q: %w", h.Name, wrapConstraint(err))
	}
	h.Name = newName
	return h, nil
}

// SetColor sets the lipgloss color used when the habit is displayed.
func (s *Store) SetColor(ref, color string) (*Habit, error) {
	h, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	color = strings.TrimSpace(color)
	if _, err := s.db.Exec(
		`UPDATE habits SET color = ?, updated_at = ? WHERE id = ?`,
		color, formatTime(s.now()), h.ID,
	); err != nil {
		return nil, fmt.Errorf("updating habit %q: %w", h.Name, err)
	}
	h.Color = color
	return h, nil
}

// Delete removes a habit with all of its records.
func (s *Store) Delete(ref string) (*Habit, error) {
	h, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	mu := s.lock(h.ID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, h.ID); err != nil {
		return nil, fmt.Errorf("deleting habit %q: %w", h.Name, err)
	}
	s.locks.Delete(h.ID)
	logger.Debug("habit deleted", "id", h.ID, "name", h.Name)
	return h, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (*Habit, error) {
	var h Habit
	var archived int
	var created, updated string
	if err := row.Scan(&h.ID, &h.Name, &h.Description, &h.Color, &archived, &created, &updated); err != nil {
		return nil, err
	}
	h.Archived = archived == 1
	h.CreatedAt = parseTime(created)
	h.UpdatedAt = parseTime(updated)
	return &h, nil
}

func scanHabits(rows *sql.Rows) ([]Habit, error) {
	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > 64 {
		return "", fmt.Errorf("%w: name is longer than 64 characters", ErrInvalidName)
	}
	if strings.ContainsAny(name, "\n\r\t") {
		return "", fmt.Errorf("%w: name must be a single line", ErrInvalidName)
	}
	return name, nil
}

// wrapConstraint maps SQLite UNIQUE violations onto ErrDuplicate.
func wrapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
