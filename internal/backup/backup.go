// Package backup exports and imports the whole habit history as a single
// age-encrypted, ASCII-armored JSON snapshot.
//
// Snapshots use passphrase-based encryption (age scrypt). Files are written
// atomically: data goes to a temp file, is fsync'd, then renamed into place.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"
	"github.com/rnwolfe/habits/internal/habit"
	"github.com/rnwolfe/habits/internal/logger"
	"github.com/rnwolfe/habits/internal/stats"
)

// Version is the snapshot format version written by Export.
const Version = 1

// ErrWrongPassphrase is returned when decryption fails due to a bad passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// ErrCorrupted is returned when a backup cannot be decrypted or parsed.
var ErrCorrupted = errors.New("backup is corrupted or unreadable")

// workFactor overrides the scrypt work factor when non-zero.
var workFactor int

// Snapshot is the plaintext content of a backup.
type Snapshot struct {
	Version    int         `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Habits     []HabitData `json:"habits"`
}

// HabitData is one habit and its full record history.
type HabitData struct {
	Habit   habit.Habit    `json:"habit"`
	Records []stats.Record `json:"records"`
}

// Source is what Build reads from.
type Source interface {
	List(includeArchived bool) ([]habit.Habit, error)
	Records(habitID string, f habit.RecordFilter) ([]stats.Record, error)
}

// Sink is what Apply writes to.
type Sink interface {
	Restore(h habit.Habit, records []stats.Record) (stats.Aggregate, error)
}

// Build collects every habit, archived ones included, into a snapshot.
func Build(src Source, now time.Time) (*Snapshot, error) {
	habits, err := src.List(true)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Version: Version, ExportedAt: now.UTC().Truncate(time.Second)}
	for _, h := range habits {
		records, err := src.Records(h.ID, habit.RecordFilter{})
		if err != nil {
			return nil, fmt.Errorf("reading records for %q: %w", h.Name, err)
		}
		if records == nil {
			records = []stats.Record{}
		}
		snap.Habits = append(snap.Habits, HabitData{Habit: h, Records: records})
	}
	return snap, nil
}

// Apply restores every habit in snap. Habits are matched by ID and records
// by day; anything not in the snapshot is left alone.
func Apply(sink Sink, snap *Snapshot) (int, error) {
	for i, hd := range snap.Habits {
		if _, err := sink.Restore(hd.Habit, hd.Records); err != nil {
			return i, fmt.Errorf("restoring %q: %w", hd.Habit.Name, err)
		}
	}
	return len(snap.Habits), nil
}

// WriteFile encrypts snap and writes it to path atomically.
func WriteFile(path string, snap *Snapshot, passphrase string) error {
	raw, err := Encrypt(snap, passphrase)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}
	if err := atomicWrite(path, raw); err != nil {
		return err
	}
	logger.Info("backup written", "path", path, "habits", len(snap.Habits))
	return nil
}

// ReadFile reads and decrypts the backup at path.
func ReadFile(path, passphrase string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decrypt(raw, passphrase)
}

// Encrypt serializes and encrypts a snapshot.
func Encrypt(snap *Snapshot, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase must not be empty")
	}
	jsonBytes, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("serializing snapshot: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age recipient: %w", err)
	}
	if workFactor > 0 {
		recipient.SetWorkFactor(workFactor)
	}

	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)
	w, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing age encryption: %w", err)
	}
	if _, err := w.Write(jsonBytes); err != nil {
		return nil, fmt.Errorf("encrypting snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return buf.Bytes(), nil
}

// Decrypt decrypts and parses a snapshot.
func Decrypt(raw []byte, passphrase string) (*Snapshot, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age identity: %w", err)
	}

	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(raw)), identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading decrypted data: %v", ErrCorrupted, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return nil, fmt.Errorf("%w: parsing snapshot: %v", ErrCorrupted, err)
	}
	if snap.Version < 1 || snap.Version > Version {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", ErrCorrupted, snap.Version)
	}
	return &snap, nil
}

func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".habits-backup-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if err := os.Chmod(tmpName, 0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting temp file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("fsyncing backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("committing backup file: %w", err)
	}

	success = true
	return nil
}
