// Package level converts cumulative habit metrics into levels.
//
// A tier table is an ordered list of tiers. Each tier spans the levels after
// the previous tier's end up to its own Level, and costs Rate raw units per
// level. Higher tiers are only reached once every lower tier is filled.
package level

import (
	"errors"
	"fmt"
	"math"
)

const (
	MinLevel = 1
	MaxLevel = 999
)

// ErrInvalidTiers is wrapped by Tiers.Validate failures.
var ErrInvalidTiers = errors.New("invalid tier table")

// Tier is one piecewise-linear segment of a level curve.
type Tier struct {
	Level  int     `toml:"level" json:"level"`   // level reached when the tier is full
	Amount float64 `toml:"amount" json:"amount"` // raw units spanned by the tier
	Rate   float64 `toml:"rate" json:"rate"`     // raw units per level inside the tier
}

// Tiers is an ordered tier table.
type Tiers []Tier

// Metric selects which raw metric a level describes.
type Metric string

const (
	Completion Metric = "completion" // unique completion days
	Hours      Metric = "hours"      // total logged hours
)

// Tables holds one tier table per metric.
type Tables struct {
	Completion Tiers
	Hours      Tiers
}

// For returns the table for metric m.
func (t Tables) For(m Metric) Tiers {
	if m == Hours {
		return t.Hours
	}
	return t.Completion
}

// Validate checks both tables.
func (t Tables) Validate() error {
	if err := t.Completion.Validate(); err != nil {
		return fmt.Errorf("completion: %w", err)
	}
	if err := t.Hours.Validate(); err != nil {
		return fmt.Errorf("hours: %w", err)
	}
	return nil
}

// DefaultCompletionTiers levels up by unique completion days.
func DefaultCompletionTiers() Tiers {
	return Tiers{
		{Level: 30, Amount: 30, Rate: 1},
		{Level: 60, Amount: 60, Rate: 2},
		{Level: 100, Amount: 120, Rate: 3},
		{Level: MaxLevel, Amount: 4495, Rate: 5},
	}
}

// DefaultHoursTiers levels up by logged hours. It costs more per level than
// the completion table once past the early tiers.
func DefaultHoursTiers() Tiers {
	return Tiers{
		{Level: 10, Amount: 10, Rate: 1},
		{Level: 25, Amount: 30, Rate: 2},
		{Level: 50, Amount: 100, Rate: 4},
		{Level: 100, Amount: 400, Rate: 8},
		{Level: 200, Amount: 1500, Rate: 15},
		{Level: MaxLevel, Amount: 19975, Rate: 25},
	}
}

// DefaultTables returns fresh copies of both default tables.
func DefaultTables() Tables {
	return Tables{
		Completion: DefaultCompletionTiers(),
		Hours:      DefaultHoursTiers(),
	}
}

// MaxDays and MaxHours are the raw values at which the default tables reach MaxLevel.
var (
	MaxDays  = DefaultCompletionTiers().Ceiling()
	MaxHours = DefaultHoursTiers().Ceiling()
)

// Ceiling returns the raw value that fills every tier.
func (ts Tiers) Ceiling() float64 {
	var total float64
	for _, t := range ts {
		total += t.Amount
	}
	return total
}

// Level converts a raw cumulative value into a level in [MinLevel, MaxLevel].
// Values past the last tier stay at that tier's end level.
func (ts Tiers) Level(value float64) int {
	if value <= 0 || math.IsNaN(value) {
		return MinLevel
	}

	current := 0
	remaining := value
	for _, t := range ts {
		consumable := math.Min(remaining, t.Amount)
		gained := int(math.Floor(consumable / t.Rate))
		current = min(t.Level, current+gained)
		if current < t.Level {
			break
		}
		remaining -= t.Amount
	}
	return clamp(current)
}

// NextRequirement returns the raw value needed to reach current+1.
// At MaxLevel it returns the table ceiling.
func (ts Tiers) NextRequirement(current int) float64 {
	if current >= MaxLevel {
		return ts.Ceiling()
	}
	if current < 0 {
		current = 0
	}

	var cumulative float64
	start := 0 // last level of the previous tier
	for _, t := range ts {
		if current+1 <= t.Level {
			return cumulative + float64(current-start+1)*t.Rate
		}
		cumulative += t.Amount
		start = t.Level
	}
	return cumulative
}

// NextLevelRequirement is NextRequirement on the table selected by metric.
func NextLevelRequirement(tables Tables, current int, metric Metric) float64 {
	return tables.For(metric).NextRequirement(current)
}

// ProgressPercent returns round(current/next*100) clamped to [0, 100].
// A non-positive next means there is nothing left to earn.
func ProgressPercent(current, next float64) int {
	if next <= 0 {
		return 100
	}
	pct := int(math.Round(current / next * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Validate reports whether ts is a usable tier table.
func (ts Tiers) Validate() error {
	if len(ts) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidTiers)
	}
	prev := 0
	for i, t := range ts {
		if t.Rate <= 0 {
			return fmt.Errorf("%w: tier %d has non-positive rate %v", ErrInvalidTiers, i+1, t.Rate)
		}
		if t.Level <= prev {
			return fmt.Errorf("%w: tier %d level %d does not exceed %d", ErrInvalidTiers, i+1, t.Level, prev)
		}
		if want := float64(t.Level-prev) * t.Rate; t.Amount != want {
			return fmt.Errorf("%w: tier %d amount %v, want %v (levels %d-%d at rate %v)",
				ErrInvalidTiers, i+1, t.Amount, want, prev+1, t.Level, t.Rate)
		}
		prev = t.Level
	}
	if prev != MaxLevel {
		return fmt.Errorf("%w: last tier ends at level %d, want %d", ErrInvalidTiers, prev, MaxLevel)
	}
	return nil
}

func clamp(l int) int {
	if l < MinLevel {
		return MinLevel
	}
	if l > MaxLevel {
		return MaxLevel
	}
	return l
}
