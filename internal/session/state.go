package session

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sabta/casedrill/internal/drillgen"
)

var (
	// ErrInvalidConfig is returned by Configure for a malformed configuration.
	ErrInvalidConfig = errors.New("invalid drill configuration")

	// ErrUnrecognizedConfig is returned when the question source does not
	// know the configured category/subcategory pair.
	ErrUnrecognizedConfig = errors.New("unrecognized category or subcategory")

	// ErrWrongPhase is returned when an action is not allowed in the
	// current phase.
	ErrWrongPhase = errors.New("action not allowed in current phase")

	// ErrSessionExpired is returned when an answer arrives after the time
	// budget ran out. The answer is not scored.
	ErrSessionExpired = errors.New("drill time is up")
)

// Phase represents the current phase of a drill.
type Phase int

const (
	PhaseIdle        Phase = iota // No configuration yet
	PhaseConfiguring              // Configured, waiting for Start
	PhaseActive                   // Serving questions against the clock
	PhaseFinished                 // Time ran out or stopped early
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfiguring:
		return "configuring"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// AllowedDurations lists the drill lengths a Config may use.
var AllowedDurations = []time.Duration{
	1 * time.Minute,
	3 * time.Minute,
	5 * time.Minute,
}

// DefaultDuration is used by callers that do not ask for a length.
const DefaultDuration = 3 * time.Minute

// Config selects what a drill asks and for how long.
type Config struct {
	Category    drillgen.Category
	Subcategory drillgen.Subcategory

	// Difficulty is the starting Basic Math level. Zero means 1. Ignored for
	// other categories.
	Difficulty int

	Duration time.Duration
}

// Normalize fills defaults and checks the configuration. The category and
// subcategory pair itself is resolved by the question source at Start.
func (c Config) Normalize() (Config, error) {
	if c.Category == "" {
		return c, fmt.Errorf("%w: category is required", ErrInvalidConfig)
	}
	if drillgen.HasSubcategories(c.Category) && c.Subcategory == drillgen.SubNone {
		return c, fmt.Errorf("%w: %s needs a subcategory", ErrInvalidConfig, c.Category)
	}

	if !drillgen.IsAdaptive(c.Category) {
		c.Difficulty = 0
	} else {
		if c.Difficulty == 0 {
			c.Difficulty = drillgen.MinDifficulty
		}
		if c.Difficulty < drillgen.MinDifficulty || c.Difficulty > drillgen.MaxDifficulty {
			return c, fmt.Errorf("%w: difficulty %d outside %d-%d",
				ErrInvalidConfig, c.Difficulty, drillgen.MinDifficulty, drillgen.MaxDifficulty)
		}
	}

	if !slices.Contains(AllowedDurations, c.Duration) {
		return c, fmt.Errorf("%w: duration %s not one of %v", ErrInvalidConfig, c.Duration, AllowedDurations)
	}
	return c, nil
}

// Minutes builds a duration from a whole number of minutes.
func Minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
