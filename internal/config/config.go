// Package config defines the rating run configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/handball-elo/internal/domain/attribution"
	"github.com/okian/handball-elo/internal/domain/carryover"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// DataDir holds one directory per league, one per season below it.
	DataDir string `koanf:"data_dir"`
	// Leagues restricts the run to the named league directories.
	Leagues []string `koanf:"leagues"`
	// Output is the report path. Empty or "-" writes to stdout.
	Output string `koanf:"output"`
	// MetricsAddr serves /metrics and /healthz while the run is in flight.
	// Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	WorkerCount int `koanf:"worker_count"`
	QueueSize   int `koanf:"queue_size"`
	DedupeSize  int `koanf:"dedupe_size"`

	MinRating        float64 `koanf:"min_rating"`
	MaxRating        float64 `koanf:"max_rating"`
	PlayerRating     float64 `koanf:"player_rating"`
	GoalkeeperRating float64 `koanf:"goalkeeper_rating"`
	TeamRating       float64 `koanf:"team_rating"`

	KPlayer       float64 `koanf:"k_player"`
	KGoalkeeper   float64 `koanf:"k_goalkeeper"`
	KTeam         float64 `koanf:"k_team"`
	HomeAdvantage float64 `koanf:"home_advantage"`
	// MaxEventDelta caps one event's change per entity. Zero disables it.
	MaxEventDelta float64 `koanf:"max_event_delta"`

	PriorWeight     float64 `koanf:"prior_weight"`
	AggregateWeight float64 `koanf:"aggregate_weight"`
	AggregateFactor float64 `koanf:"aggregate_factor"`

	// SameTeamTypes and OppositeTeamTypes classify secondary event labels.
	// Leaving both empty keeps the built-in classification.
	SameTeamTypes     []string `koanf:"same_team_types"`
	OppositeTeamTypes []string `koanf:"opposite_team_types"`

	// ActionWeights and PositionMultipliers override scoring tables by
	// report label and position code.
	ActionWeights       map[string]float64 `koanf:"action_weights"`
	PositionMultipliers map[string]float64 `koanf:"position_multipliers"`

	// Aliases maps alternative player spellings to a canonical name.
	Aliases map[string]string `koanf:"aliases"`
	// ClubCodes adds club name to code mappings for the loader.
	ClubCodes map[string]string `koanf:"club_codes"`

	MinAppearances int `koanf:"min_appearances"`
	// ReportSize limits rows per report table. Zero lists all.
	ReportSize int `koanf:"report_size"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		DataDir:          "data",
		Output:           "-",
		WorkerCount:      runtime.NumCPU(),
		QueueSize:        64,
		DedupeSize:       50_000,
		MinRating:        800,
		MaxRating:        3000,
		PlayerRating:     1200,
		GoalkeeperRating: 1250,
		TeamRating:       1350,
		KPlayer:          8,
		KGoalkeeper:      6,
		KTeam:            14,
		HomeAdvantage:    25,
		MaxEventDelta:    16,
		PriorWeight:      carryover.DefaultPriorWeight,
		AggregateWeight:  carryover.DefaultAggregateWeight,
		AggregateFactor:  0.7,
		MinAppearances:   1,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.WorkerCount <= 0 || c.QueueSize <= 0 {
		return fmt.Errorf("%w: worker_count and queue_size must be positive", ErrInvalidConfig)
	}
	if c.DedupeSize < 0 || c.ReportSize < 0 || c.MinAppearances < 0 {
		return fmt.Errorf("%w: negative size", ErrInvalidConfig)
	}
	if c.MinRating >= c.MaxRating {
		return fmt.Errorf("%w: min_rating %v not below max_rating %v", ErrInvalidConfig, c.MinRating, c.MaxRating)
	}
	for name, r := range map[string]float64{
		"player_rating":     c.PlayerRating,
		"goalkeeper_rating": c.GoalkeeperRating,
		"team_rating":       c.TeamRating,
	} {
		if r < c.MinRating || r > c.MaxRating {
			return fmt.Errorf("%w: %s %v outside rating bounds", ErrInvalidConfig, name, r)
		}
	}
	if c.KPlayer <= 0 || c.KGoalkeeper <= 0 || c.KTeam <= 0 {
		return fmt.Errorf("%w: K-factors must be positive", ErrInvalidConfig)
	}
	if c.MaxEventDelta < 0 {
		return fmt.Errorf("%w: max_event_delta must not be negative", ErrInvalidConfig)
	}
	if err := carryover.ValidateWeights(c.PriorWeight, c.AggregateWeight); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.AggregateFactor < 0 || c.AggregateFactor > 1 {
		return fmt.Errorf("%w: aggregate_factor %v outside [0,1]", ErrInvalidConfig, c.AggregateFactor)
	}
	return nil
}

// Policy returns the secondary-actor classification.
func (c *Config) Policy() attribution.Policy {
	if len(c.SameTeamTypes) == 0 && len(c.OppositeTeamTypes) == 0 {
		return attribution.DefaultPolicy()
	}
	return attribution.Policy{SameTeam: c.SameTeamTypes, OppositeTeam: c.OppositeTeamTypes}
}
