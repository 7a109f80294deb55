package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Plan describes what to collect and how often. It is loaded from a TOML
// file; jobs whose section is absent are skipped.
type Plan struct {
	Interval Duration    `toml:"interval"`
	TopGames TopGamesJob `toml:"top_games"`
	Streams  StreamsJob  `toml:"streams"`
	Users    UsersJob    `toml:"users"`
	Clips    ClipsJob    `toml:"clips"`
	Videos   VideosJob   `toml:"videos"`
}

// TopGamesJob snapshots the top games chart.
type TopGamesJob struct {
	Enabled bool `toml:"enabled"`
	Cap     int  `toml:"cap"`
}

// StreamsJob snapshots live streams for the given logins and/or games.
type StreamsJob struct {
	UserLogins []string `toml:"user_logins"`
	GameIDs    []string `toml:"game_ids"`
	Cap        int      `toml:"cap"`
}

// UsersJob snapshots user records by login and/or ID.
type UsersJob struct {
	Logins []string `toml:"logins"`
	IDs    []string `toml:"ids"`
}

// ClipsJob snapshots clips of one broadcaster.
type ClipsJob struct {
	BroadcasterID string `toml:"broadcaster_id"`
	Cap           int    `toml:"cap"`
}

// VideosJob snapshots videos of one user.
type VideosJob struct {
	UserID string `toml:"user_id"`
	Type   string `toml:"type"`
	Cap    int    `toml:"cap"`
}

const defaultInterval = 5 * time.Minute

// Duration lets TOML carry values like "90s" or "5m".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// IntervalOrDefault returns the plan interval, falling back to five minutes.
func (p Plan) IntervalOrDefault() time.Duration {
	if d := time.Duration(p.Interval); d > 0 {
		return d
	}
	return defaultInterval
}

// LoadPlan reads a collection plan from the given TOML file path.
func LoadPlan(path string) (Plan, error) {
	var plan Plan
	if _, err := os.Stat(path); err != nil {
		return Plan{}, fmt.Errorf("collection plan %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &plan); err != nil {
		return Plan{}, fmt.Errorf("failed to parse collection plan: %w", err)
	}
	return plan, nil
}
