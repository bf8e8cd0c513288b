package replay

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a recorded
// tick sequence plus the winning Decision name (if any) expected at each
// tick.
type Fixture struct {
	Description     string                   `json:"description"`
	Ticks            []FixtureTick            `json:"ticks"`
	ExpectedResults  []FixtureExpectedResult  `json:"expected_results"`
}

// FixtureTick mirrors Tick with JSON tags.
type FixtureTick struct {
	TickID       string             `json:"tick_id"`
	RaisedEvents []string           `json:"raised_events"`
	Readings     map[string]float64 `json:"readings"`
}

// FixtureExpectedResult captures the expected outcome for one tick.
type FixtureExpectedResult struct {
	TickID      string `json:"tick_id"`
	Outcome     string `json:"outcome"`
	WinningName string `json:"winning_name"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToTick converts a FixtureTick to a domain Tick.
func (ft *FixtureTick) ToTick() Tick {
	return Tick{
		TickID:       ft.TickID,
		RaisedEvents: ft.RaisedEvents,
		Readings:     ft.Readings,
	}
}

// #endregion fixture-loader
