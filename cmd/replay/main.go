// Command replay drives a recorded tick sequence through a freshly built
// engine and compares the replayed outcome against what was actually
// recorded, either from a live audit trail (--db) or an exported fixture
// (--fixture, optionally pulled from the encrypted export directory with
// --encrypted). This only ever tells you whether a ruleset still produces
// the same outcomes on a known sequence; it has no bearing on BestDecision
// itself.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/iaus-engine/internal/cipher"
	"github.com/danielpatrickdp/iaus-engine/internal/consideration"
	"github.com/danielpatrickdp/iaus-engine/internal/engine"
	"github.com/danielpatrickdp/iaus-engine/internal/replay"
	"github.com/danielpatrickdp/iaus-engine/internal/ruleset"
	"github.com/danielpatrickdp/iaus-engine/internal/store"
	_ "modernc.org/sqlite"
)

// #region flags

var (
	dbPath        string
	fixturePath   string
	encryptedName string
	rulesetPath   string
	last          int
)

var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded tick sequence and compare against its recorded outcome",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "", "path to the audit trail SQLite database (DB mode)")
	rootCmd.Flags().StringVar(&fixturePath, "fixture", "", "path to a fixture JSON file (fixture mode)")
	rootCmd.Flags().StringVar(&encryptedName, "encrypted", "", "name of a fixture in the encrypted export directory (fixture mode)")
	rootCmd.Flags().StringVar(&rulesetPath, "ruleset", "", "path to the ruleset YAML that produced this trail (defaults to the bundled demo ruleset)")
	rootCmd.Flags().IntVar(&last, "last", 0, "DB mode: only replay the N most recent ticks (0 = all)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	modes := 0
	if dbPath != "" {
		modes++
	}
	if fixturePath != "" {
		modes++
	}
	if encryptedName != "" {
		modes++
	}
	if modes != 1 {
		return fmt.Errorf("exactly one of --db, --fixture, --encrypted is required")
	}

	rs, err := loadRuleset(rulesetPath)
	if err != nil {
		return fmt.Errorf("load ruleset: %w", err)
	}

	var ticks []replay.Tick
	var expectedOutcome, expectedWinner []string

	switch {
	case dbPath != "":
		ticks, expectedOutcome, expectedWinner, err = loadDBTicks(dbPath, last)
	case fixturePath != "":
		ticks, expectedOutcome, expectedWinner, err = loadFixtureTicks(fixturePath)
	default:
		ticks, expectedOutcome, expectedWinner, err = loadEncryptedFixtureTicks(encryptedName)
	}
	if err != nil {
		return err
	}
	if len(ticks) == 0 {
		return fmt.Errorf("no ticks to replay")
	}

	bank := replay.NewSensorBank()
	named := namedSensors(rs, bank)
	rng := rand.New(rand.NewSource(1))

	eng := engine.New[string](nil)
	if err := ruleset.Register(eng, rs, named, rng, func(s string) string { return s }); err != nil {
		return fmt.Errorf("register ruleset: %w", err)
	}

	results := replay.Run(eng, bank, ticks)
	exitCode := printComparison(results, expectedOutcome, expectedWinner)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// #endregion flags

// #region load

func loadRuleset(path string) (*ruleset.Ruleset, error) {
	if path == "" {
		return ruleset.Demo()
	}
	return ruleset.Load(path)
}

func namedSensors(rs *ruleset.Ruleset, bank *replay.SensorBank) map[string]consideration.Sensor {
	named := make(map[string]consideration.Sensor)
	for _, d := range rs.Decisions {
		for _, c := range d.Considerations {
			if c.Sensor.Kind == "named" {
				named[c.Sensor.Name] = bank.Sensor(c.Sensor.Name)
			}
		}
	}
	return named
}

func loadDBTicks(dbPath string, limit int) ([]replay.Tick, []string, []string, error) {
	ticksStore, err := store.NewStore(dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open db: %w", err)
	}
	defer ticksStore.Close()

	n := limit
	if n <= 0 {
		n = 1 << 30
	}
	records, err := ticksStore.ListTicks(n)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list ticks: %w", err)
	}

	count := len(records)
	ticks := make([]replay.Tick, count)
	outcome := make([]string, count)
	winner := make([]string, count)
	for i, rec := range records {
		j := count - 1 - i // DESC to chronological
		ticks[j] = replay.Tick{TickID: rec.TickID, RaisedEvents: rec.RaisedEvents, Readings: map[string]float64{}}
		outcome[j] = rec.Outcome
		winner[j] = rec.WinningName
	}
	return ticks, outcome, winner, nil
}

func loadFixtureTicks(path string) ([]replay.Tick, []string, []string, error) {
	f, err := replay.LoadFixture(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load fixture: %w", err)
	}
	return fixtureToTicks(f)
}

func loadEncryptedFixtureTicks(name string) ([]replay.Tick, []string, []string, error) {
	plaintext, err := cipher.ReadExport(name)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read encrypted export %q: %w", name, err)
	}
	if plaintext == "" {
		return nil, nil, nil, fmt.Errorf("no such export %q in %s", name, cipher.ExportDir)
	}

	tmp, err := os.CreateTemp("", "iaus-fixture-*.json")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(plaintext); err != nil {
		tmp.Close()
		return nil, nil, nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, err := replay.LoadFixture(tmp.Name())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse decrypted fixture: %w", err)
	}
	return fixtureToTicks(f)
}

func fixtureToTicks(f *replay.Fixture) ([]replay.Tick, []string, []string, error) {
	ticks := make([]replay.Tick, len(f.Ticks))
	for i, ft := range f.Ticks {
		ticks[i] = ft.ToTick()
	}

	outcome := make([]string, len(f.ExpectedResults))
	winner := make([]string, len(f.ExpectedResults))
	for i, e := range f.ExpectedResults {
		outcome[i] = e.Outcome
		winner[i] = e.WinningName
	}
	return ticks, outcome, winner, nil
}

// #endregion load

// #region output

func printComparison(results []replay.Result, expectedOutcome, expectedWinner []string) int {
	fmt.Printf("%-12s  %-22s  %-22s  %-22s  %-22s  %s\n",
		"Tick", "Expected Outcome", "Replayed Outcome", "Expected Winner", "Replayed Winner", "Match")
	fmt.Printf("%-12s  %-22s  %-22s  %-22s  %-22s  %s\n",
		"------------", "----------------------", "----------------------", "----------------------", "----------------------", "------")

	matches := 0
	total := len(results)
	if len(expectedOutcome) < total {
		total = len(expectedOutcome)
	}

	for i := 0; i < total; i++ {
		r := results[i]
		expOutcome, expWinner := expectedOutcome[i], expectedWinner[i]
		match := "DIFF"
		if r.Outcome == expOutcome && r.WinningName == expWinner {
			match = "OK"
			matches++
		}
		fmt.Printf("%-12s  %-22s  %-22s  %-22s  %-22s  %s\n",
			shortID(r.TickID), expOutcome, r.Outcome, zeroDash(expWinner), zeroDash(r.WinningName), match)
	}

	diverge := total - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", total, matches, diverge)

	if diverge > 0 {
		return 1
	}
	return 0
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func zeroDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// #endregion output
