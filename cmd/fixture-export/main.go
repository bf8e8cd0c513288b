// Command fixture-export turns the N most recent ticks in a running
// engine's audit trail into a replay.Fixture JSON file: a self-contained
// recording that can be fed back through replay to check for regressions
// without needing the live sensors that produced it.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/iaus-engine/internal/cipher"
	"github.com/danielpatrickdp/iaus-engine/internal/replay"
	"github.com/danielpatrickdp/iaus-engine/internal/store"
	_ "modernc.org/sqlite"
)

// #region flags

var (
	dbPath  string
	last    int
	outPath string
	encrypt bool
)

var rootCmd = &cobra.Command{
	Use:   "fixture-export",
	Short: "Export recent ticks from the audit trail as a replay fixture",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "", "path to the audit trail SQLite database")
	rootCmd.Flags().IntVar(&last, "last", 10, "number of most recent ticks to export")
	rootCmd.Flags().StringVar(&outPath, "out", "", "output fixture JSON path (required unless --encrypt)")
	rootCmd.Flags().BoolVar(&encrypt, "encrypt", false, "write the fixture to the encrypted export directory instead of --out")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// #endregion flags

// #region extract

func run(cmd *cobra.Command, args []string) error {
	if dbPath == "" {
		return fmt.Errorf("--db is required")
	}
	if !encrypt && outPath == "" {
		return fmt.Errorf("--out is required unless --encrypt is set")
	}

	ticks, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer ticks.Close()

	records, err := ticks.ListTicks(last)
	if err != nil {
		return fmt.Errorf("list ticks: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no ticks found in %s", dbPath)
	}

	fixture := buildFixture(records)

	if encrypt {
		return writeEncryptedFixture(fixture)
	}
	return writeFixture(fixture, outPath)
}

// #endregion extract

// #region build

// buildFixture converts tick_log rows (DESC order) into chronological
// fixture ticks and their recorded outcomes.
func buildFixture(records []store.TickRecord) replay.Fixture {
	n := len(records)
	ticks := make([]replay.FixtureTick, n)
	expected := make([]replay.FixtureExpectedResult, n)

	for i, rec := range records {
		j := n - 1 - i // reverse to chronological order
		ticks[j] = replay.FixtureTick{
			TickID:       rec.TickID,
			RaisedEvents: rec.RaisedEvents,
			Readings:     map[string]float64{},
		}
		expected[j] = replay.FixtureExpectedResult{
			TickID:      rec.TickID,
			Outcome:     rec.Outcome,
			WinningName: rec.WinningName,
		}
	}

	return replay.Fixture{
		Description:     fmt.Sprintf("Exported %d ticks from the live audit trail", n),
		Ticks:           ticks,
		ExpectedResults: expected,
	}
}

// #endregion build

// #region output

func writeFixture(fixture replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d ticks)\n", outPath, len(data), len(fixture.Ticks))
	return nil
}

func writeEncryptedFixture(fixture replay.Fixture) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	name := fmt.Sprintf("fixture-%d-ticks.json", len(fixture.Ticks))
	if err := cipher.WriteExport(name, string(data)); err != nil {
		return fmt.Errorf("write encrypted export: %w", err)
	}

	fmt.Printf("Wrote encrypted fixture %q to %s (%d bytes, %d ticks)\n", name, cipher.ExportDir, len(data), len(fixture.Ticks))
	return nil
}

// #endregion output
