// Command inspect reads the audit trail left behind by a running engine:
// the tick-by-tick outcomes in tick_log, the full candidate breakdown in
// activation_log, and the provenance_log entry explaining why a Decision
// won or the tick came up empty.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/iaus-engine/internal/activationlog"
	"github.com/danielpatrickdp/iaus-engine/internal/logging"
	"github.com/danielpatrickdp/iaus-engine/internal/store"
	_ "modernc.org/sqlite"
)

// #region flags

var (
	dbPath  string
	last    int
	tickID  string
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the tick audit trail of an IAUS engine",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "", "path to the audit trail SQLite database")
	rootCmd.Flags().IntVar(&last, "last", 20, "show N most recent ticks")
	rootCmd.Flags().StringVar(&tickID, "tick", "", "show single tick detail")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if dbPath == "" {
		return fmt.Errorf("--db is required")
	}

	ticks, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer ticks.Close()

	snapshots := activationlog.NewStore(ticks.DB())

	if tickID != "" {
		return runDetailMode(ticks, snapshots, tickID, jsonOut)
	}
	return runListMode(ticks, last, jsonOut)
}

// #endregion flags

// #region list-mode

type listRow struct {
	TickID    string   `json:"tick_id"`
	Events    []string `json:"raised_events"`
	Winner    string   `json:"winner,omitempty"`
	Tier      int      `json:"tier,omitempty"`
	Score     float64  `json:"score,omitempty"`
	Outcome   string   `json:"outcome"`
	Duration  int64    `json:"duration_micros"`
	CreatedAt string   `json:"created_at"`
}

func runListMode(ticks *store.Store, n int, jsonOut bool) error {
	records, err := ticks.ListTicks(n)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no ticks found")
		return nil
	}

	// store returns DESC, reverse for chronological display.
	rows := make([]listRow, len(records))
	for i, rec := range records {
		rows[len(records)-1-i] = listRow{
			TickID:    rec.TickID,
			Events:    rec.RaisedEvents,
			Winner:    rec.WinningName,
			Tier:      rec.Tier,
			Score:     rec.Score,
			Outcome:   rec.Outcome,
			Duration:  rec.DurationMicros,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	return printListTable(rows)
}

func printListTable(rows []listRow) error {
	fmt.Printf("%-12s  %-10s  %6s  %6s  %-22s  %12s  %s\n",
		"Tick", "Outcome", "Tier", "Score", "Winner", "Duration(us)", "Time")
	fmt.Printf("%-12s  %-10s  %6s  %6s  %-22s  %12s  %s\n",
		"------------", "----------", "------", "------", "----------------------", "------------", "--------------------")

	for _, r := range rows {
		winner := r.Winner
		if winner == "" {
			winner = "—"
		}
		fmt.Printf("%-12s  %-10s  %6d  %6.2f  %-22s  %12d  %s\n",
			shortID(r.TickID), r.Outcome, r.Tier, r.Score, winner, r.Duration, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	TickID     string                `json:"tick_id"`
	Events     []string              `json:"raised_events"`
	Outcome    string                `json:"outcome"`
	Winner     string                `json:"winner,omitempty"`
	Tier       int                   `json:"tier,omitempty"`
	Score      float64               `json:"score,omitempty"`
	Duration   int64                 `json:"duration_micros"`
	CreatedAt  string                `json:"created_at"`
	Candidates []activationlog.Entry `json:"candidates,omitempty"`
	Reason     string                `json:"reason,omitempty"`
}

func runDetailMode(ticks *store.Store, snapshots *activationlog.Store, tickID string, jsonOut bool) error {
	rec, err := ticks.GetTick(tickID)
	if err != nil {
		return err
	}

	out := detailOutput{
		TickID:    rec.TickID,
		Events:    rec.RaisedEvents,
		Outcome:   rec.Outcome,
		Winner:    rec.WinningName,
		Tier:      rec.Tier,
		Score:     rec.Score,
		Duration:  rec.DurationMicros,
		CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}

	if snap, err := snapshots.ByTickID(tickID); err == nil {
		out.Candidates = snap.Entries
	}
	if prov, err := logging.GetProvenance(ticks.DB(), tickID); err == nil {
		out.Reason = prov.Reason
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Tick:       %s\n", out.TickID)
	fmt.Printf("Events:     %v\n", out.Events)
	fmt.Printf("Outcome:    %s\n", out.Outcome)
	fmt.Printf("Winner:     %s\n", zeroDash(out.Winner))
	fmt.Printf("Tier:       %d\n", out.Tier)
	fmt.Printf("Score:      %.4f\n", out.Score)
	fmt.Printf("Duration:   %d us\n", out.Duration)
	fmt.Printf("Created:    %s\n", out.CreatedAt)
	if out.Reason != "" {
		fmt.Printf("Reason:     %s\n", out.Reason)
	}

	if len(out.Candidates) > 0 {
		fmt.Printf("\nCandidates (priority order):\n")
		for i, c := range out.Candidates {
			mark := " "
			if c.Name == out.Winner {
				mark = "*"
			}
			if c.Score < 0 {
				fmt.Printf("  %s %2d. %-20s (skipped, tier pruned)\n", mark, i, c.Name)
				continue
			}
			fmt.Printf("  %s %2d. %-20s %.4f\n", mark, i, c.Name, c.Score)
		}
	}

	return nil
}

// #endregion detail-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
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
