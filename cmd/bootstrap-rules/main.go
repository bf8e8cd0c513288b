// Command bootstrap-rules rebuilds the event/decision correlation graph
// (rule_edges) from an existing tick_log audit trail, for a database that
// predates the graph or had it cleared. It is not idempotent: every run
// adds --delta again for each pairing, with edge weights capped at 1.0.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/iaus-engine/internal/graph"
	"github.com/danielpatrickdp/iaus-engine/internal/store"
)

var (
	dbPath string
	delta  float64
	limit  int
)

var rootCmd = &cobra.Command{
	Use:   "bootstrap-rules",
	Short: "Rebuild the event/decision correlation graph from tick_log",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "iaus_engine.db", "path to the audit trail SQLite database")
	rootCmd.Flags().Float64Var(&delta, "delta", 0.1, "weight increment per observed event/decision pairing")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "only process the N most recent ticks (0 = all)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ticks, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer ticks.Close()

	rules := graph.NewRuleGraph(ticks.DB())

	n := limit
	if n <= 0 {
		n = 1 << 30
	}
	records, err := ticks.ListTicks(n)
	if err != nil {
		return fmt.Errorf("list ticks: %w", err)
	}

	fmt.Printf("Processing %d ticks from %s...\n", len(records), dbPath)

	edgeCount := 0
	for _, rec := range records {
		if rec.Outcome != "executed" || rec.WinningName == "" {
			continue
		}
		for _, ev := range rec.RaisedEvents {
			if err := rules.AddEdge(ev, rec.WinningName, 0); err != nil {
				fmt.Fprintf(os.Stderr, "add edge %s->%s: %v\n", ev, rec.WinningName, err)
				continue
			}
			if err := rules.IncrementEdge(ev, rec.WinningName, delta); err != nil {
				fmt.Fprintf(os.Stderr, "increment edge %s->%s: %v\n", ev, rec.WinningName, err)
				continue
			}
			edgeCount++
		}
	}

	fmt.Printf("Bootstrap complete: %d edge increments applied.\n", edgeCount)
	return nil
}
