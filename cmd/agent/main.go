// Command agent runs an interactive decision-engine session: it loads a
// ruleset, wires it to a live SensorBank, and ticks the engine once per
// line of input, printing the winning Decision (if any) and the full
// audit trail to the configured database.
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/iaus-engine/internal/activationlog"
	"github.com/danielpatrickdp/iaus-engine/internal/consideration"
	"github.com/danielpatrickdp/iaus-engine/internal/engine"
	"github.com/danielpatrickdp/iaus-engine/internal/gate"
	"github.com/danielpatrickdp/iaus-engine/internal/ruleset"
	"github.com/danielpatrickdp/iaus-engine/internal/runtime"
	"github.com/danielpatrickdp/iaus-engine/internal/store"
)

var (
	dbPath       string
	rulesetPath  string
	cooldownSecs int
)

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run an interactive IAUS decision-engine session",
	RunE:  runAgent,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "iaus_engine.db", "path to the audit trail SQLite database")
	rootCmd.Flags().StringVar(&rulesetPath, "ruleset", "", "path to a ruleset YAML file (defaults to the bundled demo ruleset)")
	rootCmd.Flags().IntVar(&cooldownSecs, "cooldown", 0, "minimum seconds between re-executions of the same Decision")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAgent(cmd *cobra.Command, args []string) error {
	rs, err := loadRuleset(rulesetPath)
	if err != nil {
		return fmt.Errorf("load ruleset: %w", err)
	}

	ticks, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer ticks.Close()

	bank := newBank()
	named := namedSensors(rs, bank)
	rng := rand.New(rand.NewSource(1))

	recorder := activationlog.NewRecorder()
	eng := engine.New[string](recorder)
	if err := ruleset.Register(eng, rs, named, rng, func(s string) string { return s }); err != nil {
		return fmt.Errorf("register ruleset: %w", err)
	}

	gateConfig := gate.DefaultGateConfig()
	if cooldownSecs > 0 {
		gateConfig.MinReexecuteInterval = time.Duration(cooldownSecs) * time.Second
	}
	coord := runtime.NewCoordinator(eng, recorder, gateConfig, ticks)

	fmt.Println("IAUS agent ready.")
	fmt.Printf("  ruleset: %s | db: %s\n", rs.Name, dbPath)
	fmt.Println("Each line: space-separated event names to raise this tick, optional key=value readings.")
	fmt.Println("Type 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	tickNum := 0
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			break
		}
		if line == "" {
			continue
		}

		events, readings := parseLine(line)
		for name, val := range readings {
			bank.Set(name, val)
		}

		tickNum++
		tickID := fmt.Sprintf("tick-%d", tickNum)
		result := coord.Tick(tickID, events, nil)
		fmt.Printf("[%s] outcome=%s winner=%s reason=%s\n", tickID, result.Outcome, result.WinningName, result.Reason)
	}
	return nil
}

func loadRuleset(path string) (*ruleset.Ruleset, error) {
	if path == "" {
		return ruleset.Demo()
	}
	return ruleset.Load(path)
}

// bank is a minimal named-reading store, independent of the replay
// package's SensorBank so cmd/agent doesn't drag in fixture-replay types.
type bank struct {
	values map[string]float64
}

func newBank() *bank {
	return &bank{values: make(map[string]float64)}
}

func (b *bank) Set(name string, value float64) {
	b.values[name] = value
}

func (b *bank) Sensor(name string) consideration.Sensor {
	return func() float64 { return b.values[name] }
}

func namedSensors(rs *ruleset.Ruleset, b *bank) map[string]consideration.Sensor {
	named := make(map[string]consideration.Sensor)
	for _, d := range rs.Decisions {
		for _, c := range d.Considerations {
			if c.Sensor.Kind == "named" {
				named[c.Sensor.Name] = b.Sensor(c.Sensor.Name)
			}
		}
	}
	return named
}

// parseLine splits a line into raised event names and key=value readings.
func parseLine(line string) (events []string, readings map[string]float64) {
	readings = make(map[string]float64)
	for _, tok := range strings.Fields(line) {
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			name := tok[:eq]
			var val float64
			fmt.Sscanf(tok[eq+1:], "%g", &val)
			readings[name] = val
			continue
		}
		events = append(events, tok)
	}
	return events, readings
}
