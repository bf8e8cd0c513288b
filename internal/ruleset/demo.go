package ruleset

import _ "embed"

//go:embed examples/demo.yaml
var demoYAML []byte

// Demo returns the bundled three-decision smoke-test ruleset: two
// decisions racing on a fresh random draw per tick, and a third that can
// never win because its consideration is pinned at zero. Grounded directly
// on the original example program's addDecision calls.
func Demo() (*Ruleset, error) {
	return LoadFromBytes(demoYAML)
}
