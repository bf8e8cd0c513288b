package ruleset

import (
	"fmt"
	"math/rand"

	"github.com/danielpatrickdp/iaus-engine/internal/consideration"
	"github.com/danielpatrickdp/iaus-engine/internal/curve"
	"github.com/danielpatrickdp/iaus-engine/internal/decision"
	"github.com/danielpatrickdp/iaus-engine/internal/engine"
	"github.com/danielpatrickdp/iaus-engine/internal/sensors"
)

// #region tier-lookup
var tiersByName = map[string]decision.UtilityScore{
	"ignore":         decision.Ignore,
	"slightlyuseful": decision.SlightlyUseful,
	"useful":         decision.Useful,
	"veryuseful":     decision.VeryUseful,
	"mostuseful":     decision.MostUseful,
}

func resolveTier(name string) (decision.UtilityScore, error) {
	tier, ok := tiersByName[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("unknown tier %q", name)
	}
	return tier, nil
}

func resolveCompensation(name string) (decision.CompensationMode, error) {
	switch normalize(name) {
	case "", "modificationfactor":
		return decision.ModificationFactor, nil
	case "unadjusted":
		return decision.Unadjusted, nil
	default:
		return 0, fmt.Errorf("unknown compensation mode %q", name)
	}
}

func normalize(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '-' || c == ' ' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// #endregion tier-lookup

// #region curve-resolve
func resolveCurve(spec CurveSpec) (curve.Curve, error) {
	switch normalize(spec.Kind) {
	case "", "identity":
		return curve.NewIdentity(), nil
	case "inverted":
		return curve.NewInverted(), nil
	case "linear":
		return curve.NewLinear(spec.Slope, spec.Intercept), nil
	case "binary":
		return curve.NewBinary(spec.Threshold), nil
	case "exponential":
		return curve.NewExponential(spec.Base), nil
	case "power":
		return curve.NewPower(spec.Exponent), nil
	default:
		return nil, fmt.Errorf("unknown curve kind %q", spec.Kind)
	}
}

// #endregion curve-resolve

// #region sensor-resolve
func resolveSensor(spec SensorSpec, min, max float64, named map[string]consideration.Sensor, rng *rand.Rand) (consideration.Sensor, error) {
	switch normalize(spec.Kind) {
	case "constant":
		return sensors.Constant(spec.Value), nil
	case "random":
		if rng == nil {
			rng = rand.New(rand.NewSource(1))
		}
		return sensors.Random(rng, min, max), nil
	case "named":
		sensor, ok := named[spec.Name]
		if !ok {
			return nil, fmt.Errorf("no named sensor registered for %q", spec.Name)
		}
		return sensor, nil
	default:
		return nil, fmt.Errorf("unknown sensor kind %q", spec.Kind)
	}
}

// #endregion sensor-resolve

// #region build

// Build converts every DecisionSpec in rs into a live *decision.Decision.
// named supplies consideration.Sensor closures for "named"-kind sensors —
// the hook a host application uses to wire in its own live readings; rng
// drives "random"-kind sensors (may be nil, a default source is used).
func Build(rs *Ruleset, named map[string]consideration.Sensor, rng *rand.Rand) ([]*decision.Decision, error) {
	decisions := make([]*decision.Decision, 0, len(rs.Decisions))
	for _, spec := range rs.Decisions {
		tier, err := resolveTier(spec.Tier)
		if err != nil {
			return nil, fmt.Errorf("decision %q: %w", spec.Name, err)
		}
		mode, err := resolveCompensation(spec.Compensation)
		if err != nil {
			return nil, fmt.Errorf("decision %q: %w", spec.Name, err)
		}

		considerations := make([]consideration.Consideration, 0, len(spec.Considerations))
		for _, cs := range spec.Considerations {
			shape, err := resolveCurve(cs.Curve)
			if err != nil {
				return nil, fmt.Errorf("decision %q consideration %q: %w", spec.Name, cs.Name, err)
			}
			sensor, err := resolveSensor(cs.Sensor, cs.Min, cs.Max, named, rng)
			if err != nil {
				return nil, fmt.Errorf("decision %q consideration %q: %w", spec.Name, cs.Name, err)
			}
			considerations = append(considerations, consideration.New(cs.Name, sensor, cs.Min, cs.Max, shape))
		}

		d, err := decision.New(spec.Name, spec.Description, tier, considerations, nil, mode)
		if err != nil {
			return nil, fmt.Errorf("decision %q: %w", spec.Name, err)
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

// #endregion build

// #region register

// Register builds rs and adds every resulting Decision to eng under its
// declared events.
func Register[E comparable](eng *engine.Engine[E], rs *Ruleset, named map[string]consideration.Sensor, rng *rand.Rand, eventOf func(string) E) error {
	decisions, err := Build(rs, named, rng)
	if err != nil {
		return err
	}
	for i, spec := range rs.Decisions {
		events := make([]E, len(spec.Events))
		for j, name := range spec.Events {
			events[j] = eventOf(name)
		}
		if err := eng.Add(decisions[i], events...); err != nil {
			return fmt.Errorf("register decision %q: %w", spec.Name, err)
		}
	}
	return nil
}

// #endregion register
