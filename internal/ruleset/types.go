package ruleset

// #region spec-types

// Ruleset is the top-level declarative document: a named bundle of Decision
// specs, loaded with gopkg.in/yaml.v3.
type Ruleset struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Decisions   []DecisionSpec `yaml:"decisions"`
}

// DecisionSpec mirrors decision.New's parameters in YAML form. Tier and
// Compensation are parsed as strings and resolved by Build.
type DecisionSpec struct {
	Name           string              `yaml:"name"`
	Description    string              `yaml:"description"`
	Tier           string              `yaml:"tier"`
	Events         []string            `yaml:"events"`
	Compensation   string              `yaml:"compensation"` // "modification_factor" (default) | "unadjusted"
	Considerations []ConsiderationSpec `yaml:"considerations"`
}

// ConsiderationSpec mirrors consideration.New's parameters.
type ConsiderationSpec struct {
	Name   string     `yaml:"name"`
	Sensor SensorSpec `yaml:"sensor"`
	Min    float64    `yaml:"min"`
	Max    float64    `yaml:"max"`
	Curve  CurveSpec  `yaml:"curve"`
}

// SensorSpec names where a Consideration's raw reading comes from:
//   - "constant": always Value
//   - "random": a fresh uniform draw in [Min,Max] each call, via the
//     Consideration's own declared range
//   - "named": looked up by Name in the named-sensor map passed to Build,
//     the hook a host application uses to wire in its own live readings
type SensorSpec struct {
	Kind  string  `yaml:"kind"`
	Value float64 `yaml:"value,omitempty"`
	Name  string  `yaml:"name,omitempty"`
}

// CurveSpec mirrors curve.Transform's constructors, selected by Kind:
// "identity", "inverted", "linear", "binary", "exponential", "power".
type CurveSpec struct {
	Kind      string  `yaml:"kind"`
	Slope     float64 `yaml:"slope,omitempty"`
	Intercept float64 `yaml:"intercept,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Base      float64 `yaml:"base,omitempty"`
	Exponent  float64 `yaml:"exponent,omitempty"`
}

// #endregion spec-types
