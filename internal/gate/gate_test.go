package gate

import (
	"testing"
	"time"
)

func TestGateAllowOnCleanState(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	now := time.Now()

	decision := g.Evaluate("patrol", time.Time{}, true, now, nil)

	if decision.Action != "allow" {
		t.Fatalf("expected allow, got %s: %s", decision.Action, decision.Reason)
	}
	if decision.Vetoed {
		t.Fatal("should not be vetoed")
	}
}

func TestGateVetoOnOverride(t *testing.T) {
	config := DefaultGateConfig()
	config.Overridden = []string{"retreat"}
	g := NewGate(config)
	now := time.Now()

	decision := g.Evaluate("retreat", time.Time{}, true, now, nil)

	if decision.Action != "veto" {
		t.Fatalf("expected veto, got %s", decision.Action)
	}
	if !decision.Vetoed {
		t.Fatal("should be vetoed")
	}
	if decision.VetoSignals[0].Type != VetoOverride {
		t.Fatalf("expected VetoOverride, got %s", decision.VetoSignals[0].Type)
	}
}

func TestGateVetoOnSafetyFlag(t *testing.T) {
	config := DefaultGateConfig()
	config.SafetyBlocklist = map[string][]string{
		"negotiating": {"attack"},
	}
	g := NewGate(config)
	now := time.Now()
	flags := map[string]bool{"negotiating": true}

	decision := g.Evaluate("attack", time.Time{}, true, now, flags)

	if decision.Action != "veto" {
		t.Fatalf("expected veto, got %s", decision.Action)
	}
	if decision.VetoSignals[0].Type != VetoSafety {
		t.Fatalf("expected VetoSafety, got %s", decision.VetoSignals[0].Type)
	}
}

func TestGateAllowWhenSafetyFlagInactive(t *testing.T) {
	config := DefaultGateConfig()
	config.SafetyBlocklist = map[string][]string{
		"negotiating": {"attack"},
	}
	g := NewGate(config)
	now := time.Now()
	flags := map[string]bool{"negotiating": false}

	decision := g.Evaluate("attack", time.Time{}, true, now, flags)

	if decision.Action != "allow" {
		t.Fatalf("expected allow, got %s: %s", decision.Action, decision.Reason)
	}
}

func TestGateVetoOnCooldown(t *testing.T) {
	config := DefaultGateConfig()
	config.MinReexecuteInterval = 10 * time.Second
	g := NewGate(config)
	now := time.Now()
	lastExecuted := now.Add(-2 * time.Second)

	decision := g.Evaluate("patrol", lastExecuted, false, now, nil)

	if decision.Action != "veto" {
		t.Fatalf("expected veto, got %s: %s", decision.Action, decision.Reason)
	}
	if decision.VetoSignals[0].Type != VetoCooldown {
		t.Fatalf("expected VetoCooldown, got %s", decision.VetoSignals[0].Type)
	}
}

func TestGateAllowAfterCooldownElapses(t *testing.T) {
	config := DefaultGateConfig()
	config.MinReexecuteInterval = 10 * time.Second
	g := NewGate(config)
	now := time.Now()
	lastExecuted := now.Add(-20 * time.Second)

	decision := g.Evaluate("patrol", lastExecuted, false, now, nil)

	if decision.Action != "allow" {
		t.Fatalf("expected allow, got %s: %s", decision.Action, decision.Reason)
	}
	if decision.Freshness != 1.0 {
		t.Fatalf("expected freshness 1.0 once past cooldown, got %.4f", decision.Freshness)
	}
}

func TestGateMultipleVetoes(t *testing.T) {
	config := DefaultGateConfig()
	config.Overridden = []string{"retreat"}
	config.MinReexecuteInterval = 10 * time.Second
	g := NewGate(config)
	now := time.Now()
	lastExecuted := now.Add(-1 * time.Second)

	decision := g.Evaluate("retreat", lastExecuted, false, now, nil)

	if decision.Action != "veto" {
		t.Fatalf("expected veto, got %s", decision.Action)
	}
	if len(decision.VetoSignals) < 2 {
		t.Fatalf("expected at least 2 veto signals, got %d", len(decision.VetoSignals))
	}
}

func TestGateFreshnessRange(t *testing.T) {
	config := DefaultGateConfig()
	config.MinReexecuteInterval = 10 * time.Second
	g := NewGate(config)
	now := time.Now()
	lastExecuted := now.Add(-5 * time.Second)

	decision := g.Evaluate("patrol", lastExecuted, false, now, nil)

	if decision.Freshness < 0 || decision.Freshness > 1.0 {
		t.Fatalf("freshness %.4f out of [0, 1] range", decision.Freshness)
	}
}

func TestComputeFreshnessNeverExecuted(t *testing.T) {
	if f := computeFreshness(time.Time{}, true, time.Now(), 10*time.Second); f != 1.0 {
		t.Errorf("expected 1.0 for never executed, got %.4f", f)
	}
}

func TestComputeFreshnessNoCooldownConfigured(t *testing.T) {
	if f := computeFreshness(time.Now(), false, time.Now(), 0); f != 1.0 {
		t.Errorf("expected 1.0 when cooldown is disabled, got %.4f", f)
	}
}

func TestComputeFreshnessHalfway(t *testing.T) {
	now := time.Now()
	lastExecuted := now.Add(-5 * time.Second)
	f := computeFreshness(lastExecuted, false, now, 10*time.Second)
	if f < 0.45 || f > 0.55 {
		t.Errorf("expected ~0.5, got %.4f", f)
	}
}

func TestComputeFreshnessJustExecuted(t *testing.T) {
	now := time.Now()
	if f := computeFreshness(now, false, now, 10*time.Second); f != 0.0 {
		t.Errorf("expected 0.0 immediately after execution, got %.4f", f)
	}
}
