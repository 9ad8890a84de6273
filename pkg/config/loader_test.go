package config

import (
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestParseConfigYAMLOverrides(t *testing.T) {
	data := []byte(`
log_level: debug
population:
  size: 100
run:
  days: 30
  seed: 99
`)
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Population.Size != 100 {
		t.Fatalf("expected size 100, got %d", cfg.Population.Size)
	}
	if cfg.Run.Days != 30 {
		t.Fatalf("expected 30 days, got %d", cfg.Run.Days)
	}
	if cfg.Run.Seed != 99 {
		t.Fatalf("expected seed 99, got %d", cfg.Run.Seed)
	}
	// Untouched sections keep defaults
	if cfg.Disease.InfectiousDays != 7 {
		t.Fatalf("expected default infectious_days 7, got %f", cfg.Disease.InfectiousDays)
	}
	// Empty scenario list falls back to the standard four
	if len(cfg.Scenarios) != 4 {
		t.Fatalf("expected 4 default scenarios, got %d", len(cfg.Scenarios))
	}
}

func TestParseConfigYAMLInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "non-positive population",
			yaml: "population:\n  size: 0\n",
			want: "size must be positive",
		},
		{
			name: "zero saturation constant",
			yaml: "contact:\n  saturation_hours: 0\n",
			want: "saturation_hours must be positive",
		},
		{
			name: "mortality above one",
			yaml: "disease:\n  mortality_rate: 1.5\n",
			want: "mortality_rate must be in [0,1]",
		},
		{
			name: "bad log level",
			yaml: "log_level: verbose\n",
			want: "invalid log_level",
		},
		{
			name: "quarantine day beyond horizon",
			yaml: "run:\n  days: 10\nscenarios:\n  - name: q\n    kind: quarantine\n    quarantine_start_day: 20\n",
			want: "quarantine_start_day",
		},
		{
			name: "unknown scenario kind",
			yaml: "scenarios:\n  - name: x\n    kind: lockdown\n",
			want: "invalid kind",
		},
		{
			name: "duplicate scenario name",
			yaml: "scenarios:\n  - name: a\n    kind: baseline\n  - name: a\n    kind: baseline\n",
			want: "duplicate scenario name",
		},
	}

	for _, tc := range cases {
		_, err := ParseConfigYAML([]byte(tc.yaml))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestParseConfigYAMLMalformed(t *testing.T) {
	if _, err := ParseConfigYAML([]byte("population: [not a map")); err == nil {
		t.Fatalf("expected yaml error")
	}
}
