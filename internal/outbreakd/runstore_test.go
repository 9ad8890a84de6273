package outbreakd

import (
	"testing"

	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/models"
)

func storeConfig() *config.Config {
	cfg := config.Default()
	cfg.Population.Size = 200
	cfg.Run.Days = 12
	cfg.Run.InitialInfectious = 10
	cfg.Run.InitialExposed = 5
	return cfg
}

func TestRunStoreCreate(t *testing.T) {
	store := NewRunStore()

	rec, err := store.Create("", storeConfig())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rec.Run.ID == "" {
		t.Fatalf("expected generated run ID")
	}
	if rec.Run.Status != models.RunStatusPending {
		t.Fatalf("status = %s, want pending", rec.Run.Status)
	}
	if len(rec.Run.Scenarios) != 4 {
		t.Fatalf("got %d scenario names, want 4", len(rec.Run.Scenarios))
	}

	if _, err := store.Create(rec.Run.ID, storeConfig()); err == nil {
		t.Fatalf("expected duplicate ID rejection")
	}
	if _, err := store.Create("x", nil); err == nil {
		t.Fatalf("expected nil config rejection")
	}

	bad := storeConfig()
	bad.Run.Days = -1
	if _, err := store.Create("y", bad); err == nil {
		t.Fatalf("expected invalid config rejection")
	}
}

func TestRunStoreGetAndList(t *testing.T) {
	store := NewRunStore()
	if _, ok := store.Get("missing"); ok {
		t.Fatalf("unexpected hit for missing run")
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Create("", storeConfig()); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}
	if got := len(store.List(0)); got != 3 {
		t.Fatalf("list returned %d runs, want 3", got)
	}
	if got := len(store.List(2)); got != 2 {
		t.Fatalf("limited list returned %d runs, want 2", got)
	}
}

func TestRunStoreStatusTransitions(t *testing.T) {
	store := NewRunStore()
	rec, err := store.Create("run-1", storeConfig())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := store.SetStatus("run-1", models.RunStatusRunning, ""); err != nil {
		t.Fatalf("running transition failed: %v", err)
	}
	if rec.Run.StartedAt.IsZero() {
		t.Fatalf("started timestamp not set")
	}

	updated, err := store.SetStatus("run-1", models.RunStatusCompleted, "")
	if err != nil {
		t.Fatalf("completed transition failed: %v", err)
	}
	if updated.Run.EndedAt.IsZero() || updated.Run.Duration < 0 {
		t.Fatalf("completion timestamps not recorded: %+v", updated.Run)
	}

	if _, err := store.SetStatus("run-1", models.RunStatusRunning, ""); err == nil {
		t.Fatalf("expected terminal transition rejection")
	}
	if _, err := store.SetStatus("missing", models.RunStatusRunning, ""); err == nil {
		t.Fatalf("expected error for unknown run")
	}

	failed, err := store.Create("run-2", storeConfig())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := store.SetStatus("run-2", models.RunStatusFailed, "boom"); err != nil {
		t.Fatalf("failed transition failed: %v", err)
	}
	if failed.Run.Error != "boom" {
		t.Fatalf("error message not recorded: %q", failed.Run.Error)
	}
}
