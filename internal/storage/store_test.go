package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/experiment"
)

func runSmall(t *testing.T) (config.Simulation, *experiment.Result) {
	t.Helper()
	cfg := config.DefaultFlock()
	cfg.Population = 16
	exp := experiment.New(experiment.Config{Sim: cfg, Ticks: 20, TraceEvery: 5})
	if err := exp.Setup(experiment.NewRegistry().DefaultMetrics(cfg)); err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return cfg, res
}

func TestStore_SaveLoad(t *testing.T) {
	cfg, res := runSmall(t)
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	id, err := s.Save("flock", cfg, res)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ID != id || meta.Mode != "flock" || meta.Seed != cfg.Seed {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Ticks != 20 || meta.Population != 16 {
		t.Errorf("ticks=%d population=%d", meta.Ticks, meta.Population)
	}
	if meta.Inside+meta.Middle+meta.Outside != 16 {
		t.Errorf("region counts do not cover the population: %+v", meta)
	}
	if len(meta.Metrics) != len(res.Metrics) {
		t.Errorf("metrics = %v", meta.Metrics)
	}

	series, err := s.LoadSeries(id)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(series.Times) != len(res.Times) {
		t.Fatalf("series length = %d, want %d", len(series.Times), len(res.Times))
	}
	for i := range res.MeanRadius {
		if d := series.MeanRadius[i] - res.MeanRadius[i]; d > 1e-6 || d < -1e-6 {
			t.Errorf("mean radius[%d] = %v, want %v", i, series.MeanRadius[i], res.MeanRadius[i])
		}
	}

	loaded, err := s.LoadConfig(id)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Population != cfg.Population || loaded.Force != cfg.Force {
		t.Errorf("config round trip lost values")
	}

	if _, err := os.Stat(filepath.Join(s.baseDir, id, curveFile)); err != nil {
		t.Errorf("curve file: %v", err)
	}
}

func TestStore_ListOrdered(t *testing.T) {
	cfg, res := runSmall(t)
	s := New(t.TempDir())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		s.now = func() time.Time { return base.Add(time.Duration(2-i) * time.Hour) }
		id, err := s.Save("run", cfg, res)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("List = %d runs, want 3", len(runs))
	}
	// saved newest first, listed oldest first
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if runs[i].ID != want {
			t.Errorf("runs[%d] = %s, want %s", i, runs[i].ID, want)
		}
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List on missing dir = %v, %v", runs, err)
	}
}

func TestExportJSON(t *testing.T) {
	cfg, res := runSmall(t)
	var buf bytes.Buffer
	if err := ExportJSON(&buf, "flock", cfg, res); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Name != "flock" || got.Law != cfg.Force.Kind.String() {
		t.Errorf("export = %+v", got.RunMetadata)
	}
	if len(got.MeanRadius) != len(res.MeanRadius) {
		t.Errorf("mean radius len = %d, want %d", len(got.MeanRadius), len(res.MeanRadius))
	}
}
