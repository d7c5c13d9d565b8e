package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/experiment"
	"github.com/san-kum/kappasim/internal/stats"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	seriesFile   = "series.csv"
	curveFile    = "curve.csv"
)

// Store keeps one directory per headless run under baseDir.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Mode       string             `json:"mode"`
	Law        string             `json:"law"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Ticks      int                `json:"ticks"`
	Population int                `json:"population"`
	Integrator string             `json:"integrator"`
	ElapsedMs  int64              `json:"elapsed_ms"`
	Inside     int                `json:"inside"`
	Middle     int                `json:"middle"`
	Outside    int                `json:"outside"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Series is the per-trace-point history of a run.
type Series struct {
	Times      []float64
	MeanRadius []float64
	Lz         []float64
}

func metadataFor(id, name string, cfg config.Simulation, res *experiment.Result, ts time.Time) RunMetadata {
	final := res.Final.Stats
	if !res.Final.HasStats {
		final = stats.Sample(res.Final.Bodies, cfg.Stats)
	}
	return RunMetadata{
		ID:         id,
		Name:       name,
		Mode:       cfg.Mode.String(),
		Law:        cfg.Force.Kind.String(),
		Timestamp:  ts,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Ticks:      res.TicksTaken,
		Population: cfg.Population,
		Integrator: cfg.Integrator,
		ElapsedMs:  res.Elapsed.Milliseconds(),
		Inside:     final.Inside,
		Middle:     final.Middle,
		Outside:    final.Outside,
		Metrics:    res.Metrics,
	}
}

// Save writes the run's metadata, config, series and final rotation curve
// and returns the run ID.
func (s *Store) Save(name string, cfg config.Simulation, res *experiment.Result) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", name, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := metadataFor(runID, name, cfg, res, ts)
	if err := writeJSONFile(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), res); err != nil {
		return "", err
	}
	if err := writeCurve(filepath.Join(runDir, curveFile), cfg, res); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }

func writeSeries(path string, res *experiment.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "mean_radius", "lz"}); err != nil {
		return err
	}
	for i := range res.Times {
		row := []string{formatFloat(res.Times[i]), formatFloat(res.MeanRadius[i]), formatFloat(res.Lz[i])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeCurve(path string, cfg config.Simulation, res *experiment.Result) error {
	snap := res.Final.Stats
	if !res.Final.HasStats {
		snap = stats.Sample(res.Final.Bodies, cfg.Stats)
	}
	centers := snap.BinCenters()
	expected := stats.ExpectedCurve(cfg.Force, centers)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"radius", "observed", "expected", "count"}); err != nil {
		return err
	}
	for i, r := range centers {
		row := []string{formatFloat(r), formatFloat(snap.BinMeans[i]), formatFloat(expected[i]), strconv.Itoa(snap.BinCounts[i])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadConfig returns the configuration the run was started with.
func (s *Store) LoadConfig(runID string) (config.Simulation, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadSeries(runID string) (Series, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return Series{}, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return Series{}, err
	}
	var out Series
	if len(records) < 2 {
		return out, nil
	}
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			return Series{}, fmt.Errorf("%s line %d: want 3 fields, got %d", seriesFile, i+2, len(rec))
		}
		var vals [3]float64
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Series{}, fmt.Errorf("%s line %d: %w", seriesFile, i+2, err)
			}
			vals[j] = v
		}
		out.Times = append(out.Times, vals[0])
		out.MeanRadius = append(out.MeanRadius, vals[1])
		out.Lz = append(out.Lz, vals[2])
	}
	return out, nil
}

// ExportData is the JSON form of a run for piping to other tools.
type ExportData struct {
	RunMetadata
	Times      []float64 `json:"times"`
	MeanRadius []float64 `json:"mean_radius"`
	Lz         []float64 `json:"lz"`
}

// ExportJSON writes res and its metadata to w.
func ExportJSON(w io.Writer, name string, cfg config.Simulation, res *experiment.Result) error {
	data := ExportData{
		RunMetadata: metadataFor("", name, cfg, res, time.Now()),
		Times:       res.Times,
		MeanRadius:  res.MeanRadius,
		Lz:          res.Lz,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
