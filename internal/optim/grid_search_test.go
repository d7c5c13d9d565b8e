package optim

import (
	"context"
	"testing"

	"github.com/san-kum/kappasim/internal/config"
)

func TestGridSearch_MinimizesKineticEnergy(t *testing.T) {
	base := config.DefaultField()
	base.Population = 200

	// circular speeds at seeding scale with sqrt(GM)
	g := NewGridSearch([]string{"gm"}, [][]float64{{0.5, 1, 2}}, 10)

	res, err := g.Search(context.Background(), base, Objective{Metric: "kinetic_energy"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Evaluated != 3 {
		t.Errorf("evaluated = %d, want 3", res.Evaluated)
	}
	if res.Params["gm"] != 0.5 {
		t.Errorf("best gm = %v, want 0.5", res.Params["gm"])
	}
}

func TestGridSearch_Maximize(t *testing.T) {
	base := config.DefaultField()
	base.Population = 200

	g := NewGridSearch([]string{"gm"}, [][]float64{{0.5, 1, 2}}, 10)
	res, err := g.Search(context.Background(), base, Objective{Metric: "kinetic_energy", Maximize: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Params["gm"] != 2 {
		t.Errorf("best gm = %v, want 2", res.Params["gm"])
	}
}

func TestGridSearch_SkipsInvalid(t *testing.T) {
	base := config.DefaultField()
	base.Population = 100

	g := NewGridSearch([]string{"amplitude", "omega"}, [][]float64{{0, 2}, {0.1, 0.2}}, 5)
	res, err := g.Search(context.Background(), base, Objective{Metric: "angular_momentum"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Rejected != 1 || res.Evaluated != 2 {
		t.Errorf("rejected/evaluated = %d/%d, want 1/2", res.Rejected, res.Evaluated)
	}
}

func TestGridSearch_Errors(t *testing.T) {
	base := config.DefaultField()
	if _, err := NewGridSearch([]string{"gm"}, nil, 1).Search(context.Background(), base, Objective{Metric: "kinetic_energy"}); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch(nil, nil, 1).Search(context.Background(), base, Objective{Metric: "entropy"}); err == nil {
		t.Error("expected error for unknown metric")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewGridSearch([]string{"gm"}, [][]float64{{1}}, 1).Search(ctx, base, Objective{Metric: "kinetic_energy"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(Linspace(3, 4, 1)) != 1 {
		t.Error("expected single value")
	}
}
