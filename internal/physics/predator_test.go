package physics

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestPredator_Lifetime(t *testing.T) {
	p := NewPredator(r2.Vec{X: 1}, 3)
	for i := 0; i < 2; i++ {
		if !p.Advance() {
			t.Fatalf("expired early after %d ticks", i+1)
		}
	}
	if p.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", p.Remaining())
	}
	if p.Advance() {
		t.Error("should expire after lifetime ticks")
	}

	var none *Predator
	if none.Active() || none.Advance() {
		t.Error("nil predator must be inactive")
	}
}

func TestPredatorParams_LifetimeTicks(t *testing.T) {
	tests := []struct {
		params PredatorParams
		dt     float64
		want   int
	}{
		{PredatorParams{Lifetime: 3}, 1.0 / 60, 180},
		{PredatorParams{Lifetime: 0.05}, 0.02, 3},
		{PredatorParams{Lifetime: 0}, 0.01, 0},
		{PredatorParams{Lifetime: 1}, 0, 0},
	}
	for _, tt := range tests {
		if got := tt.params.LifetimeTicks(tt.dt); got != tt.want {
			t.Errorf("LifetimeTicks(%v, %v) = %d, want %d", tt.params.Lifetime, tt.dt, got, tt.want)
		}
	}
}
