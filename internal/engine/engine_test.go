package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/engine"
	"github.com/san-kum/kappasim/internal/metrics"
	"github.com/san-kum/kappasim/internal/physics"
)

// corruptAt poisons the first body at the given tick.
type corruptAt struct {
	tick int
	dt   float64
}

func (c corruptAt) OnTick(bodies dynamo.Population, t float64) {
	if int(math.Round(t/c.dt)) == c.tick {
		bodies[0].Pos.X = math.NaN()
	}
}

var quiet = engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func smallField() config.Simulation {
	cfg := config.DefaultField()
	cfg.Population = 2000
	return cfg
}

func smallFlock() config.Simulation {
	cfg := config.DefaultFlock()
	cfg.Population = 40
	return cfg
}

func mustEngine(cfg config.Simulation, opts ...engine.Option) *engine.Engine {
	e, err := engine.New(cfg, append([]engine.Option{quiet}, opts...)...)
	Expect(err).NotTo(HaveOccurred())
	return e
}

var _ = Describe("Engine", func() {
	Describe("construction", func() {
		It("rejects an invalid configuration", func() {
			cfg := smallFlock()
			cfg.Population = 0
			_, err := engine.New(cfg, quiet)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("starts seeded with the clock at zero", func() {
			e := mustEngine(smallFlock())
			Expect(e.State()).To(Equal(engine.StateSeeded))
			Expect(e.Clock().Tick).To(BeZero())
			Expect(e.Clock().Time).To(BeZero())

			snap := e.Snapshot()
			Expect(snap.Bodies).To(HaveLen(40))
			Expect(snap.HasStats).To(BeTrue())
			Expect(snap.Stats.Tick).To(BeZero())
			Expect(snap.Stats.Total).To(Equal(40))
		})
	})

	Describe("ticking", func() {
		It("moves to running and advances time by dt per tick", func() {
			cfg := smallField()
			e := mustEngine(cfg)
			Expect(e.Step(5)).To(Succeed())

			Expect(e.State()).To(Equal(engine.StateRunning))
			Expect(e.Clock().Tick).To(Equal(uint64(5)))
			Expect(e.Clock().Time).To(BeNumerically("~", 5*cfg.Dt, 1e-12))
		})

		It("runs StepsPerFrame ticks per frame", func() {
			cfg := smallField()
			cfg.StepsPerFrame = 4
			e := mustEngine(cfg)
			Expect(e.Frame()).To(Succeed())
			Expect(e.Clock().Tick).To(Equal(uint64(4)))
		})

		It("samples statistics on the configured cadence", func() {
			cfg := smallField()
			cfg.Stats.Interval = 5
			e := mustEngine(cfg)

			Expect(e.Step(7)).To(Succeed())
			Expect(e.Snapshot().Stats.Tick).To(Equal(uint64(5)))

			Expect(e.Step(3)).To(Succeed())
			Expect(e.Snapshot().Stats.Tick).To(Equal(uint64(10)))
		})

		DescribeTable("is deterministic for a fixed seed",
			func(cfg config.Simulation) {
				a := mustEngine(cfg)
				b := mustEngine(cfg)
				for i := 0; i < 50; i++ {
					Expect(a.Tick()).To(Succeed())
					Expect(b.Tick()).To(Succeed())
					Expect(a.Snapshot().Bodies).To(Equal(b.Snapshot().Bodies))
				}
			},
			Entry("flock", smallFlock()),
			Entry("field", smallField()),
		)

		It("produces a different population for a different seed", func() {
			cfg := smallField()
			a := mustEngine(cfg)
			cfg.Seed++
			b := mustEngine(cfg)
			Expect(a.Snapshot().Bodies).NotTo(Equal(b.Snapshot().Bodies))
		})
	})

	Describe("configuration changes", func() {
		var e *engine.Engine

		BeforeEach(func() {
			e = mustEngine(smallField())
			Expect(e.Step(10)).To(Succeed())
		})

		It("keeps the previous configuration when the new one is invalid", func() {
			before := e.Config()
			bad := before
			bad.Perturbation.Amplitude = math.NaN()

			Expect(e.Apply(bad)).To(MatchError(dynamo.ErrNonFinite))
			Expect(e.Config()).To(Equal(before))
			Expect(e.State()).To(Equal(engine.StateRunning))
			Expect(e.Clock().Tick).To(Equal(uint64(10)))
		})

		It("reseeds when the force law changes", func() {
			gen := e.Snapshot().Generation
			next := e.Config()
			next.Force.Kind = physics.LawNewton

			Expect(e.Apply(next)).To(Succeed())
			Expect(e.State()).To(Equal(engine.StateSeeded))
			Expect(e.Clock().Tick).To(BeZero())
			Expect(e.Snapshot().Generation).To(Equal(gen + 1))
			Expect(e.Snapshot().Law).To(Equal(physics.LawNewton))
		})

		It("reseeds with a new population size", func() {
			next := e.Config()
			next.Population = 500
			Expect(e.Apply(next)).To(Succeed())
			Expect(e.Snapshot().Bodies).To(HaveLen(500))
		})

		It("applies force-scale changes live without reseeding", func() {
			gen := e.Snapshot().Generation
			next := e.Config()
			next.Force.Kappa0 = 0.5
			next.Perturbation.Amplitude = 0.2

			Expect(e.Apply(next)).To(Succeed())
			Expect(e.State()).To(Equal(engine.StateRunning))
			Expect(e.Clock().Tick).To(Equal(uint64(10)))
			Expect(e.Snapshot().Generation).To(Equal(gen))
			Expect(e.Config().Force.Kappa0).To(Equal(0.5))
		})

		It("switches mode through a preset", func() {
			next, err := config.PresetSwarm.Apply(e.Config())
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Apply(next)).To(Succeed())

			snap := e.Snapshot()
			Expect(snap.Mode).To(Equal(physics.ModeFlock))
			Expect(snap.Bodies).To(HaveLen(config.DefaultFlockBodies))
		})

		It("resets the clock on reseed", func() {
			gen := e.Snapshot().Generation
			Expect(e.Reseed()).To(Succeed())
			Expect(e.State()).To(Equal(engine.StateSeeded))
			Expect(e.Clock().Time).To(BeZero())
			Expect(e.Snapshot().Generation).To(Equal(gen + 1))
			Expect(e.Snapshot().Stats.Generation).To(Equal(gen + 1))
		})
	})

	Describe("predator", func() {
		It("expires after its lifetime in ticks", func() {
			cfg := smallFlock()
			cfg.Predator.Lifetime = 10 * cfg.Dt
			e := mustEngine(cfg)

			Expect(e.ArmPredator(r2.Vec{X: 10, Y: -5})).To(BeTrue())
			Expect(e.Snapshot().Predator).NotTo(BeNil())
			Expect(e.Snapshot().Predator.Remaining).To(Equal(10))

			Expect(e.Step(9)).To(Succeed())
			Expect(e.Snapshot().Predator).NotTo(BeNil())
			Expect(e.Snapshot().Predator.Remaining).To(Equal(1))

			Expect(e.Tick()).To(Succeed())
			Expect(e.Snapshot().Predator).To(BeNil())
		})

		It("is replaced rather than stacked", func() {
			e := mustEngine(smallFlock())
			Expect(e.ArmPredator(r2.Vec{X: 1})).To(BeTrue())
			Expect(e.Step(5)).To(Succeed())
			Expect(e.ArmPredator(r2.Vec{Y: 2})).To(BeTrue())

			p := e.Snapshot().Predator
			Expect(p.Pos).To(Equal(r2.Vec{Y: 2}))
			Expect(p.Remaining).To(Equal(e.Config().Predator.LifetimeTicks(e.Config().Dt)))
		})

		It("pushes nearby bodies away", func() {
			cfg := smallFlock()
			cfg.Population = 1
			cfg.Flock.AlignStrength = 0
			cfg.Flock.InitialSpeed = 0
			e := mustEngine(cfg)

			start := e.Snapshot().Bodies[0].Pos
			source := r2.Add(start, r2.Vec{X: 5})
			Expect(e.ArmPredator(source)).To(BeTrue())
			Expect(e.Tick()).To(Succeed())

			Expect(e.Snapshot().Bodies[0].Vel.X).To(BeNumerically("<", 0))
		})

		It("is not available in field mode", func() {
			e := mustEngine(smallField())
			Expect(e.ArmPredator(r2.Vec{})).To(BeFalse())
			Expect(e.Snapshot().Predator).To(BeNil())
		})

		It("is cleared by a reseed", func() {
			e := mustEngine(smallFlock())
			Expect(e.ArmPredator(r2.Vec{})).To(BeTrue())
			Expect(e.Reseed()).To(Succeed())
			Expect(e.Snapshot().Predator).To(BeNil())
		})
	})

	Describe("snapshots", func() {
		It("are isolated from engine state", func() {
			e := mustEngine(smallFlock())
			snap := e.Snapshot()
			original := snap.Bodies[0]
			snap.Bodies[0].Pos = r2.Vec{X: 1e9}

			Expect(e.Snapshot().Bodies[0]).To(Equal(original))
		})

		It("report the rotating pattern angle in field mode", func() {
			cfg := smallField()
			e := mustEngine(cfg)
			Expect(e.Step(10)).To(Succeed())
			want := cfg.Perturbation.PatternAngle(e.Clock().Time)
			Expect(e.Snapshot().PatternAngle).To(BeNumerically("~", want, 1e-12))
		})

		It("carry metric values", func() {
			e := mustEngine(smallField(), engine.WithMetrics(metrics.NewAngularMomentum()))
			Expect(e.Step(3)).To(Succeed())
			Expect(e.Snapshot().Metrics).To(HaveKeyWithValue("angular_momentum", BeNumerically(">", 0)))
		})
	})

	Describe("long runs", func() {
		It("keeps the default flock confined for 10000 ticks", func() {
			cfg := config.DefaultFlock()
			mr := metrics.NewMeanRadius()
			e := mustEngine(cfg, engine.WithMetrics(mr))

			Expect(e.Step(10000)).To(Succeed())

			snap := e.Snapshot()
			Expect(snap.Bodies.IsValid()).To(BeTrue())
			Expect(mr.Peak()).To(BeNumerically("<", 2*cfg.Flock.SoftBoundary))
			for _, b := range snap.Bodies {
				Expect(b.Speed()).To(BeNumerically("<=", cfg.MaxSpeed*(1+1e-9)))
			}
		})

		It("keeps field-mode speeds within the clamp", func() {
			cfg := smallField()
			e := mustEngine(cfg)
			Expect(e.Step(500)).To(Succeed())
			for _, b := range e.Snapshot().Bodies {
				Expect(b.Speed()).To(BeNumerically("<=", cfg.MaxSpeed*(1+1e-9)))
			}
		})
	})

	Describe("scheduler", func() {
		It("runs one frame per received frame signal", func() {
			cfg := smallField()
			cfg.StepsPerFrame = 2
			e := mustEngine(cfg)

			frames := make(chan time.Time, 3)
			for i := 0; i < 3; i++ {
				frames <- time.Now()
			}
			close(frames)

			presented := 0
			Expect(e.Run(context.Background(), frames, func(engine.Snapshot) { presented++ })).To(Succeed())
			Expect(presented).To(Equal(3))
			Expect(e.Clock().Tick).To(Equal(uint64(6)))
		})

		It("stops when the context is cancelled", func() {
			e := mustEngine(smallField())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(e.Run(ctx, make(chan time.Time), nil)).To(MatchError(context.Canceled))
			Expect(e.RunTicks(ctx, 10)).To(MatchError(context.Canceled))
		})
	})

	Describe("non-finite state", func() {
		It("rejects a force law whose peak acceleration overflows", func() {
			cfg := smallField()
			cfg.Population = 200
			cfg.Force.GM = 1e305
			_, err := engine.New(cfg, quiet)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))

			cfg.Force.GM = physics.MaxGM
			cfg.Force.ExpLimit = config.MaxExpLimit
			_, err = engine.New(cfg, quiet)
			Expect(err).To(MatchError(dynamo.ErrNonFinite))
		})

		It("reports a corrupted population at the next sample tick", func() {
			cfg := smallField()
			cfg.Population = 200
			cfg.Stats.Interval = 5
			e := mustEngine(cfg, engine.WithObserver(corruptAt{tick: 3, dt: cfg.Dt}))

			err := e.Step(12)
			Expect(err).To(MatchError(dynamo.ErrInvalidState))

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Tick).To(Equal(uint64(5)))
			Expect(simErr.Time).To(BeNumerically("~", 5*cfg.Dt, 1e-12))
			Expect(e.Clock().Tick).To(Equal(uint64(5)))
		})
	})

	Describe("teardown", func() {
		It("refuses work after Close", func() {
			e := mustEngine(smallFlock())
			e.Close()
			Expect(e.Tick()).To(MatchError(dynamo.ErrEngineClosed))
			Expect(e.Apply(smallFlock())).To(MatchError(dynamo.ErrEngineClosed))
			Expect(e.Reseed()).To(MatchError(dynamo.ErrEngineClosed))
			Expect(e.ArmPredator(r2.Vec{})).To(BeFalse())
			Expect(e.Snapshot().Bodies).To(BeEmpty())
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one engine per seed", func() {
		cfg := smallField()
		cfg.Population = 300
		en := engine.NewEnsemble(cfg, 3, 10, func() []dynamo.Metric {
			return []dynamo.Metric{metrics.NewKineticEnergy()}
		})

		results, err := en.Run(context.Background(), 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for i, r := range results {
			Expect(r.Seed).To(Equal(int64(10 + i)))
			Expect(r.Final.Tick).To(Equal(uint64(20)))
			Expect(r.Final.Total).To(Equal(300))
			Expect(r.Metrics).To(HaveKey("kinetic_energy"))
		}
	})

	It("builds every run's metrics before starting the runs", func() {
		cfg := smallField()
		cfg.Population = 100
		calls := 0
		en := engine.NewEnsemble(cfg, 4, 0, func() []dynamo.Metric {
			calls++
			return []dynamo.Metric{metrics.NewMeanRadius()}
		})

		results, err := en.Run(context.Background(), 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(4))
		Expect(results).To(HaveLen(4))
	})

	It("fails on an invalid configuration", func() {
		cfg := smallField()
		cfg.Dt = -1
		_, err := engine.NewEnsemble(cfg, 2, 0, nil).Run(context.Background(), 1)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})
})
