package opt

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Genetic real-coded genetic algorithm. Each generation keeps the elites and a
// tournament-selected set of parents, then fills the population with children
// by uniform crossover and uniform mutation.
type Genetic struct {
	Population     int     // 0: 100
	Generations    int     // 0: 1000
	MaxEvaluations int     // 0: Population·Generations
	Mutation       float64 // per-gene mutation probability, 0: .1
	Elite          float64 // fraction carried over unchanged, 0: .01
	Crossover      float64 // probability a pair exchanges genes, 0: .5
	Parents        float64 // fraction of the population kept as parents, 0: .3
	MaxStall       int     // generations without improvement before stopping, 0: never
	Concurrency    int     // 0: GOMAXPROCS
	Seed           uint64
}

type individual struct {
	u []float64
	f float64
}

func (g Genetic) withDefaults() Genetic {
	if g.Population <= 0 {
		g.Population = 100
	}
	if g.Generations <= 0 {
		g.Generations = 1000
	}
	if g.MaxEvaluations <= 0 {
		g.MaxEvaluations = g.Population * g.Generations
	}
	if g.Mutation <= 0. {
		g.Mutation = .1
	}
	if g.Elite <= 0. {
		g.Elite = .01
	}
	if g.Crossover <= 0. {
		g.Crossover = .5
	}
	if g.Parents <= 0. {
		g.Parents = .3
	}
	if g.Concurrency <= 0 {
		g.Concurrency = runtime.GOMAXPROCS(0)
	}
	return g
}

// Minimize implements Minimizer
func (g Genetic) Minimize(ctx context.Context, f func(u []float64) float64, ndim int) (Result, error) {
	if ndim <= 0 {
		return Result{}, fmt.Errorf("opt: dimension must be positive, got %d", ndim)
	}
	g = g.withDefaults()
	if g.Population < 2 {
		return Result{}, fmt.Errorf("opt: genetic population must be at least 2")
	}
	rng := rand.New(rand.NewPCG(g.Seed, g.Seed^0x9e3779b97f4a7c15))
	fn := guarded(f)

	npar := max(2, int(g.Parents*float64(g.Population)))
	nelite := max(1, int(g.Elite*float64(g.Population)))
	npar = min(npar, g.Population)
	nelite = min(nelite, npar)

	pop := make([]individual, g.Population)
	for i := range pop {
		pop[i].u = make([]float64, ndim)
		for j := range pop[i].u {
			pop[i].u[j] = rng.Float64()
		}
	}
	if err := g.evaluate(ctx, fn, pop); err != nil {
		return Result{}, err
	}
	nev := len(pop)
	sortPopulation(pop)
	best, stall := pop[0].f, 0

	for gen := 1; gen < g.Generations && nev < g.MaxEvaluations; gen++ {
		next := make([]individual, npar, g.Population)
		copy(next, pop[:nelite])
		for i := nelite; i < npar; i++ {
			a, b := pop[rng.IntN(len(pop))], pop[rng.IntN(len(pop))]
			if b.f < a.f {
				a = b
			}
			next[i] = a
		}
		for len(next) < g.Population {
			a, b := next[rng.IntN(npar)], next[rng.IntN(npar)]
			c1, c2 := g.cross(rng, a.u, b.u)
			g.mutate(rng, c1)
			g.mutate(rng, c2)
			next = append(next, individual{u: c1})
			if len(next) < g.Population {
				next = append(next, individual{u: c2})
			}
		}
		children := next[npar:]
		if rem := g.MaxEvaluations - nev; len(children) > rem {
			children = children[:rem]
			next = next[:npar+rem]
		}
		if err := g.evaluate(ctx, fn, children); err != nil {
			return Result{}, err
		}
		nev += len(children)

		pop = next
		sortPopulation(pop)
		if pop[0].f < best {
			best, stall = pop[0].f, 0
		} else if stall++; g.MaxStall > 0 && stall >= g.MaxStall {
			break
		}
	}

	return Result{
		U:           append([]float64(nil), pop[0].u...),
		F:           pop[0].f,
		Evaluations: nev,
	}, nil
}

func (g Genetic) evaluate(ctx context.Context, fn func(u []float64) float64, pop []individual) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.Concurrency)
	for i := range pop {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pop[i].f = fn(pop[i].u)
			return nil
		})
	}
	return eg.Wait()
}

// uniform crossover
func (g Genetic) cross(rng *rand.Rand, a, b []float64) ([]float64, []float64) {
	c1, c2 := append([]float64(nil), a...), append([]float64(nil), b...)
	if rng.Float64() > g.Crossover {
		return c1, c2
	}
	for i := range c1 {
		if rng.Float64() < .5 {
			c1[i], c2[i] = c2[i], c1[i]
		}
	}
	return c1, c2
}

func (g Genetic) mutate(rng *rand.Rand, u []float64) {
	for i := range u {
		if rng.Float64() < g.Mutation {
			u[i] = rng.Float64()
		}
	}
}

func sortPopulation(pop []individual) {
	sort.SliceStable(pop, func(i, j int) bool { return pop[i].f < pop[j].f })
}
