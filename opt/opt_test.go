package opt

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var target = []float64{.3, .7, .55, .15}

func sphere(u []float64) float64 {
	s := 0.
	for i, v := range u {
		s += (v - target[i]) * (v - target[i])
	}
	return s
}

func TestMinimizers(t *testing.T) {
	tests := []struct {
		name string
		m    Minimizer
		tol  float64
	}{
		{"cmaes", CMAES{MaxEvaluations: 4000, Concurrency: 2, Seed: 1}, 1e-3},
		{"neldermead", NelderMead{MaxEvaluations: 4000}, 1e-3},
		{"genetic", Genetic{Population: 40, Generations: 150, Seed: 1, Concurrency: 4}, .1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.m.Minimize(context.Background(), sphere, len(target))
			require.NoError(t, err)
			require.Len(t, res.U, len(target))
			assert.Greater(t, res.Evaluations, 0)
			assert.InDelta(t, sphere(res.U), res.F, 1e-12)
			for i, v := range res.U {
				assert.GreaterOrEqual(t, v, 0.)
				assert.LessOrEqual(t, v, 1.)
				assert.InDelta(t, target[i], v, tt.tol)
			}
		})
	}
}

func TestCMAESEvaluationBudget(t *testing.T) {
	const budget, conc = 300, 2
	res, err := CMAES{MaxEvaluations: budget, Concurrency: conc, Seed: 7}.Minimize(context.Background(), sphere, len(target))
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Evaluations, budget+conc)
	assert.Less(t, res.F, sphere(center(len(target))))
}

func TestMinimizersHonourCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, m := range []Minimizer{CMAES{Seed: 1}, NelderMead{}, Genetic{Population: 10, Seed: 1}} {
		_, err := m.Minimize(ctx, sphere, len(target))
		assert.True(t, errors.Is(err, context.Canceled))
	}
}

func TestGeneticDeterministic(t *testing.T) {
	g := Genetic{Population: 20, Generations: 20, Seed: 42, Concurrency: 8}
	a, err := g.Minimize(context.Background(), sphere, len(target))
	require.NoError(t, err)
	b, err := g.Minimize(context.Background(), sphere, len(target))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 20+19*14, a.Evaluations) // six parents survive each generation
}

func TestGeneticEvaluationBudget(t *testing.T) {
	res, err := Genetic{Population: 10, MaxEvaluations: 35, Seed: 3}.Minimize(context.Background(), sphere, 2)
	require.NoError(t, err)
	assert.Equal(t, 35, res.Evaluations)
}

func TestNaNObjective(t *testing.T) {
	f := func(u []float64) float64 {
		if u[0] > .5 {
			return math.NaN()
		}
		return u[0]
	}
	res, err := Genetic{Population: 20, Generations: 10, Seed: 5}.Minimize(context.Background(), f, 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.U[0], .5)
}

func TestMirror(t *testing.T) {
	assert.InDelta(t, .2, Mirror(-.2), 1e-12)
	assert.InDelta(t, .8, Mirror(1.2), 1e-12)
	assert.InDelta(t, .5, Mirror(2.5), 1e-12)
	assert.InDelta(t, .4, Mirror(.4), 1e-12)
}

func TestBounds(t *testing.T) {
	b := Bounds{
		{Lo: 0., Hi: 10.},
		{Lo: 5., Hi: 5.},
		{Lo: .001, Hi: 1., Log: true},
	}
	require.NoError(t, b.Validate())
	assert.Equal(t, []int{0, 2}, b.Free())

	x := b.Transform([]float64{.5, .5})
	assert.InDelta(t, 5., x[0], 1e-12)
	assert.Equal(t, 5., x[1])
	assert.InDelta(t, math.Sqrt(.001), x[2], 1e-12)

	x = b.Transform([]float64{0., 1.})
	assert.InDelta(t, 0., x[0], 1e-12)
	assert.InDelta(t, 1., x[2], 1e-12)

	assert.Error(t, Bounds{{Lo: 2., Hi: 1.}}.Validate())
	assert.Error(t, Bounds{{Lo: 0., Hi: 1., Log: true}}.Validate())
	assert.Error(t, Bounds{{Lo: math.NaN(), Hi: 1.}}.Validate())
}
